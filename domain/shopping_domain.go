package domain

const (
	ShoppingListHeader   = "Shopping list:"
	ShoppingListFilename = "shopping_list.txt"
)

// ShoppingListLine is one aggregated group of the shopping list.
type ShoppingListLine struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}
