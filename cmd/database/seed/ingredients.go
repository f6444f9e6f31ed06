package seed

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/pkg/ingredient"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

// ReadIngredients parses name,measurement_unit rows. A leading header row
// with those column names is skipped.
func ReadIngredients(r io.Reader) ([]domain.AddIngredientRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var (
		rows []domain.AddIngredientRequest
		line int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ingredients csv: %w", err)
		}
		line++

		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(name, "name") && strings.EqualFold(unit, "measurement_unit") {
			continue
		}
		rows = append(rows, domain.AddIngredientRequest{Name: name, MeasurementUnit: unit})
	}
	return rows, nil
}

// LoadIngredients imports the catalog file at path and returns the number of
// rows stored.
func LoadIngredients(ctx context.Context, service ingredient.IngredientService, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, err := ReadIngredients(file)
	if err != nil {
		return 0, err
	}

	n, err := service.ImportIngredients(ctx, rows)
	if err != nil {
		return 0, err
	}
	log.Infow("ingredients loaded", "file", path, "count", n)
	return n, nil
}
