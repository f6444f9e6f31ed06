package shopping_test

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/shopping"
	"Foodgram-Backend/pkg/user"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	to, subject, body string
	attachments       []mailing.Attachment
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(toEmail, subject, body string, attachments ...mailing.Attachment) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{toEmail, subject, body, attachments})
	return nil
}

func newService(db *gorm.DB, mailer mailing.Mailer) shopping.ShoppingService {
	return shopping.NewShoppingService(shopping.NewShoppingRepository(db), user.NewUserRepository(db), mailer)
}

func addToCart(t *testing.T, db *gorm.DB, u *entities.User, recipes ...*entities.Recipe) {
	t.Helper()
	for _, r := range recipes {
		require.NoError(t, db.Create(&entities.ShoppingCartItem{UserID: u.ID, RecipeID: r.ID}).Error)
	}
}

func TestComputeShoppingList_SumsAcrossRecipes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	author := testutil.CreateTestUser(t, db, "author")
	salt := testutil.CreateTestIngredient(t, db, "Salt", "g")

	a := testutil.CreateTestRecipe(t, db, author, "A", nil, testutil.Line{Ingredient: salt, Amount: 5})
	b := testutil.CreateTestRecipe(t, db, author, "B", nil, testutil.Line{Ingredient: salt, Amount: 10})
	addToCart(t, db, author, a, b)

	lines, err := newService(db, &fakeMailer{}).ComputeShoppingList(context.Background(), author.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListLine{{Name: "Salt", MeasurementUnit: "g", TotalAmount: 15}}, lines)
}

func TestComputeShoppingList_GroupsByNameAndUnit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	author := testutil.CreateTestUser(t, db, "author")

	// two catalog rows with the same name and unit are one purchasable item
	sugarA := testutil.CreateTestIngredient(t, db, "Sugar", "g")
	sugarB := testutil.CreateTestIngredient(t, db, "Sugar", "g")
	sugarSpoons := testutil.CreateTestIngredient(t, db, "Sugar", "tbsp")
	butter := testutil.CreateTestIngredient(t, db, "Butter", "g")

	a := testutil.CreateTestRecipe(t, db, author, "A", nil,
		testutil.Line{Ingredient: sugarA, Amount: 100},
		testutil.Line{Ingredient: butter, Amount: 50},
	)
	b := testutil.CreateTestRecipe(t, db, author, "B", nil,
		testutil.Line{Ingredient: sugarB, Amount: 20},
		testutil.Line{Ingredient: sugarSpoons, Amount: 2},
	)
	addToCart(t, db, author, a, b)

	service := newService(db, &fakeMailer{})
	lines, err := service.ComputeShoppingList(context.Background(), author.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListLine{
		{Name: "Butter", MeasurementUnit: "g", TotalAmount: 50},
		{Name: "Sugar", MeasurementUnit: "g", TotalAmount: 120},
		{Name: "Sugar", MeasurementUnit: "tbsp", TotalAmount: 2},
	}, lines)

	first, err := service.ExportShoppingList(context.Background(), author.ID.String())
	require.NoError(t, err)
	second, err := service.ExportShoppingList(context.Background(), author.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeShoppingList_EmptyCart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	u := testutil.CreateTestUser(t, db, "lonely")

	service := newService(db, &fakeMailer{})
	lines, err := service.ComputeShoppingList(context.Background(), u.ID.String())
	require.NoError(t, err)
	assert.Empty(t, lines)

	text, err := service.ExportShoppingList(context.Background(), u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:", text)
}

func TestExportShoppingList_PerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	author := testutil.CreateTestUser(t, db, "author")
	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")

	flour := testutil.CreateTestIngredient(t, db, "Flour", "g")
	egg := testutil.CreateTestIngredient(t, db, "Egg", "pcs")
	milk := testutil.CreateTestIngredient(t, db, "Milk", "ml")

	cake := testutil.CreateTestRecipe(t, db, author, "Cake", nil,
		testutil.Line{Ingredient: flour, Amount: 200},
		testutil.Line{Ingredient: egg, Amount: 3},
	)
	crepes := testutil.CreateTestRecipe(t, db, author, "Crepes", nil,
		testutil.Line{Ingredient: flour, Amount: 100},
		testutil.Line{Ingredient: milk, Amount: 250},
	)
	addToCart(t, db, alice, cake, crepes)
	addToCart(t, db, bob, cake)

	service := newService(db, &fakeMailer{})

	aliceList, err := service.ExportShoppingList(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\nEgg (pcs)3\nFlour (g)300\nMilk (ml)250", aliceList)

	bobList, err := service.ExportShoppingList(ctx, bob.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\nEgg (pcs)3\nFlour (g)200", bobList)
}

func TestShoppingList_CakeForTwoUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	recipes := recipe.NewRecipeRepository(db)
	users := user.NewUserRepository(db)
	cart := relation.NewToggleService(relation.NewRepository[entities.ShoppingCartItem](db), relation.ShoppingCart, recipes.RecipeExists)
	recipeService := recipe.NewRecipeService(recipes, recipe.Annotators{
		Favorites:     relation.NewToggleService(relation.NewRepository[entities.Favorite](db), relation.Favorite, recipes.RecipeExists),
		ShoppingCart:  cart,
		Subscriptions: relation.NewToggleService(relation.NewRepository[entities.Subscription](db), relation.Subscription, users.UserExists),
	})

	baker := testutil.CreateTestUser(t, db, "baker")
	first := testutil.CreateTestUser(t, db, "first")
	second := testutil.CreateTestUser(t, db, "second")
	flour := testutil.CreateTestIngredient(t, db, "Flour", "g")
	sugar := testutil.CreateTestIngredient(t, db, "Sugar", "g")
	dessert := testutil.CreateTestTag(t, db, "Dessert", "dessert")

	cake, err := recipeService.CreateRecipe(ctx, domain.RecipeWriteRequest{
		Name:        "Cake",
		Text:        "Bake it.",
		CookingTime: 60,
		Tags:        []string{dessert.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: flour.ID.String(), Amount: 200},
			{ID: sugar.ID.String(), Amount: 100},
		},
	}, baker.ID.String())
	require.NoError(t, err)

	reloaded, err := recipeService.GetRecipeForViewer(ctx, cake.ID, "")
	require.NoError(t, err)
	require.Len(t, reloaded.Ingredients, 2)
	assert.Equal(t, 200, reloaded.Ingredients[0].Amount)
	assert.Equal(t, 100, reloaded.Ingredients[1].Amount)

	require.NoError(t, cart.Add(ctx, first.ID.String(), cake.ID))
	require.NoError(t, cart.Add(ctx, second.ID.String(), cake.ID))

	service := newService(db, &fakeMailer{})
	for _, u := range []*entities.User{first, second} {
		text, err := service.ExportShoppingList(ctx, u.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Shopping list:\nFlour (g)200\nSugar (g)100", text)
	}

	text, err := service.ExportShoppingList(ctx, baker.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:", text)
}

func TestRenderShoppingList(t *testing.T) {
	text := shopping.RenderShoppingList([]domain.ShoppingListLine{
		{Name: "Salt", MeasurementUnit: "g", TotalAmount: 15},
		{Name: "Water", MeasurementUnit: "ml", TotalAmount: 500},
	})
	assert.Equal(t, "Shopping list:\nSalt (g)15\nWater (ml)500", text)
}

func TestEmailShoppingList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	u := testutil.CreateTestUser(t, db, "cook")
	salt := testutil.CreateTestIngredient(t, db, "Salt", "g")
	r := testutil.CreateTestRecipe(t, db, u, "Soup", nil, testutil.Line{Ingredient: salt, Amount: 7})
	addToCart(t, db, u, r)

	mailer := &fakeMailer{}
	require.NoError(t, newService(db, mailer).EmailShoppingList(ctx, u.ID.String()))

	require.Len(t, mailer.sent, 1)
	sent := mailer.sent[0]
	assert.Equal(t, "cook@example.com", sent.to)
	assert.Contains(t, sent.body, "cook")
	require.Len(t, sent.attachments, 1)
	assert.Equal(t, domain.ShoppingListFilename, sent.attachments[0].Filename)
	assert.Equal(t, "Shopping list:\nSalt (g)7", string(sent.attachments[0].Content))

	failing := &fakeMailer{err: errors.New("smtp down")}
	assert.Error(t, newService(db, failing).EmailShoppingList(ctx, u.ID.String()))
}
