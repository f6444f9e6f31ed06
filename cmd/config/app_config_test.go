package config_test

import (
	"Foodgram-Backend/cmd/config"
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/internal/utils/mailing"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
}

type nopMailer struct{ sent int }

func (m *nopMailer) Send(string, string, string, ...mailing.Attachment) error {
	m.sent++
	return nil
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func newClient(t *testing.T) (*client, *nopMailer) {
	db := testutil.SetupTestDB(t)
	mailer := &nopMailer{}
	app := config.BuildApp(db, config.AppOptions{JWTSecret: "test-secret", Mailer: mailer})
	return &client{t: t, app: app}, mailer
}

func (c *client) do(method, path, token string, body interface{}) *http.Response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	return res
}

// call performs the request, checks the status and decodes the data field
// into out when out is non-nil.
func (c *client) call(method, path, token string, body interface{}, wantStatus int, out interface{}) {
	c.t.Helper()

	res := c.do(method, path, token, body)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	require.Equal(c.t, wantStatus, res.StatusCode, "%s %s: %s", method, path, raw)

	if out != nil {
		var env envelope
		require.NoError(c.t, json.Unmarshal(raw, &env))
		require.NoError(c.t, json.Unmarshal(env.Data, out))
	}
}

// fail performs a request expected to be rejected and checks the envelope
// code alongside the status.
func (c *client) fail(method, path, token string, body interface{}, wantStatus int, wantCode string) {
	c.t.Helper()

	res := c.do(method, path, token, body)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	require.Equal(c.t, wantStatus, res.StatusCode, "%s %s: %s", method, path, raw)

	var env envelope
	require.NoError(c.t, json.Unmarshal(raw, &env))
	assert.False(c.t, env.Status)
	assert.Equal(c.t, wantCode, env.Code, "%s %s: %s", method, path, raw)
}

func (c *client) register(username string) (domain.UserResponse, string) {
	c.t.Helper()

	var u domain.UserResponse
	c.call(http.MethodPost, "/api/users", "", domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "password-123",
	}, fiber.StatusCreated, &u)

	var login domain.LoginResponse
	c.call(http.MethodPost, "/api/auth/token/login", "", domain.LoginRequest{
		Email:    username + "@example.com",
		Password: "password-123",
	}, fiber.StatusOK, &login)
	return u, login.Token
}

func TestRecipeFlow(t *testing.T) {
	c, mailer := newClient(t)

	author, authorToken := c.register("author")
	reader, readerToken := c.register("reader")

	var lunch domain.TagResponse
	c.call(http.MethodPost, "/api/tags", authorToken, domain.AddTagRequest{Name: "Lunch", Color: "#49B64E", Slug: "lunch"}, fiber.StatusCreated, &lunch)

	var salt, water domain.IngredientResponse
	c.call(http.MethodPost, "/api/ingredients", authorToken, domain.AddIngredientRequest{Name: "Salt", MeasurementUnit: "g"}, fiber.StatusCreated, &salt)
	c.call(http.MethodPost, "/api/ingredients", authorToken, domain.AddIngredientRequest{Name: "Water", MeasurementUnit: "ml"}, fiber.StatusCreated, &water)

	write := domain.RecipeWriteRequest{
		Name:        "Brine",
		Text:        "Dissolve salt in water.",
		CookingTime: 5,
		Tags:        []string{lunch.ID},
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: salt.ID, Amount: 15},
			{ID: water.ID, Amount: 500},
		},
	}

	// writes need a token
	c.fail(http.MethodPost, "/api/recipes", "", write, fiber.StatusUnauthorized, domain.CodeUnauthorized)

	duplicate := write
	duplicate.Ingredients = []domain.RecipeIngredientRequest{{ID: salt.ID, Amount: 1}, {ID: salt.ID, Amount: 2}}
	c.fail(http.MethodPost, "/api/recipes", authorToken, duplicate, fiber.StatusBadRequest, domain.CodeValidation)

	var created domain.RecipeDetail
	c.call(http.MethodPost, "/api/recipes", authorToken, write, fiber.StatusCreated, &created)
	assert.Equal(t, author.ID, created.Author.ID)
	assert.Len(t, created.Ingredients, 2)

	var anonymous domain.RecipeDetail
	c.call(http.MethodGet, "/api/recipes/"+created.ID, "", nil, fiber.StatusOK, &anonymous)
	assert.False(t, anonymous.IsFavorited)
	assert.False(t, anonymous.IsInShoppingCart)

	c.call(http.MethodGet, "/api/recipes/"+created.ID, "not-a-token", nil, fiber.StatusUnauthorized, nil)
	c.call(http.MethodGet, "/api/recipes/not-a-uuid", "", nil, fiber.StatusNotFound, nil)

	// favorite toggle
	var card domain.RecipeCard
	c.call(http.MethodPost, "/api/recipes/"+created.ID+"/favorite", readerToken, nil, fiber.StatusCreated, &card)
	assert.Equal(t, domain.RecipeCard{ID: created.ID, Name: "Brine", CookingTime: 5}, card)
	c.fail(http.MethodPost, "/api/recipes/"+created.ID+"/favorite", readerToken, nil, fiber.StatusBadRequest, domain.CodeDuplicateRelation)

	var viewed domain.RecipeDetail
	c.call(http.MethodGet, "/api/recipes/"+created.ID, readerToken, nil, fiber.StatusOK, &viewed)
	assert.True(t, viewed.IsFavorited)

	c.call(http.MethodDelete, "/api/recipes/"+created.ID+"/favorite", readerToken, nil, fiber.StatusNoContent, nil)
	c.fail(http.MethodDelete, "/api/recipes/"+created.ID+"/favorite", readerToken, nil, fiber.StatusNotFound, domain.CodeNotFound)

	// shopping cart and export
	c.call(http.MethodPost, "/api/recipes/"+created.ID+"/shopping_cart", readerToken, nil, fiber.StatusCreated, &card)

	res := c.do(http.MethodGet, "/api/recipes/download_shopping_cart", readerToken, nil)
	defer res.Body.Close()
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, `attachment; filename="shopping_list.txt"`, res.Header.Get(fiber.HeaderContentDisposition))
	assert.Contains(t, res.Header.Get(fiber.HeaderContentType), "text/plain")
	text, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\nSalt (g)15\nWater (ml)500", string(text))

	c.call(http.MethodPost, "/api/recipes/email_shopping_cart", readerToken, nil, fiber.StatusOK, nil)
	assert.Equal(t, 1, mailer.sent)

	var cartPage domain.RecipeListResponse
	c.call(http.MethodGet, "/api/recipes?is_in_shopping_cart=1", readerToken, nil, fiber.StatusOK, &cartPage)
	require.Len(t, cartPage.Recipes, 1)
	assert.True(t, cartPage.Recipes[0].IsInShoppingCart)

	// subscriptions
	c.fail(http.MethodPost, "/api/users/"+reader.ID+"/subscribe", readerToken, nil, fiber.StatusBadRequest, domain.CodeSelfReference)
	var sub domain.AuthorWithRecipes
	c.call(http.MethodPost, "/api/users/"+author.ID+"/subscribe?recipes_limit=1", readerToken, nil, fiber.StatusCreated, &sub)
	assert.EqualValues(t, 1, sub.RecipesCount)
	assert.True(t, sub.IsSubscribed)
	c.fail(http.MethodPost, "/api/users/"+author.ID+"/subscribe", readerToken, nil, fiber.StatusBadRequest, domain.CodeDuplicateRelation)

	var subs struct {
		Authors []domain.AuthorWithRecipes `json:"authors"`
	}
	c.call(http.MethodGet, "/api/users/subscriptions", readerToken, nil, fiber.StatusOK, &subs)
	require.Len(t, subs.Authors, 1)
	assert.Equal(t, "author", subs.Authors[0].Username)

	// only the author edits
	c.fail(http.MethodPatch, "/api/recipes/"+created.ID, readerToken, write, fiber.StatusForbidden, domain.CodeForbidden)
	c.call(http.MethodDelete, "/api/recipes/"+created.ID, readerToken, nil, fiber.StatusForbidden, nil)
	c.call(http.MethodDelete, "/api/recipes/"+created.ID, authorToken, nil, fiber.StatusNoContent, nil)
	c.call(http.MethodGet, "/api/recipes/"+created.ID, "", nil, fiber.StatusNotFound, nil)
}

func TestRegister_Validation(t *testing.T) {
	c, _ := newClient(t)

	c.call(http.MethodPost, "/api/users", "", domain.RegisterRequest{
		Email:    "not-an-email",
		Username: "x",
		Password: "short",
	}, fiber.StatusBadRequest, nil)

	c.register("cook")
	c.fail(http.MethodPost, "/api/users", "", domain.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "A",
		LastName:  "B",
		Password:  "password-123",
	}, fiber.StatusBadRequest, domain.CodeAlreadyExists)

	c.call(http.MethodPost, "/api/auth/token/login", "", domain.LoginRequest{
		Email:    "cook@example.com",
		Password: "wrong-password",
	}, fiber.StatusBadRequest, nil)
}

func TestDeletedAccountToken(t *testing.T) {
	c, _ := newClient(t)

	_, authorToken := c.register("author")
	_, ghostToken := c.register("ghost")

	var salt domain.IngredientResponse
	c.call(http.MethodPost, "/api/ingredients", authorToken, domain.AddIngredientRequest{Name: "Salt", MeasurementUnit: "g"}, fiber.StatusCreated, &salt)
	var lunch domain.TagResponse
	c.call(http.MethodPost, "/api/tags", authorToken, domain.AddTagRequest{Name: "Lunch", Color: "#49B64E", Slug: "lunch"}, fiber.StatusCreated, &lunch)

	write := domain.RecipeWriteRequest{
		Name:        "Brine",
		Text:        "Dissolve salt in water.",
		CookingTime: 5,
		Tags:        []string{lunch.ID},
		Ingredients: []domain.RecipeIngredientRequest{{ID: salt.ID, Amount: 15}},
	}
	var created domain.RecipeDetail
	c.call(http.MethodPost, "/api/recipes", authorToken, write, fiber.StatusCreated, &created)

	c.call(http.MethodDelete, "/api/users/me", ghostToken, nil, fiber.StatusNoContent, nil)

	// the token still verifies but every write it makes references a missing user
	c.fail(http.MethodPost, "/api/recipes", ghostToken, write, fiber.StatusNotFound, domain.CodeNotFound)
	c.fail(http.MethodPost, "/api/recipes/"+created.ID+"/favorite", ghostToken, nil, fiber.StatusNotFound, domain.CodeNotFound)
	c.fail(http.MethodPost, "/api/recipes/"+created.ID+"/shopping_cart", ghostToken, nil, fiber.StatusNotFound, domain.CodeNotFound)
}
