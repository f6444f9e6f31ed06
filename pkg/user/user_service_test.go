package user_test

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/user"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newServices(db *gorm.DB) (user.UserService, relation.ToggleService, jwt.JWTService) {
	users := user.NewUserRepository(db)
	subs := relation.NewToggleService(relation.NewRepository[entities.Subscription](db), relation.Subscription, users.UserExists)
	jwtService := jwt.NewJWTService("test-secret")
	return user.NewUserService(users, jwtService, subs), subs, jwtService
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	service, _, jwtService := newServices(db)

	req := domain.RegisterRequest{
		Email:     "Cook@Example.com",
		Username:  "cook",
		FirstName: "Anna",
		LastName:  "Cook",
		Password:  "s3cret-pass",
	}
	registered, err := service.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", registered.Email)

	var stored entities.User
	require.NoError(t, db.First(&stored, "username = ?", "cook").Error)
	assert.NotEqual(t, req.Password, stored.Password)

	_, err = service.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	res, err := service.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	userID, err := jwtService.GetUserIDByToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)

	_, err = service.Login(ctx, domain.LoginRequest{Email: "cook@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGetProfile_IsSubscribed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	service, subs, _ := newServices(db)

	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	require.NoError(t, subs.Add(ctx, alice.ID.String(), bob.ID.String()))

	profile, err := service.GetProfile(ctx, bob.ID.String(), alice.ID.String())
	require.NoError(t, err)
	assert.True(t, profile.IsSubscribed)

	anonymous, err := service.GetProfile(ctx, bob.ID.String(), "")
	require.NoError(t, err)
	assert.False(t, anonymous.IsSubscribed)

	_, err = service.GetProfile(ctx, "missing", "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users, count, err := service.GetUsers(ctx, alice.ID.String(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.False(t, users[0].IsSubscribed)
	assert.True(t, users[1].IsSubscribed)
}

func TestListSubscriptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	service, subs, _ := newServices(db)

	reader := testutil.CreateTestUser(t, db, "reader")
	chef := testutil.CreateTestUser(t, db, "chef")
	baker := testutil.CreateTestUser(t, db, "baker")
	salt := testutil.CreateTestIngredient(t, db, "salt", "g")

	for i, name := range []string{"One", "Two", "Three"} {
		r := testutil.CreateTestRecipe(t, db, chef, name, nil, testutil.Line{Ingredient: salt, Amount: 1})
		require.NoError(t, db.Model(r).Update("pub_date", time.Now().Add(time.Duration(i)*time.Minute)).Error)
	}

	require.NoError(t, subs.Add(ctx, reader.ID.String(), chef.ID.String()))
	require.NoError(t, subs.Add(ctx, reader.ID.String(), baker.ID.String()))

	authors, count, err := service.ListSubscriptions(ctx, reader.ID.String(), 1, 10, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, authors, 2)

	byName := map[string]domain.AuthorWithRecipes{}
	for _, a := range authors {
		assert.True(t, a.IsSubscribed)
		byName[a.Username] = a
	}

	assert.EqualValues(t, 3, byName["chef"].RecipesCount)
	require.Len(t, byName["chef"].Recipes, 2)
	assert.Equal(t, "Three", byName["chef"].Recipes[0].Name)
	assert.Equal(t, "Two", byName["chef"].Recipes[1].Name)

	assert.Zero(t, byName["baker"].RecipesCount)
	assert.Empty(t, byName["baker"].Recipes)
}

func TestDeleteUser_Cascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	service, subs, _ := newServices(db)

	chef := testutil.CreateTestUser(t, db, "chef")
	fan := testutil.CreateTestUser(t, db, "fan")
	salt := testutil.CreateTestIngredient(t, db, "salt", "g")
	tag := testutil.CreateTestTag(t, db, "Soup", "soup")
	soup := testutil.CreateTestRecipe(t, db, chef, "Soup", []*entities.Tag{tag}, testutil.Line{Ingredient: salt, Amount: 1})

	require.NoError(t, subs.Add(ctx, fan.ID.String(), chef.ID.String()))
	require.NoError(t, db.Create(&entities.Favorite{UserID: fan.ID, RecipeID: soup.ID}).Error)
	require.NoError(t, db.Create(&entities.ShoppingCartItem{UserID: fan.ID, RecipeID: soup.ID}).Error)

	require.NoError(t, service.DeleteUser(ctx, chef.ID.String()))

	for _, model := range []interface{}{
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.ShoppingCartItem{},
		&entities.Subscription{},
	} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T rows left after delete", model)
	}

	var users int64
	require.NoError(t, db.Model(&entities.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)

	assert.ErrorIs(t, service.DeleteUser(ctx, chef.ID.String()), domain.ErrUserNotFound)
}
