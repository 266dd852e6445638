package service

import (
	"testing"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/db"
	"github.com/foodgram-team/foodgram-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserServiceTest(t *testing.T) (UserService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	images, err := storage.NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	svc := NewUserService(
		repository.NewUserRepository(testDB),
		repository.NewRecipeRepository(testDB),
		images,
		testDB,
	)
	return svc, testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestUserService_GetUser(t *testing.T) {
	svc, testDB := setupUserServiceTest(t)

	user := createTestUser(t, testDB, "someone")

	got, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "someone", got.Username)

	_, err = svc.GetUser(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	svc, testDB := setupUserServiceTest(t)

	createTestUser(t, testDB, "first")
	createTestUser(t, testDB, "second")
	createTestUser(t, testDB, "third")

	users, total, err := svc.ListUsers(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)
}

func TestUserService_DeleteUser_Cascades(t *testing.T) {
	svc, testDB := setupUserServiceTest(t)

	author := createTestUser(t, testDB, "author")
	fan := createTestUser(t, testDB, "fan")

	tag := &model.Tag{Name: "Dinner", Color: 0x8775D2, Slug: "dinner"}
	require.NoError(t, testDB.Create(tag).Error)
	salt := &model.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	require.NoError(t, testDB.Create(salt).Error)

	recipe := &model.Recipe{
		Name: "Soup", Text: "t", Image: "soup.png", CookingTime: 30, AuthorID: author.ID,
	}
	require.NoError(t, testDB.Create(recipe).Error)
	require.NoError(t, testDB.Create(&model.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)
	require.NoError(t, testDB.Create(&model.RecipeIngredient{
		RecipeID: recipe.ID, IngredientID: salt.ID, Amount: 5,
	}).Error)

	// The fan favorites the author's recipe and follows the author;
	// the author also keeps a cart entry of their own.
	require.NoError(t, testDB.Create(&model.UserRecipe{
		UserID: fan.ID, RecipeID: recipe.ID, Kind: model.RelationFavorite,
	}).Error)
	require.NoError(t, testDB.Create(&model.UserRecipe{
		UserID: author.ID, RecipeID: recipe.ID, Kind: model.RelationShopping,
	}).Error)
	require.NoError(t, testDB.Create(&model.Subscription{
		UserID: fan.ID, AuthorID: author.ID,
	}).Error)

	require.NoError(t, svc.DeleteUser(author.ID))

	// The author, their recipes and every referencing row are gone
	var counts = map[string]int64{}
	for name, query := range map[string]interface{}{
		"recipes":            &model.Recipe{},
		"recipe_tags":        &model.RecipeTag{},
		"recipe_ingredients": &model.RecipeIngredient{},
		"user_recipes":       &model.UserRecipe{},
		"subscriptions":      &model.Subscription{},
	} {
		var count int64
		testDB.Model(query).Count(&count)
		counts[name] = count
	}
	for name, count := range counts {
		assert.Equal(t, int64(0), count, name)
	}

	_, err := svc.GetUser(author.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The fan survives
	_, err = svc.GetUser(fan.ID)
	assert.NoError(t, err)
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	err := svc.DeleteUser(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
