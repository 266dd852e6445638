package repository

import (
	"testing"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRepoTest(t *testing.T) (CartRepository, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Username:     "shopper",
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "Shopper",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(user).Error)

	return NewCartRepository(testDB), user, testDB
}

func createRecipeWithIngredients(t *testing.T, testDB *gorm.DB, authorID uint, name string, ingredients map[uint]int) *model.Recipe {
	recipe := &model.Recipe{
		Name:        name,
		Text:        "text",
		Image:       "key.png",
		CookingTime: 10,
		AuthorID:    authorID,
	}
	require.NoError(t, testDB.Create(recipe).Error)
	for ingredientID, amount := range ingredients {
		require.NoError(t, testDB.Create(&model.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredientID,
			Amount:       amount,
		}).Error)
	}
	return recipe
}

func addToCart(t *testing.T, testDB *gorm.DB, userID, recipeID uint) {
	require.NoError(t, testDB.Create(&model.UserRecipe{
		UserID:   userID,
		RecipeID: recipeID,
		Kind:     model.RelationShopping,
	}).Error)
}

func TestCartRepository_AggregateIngredients_SumsAcrossRecipes(t *testing.T) {
	cartRepo, user, testDB := setupCartRepoTest(t)

	flour := &model.Ingredient{Name: "Flour", MeasurementUnit: "g"}
	require.NoError(t, testDB.Create(flour).Error)

	pancakes := createRecipeWithIngredients(t, testDB, user.ID, "Pancakes", map[uint]int{flour.ID: 200})
	bread := createRecipeWithIngredients(t, testDB, user.ID, "Bread", map[uint]int{flour.ID: 150})
	addToCart(t, testDB, user.ID, pancakes.ID)
	addToCart(t, testDB, user.ID, bread.ID)

	rows, err := cartRepo.AggregateIngredients(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Flour", rows[0].Name)
	assert.Equal(t, "g", rows[0].MeasurementUnit)
	assert.Equal(t, 350, rows[0].Total)
}

func TestCartRepository_AggregateIngredients_GroupsByNameAndUnit(t *testing.T) {
	cartRepo, user, testDB := setupCartRepoTest(t)

	// Two distinct rows with the same name and unit must collapse into one
	// line; the same name with a different unit stays separate.
	sugarA := &model.Ingredient{Name: "Sugar", MeasurementUnit: "g"}
	sugarB := &model.Ingredient{Name: "Sugar", MeasurementUnit: "g"}
	sugarSpoon := &model.Ingredient{Name: "Sugar", MeasurementUnit: "tbsp"}
	require.NoError(t, testDB.Create(sugarA).Error)
	require.NoError(t, testDB.Create(sugarB).Error)
	require.NoError(t, testDB.Create(sugarSpoon).Error)

	cake := createRecipeWithIngredients(t, testDB, user.ID, "Cake", map[uint]int{
		sugarA.ID:     100,
		sugarSpoon.ID: 2,
	})
	cookies := createRecipeWithIngredients(t, testDB, user.ID, "Cookies", map[uint]int{
		sugarB.ID: 50,
	})
	addToCart(t, testDB, user.ID, cake.ID)
	addToCart(t, testDB, user.ID, cookies.ID)

	rows, err := cartRepo.AggregateIngredients(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "g", rows[0].MeasurementUnit)
	assert.Equal(t, 150, rows[0].Total)
	assert.Equal(t, "tbsp", rows[1].MeasurementUnit)
	assert.Equal(t, 2, rows[1].Total)
}

func TestCartRepository_AggregateIngredients_OrderingIsStable(t *testing.T) {
	cartRepo, user, testDB := setupCartRepoTest(t)

	banana := &model.Ingredient{Name: "Banana", MeasurementUnit: "pcs"}
	apple := &model.Ingredient{Name: "Apple", MeasurementUnit: "pcs"}
	appleGrams := &model.Ingredient{Name: "Apple", MeasurementUnit: "g"}
	require.NoError(t, testDB.Create(banana).Error)
	require.NoError(t, testDB.Create(apple).Error)
	require.NoError(t, testDB.Create(appleGrams).Error)

	salad := createRecipeWithIngredients(t, testDB, user.ID, "Salad", map[uint]int{
		banana.ID:     2,
		apple.ID:      3,
		appleGrams.ID: 120,
	})
	addToCart(t, testDB, user.ID, salad.ID)

	first, err := cartRepo.AggregateIngredients(user.ID)
	require.NoError(t, err)
	second, err := cartRepo.AggregateIngredients(user.ID)
	require.NoError(t, err)

	// name ASC, then unit ASC, identical on every run
	require.Len(t, first, 3)
	assert.Equal(t, "Apple", first[0].Name)
	assert.Equal(t, "g", first[0].MeasurementUnit)
	assert.Equal(t, "Apple", first[1].Name)
	assert.Equal(t, "pcs", first[1].MeasurementUnit)
	assert.Equal(t, "Banana", first[2].Name)
	assert.Equal(t, first, second)
}

func TestCartRepository_AggregateIngredients_IgnoresFavoritesAndOtherUsers(t *testing.T) {
	cartRepo, user, testDB := setupCartRepoTest(t)

	other := &model.User{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		FirstName:    "Other",
		LastName:     "User",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(other).Error)

	flour := &model.Ingredient{Name: "Flour", MeasurementUnit: "g"}
	require.NoError(t, testDB.Create(flour).Error)

	recipe := createRecipeWithIngredients(t, testDB, user.ID, "Pancakes", map[uint]int{flour.ID: 200})

	// Favorited by the user, in the cart only of the other user
	require.NoError(t, testDB.Create(&model.UserRecipe{
		UserID: user.ID, RecipeID: recipe.ID, Kind: model.RelationFavorite,
	}).Error)
	addToCart(t, testDB, other.ID, recipe.ID)

	rows, err := cartRepo.AggregateIngredients(user.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 0)
}

func TestCartRepository_AggregateIngredients_EmptyCart(t *testing.T) {
	cartRepo, user, _ := setupCartRepoTest(t)

	rows, err := cartRepo.AggregateIngredients(user.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 0)
}

func TestCartRepository_FindCartRecipes(t *testing.T) {
	cartRepo, user, testDB := setupCartRepoTest(t)

	flour := &model.Ingredient{Name: "Flour", MeasurementUnit: "g"}
	require.NoError(t, testDB.Create(flour).Error)

	first := createRecipeWithIngredients(t, testDB, user.ID, "First", map[uint]int{flour.ID: 100})
	second := createRecipeWithIngredients(t, testDB, user.ID, "Second", map[uint]int{flour.ID: 100})
	addToCart(t, testDB, user.ID, first.ID)
	addToCart(t, testDB, user.ID, second.ID)

	recipes, err := cartRepo.FindCartRecipes(user.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, first.ID, recipes[0].ID)
	assert.Equal(t, second.ID, recipes[1].ID)
}
