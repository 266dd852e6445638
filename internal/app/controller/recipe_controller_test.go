package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/app/service"
	"github.com/foodgram-team/foodgram-backend/internal/db"
	"github.com/foodgram-team/foodgram-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRecipeControllerTest(t *testing.T) (*RecipeController, *gin.Engine, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	images, err := storage.NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	recipeRepo := repository.NewRecipeRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	ingredientRepo := repository.NewIngredientRepository(testDB)
	userRecipeRepo := repository.NewUserRecipeRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	subscriptionRepo := repository.NewSubscriptionRepository(testDB)

	recipeService := service.NewRecipeService(
		recipeRepo, tagRepo, ingredientRepo, userRecipeRepo, userRepo, images, testDB,
	)
	userRecipeService := service.NewUserRecipeService(userRecipeRepo, recipeRepo)
	cartService := service.NewCartService(cartRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, recipeRepo)

	recipeController := NewRecipeController(
		recipeService, userRecipeService, cartService, subscriptionService, images,
	)

	user := &model.User{
		Username:     "tester",
		Email:        "tester@example.com",
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(user).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return recipeController, router, testDB, user
}

// authAs stands in for the auth middleware and identifies the request
// as the given user.
func authAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func seedRecipe(t *testing.T, testDB *gorm.DB, authorID uint, name string) *model.Recipe {
	recipe := &model.Recipe{
		Name:        name,
		Text:        "Some instructions",
		Image:       "test.png",
		CookingTime: 20,
		AuthorID:    authorID,
	}
	require.NoError(t, testDB.Create(recipe).Error)
	return recipe
}

func TestRecipeController_AddFavorite(t *testing.T) {
	controller, router, testDB, user := setupRecipeControllerTest(t)

	recipe := seedRecipe(t, testDB, user.ID, "Pancakes")

	router.POST("/api/recipes/:id/favorite", authAs(user.ID), controller.AddFavorite)

	req := httptest.NewRequest("POST", "/api/recipes/1/favorite", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Pancakes")

	var count int64
	testDB.Model(&model.UserRecipe{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", user.ID, recipe.ID, model.RelationFavorite).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecipeController_AddFavorite_Duplicate(t *testing.T) {
	controller, router, testDB, user := setupRecipeControllerTest(t)

	seedRecipe(t, testDB, user.ID, "Pancakes")

	router.POST("/api/recipes/:id/favorite", authAs(user.ID), controller.AddFavorite)

	req := httptest.NewRequest("POST", "/api/recipes/1/favorite", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest("POST", "/api/recipes/1/favorite", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecipeController_AddFavorite_RecipeNotFound(t *testing.T) {
	controller, router, _, user := setupRecipeControllerTest(t)

	router.POST("/api/recipes/:id/favorite", authAs(user.ID), controller.AddFavorite)

	req := httptest.NewRequest("POST", "/api/recipes/9999/favorite", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeController_RemoveFavorite(t *testing.T) {
	controller, router, testDB, user := setupRecipeControllerTest(t)

	recipe := seedRecipe(t, testDB, user.ID, "Pancakes")
	require.NoError(t, testDB.Create(&model.UserRecipe{
		UserID: user.ID, RecipeID: recipe.ID, Kind: model.RelationFavorite,
	}).Error)

	router.DELETE("/api/recipes/:id/favorite", authAs(user.ID), controller.RemoveFavorite)

	req := httptest.NewRequest("DELETE", "/api/recipes/1/favorite", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	testDB.Model(&model.UserRecipe{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRecipeController_RemoveFavorite_NotInList(t *testing.T) {
	controller, router, testDB, user := setupRecipeControllerTest(t)

	seedRecipe(t, testDB, user.ID, "Pancakes")

	router.DELETE("/api/recipes/:id/favorite", authAs(user.ID), controller.RemoveFavorite)

	// The recipe exists but was never favorited
	req := httptest.NewRequest("DELETE", "/api/recipes/1/favorite", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeController_ShoppingCartFlow(t *testing.T) {
	controller, router, testDB, user := setupRecipeControllerTest(t)

	recipe := seedRecipe(t, testDB, user.ID, "Bread")

	router.POST("/api/recipes/:id/shopping_cart", authAs(user.ID), controller.AddToShoppingCart)
	router.DELETE("/api/recipes/:id/shopping_cart", authAs(user.ID), controller.RemoveFromShoppingCart)

	req := httptest.NewRequest("POST", "/api/recipes/1/shopping_cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// The cart entry does not touch favorites
	var count int64
	testDB.Model(&model.UserRecipe{}).
		Where("recipe_id = ? AND kind = ?", recipe.ID, model.RelationShopping).
		Count(&count)
	assert.Equal(t, int64(1), count)

	req = httptest.NewRequest("DELETE", "/api/recipes/1/shopping_cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	testDB.Model(&model.UserRecipe{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRecipeController_DownloadShoppingCart(t *testing.T) {
	controller, router, testDB, user := setupRecipeControllerTest(t)

	flour := &model.Ingredient{Name: "Flour", MeasurementUnit: "g"}
	require.NoError(t, testDB.Create(flour).Error)
	egg := &model.Ingredient{Name: "Egg", MeasurementUnit: "pcs"}
	require.NoError(t, testDB.Create(egg).Error)

	pancakes := seedRecipe(t, testDB, user.ID, "Pancakes")
	bread := seedRecipe(t, testDB, user.ID, "Bread")
	for _, link := range []model.RecipeIngredient{
		{RecipeID: pancakes.ID, IngredientID: flour.ID, Amount: 200},
		{RecipeID: pancakes.ID, IngredientID: egg.ID, Amount: 2},
		{RecipeID: bread.ID, IngredientID: flour.ID, Amount: 150},
	} {
		require.NoError(t, testDB.Create(&link).Error)
	}
	for _, recipeID := range []uint{pancakes.ID, bread.ID} {
		require.NoError(t, testDB.Create(&model.UserRecipe{
			UserID: user.ID, RecipeID: recipeID, Kind: model.RelationShopping,
		}).Error)
	}

	router.GET("/api/recipes/download_shopping_cart", authAs(user.ID), controller.DownloadShoppingCart)

	req := httptest.NewRequest("GET", "/api/recipes/download_shopping_cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=shopping_cart.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "name,measurement_unit,total\nEgg,pcs,2\nFlour,g,350\n", w.Body.String())
}

func TestRecipeController_DownloadShoppingCart_Empty(t *testing.T) {
	controller, router, _, user := setupRecipeControllerTest(t)

	router.GET("/api/recipes/download_shopping_cart", authAs(user.ID), controller.DownloadShoppingCart)

	req := httptest.NewRequest("GET", "/api/recipes/download_shopping_cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// An empty cart still yields a well-formed file
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "name,measurement_unit,total\n", w.Body.String())
}

func TestRecipeController_GetRecipe_InvalidID(t *testing.T) {
	controller, router, _, _ := setupRecipeControllerTest(t)

	router.GET("/api/recipes/:id", controller.GetRecipe)

	req := httptest.NewRequest("GET", "/api/recipes/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
