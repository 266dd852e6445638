package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram-team/foodgram-backend/internal/errors"
	"github.com/foodgram-team/foodgram-backend/internal/middleware"
	"github.com/foodgram-team/foodgram-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type RecipeController struct {
	recipeService       service.RecipeService
	userRecipeService   service.UserRecipeService
	cartService         service.CartService
	subscriptionService service.SubscriptionService
	images              storage.ImageStore
}

func NewRecipeController(
	recipeService service.RecipeService,
	userRecipeService service.UserRecipeService,
	cartService service.CartService,
	subscriptionService service.SubscriptionService,
	images storage.ImageStore,
) *RecipeController {
	return &RecipeController{
		recipeService:       recipeService,
		userRecipeService:   userRecipeService,
		cartService:         cartService,
		subscriptionService: subscriptionService,
		images:              images,
	}
}

// ListRecipes returns a page of recipes, newest first
// GET /api/recipes?author=&tags=&is_favorited=&is_in_shopping_cart=&page=&limit=
func (ctrl *RecipeController) ListRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	requesterID, _ := middleware.GetUserID(c)

	offset, limit := parsePagination(c)
	filter := repository.RecipeFilter{
		TagSlug: c.Query("tags"),
		Offset:  offset,
		Limit:   limit,
	}
	if author := c.Query("author"); author != "" {
		authorID, err := strconv.ParseUint(author, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Author id must be a number")
			return
		}
		filter.AuthorID = uint(authorID)
	}
	// The two relation filters only make sense for an authenticated
	// requester; anonymous requests with them set match nothing.
	if c.Query("is_favorited") == "1" {
		filter.FavoritedBy = requesterID
	}
	if c.Query("is_in_shopping_cart") == "1" {
		filter.InCartOf = requesterID
	}

	recipes, total, err := ctrl.recipeService.ListRecipes(requesterID, filter)
	if err != nil {
		log.Error("Failed to list recipes", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	results, err := ctrl.serializeRecipes(requesterID, recipes)
	if err != nil {
		log.Error("Failed to serialize recipes", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": results,
	})
}

// GetRecipe returns one recipe with full detail
// GET /api/recipes/:id
func (ctrl *RecipeController) GetRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	requesterID, _ := middleware.GetUserID(c)

	recipeID, ok := ctrl.recipeIDParam(c)
	if !ok {
		return
	}

	recipe, err := ctrl.recipeService.GetRecipe(requesterID, recipeID)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		log.Error("Failed to fetch recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		apperrors.InternalError(c, "")
		return
	}

	subscribed, err := ctrl.subscriptionService.IsSubscribed(requesterID, recipe.AuthorID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, recipeResponse(*recipe, ctrl.images, subscribed))
}

// CreateRecipe creates a recipe for the authenticated user
// POST /api/recipes
func (ctrl *RecipeController) CreateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req service.RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create recipe request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Recipe fields are missing or malformed")
		return
	}

	recipe, err := ctrl.recipeService.CreateRecipe(userID, req)
	if err != nil {
		ctrl.respondMutationError(c, err, "create recipe")
		return
	}

	c.JSON(http.StatusCreated, recipeResponse(*recipe, ctrl.images, false))
}

// UpdateRecipe partially updates a recipe
// PATCH /api/recipes/:id
func (ctrl *RecipeController) UpdateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	recipeID, ok := ctrl.recipeIDParam(c)
	if !ok {
		return
	}

	var req service.RecipeUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update recipe request", map[string]interface{}{
			"recipe_id": recipeID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Recipe fields are malformed")
		return
	}

	recipe, err := ctrl.recipeService.UpdateRecipe(recipeID, userID, req)
	if err != nil {
		ctrl.respondMutationError(c, err, "update recipe")
		return
	}

	subscribed, err := ctrl.subscriptionService.IsSubscribed(userID, recipe.AuthorID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, recipeResponse(*recipe, ctrl.images, subscribed))
}

// DeleteRecipe removes a recipe and everything referencing it
// DELETE /api/recipes/:id
func (ctrl *RecipeController) DeleteRecipe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	recipeID, ok := ctrl.recipeIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.recipeService.DeleteRecipe(recipeID, userID); err != nil {
		ctrl.respondMutationError(c, err, "delete recipe")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddFavorite marks a recipe as favorite
// POST /api/recipes/:id/favorite
func (ctrl *RecipeController) AddFavorite(c *gin.Context) {
	ctrl.addRelation(c, model.RelationFavorite)
}

// RemoveFavorite removes the favorite marking
// DELETE /api/recipes/:id/favorite
func (ctrl *RecipeController) RemoveFavorite(c *gin.Context) {
	ctrl.removeRelation(c, model.RelationFavorite)
}

// AddToShoppingCart puts a recipe in the shopping cart
// POST /api/recipes/:id/shopping_cart
func (ctrl *RecipeController) AddToShoppingCart(c *gin.Context) {
	ctrl.addRelation(c, model.RelationShopping)
}

// RemoveFromShoppingCart takes a recipe out of the shopping cart
// DELETE /api/recipes/:id/shopping_cart
func (ctrl *RecipeController) RemoveFromShoppingCart(c *gin.Context) {
	ctrl.removeRelation(c, model.RelationShopping)
}

// DownloadShoppingCart streams the aggregated shopping list as CSV
// GET /api/recipes/download_shopping_cart
func (ctrl *RecipeController) DownloadShoppingCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	data, err := ctrl.cartService.ExportCSV(userID)
	if err != nil {
		log.Error("Failed to export shopping list", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+service.ShoppingCartFileName)
	c.Data(http.StatusOK, "text/csv", data)
}

func (ctrl *RecipeController) addRelation(c *gin.Context, kind model.RelationKind) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	recipeID, ok := ctrl.recipeIDParam(c)
	if !ok {
		return
	}

	recipe, err := ctrl.userRecipeService.AddRelation(kind, userID, recipeID)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		if errors.Is(err, service.ErrRelationExists) {
			apperrors.Conflict(c, apperrors.RelationAlreadyExists, "Recipe is already in this list")
			return
		}
		log.Error("Failed to add user-recipe relation", err, map[string]interface{}{
			"recipe_id": recipeID,
			"kind":      kind,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, recipeShortResponse(*recipe, ctrl.images))
}

func (ctrl *RecipeController) removeRelation(c *gin.Context, kind model.RelationKind) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	recipeID, ok := ctrl.recipeIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.userRecipeService.RemoveRelation(kind, userID, recipeID); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		if errors.Is(err, service.ErrRelationNotFound) {
			apperrors.BadRequest(c, apperrors.RelationNotFound, "Recipe is not in this list")
			return
		}
		log.Error("Failed to remove user-recipe relation", err, map[string]interface{}{
			"recipe_id": recipeID,
			"kind":      kind,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

func (ctrl *RecipeController) serializeRecipes(requesterID uint, recipes []model.Recipe) ([]RecipeResponse, error) {
	// Resolve is_subscribed once per distinct author on the page.
	subscribed := make(map[uint]bool)
	results := make([]RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		if _, seen := subscribed[recipe.AuthorID]; !seen {
			ok, err := ctrl.subscriptionService.IsSubscribed(requesterID, recipe.AuthorID)
			if err != nil {
				return nil, err
			}
			subscribed[recipe.AuthorID] = ok
		}
		results = append(results, recipeResponse(recipe, ctrl.images, subscribed[recipe.AuthorID]))
	}
	return results, nil
}

func (ctrl *RecipeController) recipeIDParam(c *gin.Context) (uint, bool) {
	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Recipe id must be a number")
		return 0, false
	}
	return uint(recipeID), true
}

func (ctrl *RecipeController) respondMutationError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
	case errors.Is(err, service.ErrRecipeForbidden):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAuthorOnly, "Only the author or a moderator may modify this recipe")
	case errors.As(err, &vErr):
		apperrors.RespondWithValidationError(c, map[string]string{vErr.Field: vErr.Reason})
	default:
		log.Error("Recipe mutation failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
