package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodgram-team/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram-team/foodgram-backend/internal/errors"
	"github.com/foodgram-team/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type IngredientController struct {
	ingredientService service.IngredientService
}

func NewIngredientController(ingredientService service.IngredientService) *IngredientController {
	return &IngredientController{
		ingredientService: ingredientService,
	}
}

// ListIngredients returns ingredients, optionally prefix-filtered by name
// GET /api/ingredients?name=
func (ctrl *IngredientController) ListIngredients(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ingredients, err := ctrl.ingredientService.ListIngredients(c.Query("name"))
	if err != nil {
		log.Error("Failed to list ingredients", err, map[string]interface{}{
			"name_query": c.Query("name"),
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, ingredients)
}

// GetIngredient returns one ingredient
// GET /api/ingredients/:id
func (ctrl *IngredientController) GetIngredient(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ingredientID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Ingredient id must be a number")
		return
	}

	ingredient, err := ctrl.ingredientService.GetIngredient(uint(ingredientID))
	if err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			apperrors.NotFound(c, apperrors.IngredientNotFound, "Ingredient not found")
			return
		}
		log.Error("Failed to fetch ingredient", err, map[string]interface{}{
			"ingredient_id": ingredientID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, ingredient)
}
