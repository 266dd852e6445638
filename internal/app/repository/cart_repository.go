package repository

import (
	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// CartIngredient is one aggregated shopping-list row: every ingredient with
// this name and unit, summed across all recipes in the user's cart.
type CartIngredient struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

type CartRepository interface {
	AggregateIngredients(userID uint) ([]CartIngredient, error)
	FindCartRecipes(userID uint) ([]model.Recipe, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// AggregateIngredients groups by (name, measurement_unit) rather than
// ingredient id: two ingredient rows sharing name and unit must collapse
// into a single export line. Ordering is fixed so repeated exports of the
// same cart are byte-identical.
func (r *cartRepository) AggregateIngredients(userID uint) ([]CartIngredient, error) {
	logger.Debug("Aggregating cart ingredients in database", map[string]interface{}{
		"user_id": userID,
	})

	var rows []CartIngredient
	err := r.db.
		Model(&model.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN user_recipes ON user_recipes.recipe_id = recipe_ingredients.recipe_id").
		Where("user_recipes.user_id = ? AND user_recipes.kind = ?", userID, model.RelationShopping).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate cart ingredients in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart ingredients aggregated in database", map[string]interface{}{
		"user_id": userID,
		"rows":    len(rows),
	})
	return rows, nil
}

func (r *cartRepository) FindCartRecipes(userID uint) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.
		Joins("JOIN user_recipes ON user_recipes.recipe_id = recipes.id").
		Where("user_recipes.user_id = ? AND user_recipes.kind = ?", userID, model.RelationShopping).
		Order("recipes.id ASC").
		Find(&recipes).Error
	if err != nil {
		logger.Error("Failed to fetch cart recipes from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return recipes, nil
}
