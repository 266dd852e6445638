package repository

import (
	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type IngredientRepository interface {
	Create(ingredient *model.Ingredient) error
	FindByID(id uint) (*model.Ingredient, error)
	FindAll(nameQuery string) ([]model.Ingredient, error)
	FindByIDs(ids []uint) ([]model.Ingredient, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Create(ingredient *model.Ingredient) error {
	if err := r.db.Create(ingredient).Error; err != nil {
		logger.Error("Failed to create ingredient in database", err, map[string]interface{}{
			"name": ingredient.Name,
			"unit": ingredient.MeasurementUnit,
		})
		return err
	}
	return nil
}

func (r *ingredientRepository) FindByID(id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// FindAll lists ingredients, optionally prefix-matching on name.
func (r *ingredientRepository) FindAll(nameQuery string) ([]model.Ingredient, error) {
	query := r.db.Order("id ASC")
	if nameQuery != "" {
		query = query.Where("name LIKE ?", nameQuery+"%")
	}

	var ingredients []model.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		logger.Error("Failed to list ingredients in database", err, map[string]interface{}{
			"name_query": nameQuery,
		})
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByIDs(ids []uint) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients by ids in database", err, map[string]interface{}{
			"ingredient_ids": ids,
		})
		return nil, err
	}
	return ingredients, nil
}
