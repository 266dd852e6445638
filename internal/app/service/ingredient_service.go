package service

import (
	"errors"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrIngredientNotFound = errors.New("ingredient not found")

// IngredientInput carries an ingredient submission. Names are not unique;
// two rows may share a name with different units.
type IngredientInput struct {
	Name            string `json:"name" binding:"required"`
	MeasurementUnit string `json:"measurement_unit" binding:"required"`
}

type IngredientService interface {
	ListIngredients(nameQuery string) ([]model.Ingredient, error)
	GetIngredient(id uint) (*model.Ingredient, error)
	CreateIngredient(input IngredientInput) (*model.Ingredient, error)
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
}

func NewIngredientService(ingredientRepo repository.IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo}
}

func (s *ingredientService) ListIngredients(nameQuery string) ([]model.Ingredient, error) {
	return s.ingredientRepo.FindAll(nameQuery)
}

func (s *ingredientService) GetIngredient(id uint) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *ingredientService) CreateIngredient(input IngredientInput) (*model.Ingredient, error) {
	ingredient := &model.Ingredient{
		Name:            input.Name,
		MeasurementUnit: input.MeasurementUnit,
	}
	if err := s.ingredientRepo.Create(ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}
