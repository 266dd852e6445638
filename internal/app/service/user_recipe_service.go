package service

import (
	"errors"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRelationExists   = errors.New("recipe is already in this list")
	ErrRelationNotFound = errors.New("recipe is not in this list")
)

// UserRecipeService manages the favorite and shopping-cart markings a user
// holds on recipes. The two lists share one mechanism and differ only by
// relation kind.
type UserRecipeService interface {
	AddRelation(kind model.RelationKind, userID, recipeID uint) (*model.Recipe, error)
	RemoveRelation(kind model.RelationKind, userID, recipeID uint) error
}

type userRecipeService struct {
	userRecipeRepo repository.UserRecipeRepository
	recipeRepo     repository.RecipeRepository
}

func NewUserRecipeService(
	userRecipeRepo repository.UserRecipeRepository,
	recipeRepo repository.RecipeRepository,
) UserRecipeService {
	return &userRecipeService{
		userRecipeRepo: userRecipeRepo,
		recipeRepo:     recipeRepo,
	}
}

func (s *userRecipeService) AddRelation(kind model.RelationKind, userID, recipeID uint) (*model.Recipe, error) {
	logger.Info("Adding user-recipe relation", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
		"kind":      kind,
	})

	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	_, err = s.userRecipeRepo.FindByUserAndRecipe(kind, userID, recipeID)
	if err == nil {
		return nil, ErrRelationExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &model.UserRecipe{
		UserID:   userID,
		RecipeID: recipeID,
		Kind:     kind,
	}
	if err := s.userRecipeRepo.Create(item); err != nil {
		// The unique index catches the race where two identical requests
		// pass the pre-check together; the loser reports a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRelationExists
		}
		return nil, err
	}

	logger.Info("User-recipe relation added", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
		"kind":      kind,
	})
	return recipe, nil
}

func (s *userRecipeService) RemoveRelation(kind model.RelationKind, userID, recipeID uint) error {
	logger.Info("Removing user-recipe relation", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
		"kind":      kind,
	})

	if _, err := s.recipeRepo.FindByID(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	if _, err := s.userRecipeRepo.FindByUserAndRecipe(kind, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRelationNotFound
		}
		return err
	}

	return s.userRecipeRepo.Delete(kind, userID, recipeID)
}
