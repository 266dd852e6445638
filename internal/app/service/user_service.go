package service

import (
	"context"
	"errors"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/storage"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	GetUser(id uint) (*model.User, error)
	ListUsers(offset, limit int) ([]model.User, int64, error)
	DeleteUser(id uint) error
}

type userService struct {
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
	images     storage.ImageStore
	db         *gorm.DB
}

func NewUserService(
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
	images storage.ImageStore,
	db *gorm.DB,
) UserService {
	return &userService{
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
		images:     images,
		db:         db,
	}
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(offset, limit int) ([]model.User, int64, error) {
	return s.userRepo.FindAll(offset, limit)
}

// DeleteUser removes a user and everything hanging off them: authored
// recipes with their join rows and relation rows, the user's own favorite
// and cart rows, and subscriptions in both directions.
func (s *userService) DeleteUser(id uint) error {
	logger.Info("Deleting user", map[string]interface{}{
		"user_id": id,
	})

	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	recipes, err := s.recipeRepo.FindByAuthorID(id, 0)
	if err != nil {
		return err
	}
	recipeIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(recipeIDs) > 0 {
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&model.UserRecipe{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&model.RecipeTag{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&model.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := tx.Where("author_id = ?", id).Delete(&model.Recipe{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&model.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	for _, recipe := range recipes {
		if recipe.Image == "" {
			continue
		}
		if delErr := s.images.Delete(context.Background(), recipe.Image); delErr != nil {
			logger.Warn("Failed to remove image of deleted recipe", map[string]interface{}{
				"recipe_id": recipe.ID,
				"image_key": recipe.Image,
				"error":     delErr.Error(),
			})
		}
	}

	logger.Info("User deleted successfully", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
