package repository

import (
	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// RecipeFlags is the per-requester projection of a recipe's relation rows.
type RecipeFlags struct {
	Favorited      bool
	InShoppingCart bool
}

type UserRecipeRepository interface {
	Create(item *model.UserRecipe) error
	FindByUserAndRecipe(kind model.RelationKind, userID, recipeID uint) (*model.UserRecipe, error)
	Delete(kind model.RelationKind, userID, recipeID uint) error
	FlagsForUser(userID uint, recipeIDs []uint) (map[uint]RecipeFlags, error)
}

type userRecipeRepository struct {
	db *gorm.DB
}

func NewUserRecipeRepository(db *gorm.DB) UserRecipeRepository {
	return &userRecipeRepository{db: db}
}

func (r *userRecipeRepository) Create(item *model.UserRecipe) error {
	logger.Debug("Creating user-recipe relation in database", map[string]interface{}{
		"user_id":   item.UserID,
		"recipe_id": item.RecipeID,
		"kind":      item.Kind,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create user-recipe relation in database", err, map[string]interface{}{
			"user_id":   item.UserID,
			"recipe_id": item.RecipeID,
			"kind":      item.Kind,
		})
		return err
	}
	return nil
}

func (r *userRecipeRepository) FindByUserAndRecipe(kind model.RelationKind, userID, recipeID uint) (*model.UserRecipe, error) {
	var item model.UserRecipe
	err := r.db.
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *userRecipeRepository) Delete(kind model.RelationKind, userID, recipeID uint) error {
	logger.Debug("Deleting user-recipe relation from database", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
		"kind":      kind,
	})

	err := r.db.
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&model.UserRecipe{}).Error
	if err != nil {
		logger.Error("Failed to delete user-recipe relation from database", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
			"kind":      kind,
		})
		return err
	}
	return nil
}

// FlagsForUser fetches the favorite/shopping markings one user holds on a set
// of recipes in a single query, keyed by recipe id.
func (r *userRecipeRepository) FlagsForUser(userID uint, recipeIDs []uint) (map[uint]RecipeFlags, error) {
	flags := make(map[uint]RecipeFlags, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return flags, nil
	}

	var rows []model.UserRecipe
	err := r.db.
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&rows).Error
	if err != nil {
		logger.Error("Failed to fetch user-recipe flags from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	for _, row := range rows {
		f := flags[row.RecipeID]
		switch row.Kind {
		case model.RelationFavorite:
			f.Favorited = true
		case model.RelationShopping:
			f.InShoppingCart = true
		}
		flags[row.RecipeID] = f
	}
	return flags, nil
}
