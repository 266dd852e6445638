package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/storage"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"github.com/foodgram-team/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrRecipeForbidden = errors.New("only the author or a moderator may modify this recipe")
)

// ValidationError reports which submitted field violated a constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IngredientSpec is one submitted (ingredient, amount) pairing.
type IngredientSpec struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required"`
}

// RecipeInput carries a full recipe submission.
type RecipeInput struct {
	Name        string           `json:"name" binding:"required"`
	Text        string           `json:"text" binding:"required"`
	Image       string           `json:"image" binding:"required"` // data:image/...;base64,...
	CookingTime int              `json:"cooking_time" binding:"required"`
	TagIDs      []uint           `json:"tags" binding:"required"`
	Ingredients []IngredientSpec `json:"ingredients" binding:"required"`
}

// RecipeUpdateInput carries a partial update; nil fields keep prior values.
// A supplied tag or ingredient set replaces the prior set in full.
type RecipeUpdateInput struct {
	Name        *string          `json:"name"`
	Text        *string          `json:"text"`
	Image       *string          `json:"image"`
	CookingTime *int             `json:"cooking_time"`
	TagIDs      []uint           `json:"tags"`
	Ingredients []IngredientSpec `json:"ingredients"`
}

type RecipeService interface {
	ListRecipes(requesterID uint, filter repository.RecipeFilter) ([]model.Recipe, int64, error)
	GetRecipe(requesterID, recipeID uint) (*model.Recipe, error)
	CreateRecipe(authorID uint, input RecipeInput) (*model.Recipe, error)
	UpdateRecipe(recipeID, requesterID uint, input RecipeUpdateInput) (*model.Recipe, error)
	DeleteRecipe(recipeID, requesterID uint) error
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.TagRepository
	ingredientRepo repository.IngredientRepository
	userRecipeRepo repository.UserRecipeRepository
	userRepo       repository.UserRepository
	images         storage.ImageStore
	db             *gorm.DB
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	userRecipeRepo repository.UserRecipeRepository,
	userRepo repository.UserRepository,
	images storage.ImageStore,
	db *gorm.DB,
) RecipeService {
	return &recipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		userRecipeRepo: userRecipeRepo,
		userRepo:       userRepo,
		images:         images,
		db:             db,
	}
}

func (s *recipeService) ListRecipes(requesterID uint, filter repository.RecipeFilter) ([]model.Recipe, int64, error) {
	recipes, total, err := s.recipeRepo.FindAll(filter)
	if err != nil {
		return nil, 0, err
	}

	if err := s.applyFlags(requesterID, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (s *recipeService) GetRecipe(requesterID, recipeID uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	recipes := []model.Recipe{*recipe}
	if err := s.applyFlags(requesterID, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// applyFlags fills the per-requester is_favorited / is_in_shopping_cart
// projection. Anonymous requesters (id 0) get all-false flags.
func (s *recipeService) applyFlags(requesterID uint, recipes []model.Recipe) error {
	if requesterID == 0 || len(recipes) == 0 {
		return nil
	}

	ids := make([]uint, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}

	flags, err := s.userRecipeRepo.FlagsForUser(requesterID, ids)
	if err != nil {
		return err
	}
	for i := range recipes {
		f := flags[recipes[i].ID]
		recipes[i].IsFavorited = f.Favorited
		recipes[i].IsInShoppingCart = f.InShoppingCart
	}
	return nil
}

func (s *recipeService) CreateRecipe(authorID uint, input RecipeInput) (*model.Recipe, error) {
	logger.Info("Creating recipe", map[string]interface{}{
		"author_id":   authorID,
		"name":        input.Name,
		"tags":        len(input.TagIDs),
		"ingredients": len(input.Ingredients),
	})

	if err := validateCookingTime(input.CookingTime); err != nil {
		return nil, err
	}
	if err := s.validateTagIDs(input.TagIDs); err != nil {
		return nil, err
	}
	if err := s.validateIngredientSpecs(input.Ingredients); err != nil {
		return nil, err
	}

	payload, err := util.DecodeImagePayload(input.Image)
	if err != nil {
		return nil, &ValidationError{Field: "image", Reason: "must be a base64 image data URI"}
	}
	imageKey, err := s.images.Save(context.Background(), payload.Data, payload.Ext)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Name:        input.Name,
		Text:        input.Text,
		Image:       imageKey,
		CookingTime: input.CookingTime,
		AuthorID:    authorID,
	}

	// Recipe row and every join row commit as one unit; a recipe missing
	// part of its ingredient set must never be observable.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		if err := s.replaceTags(tx, recipe.ID, input.TagIDs); err != nil {
			return err
		}
		return s.replaceIngredients(tx, recipe.ID, input.Ingredients)
	})
	if err != nil {
		logger.Error("Failed to create recipe, removing stored image", err, map[string]interface{}{
			"author_id": authorID,
			"image_key": imageKey,
		})
		if delErr := s.images.Delete(context.Background(), imageKey); delErr != nil {
			logger.Warn("Failed to remove image after aborted create", map[string]interface{}{
				"image_key": imageKey,
				"error":     delErr.Error(),
			})
		}
		return nil, err
	}

	logger.Info("Recipe created successfully", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": authorID,
	})
	return s.recipeRepo.FindByID(recipe.ID)
}

func (s *recipeService) UpdateRecipe(recipeID, requesterID uint, input RecipeUpdateInput) (*model.Recipe, error) {
	logger.Info("Updating recipe", map[string]interface{}{
		"recipe_id":    recipeID,
		"requester_id": requesterID,
	})

	recipe, err := s.authorizeMutation(recipeID, requesterID)
	if err != nil {
		return nil, err
	}

	if input.CookingTime != nil {
		if err := validateCookingTime(*input.CookingTime); err != nil {
			return nil, err
		}
	}
	if input.TagIDs != nil {
		if err := s.validateTagIDs(input.TagIDs); err != nil {
			return nil, err
		}
	}
	if input.Ingredients != nil {
		if err := s.validateIngredientSpecs(input.Ingredients); err != nil {
			return nil, err
		}
	}

	oldImageKey := ""
	if input.Image != nil {
		payload, err := util.DecodeImagePayload(*input.Image)
		if err != nil {
			return nil, &ValidationError{Field: "image", Reason: "must be a base64 image data URI"}
		}
		newKey, err := s.images.Save(context.Background(), payload.Data, payload.Ext)
		if err != nil {
			return nil, err
		}
		oldImageKey = recipe.Image
		recipe.Image = newKey
	}
	if input.Name != nil {
		recipe.Name = *input.Name
	}
	if input.Text != nil {
		recipe.Text = *input.Text
	}
	if input.CookingTime != nil {
		recipe.CookingTime = *input.CookingTime
	}

	// A supplied ingredient or tag set replaces the prior one atomically
	// with the field updates; pub_date is never touched.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		}
		if err := tx.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
			return err
		}
		if input.TagIDs != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeTag{}).Error; err != nil {
				return err
			}
			if err := s.replaceTags(tx, recipe.ID, input.TagIDs); err != nil {
				return err
			}
		}
		if input.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := s.replaceIngredients(tx, recipe.ID, input.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return nil, err
	}

	if oldImageKey != "" {
		if delErr := s.images.Delete(context.Background(), oldImageKey); delErr != nil {
			logger.Warn("Failed to remove replaced image", map[string]interface{}{
				"image_key": oldImageKey,
				"error":     delErr.Error(),
			})
		}
	}

	logger.Info("Recipe updated successfully", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return s.recipeRepo.FindByID(recipeID)
}

func (s *recipeService) DeleteRecipe(recipeID, requesterID uint) error {
	logger.Info("Deleting recipe", map[string]interface{}{
		"recipe_id":    recipeID,
		"requester_id": requesterID,
	})

	recipe, err := s.authorizeMutation(recipeID, requesterID)
	if err != nil {
		return err
	}

	// Cascade synchronously: join rows and both relation kinds go with the
	// recipe in one transaction, leaving zero referencing rows.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.UserRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, recipeID).Error
	})
	if err != nil {
		logger.Error("Failed to delete recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return err
	}

	if recipe.Image != "" {
		if delErr := s.images.Delete(context.Background(), recipe.Image); delErr != nil {
			logger.Warn("Failed to remove image of deleted recipe", map[string]interface{}{
				"recipe_id": recipeID,
				"image_key": recipe.Image,
				"error":     delErr.Error(),
			})
		}
	}

	logger.Info("Recipe deleted successfully", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return nil
}

// authorizeMutation loads the recipe and checks the requester is its author
// or a moderator.
func (s *recipeService) authorizeMutation(recipeID, requesterID uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if recipe.AuthorID == requesterID {
		return recipe, nil
	}

	requester, err := s.userRepo.FindByID(requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeForbidden
		}
		return nil, err
	}
	if !requester.IsModerator() {
		logger.Warn("Recipe mutation forbidden", map[string]interface{}{
			"recipe_id":    recipeID,
			"requester_id": requesterID,
			"author_id":    recipe.AuthorID,
		})
		return nil, ErrRecipeForbidden
	}
	return recipe, nil
}

func validateCookingTime(value int) error {
	if value < model.MinCookingTime || value > model.MaxCookingTime {
		return &ValidationError{
			Field:  "cooking_time",
			Reason: fmt.Sprintf("must be between %d and %d", model.MinCookingTime, model.MaxCookingTime),
		}
	}
	return nil
}

func (s *recipeService) validateTagIDs(ids []uint) error {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return &ValidationError{Field: "tags", Reason: fmt.Sprintf("tag %d submitted twice", id)}
		}
		seen[id] = struct{}{}
	}

	tags, err := s.tagRepo.FindByIDs(ids)
	if err != nil {
		return err
	}
	if len(tags) != len(ids) {
		return &ValidationError{Field: "tags", Reason: "references a tag that does not exist"}
	}
	return nil
}

// validateIngredientSpecs rejects duplicate ingredient ids up front: a
// duplicate would violate the (recipe, ingredient) uniqueness invariant
// mid-transaction and must not cause a partial insert.
func (s *recipeService) validateIngredientSpecs(specs []IngredientSpec) error {
	if len(specs) == 0 {
		return &ValidationError{Field: "ingredients", Reason: "at least one ingredient is required"}
	}

	ids := make([]uint, 0, len(specs))
	seen := make(map[uint]struct{}, len(specs))
	for _, spec := range specs {
		if _, dup := seen[spec.ID]; dup {
			return &ValidationError{
				Field:  "ingredients",
				Reason: fmt.Sprintf("ingredient %d submitted twice", spec.ID),
			}
		}
		seen[spec.ID] = struct{}{}
		ids = append(ids, spec.ID)

		if spec.Amount < model.MinAmount || spec.Amount > model.MaxAmount {
			return &ValidationError{
				Field:  "ingredients",
				Reason: fmt.Sprintf("amount must be between %d and %d", model.MinAmount, model.MaxAmount),
			}
		}
	}

	ingredients, err := s.ingredientRepo.FindByIDs(ids)
	if err != nil {
		return err
	}
	if len(ingredients) != len(ids) {
		return &ValidationError{Field: "ingredients", Reason: "references an ingredient that does not exist"}
	}
	return nil
}

func (s *recipeService) replaceTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]model.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, model.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	return tx.Create(&rows).Error
}

func (s *recipeService) replaceIngredients(tx *gorm.DB, recipeID uint, specs []IngredientSpec) error {
	if len(specs) == 0 {
		return nil
	}
	rows := make([]model.RecipeIngredient, 0, len(specs))
	for _, spec := range specs {
		rows = append(rows, model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: spec.ID,
			Amount:       spec.Amount,
		})
	}
	return tx.Create(&rows).Error
}
