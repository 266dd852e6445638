package repository

import (
	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// RecipeFilter narrows recipe listings. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    uint
	TagSlug     string
	FavoritedBy uint // only recipes this user has favorited
	InCartOf    uint // only recipes in this user's shopping cart
	Offset      int
	Limit       int
}

type RecipeRepository interface {
	FindByID(id uint) (*model.Recipe, error)
	FindAll(filter RecipeFilter) ([]model.Recipe, int64, error)
	FindByAuthorID(authorID uint, limit int) ([]model.Recipe, error)
	CountByAuthorID(authorID uint) (int64, error)
	FindAllImageKeys() ([]string, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) FindByID(id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.
		Preload("Author").
		Preload("Tags.Tag").
		Preload("Ingredients.Ingredient").
		First(&recipe, id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) FindAll(filter RecipeFilter) ([]model.Recipe, int64, error) {
	logger.Debug("Listing recipes in database", map[string]interface{}{
		"author_id":    filter.AuthorID,
		"tag_slug":     filter.TagSlug,
		"favorited_by": filter.FavoritedBy,
		"in_cart_of":   filter.InCartOf,
	})

	query := r.db.Model(&model.Recipe{})
	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.TagSlug != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id"+
				" WHERE rt.recipe_id = recipes.id AND t.slug = ?)",
			filter.TagSlug,
		)
	}
	if filter.FavoritedBy != 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM user_recipes ur WHERE ur.recipe_id = recipes.id"+
				" AND ur.user_id = ? AND ur.kind = ?)",
			filter.FavoritedBy, model.RelationFavorite,
		)
	}
	if filter.InCartOf != 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM user_recipes ur WHERE ur.recipe_id = recipes.id"+
				" AND ur.user_id = ? AND ur.kind = ?)",
			filter.InCartOf, model.RelationShopping,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count recipes in database", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	// Newest first; id breaks ties for rows sharing a publish timestamp.
	var recipes []model.Recipe
	err := query.
		Preload("Author").
		Preload("Tags.Tag").
		Preload("Ingredients.Ingredient").
		Order("recipes.pub_date DESC, recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		logger.Error("Failed to list recipes in database", err)
		return nil, 0, err
	}
	return recipes, total, nil
}

func (r *recipeRepository) FindByAuthorID(authorID uint, limit int) ([]model.Recipe, error) {
	query := r.db.Where("author_id = ?", authorID).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes by author in database", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return recipes, nil
}

// FindAllImageKeys returns every image key referenced by a recipe row.
// Used by the orphaned-image sweep.
func (r *recipeRepository) FindAllImageKeys() ([]string, error) {
	var keys []string
	err := r.db.Model(&model.Recipe{}).Where("image <> ''").Pluck("image", &keys).Error
	if err != nil {
		logger.Error("Failed to list recipe image keys in database", err)
		return nil, err
	}
	return keys, nil
}

func (r *recipeRepository) CountByAuthorID(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
