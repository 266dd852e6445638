package controller

import (
	"strconv"
	"time"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/storage"
	"github.com/foodgram-team/foodgram-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Response shapes shared across controllers. Colors render as #RRGGBB and
// image keys render as URLs; neither raw form leaves the API.

type TagResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientAmountResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type AuthorResponse struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Name             string                     `json:"name"`
	Text             string                     `json:"text"`
	Image            string                     `json:"image"`
	CookingTime      int                        `json:"cooking_time"`
	PubDate          time.Time                  `json:"pub_date"`
	Author           AuthorResponse             `json:"author"`
	Tags             []TagResponse              `json:"tags"`
	Ingredients      []IngredientAmountResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
}

// RecipeShortResponse is the compact shape used in favorite/cart replies and
// subscription previews.
type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func tagResponse(tag model.Tag) TagResponse {
	return TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: util.FormatColor(tag.Color),
		Slug:  tag.Slug,
	}
}

func authorResponse(user model.User, isSubscribed bool) AuthorResponse {
	return AuthorResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func recipeResponse(recipe model.Recipe, images storage.ImageStore, authorSubscribed bool) RecipeResponse {
	tags := make([]TagResponse, 0, len(recipe.Tags))
	for _, rt := range recipe.Tags {
		tags = append(tags, tagResponse(rt.Tag))
	}

	ingredients := make([]IngredientAmountResponse, 0, len(recipe.Ingredients))
	for _, ri := range recipe.Ingredients {
		ingredients = append(ingredients, IngredientAmountResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}

	return RecipeResponse{
		ID:               recipe.ID,
		Name:             recipe.Name,
		Text:             recipe.Text,
		Image:            images.URL(recipe.Image),
		CookingTime:      recipe.CookingTime,
		PubDate:          recipe.PubDate,
		Author:           authorResponse(recipe.Author, authorSubscribed),
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      recipe.IsFavorited,
		IsInShoppingCart: recipe.IsInShoppingCart,
	}
}

func recipeShortResponse(recipe model.Recipe, images storage.ImageStore) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       images.URL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}

const defaultPageSize = 6

// parsePagination reads page/limit query parameters, 1-based page.
func parsePagination(c *gin.Context) (offset, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	return (page - 1) * limit, limit
}
