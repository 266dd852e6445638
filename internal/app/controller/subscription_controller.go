package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodgram-team/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram-team/foodgram-backend/internal/errors"
	"github.com/foodgram-team/foodgram-backend/internal/middleware"
	"github.com/foodgram-team/foodgram-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	subscriptionService service.SubscriptionService
	images              storage.ImageStore
}

func NewSubscriptionController(subscriptionService service.SubscriptionService, images storage.ImageStore) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		images:              images,
	}
}

// SubscribedAuthorResponse is an author entry in the subscription feed.
type SubscribedAuthorResponse struct {
	ID           uint                  `json:"id"`
	Username     string                `json:"username"`
	Email        string                `json:"email"`
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	IsSubscribed bool                  `json:"is_subscribed"`
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// Subscribe follows an author
// POST /api/users/:id/subscribe
func (ctrl *SubscriptionController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	authorID, ok := ctrl.authorIDParam(c)
	if !ok {
		return
	}

	entry, err := ctrl.subscriptionService.Subscribe(userID, authorID)
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "Author not found")
			return
		}
		if errors.Is(err, service.ErrSubscriptionExists) {
			apperrors.Conflict(c, apperrors.SubscriptionExists, "Already subscribed to this author")
			return
		}
		log.Error("Failed to subscribe", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "subscription create")
		return
	}

	c.JSON(http.StatusCreated, ctrl.serializeEntry(*entry))
}

// Unsubscribe stops following an author
// DELETE /api/users/:id/subscribe
func (ctrl *SubscriptionController) Unsubscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	authorID, ok := ctrl.authorIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.subscriptionService.Unsubscribe(userID, authorID); err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "Author not found")
			return
		}
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			apperrors.BadRequest(c, apperrors.SubscriptionNotFound, "Not subscribed to this author")
			return
		}
		log.Error("Failed to unsubscribe", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSubscriptions returns the authors the user follows with recipe previews
// GET /api/users/subscriptions?page=&limit=&recipes_limit=
func (ctrl *SubscriptionController) ListSubscriptions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	offset, limit := parsePagination(c)
	recipesLimit, err := strconv.Atoi(c.DefaultQuery("recipes_limit", "0"))
	if err != nil || recipesLimit < 0 {
		recipesLimit = 0
	}

	entries, total, err := ctrl.subscriptionService.ListSubscriptions(userID, offset, limit, recipesLimit)
	if err != nil {
		log.Error("Failed to list subscriptions", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	results := make([]SubscribedAuthorResponse, 0, len(entries))
	for _, entry := range entries {
		results = append(results, ctrl.serializeEntry(entry))
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": results,
	})
}

func (ctrl *SubscriptionController) serializeEntry(entry service.SubscribedAuthor) SubscribedAuthorResponse {
	recipes := make([]RecipeShortResponse, 0, len(entry.Recipes))
	for _, recipe := range entry.Recipes {
		recipes = append(recipes, recipeShortResponse(recipe, ctrl.images))
	}
	return SubscribedAuthorResponse{
		ID:           entry.Author.ID,
		Username:     entry.Author.Username,
		Email:        entry.Author.Email,
		FirstName:    entry.Author.FirstName,
		LastName:     entry.Author.LastName,
		IsSubscribed: true,
		Recipes:      recipes,
		RecipesCount: entry.RecipesCount,
	}
}

func (ctrl *SubscriptionController) authorIDParam(c *gin.Context) (uint, bool) {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Author id must be a number")
		return 0, false
	}
	return uint(authorID), true
}
