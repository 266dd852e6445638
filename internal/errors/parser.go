package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates storage-layer errors into codes and messages without
// leaking driver internals. Context is a short hint like "recipe" or
// "subscription create" used to pick a specific message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Postgres unique constraint violation (23505)
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Referenced entity does not exist",
		}
	}

	// Not null constraint violation (23502)
	if strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Storage unavailable, please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
}

// ParseAndRespond translates err with ParseError and writes the response.
// fallbackStatus is used unless the parsed code implies a better one.
func ParseAndRespond(c *gin.Context, fallbackStatus int, err error, context string) {
	info := ParseError(err, context)

	status := fallbackStatus
	switch info.Code {
	case ResourceNotFound:
		status = http.StatusNotFound
	case ResourceAlreadyExists, AuthEmailAlreadyExists, AuthUsernameExists,
		SubscriptionExists, RelationAlreadyExists:
		status = http.StatusConflict
	case ValidationRequired:
		status = http.StatusBadRequest
	}

	RespondWithError(c, status, info.Code, info.Message)
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already in use"}
	case strings.Contains(errLower, "username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "Username is already in use"}
	case strings.Contains(errLower, "idx_subscription_user_author"):
		return ErrorInfo{Code: SubscriptionExists, Message: "Subscription already exists"}
	case strings.Contains(errLower, "idx_user_recipe_kind"):
		return ErrorInfo{Code: RelationAlreadyExists, Message: "Relation already exists"}
	case strings.Contains(errLower, "idx_recipe_tag"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Recipe already carries this tag"}
	case strings.Contains(errLower, "idx_recipe_ingredient"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ingredient already present in recipe"}
	case strings.Contains(errLower, "tags") && strings.Contains(errLower, "color"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Tag color is already in use"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Entity already exists"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "recipe"):
		return "Recipe not found"
	case strings.Contains(contextLower, "tag"):
		return "Tag not found"
	case strings.Contains(contextLower, "ingredient"):
		return "Ingredient not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	case strings.Contains(contextLower, "subscription"):
		return "Subscription not found"
	}
	return "Requested entity not found"
}
