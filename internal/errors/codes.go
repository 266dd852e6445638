package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to localized messages.

const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"

	// Authorization
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAuthorOnly   = "AUTHZ_AUTHOR_ONLY"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// Validation
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationDuplicateItem = "VALIDATION_DUPLICATE_ITEM"

	// Generic resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Recipes
	RecipeNotFound           = "RECIPE_NOT_FOUND"
	RecipeInvalidCookingTime = "RECIPE_INVALID_COOKING_TIME"

	// Reference data
	TagNotFound        = "TAG_NOT_FOUND"
	IngredientNotFound = "INGREDIENT_NOT_FOUND"

	// User-recipe relations
	RelationAlreadyExists = "RELATION_ALREADY_EXISTS"
	RelationNotFound      = "RELATION_NOT_FOUND"

	// Subscriptions
	SubscriptionExists   = "SUBSCRIPTION_EXISTS"
	SubscriptionNotFound = "SUBSCRIPTION_NOT_FOUND"

	// Users
	UserNotFound = "USER_NOT_FOUND"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalStorageError  = "INTERNAL_STORAGE_ERROR"
)
