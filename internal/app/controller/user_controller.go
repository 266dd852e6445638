package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram-team/foodgram-backend/internal/errors"
	"github.com/foodgram-team/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService         service.UserService
	authService         service.AuthService
	subscriptionService service.SubscriptionService
}

func NewUserController(
	userService service.UserService,
	authService service.AuthService,
	subscriptionService service.SubscriptionService,
) *UserController {
	return &UserController{
		userService:         userService,
		authService:         authService,
		subscriptionService: subscriptionService,
	}
}

// Register creates a new user account
// POST /api/users
func (ctrl *UserController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Registration fields are missing or malformed")
		return
	}

	user, err := ctrl.authService.Register(req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email is already registered")
			return
		}
		if errors.Is(err, service.ErrUsernameTaken) {
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username is already taken")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

// ListUsers returns a page of users
// GET /api/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	offset, limit := parsePagination(c)
	users, total, err := ctrl.userService.ListUsers(offset, limit)
	if err != nil {
		log.Error("Failed to list users", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	requesterID, _ := middleware.GetUserID(c)
	results := make([]AuthorResponse, 0, len(users))
	for _, user := range users {
		subscribed, err := ctrl.subscriptionService.IsSubscribed(requesterID, user.ID)
		if err != nil {
			log.Error("Failed to check subscription", err, map[string]interface{}{
				"author_id": user.ID,
			})
			apperrors.InternalError(c, "")
			return
		}
		results = append(results, authorResponse(user, subscribed))
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": results,
	})
}

// GetUser returns one user's profile
// GET /api/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "User id must be a number")
		return
	}

	user, err := ctrl.userService.GetUser(uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	requesterID, _ := middleware.GetUserID(c)
	subscribed, err := ctrl.subscriptionService.IsSubscribed(requesterID, user.ID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, authorResponse(*user, subscribed))
}

// Me returns the authenticated user's own profile
// GET /api/users/me
func (ctrl *UserController) Me(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.userService.GetUser(userID)
	if err != nil {
		log.Error("Failed to fetch own profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, authorResponse(*user, false))
}

// DeleteUser removes a user and everything they authored (admin only)
// DELETE /api/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	role, _ := middleware.GetUserRole(c)
	if role != model.RoleAdmin {
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "Only administrators may delete users")
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "User id must be a number")
		return
	}

	if err := ctrl.userService.DeleteUser(uint(userID)); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
