package router

import (
	"github.com/foodgram-team/foodgram-backend/config"
	"github.com/foodgram-team/foodgram-backend/internal/app/controller"
	"github.com/foodgram-team/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController         *controller.AuthController
	userController         *controller.UserController
	tagController          *controller.TagController
	ingredientController   *controller.IngredientController
	recipeController       *controller.RecipeController
	subscriptionController *controller.SubscriptionController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	tagController *controller.TagController,
	ingredientController *controller.IngredientController,
	recipeController *controller.RecipeController,
	subscriptionController *controller.SubscriptionController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		userController:         userController,
		tagController:          tagController,
		ingredientController:   ingredientController,
		recipeController:       recipeController,
		subscriptionController: subscriptionController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	})

	// Serve locally stored recipe images in development
	if r.config.Storage.Backend == "local" {
		router.Static("/media/recipes", r.config.Storage.LocalDir)
	}

	api := router.Group("/api")
	{
		auth := api.Group("/auth/token")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		users := api.Group("/users")
		{
			users.POST("", r.userController.Register)
			users.GET("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.userController.ListUsers,
			)
			users.GET("/me", r.authMiddleware.Authenticate(), r.userController.Me)
			users.POST("/set_password", r.authMiddleware.Authenticate(), r.authController.SetPassword)
			users.GET("/subscriptions", r.authMiddleware.Authenticate(), r.subscriptionController.ListSubscriptions)
			users.GET("/:id", r.authMiddleware.Authenticate(), r.userController.GetUser)
			users.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.userController.DeleteUser,
			)
			users.POST("/:id/subscribe", r.authMiddleware.Authenticate(), r.subscriptionController.Subscribe)
			users.DELETE("/:id/subscribe", r.authMiddleware.Authenticate(), r.subscriptionController.Unsubscribe)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", r.tagController.ListTags)
			tags.GET("/:id", r.tagController.GetTag)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("", r.ingredientController.ListIngredients)
			ingredients.GET("/:id", r.ingredientController.GetIngredient)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("", r.authMiddleware.OptionalAuthenticate(), r.recipeController.ListRecipes)
			recipes.GET("/download_shopping_cart", r.authMiddleware.Authenticate(), r.recipeController.DownloadShoppingCart)
			recipes.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.recipeController.GetRecipe)
			recipes.POST("", r.authMiddleware.Authenticate(), r.recipeController.CreateRecipe)
			recipes.PATCH("/:id", r.authMiddleware.Authenticate(), r.recipeController.UpdateRecipe)
			recipes.PUT("/:id", r.authMiddleware.Authenticate(), r.recipeController.UpdateRecipe)
			recipes.DELETE("/:id", r.authMiddleware.Authenticate(), r.recipeController.DeleteRecipe)

			recipes.POST("/:id/favorite", r.authMiddleware.Authenticate(), r.recipeController.AddFavorite)
			recipes.DELETE("/:id/favorite", r.authMiddleware.Authenticate(), r.recipeController.RemoveFavorite)
			recipes.POST("/:id/shopping_cart", r.authMiddleware.Authenticate(), r.recipeController.AddToShoppingCart)
			recipes.DELETE("/:id/shopping_cart", r.authMiddleware.Authenticate(), r.recipeController.RemoveFromShoppingCart)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
