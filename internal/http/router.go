package http

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/recipegram-app/recipegram/internal/auth"
	"github.com/recipegram-app/recipegram/internal/database"
	"github.com/recipegram-app/recipegram/internal/database/recipes"
	"github.com/recipegram-app/recipegram/internal/services"
)

// RouterConfig carries all router dependencies, improving testability and
// reducing parameter count.
type RouterConfig struct {
	Database       *database.Database
	RecipesRepo    *recipes.Repository
	RecipeService  *services.RecipeService
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	MediaDir       string
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cfg.SessionManager.SessionLoadSave())

	authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager)
	authController.RegisterRoutes(router)

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	recipesController := NewRecipesController(cfg.RecipesRepo, cfg.RecipeService)
	router.GET("/api/recipes", recipesController.Feed)
	router.GET("/api/recipes/:id", recipesController.Detail)

	// Persisted images; names are flattened to their base to keep requests
	// inside the media directory.
	router.GET("/media/:name", func(c *gin.Context) {
		name := filepath.Base(c.Param("name"))
		c.File(filepath.Join(cfg.MediaDir, name))
	})

	authMiddleware := auth.NewMiddleware(cfg.SessionManager)
	authorized := router.Group("/api", authMiddleware.RequireAuth())
	{
		authorized.POST("/recipes", recipesController.Publish)
		authorized.DELETE("/recipes/:id", recipesController.Delete)
		authorized.GET("/users/me/recipes", recipesController.MyRecipes)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	})

	return router
}
