package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recipegram-app/recipegram/internal/auth"
	"github.com/recipegram-app/recipegram/internal/config"
	"github.com/recipegram-app/recipegram/internal/database"
	recipesdb "github.com/recipegram-app/recipegram/internal/database/recipes"
	"github.com/recipegram-app/recipegram/internal/database/users"
	httpcontrollers "github.com/recipegram-app/recipegram/internal/http"
	"github.com/recipegram-app/recipegram/internal/media"
	"github.com/recipegram-app/recipegram/internal/scheduler"
	"github.com/recipegram-app/recipegram/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires all components and starts serving.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Recipegram v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	mediaStore, err := media.NewStore(cfg.Media.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}
	log.Printf("Media store initialized at %s", mediaStore.Dir())

	usersRepo := users.NewRepository(db.DB)
	recipesRepo := recipesdb.NewRepository(db.DB)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	authService := auth.NewService(usersRepo, mediaStore, hasher)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	recipeService := services.NewRecipeService(recipesRepo, mediaStore)

	var sweeper *scheduler.MediaSweeper
	if cfg.Media.SweepEnabled {
		sweeper = scheduler.NewMediaSweeper(db, cfg.Media.Dir, cfg.Media.SweepMinAge)
		if err := sweeper.Start(context.Background(), cfg.Media.SweepSchedule); err != nil {
			log.Fatalf("Failed to start media sweeper: %v", err)
		}
	} else {
		log.Printf("Media sweeper: disabled")
	}

	router := httpcontrollers.NewRouter(httpcontrollers.RouterConfig{
		Database:       db,
		RecipesRepo:    recipesRepo,
		RecipeService:  recipeService,
		AuthService:    authService,
		SessionManager: sessionManager,
		MediaDir:       cfg.Media.Dir,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if sweeper != nil {
			sweeper.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
