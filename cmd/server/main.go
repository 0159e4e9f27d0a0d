package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goyalg325/wikiserver/internal/auth"
	"github.com/goyalg325/wikiserver/internal/blob"
	"github.com/goyalg325/wikiserver/internal/config"
	"github.com/goyalg325/wikiserver/internal/data"
	"github.com/goyalg325/wikiserver/internal/handler"
	"github.com/goyalg325/wikiserver/internal/logger"
	"github.com/goyalg325/wikiserver/internal/middleware"
	"github.com/goyalg325/wikiserver/internal/render"
	"github.com/goyalg325/wikiserver/internal/service"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Pre-flight Checks ---
	if cfg.Auth.SecretKey == "" {
		log.Fatal(errors.New("token secret key not set"), "Please set a secure WIKI_AUTH_SECRET_KEY environment variable.")
	}

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB.DSN, "migrations"); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Content Blob Store ---
	var blobs blob.Store
	if !cfg.Blob.Inline {
		blobs, err = blob.NewFileStore(cfg.Blob.Dir)
		if err != nil {
			log.Fatal(err, "Failed to initialize blob store")
		}
	}

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	tokens := auth.NewTokenManager(cfg.Auth.SecretKey, time.Duration(cfg.Auth.TokenLifetime)*time.Hour)
	enforcer, err := auth.NewEnforcer("sqlite", cfg.DB.DSN, "auth_model.conf")
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	pageRepository := data.NewSQLPageRepository(db)
	categoryRepository := data.NewCategoryRepository(db)
	directPageRepository := data.NewDirectPageRepository(db)
	userRepository := data.NewUserRepository(db)

	pageService := service.NewPageService(pageRepository, categoryRepository, directPageRepository, blobs, cfg.Blob.Inline, log)
	authService := service.NewAuthService(userRepository, tokens, log)

	pageHandler := handler.NewPageHandler(pageService, render.New(), log)
	categoryHandler := handler.NewCategoryHandler(pageService)
	authHandler := handler.NewAuthHandler(authService)

	authnMiddleware := middleware.Authenticator(tokens)
	authzMiddleware := middleware.Authorizer(enforcer)
	errorMiddleware := middleware.Error(log)

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(pageHandler, categoryHandler, authHandler, authnMiddleware, authzMiddleware, errorMiddleware)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
