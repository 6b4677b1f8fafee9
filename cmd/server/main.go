package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gridworks/plotregistry/api/internal/config"
	"github.com/gridworks/plotregistry/api/internal/database"
	"github.com/gridworks/plotregistry/api/internal/handlers"
	"github.com/gridworks/plotregistry/api/internal/logger"
	"github.com/gridworks/plotregistry/api/internal/mailer"
	"github.com/gridworks/plotregistry/api/internal/middleware"
	"github.com/gridworks/plotregistry/api/internal/repository"
	"github.com/gridworks/plotregistry/api/internal/services"
	"github.com/gridworks/plotregistry/api/internal/storage"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Plot Registry API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Uploads object store and outbound mail
	store := storage.NewFSStore(cfg.Storage.UploadsPath, cfg.Storage.BaseURL, cfg.Storage.SigningSecret)
	mail := mailer.New(cfg.SMTP)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository and service layers
	plotRepo := repository.NewPlotRepository(db)
	userRepo := repository.NewUserRepository(db)

	plotService := services.NewPlotService(plotRepo, log)
	summaryService := services.NewSummaryService(plotRepo, log)
	recordService := services.NewRecordService(plotRepo, store, log, cfg.Storage.URLTTL)
	authService := services.NewAuthService(userRepo, mail, log, cfg.SMTP.ResetURLBase, cfg.Auth.AllowLegacyPlaintext)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	lookupHandler := handlers.NewLookupHandler(plotService)
	recordHandler := handlers.NewRecordHandler(recordService, plotService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	uploadsHandler := handlers.NewUploadsHandler(store)

	// Register API routes
	api := router.Group("/api")
	{
		api.POST("/login", authHandler.Login)
		api.POST("/users/add", authHandler.AddUser)
		api.POST("/users/update-password", authHandler.UpdatePassword)
		api.POST("/forgot-password", authHandler.ForgotPassword)
		api.POST("/reset-password", authHandler.ResetPassword)

		api.GET("/nodes", lookupHandler.Nodes)
		api.GET("/sectors", lookupHandler.Sectors)
		api.GET("/blocks", lookupHandler.Blocks)
		api.GET("/plots", lookupHandler.Plots)
		api.POST("/search", lookupHandler.Search)

		api.GET("/record/:id", recordHandler.Detail)
		api.PUT("/record/:id", recordHandler.Update)

		api.GET("/summary", summaryHandler.ByPlotUse)
		api.GET("/summary/department", summaryHandler.ByDepartment)
	}

	// Signed object downloads
	router.GET("/uploads/*path", uploadsHandler.Download)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
