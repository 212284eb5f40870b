package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/neuralpath/backend/internal/analysis"
	"github.com/JonnyWalker81/neuralpath/backend/internal/apierror"
	"github.com/JonnyWalker81/neuralpath/backend/internal/handlers"
	"github.com/JonnyWalker81/neuralpath/backend/internal/logger"
	"github.com/JonnyWalker81/neuralpath/backend/internal/metrics"
	"github.com/JonnyWalker81/neuralpath/backend/internal/middleware"
	"github.com/JonnyWalker81/neuralpath/backend/internal/repository"
	"github.com/JonnyWalker81/neuralpath/backend/internal/service"
	"github.com/JonnyWalker81/neuralpath/backend/pkg/supabase"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Default()
	log.Info("starting NeuralPath API server",
		logger.String("env", cfg.Server.Env),
		logger.String("supabase_url", cfg.Supabase.URL),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Supabase client
	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)

	recorder := metrics.New()
	analyzer := analysis.New(cfg.Analysis)
	windows := service.WindowPolicy{
		DefaultDays: cfg.Server.DefaultWindowDays,
		MaxDays:     cfg.Server.MaxWindowDays,
	}

	// Initialize repositories
	recordRepo := repository.NewRecordRepository(supabaseClient)

	// Initialize services
	recordService := service.NewRecordService(recordRepo, recorder)
	analysisService := service.NewAnalysisService(recordRepo, analyzer, recorder)
	exportService := service.NewExportService(recordRepo, analyzer, recorder)

	// Rate limiters
	generalLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerMinute, time.Minute, "general")
	analysisLimiter := middleware.NewRateLimiter(cfg.Server.AnalysisRateLimitPerMinute, time.Minute, "analysis")
	go generalLimiter.Run(ctx)
	go analysisLimiter.Run(ctx)

	// Set Gin mode based on environment
	production := cfg.Server.Env == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	apierror.UseJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics(recorder))
	router.Use(middleware.SecurityHeaders(production))
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	router.GET("/health", handlers.Health(cfg.Server.Env))
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(recorder.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(supabaseClient), generalLimiter.Middleware())
	handlers.RegisterRoutes(v1, handlers.Handlers{
		Records:  handlers.NewRecordHandler(recordService, windows),
		Analysis: handlers.NewAnalysisHandler(analysisService, windows),
		Export:   handlers.NewExportHandler(exportService, windows),
	}, analysisLimiter.Middleware())

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("server stopped gracefully")
	return nil
}
