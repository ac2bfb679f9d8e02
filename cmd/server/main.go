package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hisakawa/tsunagari/internal/handlers"
	infracache "github.com/hisakawa/tsunagari/internal/infrastructure/cache"
	"github.com/hisakawa/tsunagari/internal/infrastructure/config"
	"github.com/hisakawa/tsunagari/internal/infrastructure/database"
	"github.com/hisakawa/tsunagari/internal/infrastructure/metrics"
	"github.com/hisakawa/tsunagari/internal/repositories/postgres"
	"github.com/hisakawa/tsunagari/internal/services"
	"github.com/hisakawa/tsunagari/pkg/cache"
	"github.com/hisakawa/tsunagari/pkg/cache/memorycache"

	"github.com/gin-gonic/gin"
)

const (
	defaultEnv = "dev"

	metricsUpdateInterval = 10 * time.Second
	shutdownTimeout       = 30 * time.Second
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Get environment from ENV variable or use default
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}
	if env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize configuration
	if err := config.InitConfig(env); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	slog.Info("connected to database",
		"user", cfg.Database.User,
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Database)

	// Initialize repositories
	userRepo := postgres.NewPostgresUserRepository(pg.DB)
	postRepo := postgres.NewPostgresPostRepository(pg.DB)
	commentRepo := postgres.NewPostgresCommentRepository(pg.DB)
	groupRepo := postgres.NewPostgresGroupRepository(pg.DB)

	// Profile cache with cross-instance invalidation over LISTEN/NOTIFY
	var profileCache cache.Cache
	var invalidator *infracache.ProfileInvalidator
	cacheTTL := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	if cfg.Cache.Enabled {
		profileCache, err = memorycache.New(&memorycache.Config{
			MaxEntries:    cfg.Cache.MaxEntries,
			DefaultTTL:    cacheTTL,
			EnableMetrics: cfg.Cache.Metrics,
		})
		if err != nil {
			log.Fatalf("Failed to create profile cache: %v", err)
		}

		invalidator = infracache.NewProfileInvalidator(profileCache, cfg.Database.ConnectionString())
		if err := invalidator.Start(); err != nil {
			log.Fatalf("Failed to start profile invalidator: %v", err)
		}
		slog.Info("profile cache enabled", "max_entries", cfg.Cache.MaxEntries, "ttl", cacheTTL)
	}

	// Initialize services
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, tokenTTL)
	userService := services.NewUserService(userRepo, profileCache, cacheTTL)
	relationshipService := services.NewRelationshipService(userRepo)
	postService := services.NewPostService(postRepo, userRepo)
	commentService := services.NewCommentService(commentRepo, postRepo)
	groupService := services.NewGroupService(groupRepo, userRepo)

	// Metrics collection and Prometheus export
	collector := metrics.NewCollector()
	if profileCache != nil {
		collector.SetCache(profileCache)
	}
	exporter := metrics.NewPrometheusExporter(collector)

	updateDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(metricsUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-updateDone:
				return
			case <-ticker.C:
				exporter.Update()
			}
		}
	}()

	router := handlers.NewRouter(handlers.RouterConfig{
		AuthService:         authService,
		UserService:         userService,
		RelationshipService: relationshipService,
		PostService:         postService,
		CommentService:      commentService,
		GroupService:        groupService,
		Middleware:          []gin.HandlerFunc{metrics.Middleware(collector, exporter)},
	})

	apiServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	serverErrors := make(chan error, 2)
	go func() {
		slog.Info("API server listening", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("API server error: %w", err)
		}
	}()
	go func() {
		slog.Info("metrics server listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		slog.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown error", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown error", "error", err)
		}

		close(updateDone)

		if invalidator != nil {
			if err := invalidator.Stop(); err != nil {
				slog.Error("profile invalidator stop error", "error", err)
			}
		}
		if profileCache != nil {
			if err := profileCache.Close(); err != nil {
				slog.Error("profile cache close error", "error", err)
			}
		}
		if err := pg.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}

		slog.Info("shutdown complete")
	}
}
