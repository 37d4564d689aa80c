// Gram Seva backend server: citizen grievance submission, supervisor routing
// and the officer/admin console API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gramseva/gram-seva-backend/internal/api"
	authapi "github.com/gramseva/gram-seva-backend/internal/api/auth"
	chatapi "github.com/gramseva/gram-seva-backend/internal/api/chat"
	complaintsapi "github.com/gramseva/gram-seva-backend/internal/api/complaints"
	geocodeapi "github.com/gramseva/gram-seva-backend/internal/api/geocode"
	locationsapi "github.com/gramseva/gram-seva-backend/internal/api/locations"
	"github.com/gramseva/gram-seva-backend/internal/cache"
	"github.com/gramseva/gram-seva-backend/internal/chat"
	"github.com/gramseva/gram-seva-backend/internal/config"
	"github.com/gramseva/gram-seva-backend/internal/geo"
	"github.com/gramseva/gram-seva-backend/internal/geocode"
	"github.com/gramseva/gram-seva-backend/internal/repository"
	"github.com/gramseva/gram-seva-backend/internal/service/auth"
	"github.com/gramseva/gram-seva-backend/internal/service/complaints"
	"github.com/gramseva/gram-seva-backend/internal/service/routing"
	"github.com/gramseva/gram-seva-backend/internal/service/scheduler"
	"github.com/gramseva/gram-seva-backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// .env is optional; container deployments inject real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()
	log.Info().Str("environment", cfg.Server.Environment).Msg("Starting Gram Seva backend")

	if err := repository.Migrate(&cfg.Database.Postgres, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if cfg.Server.Environment != "production" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to auto-migrate schema")
		}
	}

	redisCache, err := cache.NewRedisCache(&cfg.Database.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()

	hierarchy, err := geo.NewHierarchy()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load district hierarchy")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)

	// Services and clients
	routingService := routing.NewService(hierarchy, locationRepo, assignmentRepo, log)
	complaintService := complaints.NewService(complaintRepo, userRepo, routingService, log)
	authService := auth.NewService(userRepo, locationRepo, assignmentRepo, redisCache, &cfg.Auth, log)
	chatClient := chat.NewClient(&cfg.Chat, log)
	geocodeClient := geocode.NewClient(&cfg.Geocode, log)

	digest := scheduler.NewService(cfg, complaintRepo, log)
	if err := digest.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer digest.Stop()

	router := api.NewRouter(api.Handlers{
		Auth:       authapi.NewHandler(authService, log),
		Complaints: complaintsapi.NewHandler(complaintService, complaintRepo, log),
		Locations:  locationsapi.NewHandler(locationRepo, assignmentRepo, complaintService, log),
		Chat:       chatapi.NewHandler(chatClient, log),
		Geocode:    geocodeapi.NewHandler(geocodeClient, log),
	}, authService, db)

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg, log)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}

// serveMetrics exposes Prometheus metrics on a separate port.
func serveMetrics(cfg *config.Config, log *logger.Logger) {
	path := cfg.Metrics.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	log.Info().Str("addr", addr).Str("path", path).Msg("Metrics server listening")

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
