package main

import (
	"context"
	"errors"
	"go-agency-backend/config"
	_ "go-agency-backend/docs" // Important for Swagger
	v1 "go-agency-backend/internal/delivery/http/v1"
	"go-agency-backend/internal/domain"
	"go-agency-backend/internal/forms"
	"go-agency-backend/internal/repository/postgres"
	"go-agency-backend/internal/submission"
	"go-agency-backend/internal/usecase"
	"go-agency-backend/pkg/database"
	"go-agency-backend/pkg/email"
	"go-agency-backend/pkg/events"
	"go-agency-backend/pkg/logger"
	"go-agency-backend/pkg/redis"
	"go-agency-backend/pkg/security"
	"go-agency-backend/pkg/security/antivirus"
	"go-agency-backend/pkg/storage"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
)

// @title           Agency Forms Gateway API
// @version         1.0
// @description     Validates and relays the agency website's lead forms.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting forms gateway", "port", cfg.Port, "backend", cfg.FormsAPIBaseURL)

	secLogger := security.InitSecurityLogger("agency-forms", environment())
	defer secLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthChecks := map[string]usecase.HealthCheck{}

	// 3. Redis (rate limits and upload quota)
	if err := redis.Initialize(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
	} else {
		defer redis.Close()
		healthChecks["redis"] = redis.HealthCheck
	}

	deps := usecase.FormDeps{
		Validator:      forms.NewValidator(validator.New()),
		ScanFailClosed: cfg.ScanFailClosed,
		Uploads:        security.NewUploadLimiter(cfg.UploadLimitPerMinute, cfg.UploadLimitPerDay),
		Notifier:       email.NewEmailService(cfg),
		SecurityLogger: secLogger,
	}

	// 4. Submission log (optional)
	if cfg.DBUrl != "" {
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		deps.SubmissionLog = postgres.NewSubmissionLogRepository(dbPool)
		healthChecks["database"] = dbPool.Ping
	}

	// 5. Resume scanning (optional)
	if cfg.ClamAVAddress != "" {
		scanner := antivirus.NewClamAVScanner(cfg.ClamAVAddress, 30*time.Second)
		if !scanner.Available(ctx) {
			logger.Log.Warn("ClamAV not answering", "address", cfg.ClamAVAddress, "fail_closed", cfg.ScanFailClosed)
		}
		deps.Scanner = scanner
		healthChecks["clamav"] = func(ctx context.Context) error {
			if !scanner.Available(ctx) {
				return errors.New("clamd did not answer PING")
			}
			return nil
		}
	} else {
		logger.Log.Warn("CLAMAV_ADDRESS not set, resumes are relayed unscanned")
	}

	// 6. Resume archive (optional)
	if cfg.ResumeArchiveBucket != "" {
		s3Client, err := storage.NewS3Client(ctx, storage.NewS3ClientConfigFromEnv(cfg.ResumeArchiveBucket))
		if err != nil {
			logger.Log.Warn("Resume archive disabled", "error", err)
		} else {
			deps.Archive = storage.NewResumeArchive(s3Client, cfg.ResumeArchiveBucket)
		}
	}

	// 7. Lead events (optional)
	if cfg.NATSUrl != "" {
		conn, err := events.Connect(cfg.NATSUrl)
		if err != nil {
			logger.Log.Warn("Lead events disabled", "error", err)
		} else {
			defer conn.Drain()
			deps.Events = events.NewNATSPublisher(conn)
		}
	}

	if !deps.Notifier.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - lead notifications disabled")
	}

	// 8. Form instances
	client := submission.NewClient(cfg.FormsAPIBaseURL, &http.Client{})
	registry := submission.NewRegistry(func(instanceID string, formType domain.FormType) *submission.Controller {
		return submission.NewController(deps.Validator, client, submission.Options{
			InstanceID:        instanceID,
			FormType:          formType,
			Route:             cfg.FormRoutes[string(formType)],
			ResetAfter:        cfg.FormResetAfter,
			RedirectOnSuccess: cfg.SuccessRedirects[string(formType)],
			OnChange: func(s domain.FormSnapshot) {
				logger.Log.Debug("Form state changed", "instance_id", s.InstanceID, "form", s.FormType, "status", s.Status)
			},
		})
	})
	defer registry.Close()
	deps.Registry = registry

	go sweepInstances(ctx, registry, cfg.FormInstanceMaxIdle)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		FormUC:   usecase.NewFormUsecase(deps),
		HealthUC: usecase.NewHealthUsecase(healthChecks),
		Config:   cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// sweepInstances evicts abandoned form instances until ctx ends
func sweepInstances(ctx context.Context, registry *submission.Registry, maxIdle time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(maxIdle); n > 0 {
				logger.Log.Debug("Evicted idle form instances", "count", n, "remaining", registry.Len())
			}
		}
	}
}

func environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
