package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/autolane/dealer-ai-platform/cmd/mainconfig"
	"github.com/autolane/dealer-ai-platform/internal/api/router"
	appconfig "github.com/autolane/dealer-ai-platform/internal/config"
	"github.com/autolane/dealer-ai-platform/internal/conversation"
	"github.com/autolane/dealer-ai-platform/internal/inventory"
	"github.com/autolane/dealer-ai-platform/internal/leads"
	"github.com/autolane/dealer-ai-platform/internal/observability/metrics"
	"github.com/autolane/dealer-ai-platform/internal/settings"
	"github.com/autolane/dealer-ai-platform/internal/speech"
	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dealer-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, chat history disabled", "error", err)
			redisClient = nil
		}
	}

	settingsStore := settings.NewCachedStore(pool, cfg.SettingsCacheTTL, logger)
	vehicleRepo := inventory.NewPostgresRepository(pool, logger)
	matcher := inventory.NewMatcher(vehicleRepo, logger)
	conversationStore := conversation.NewStore(pool)
	leadsRepo := leads.NewPostgresRepository(pool)

	var historyStore *conversation.HistoryStore
	if redisClient != nil {
		historyStore = conversation.NewHistoryStore(redisClient)
	}

	var artifactStore speech.ArtifactStore
	if cfg.AudioBucket != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		artifactStore = speech.NewS3Store(s3.NewFromConfig(awsCfg), cfg.AudioBucket, cfg.PublicBaseURL, logger)
	} else {
		artifactStore = speech.NewLocalStore(cfg.AudioLocalDir, cfg.PublicBaseURL)
	}

	speechMetrics := metrics.NewSpeechMetrics(nil)
	synthesizer := speech.NewSynthesizer(
		settingsStore,
		speech.NewElevenLabsClient(cfg.ElevenLabsBaseURL, cfg.ElevenLabsModel, nil),
		speech.NewOpenAITTS(nil),
		artifactStore,
		speech.Config{
			ElevenLabsAPIKey: cfg.ElevenLabsAPIKey,
			OpenAIAPIKey:     cfg.OpenAIAPIKey,
			Timeout:          cfg.TTSTimeout,
		},
		speechMetrics,
		logger,
	)

	engine := conversation.NewEngine(conversation.EngineConfig{
		Settings: settingsStore,
		Vehicles: vehicleRepo,
		Matcher:  matcher,
		LLM: conversation.LLMConfig{
			ServerKey: cfg.OpenAIAPIKey,
			Model:     cfg.OpenAIModel,
			Timeout:   cfg.LLMTimeout,
		},
		Store:    conversationStore,
		History:  historyStore,
		Synth:    synthesizer,
		Leads:    leads.NewRecorder(leadsRepo),
		Metrics:  metrics.NewConversationMetrics(nil),
		Log:      logger,
	})

	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(engine, logger),
		SettingsHandler:     settings.NewHandler(settingsStore, logger),
		LeadsHandler:        leads.NewHandler(leadsRepo, logger),
		MetricsHandler:      promhttp.Handler(),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerSecond:  cfg.RateLimitPerSecond,
		RateLimitBurst:      cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
