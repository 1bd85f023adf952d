package main

import (
	"context"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/bootstrap"
	"github.com/inkwell-cms/inkwell/internal/config"
	"github.com/inkwell-cms/inkwell/internal/server"
	"github.com/inkwell-cms/inkwell/internal/service"
	"github.com/inkwell-cms/inkwell/pkg/database"
	"github.com/inkwell-cms/inkwell/pkg/mailer"
	"github.com/inkwell-cms/inkwell/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		logger.Fatal("failed to seed roles", zap.Error(err))
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			logger.Fatal("failed to seed admin user", zap.Error(err))
		}
	}

	redisClient := newRedisClient(cfg, logger)
	search := newSearchService(cfg, logger)

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		logger.Warn("SMTP is not configured, contact form delivery is disabled")
	}

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		logger.Fatal("failed to initialize cloudinary storage", zap.Error(err))
	}

	srv := server.NewServer(cfg, db, redisClient, search, mail, imageStorage)

	if redisClient != nil {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.ViewSyncSchedule, func() {
			srv.Views.SyncViews(context.Background())
		}); err != nil {
			logger.Fatal("failed to schedule view sync", zap.Error(err))
		}
		scheduler.Start()
	}

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newRedisClient(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Warn("redis is not configured, view buffering, rate limits and live messages are disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("invalid redis url", zap.Error(err))
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis is unreachable, continuing without it", zap.Error(err))
		return nil
	}
	return client
}

func newSearchService(cfg *config.Config, logger *zap.Logger) service.SearchService {
	if cfg.MeiliHost == "" {
		logger.Warn("meilisearch is not configured, posts will not be indexed")
		return nil
	}

	host := cfg.MeiliHost
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}

	client := meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	return service.NewMeiliSearchService(client)
}
