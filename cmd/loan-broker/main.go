package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"loan-broker/internal/common/auth"
	awsclient "loan-broker/internal/common/aws"
	"loan-broker/internal/common/cloudinary"
	"loan-broker/internal/common/config"
	"loan-broker/internal/common/database"
	httpclient "loan-broker/internal/common/http"
	"loan-broker/internal/common/logger"
	"loan-broker/internal/common/observability"
	notifydecision "loan-broker/internal/operations/application/notify-decision"
	"loan-broker/internal/search"
	"loan-broker/internal/web"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting loan broker...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("metrics exporter unavailable, operation metrics disabled", zap.Error(err))
		obs = observability.NewNoop()
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		migrator, err := database.NewMigrator(pg.DB, log)
		if err != nil {
			zapLog.Fatal("migrator init failed", zap.Error(err))
		}
		if err := migrator.Up(ctx); err != nil {
			zapLog.Fatal("migrations failed", zap.Error(err))
		}
	}

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (optional) ---
	var esClient *elasticsearch.Client
	if cfg.Database.Elasticsearch.Enabled() {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, application search disabled", zap.Error(err))
		} else if err := es.EnsureIndex(ctx, cfg.Search.ApplicationsIndex, search.Mapping); err != nil {
			zapLog.Warn("elasticsearch index setup failed, application search disabled", zap.Error(err))
		} else {
			esClient = es.Client
			zapLog.Info("Elasticsearch connected successfully")
		}
	}
	index := search.NewIndex(esClient, cfg.Search.ApplicationsIndex, log)

	// --- Init External Service Clients ---
	var sesClient notifydecision.SESService
	var snsClient notifydecision.SNSService
	if cfg.Notifications.Enabled() {
		awsCfg, err := awsclient.LoadConfig(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config failed", zap.Error(err))
		}
		if cfg.Notifications.Email.Enabled {
			sesClient = awsclient.NewSESClient(awsCfg)
		}
		if cfg.Notifications.SMS.Enabled {
			snsClient = awsclient.NewSNSClient(awsCfg)
		}
	}
	notifier := notifydecision.NewHandler(notifydecision.LoadConfig(cfg.Notifications), sesClient, snsClient, log)

	uploader := cloudinary.NewClient(cfg.Cloudinary, httpclient.NewClient(config.GetDuration(cfg.Cloudinary.Timeout)))

	redisClient := rdb.GetClient()
	server := web.NewServer(web.Deps{
		Config:   cfg,
		DB:       pg.GetDB(),
		Redis:    redisClient,
		Sessions: auth.NewSessionManager(redisClient, cfg.Session),
		LoginLimiter: auth.NewLoginLimiter(redisClient, cfg.RateLimit.LoginAttempts,
			time.Duration(cfg.RateLimit.LoginWindow)*time.Second, log),
		Hasher:        auth.NewBcryptHasher(),
		Index:         index,
		Notifier:      notifier,
		Uploader:      uploader,
		Observability: obs,
		Logger:        log,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing metrics", zap.Error(err))
	}

	zapLog.Info("Loan broker stopped gracefully")
}
