package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/blog-service/internal/cdn"
	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/handler"
	"github.com/BloggingApp/blog-service/internal/mailer"
	"github.com/BloggingApp/blog-service/internal/metrics"
	"github.com/BloggingApp/blog-service/internal/oauth"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/BloggingApp/blog-service/internal/server"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/BloggingApp/blog-service/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := loadEnv(); err != nil {
		logger.Sugar().Warnf("no .env file loaded, using process environment: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar().Panicf("failed to load config: %s", err.Error())
	}

	var repos *repository.Repository
	switch cfg.DB.Driver {
	case "memory":
		repos = repository.NewInMemory()
		logger.Warn("Using in-memory store, data will be lost on restart")
	default:
		if err := postgres.RunMigrations(cfg.DB.MigrateURL()); err != nil {
			logger.Sugar().Panicf("failed to migrate postgres: %s", err.Error())
		}

		db, err := postgres.DB(ctx, cfg.DB)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
		}
		defer db.Close()
		if err := db.Ping(ctx); err != nil {
			logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
		}
		logger.Info("Successfully connected to PostgreSQL")

		repos = repository.New(db)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	smtpSender := mailer.NewSMTPSender(cfg.Mail.SMTP.Host, cfg.Mail.SMTP.Port, cfg.Mail.SMTP.User, cfg.Mail.SMTP.Password, cfg.Mail.SMTP.From)
	var sender mailer.Sender = smtpSender
	if cfg.Mail.Queue {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()
		pong, err := rdb.Ping(ctx).Result()
		if err != nil {
			logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
		}
		logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

		redisRepo := redisrepo.New(rdb)
		sender = mailer.NewQueue(redisRepo)
		go mailer.NewWorker(logger, redisRepo, smtpSender).Run(ctx)
	}

	services := service.New(logger, repos, service.Deps{
		Tokens: utils.NewJWTManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
		Images: cdn.New(cfg.CDN.Origin, cfg.CDN.Folder, cfg.CDN.Timeout),
		Mailer: sender,
		Identity: oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		}),
		Metrics: collector,
		Store:   cfg.Store,
	})
	handlers := handler.New(logger, services, handler.Options{
		ClientOrigin:  cfg.ClientOrigin,
		FrontendURL:   cfg.Auth.FrontendURL,
		SessionSecret: cfg.Auth.SessionSecret,
		Metrics:       collector,
	})

	srv := server.New(config.ServerConfig{
		Port:           cfg.AppPort,
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	})
	metricsSrv := server.New(config.ServerConfig{
		Port:           cfg.MetricsPort,
		Handler:        metrics.SetupMetricsRoute(registry),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	})

	for name, s := range map[string]*server.Server{"http": srv, "metrics": metricsSrv} {
		go func(name string, s *server.Server) {
			if err := s.Run(); err != nil {
				logger.Sugar().Panicf("failed to run %s server: %s", name, err.Error())
			}
		}(name, s)
	}

	logger.Sugar().Infof("Server started on :%s, metrics on :%s", cfg.AppPort, cfg.MetricsPort)

	<-ctx.Done()

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down metrics server: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
