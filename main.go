package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/DevJuliocesar/eventticket-sub002/internal/app"
	"github.com/DevJuliocesar/eventticket-sub002/internal/config"
	"github.com/DevJuliocesar/eventticket-sub002/internal/observability"
)

func main() {
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db := sqlx.MustConnect("postgres", cfg.PostgresURL)
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Fatal("failed to connect to redis")
	}

	watermillLogger := observability.NewLogrusAdapter(logrus.StandardLogger())

	a, err := app.NewApp(cfg, watermillLogger, redisClient, db)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize app")
	}

	if err := a.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("app terminated with error")
	}

	logrus.Info("app stopped")
}
