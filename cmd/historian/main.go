// cmd/historian/main.go drains transfer receipts from Redis into PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/roshambo/internal/cache"
	"github.com/jason-s-yu/roshambo/internal/config"
	"github.com/jason-s-yu/roshambo/internal/database"
	"github.com/jason-s-yu/roshambo/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}
	defer rdb.Close()

	if err := database.ConnectDB(ctx, cfg.PostgresURL()); err != nil {
		log.Fatal(err)
	}
	defer database.DB.Close()
	if err := database.EnsureSchema(ctx, database.DB); err != nil {
		log.Fatal(err)
	}

	hs := historian.NewService(
		historian.RedisSource{Client: rdb, Queue: cfg.QueueName, Timeout: 3 * time.Second},
		historian.PostgresSink{Pool: database.DB},
		cfg.HistorianBatchSize,
		cfg.HistorianFlush,
		log.StandardLogger(),
	)
	hs.Run(ctx)
	log.Info("historian shutdown complete")
}
