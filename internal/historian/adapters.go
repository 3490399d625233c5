// internal/historian/adapters.go
package historian

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/roshambo/internal/cache"
	"github.com/jason-s-yu/roshambo/internal/database"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisSource pops receipts off the Redis list the store pushes to.
type RedisSource struct {
	Client  *redis.Client
	Queue   string
	Timeout time.Duration
}

func (s RedisSource) Pop(ctx context.Context) (*models.Transfer, error) {
	return cache.PopReceipt(ctx, s.Client, s.Queue, s.Timeout)
}

func (s RedisSource) Requeue(ctx context.Context, batch []models.Transfer) error {
	return cache.RequeueReceipts(ctx, s.Client, s.Queue, batch)
}

// PostgresSink writes receipts to the transfers table.
type PostgresSink struct {
	Pool *pgxpool.Pool
}

func (s PostgresSink) Write(ctx context.Context, batch []models.Transfer) error {
	return database.InsertTransfers(ctx, s.Pool, batch)
}
