// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/store"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

const keyPrefix = "roshambo"

const (
	roomListKey = keyPrefix + ":rooms"
	gameListKey = keyPrefix + ":games"
)

func roomKey(id string) string { return keyPrefix + ":room:" + id }
func gameKey(id string) string { return keyPrefix + ":game:" + id }

// ConnectRedis initializes the global Redis client and checks it answers.
func ConnectRedis(addr string, db int) (*redis.Client, error) {
	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		Rdb.Close()
		Rdb = nil
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return Rdb, nil
}

// RedisStore keeps rooms and games as JSON strings, with their ids in two
// append-only lists. Committed transfer receipts are pushed onto the
// historian queue in the same transaction as the state they belong to.
type RedisStore struct {
	rdb       *redis.Client
	queueName string
}

func NewRedisStore(rdb *redis.Client, queueName string) *RedisStore {
	return &RedisStore{rdb: rdb, queueName: queueName}
}

var _ store.Store = (*RedisStore)(nil)

func (s *RedisStore) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var r models.Room
	if err := s.getJSON(ctx, roomKey(id), &r); err != nil {
		return nil, fmt.Errorf("room %s: %w", id, err)
	}
	return &r, nil
}

func (s *RedisStore) GetGame(ctx context.Context, id string) (*models.Game, error) {
	var g models.Game
	if err := s.getJSON(ctx, gameKey(id), &g); err != nil {
		return nil, fmt.Errorf("game %s: %w", id, err)
	}
	return &g, nil
}

func (s *RedisStore) RoomIDs(ctx context.Context) ([]string, error) {
	return s.rdb.LRange(ctx, roomListKey, 0, -1).Result()
}

func (s *RedisStore) GameIDs(ctx context.Context) ([]string, error) {
	return s.rdb.LRange(ctx, gameListKey, 0, -1).Result()
}

// Apply writes the batch in one MULTI/EXEC. New ids are checked up front;
// the host runs one call at a time, so nothing else creates them in between.
func (s *RedisStore) Apply(ctx context.Context, b *store.Batch) error {
	keys := make([]string, 0, len(b.NewRooms)+len(b.NewGames))
	for _, id := range b.NewRooms {
		keys = append(keys, roomKey(id))
	}
	for _, id := range b.NewGames {
		keys = append(keys, gameKey(id))
	}
	if len(keys) > 0 {
		n, err := s.rdb.Exists(ctx, keys...).Result()
		if err != nil {
			return fmt.Errorf("check new ids: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("batch creates %d id(s) that already exist", n)
		}
	}

	type entry struct {
		key  string
		data []byte
	}
	entries := make([]entry, 0, len(b.Rooms)+len(b.Games))
	for _, r := range b.Rooms {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal room %s: %w", r.ID, err)
		}
		entries = append(entries, entry{roomKey(r.ID), data})
	}
	for _, g := range b.Games {
		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("failed to marshal game %s: %w", g.ID, err)
		}
		entries = append(entries, entry{gameKey(g.ID), data})
	}
	receipts := make([]interface{}, 0, len(b.Transfers))
	for _, t := range b.Transfers {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal receipt %s: %w", t.ID, err)
		}
		receipts = append(receipts, data)
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			pipe.Set(ctx, e.key, e.data, 0)
		}
		if len(b.NewRooms) > 0 {
			pipe.RPush(ctx, roomListKey, toArgs(b.NewRooms)...)
		}
		if len(b.NewGames) > 0 {
			pipe.RPush(ctx, gameListKey, toArgs(b.NewGames)...)
		}
		if len(receipts) > 0 {
			pipe.RPush(ctx, s.queueName, receipts...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis apply: %w", err)
	}
	return nil
}

func (s *RedisStore) getJSON(ctx context.Context, key string, dst any) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("corrupt record at %s: %w", key, err)
	}
	return nil
}

func toArgs(ids []string) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// PopReceipt blocks up to timeout for the next transfer receipt on queue.
// It returns (nil, nil) when the queue stayed empty.
func PopReceipt(ctx context.Context, rdb *redis.Client, queue string, timeout time.Duration) (*models.Transfer, error) {
	res, err := rdb.BLPop(ctx, timeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// res[0] is the queue name and res[1] the payload.
	if len(res) < 2 {
		return nil, nil
	}
	var t models.Transfer
	if err := json.Unmarshal([]byte(res[1]), &t); err != nil {
		return nil, fmt.Errorf("invalid transfer receipt: %w", err)
	}
	return &t, nil
}

// RequeueReceipts pushes receipts back onto the head of queue so the oldest
// is popped first again.
func RequeueReceipts(ctx context.Context, rdb *redis.Client, queue string, batch []models.Transfer) error {
	if len(batch) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(batch))
	for i := len(batch) - 1; i >= 0; i-- {
		data, err := json.Marshal(batch[i])
		if err != nil {
			return fmt.Errorf("failed to marshal receipt %s: %w", batch[i].ID, err)
		}
		args = append(args, data)
	}
	if err := rdb.LPush(ctx, queue, args...).Err(); err != nil {
		return fmt.Errorf("failed to LPush to Redis list '%s': %w", queue, err)
	}
	return nil
}
