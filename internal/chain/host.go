// internal/chain/host.go
package chain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/store"
	"github.com/sirupsen/logrus"
)

// Clock supplies call timestamps.
type Clock interface {
	Now() uint64
}

// Random supplies raw random bytes.
type Random interface {
	Bytes(n int) ([]byte, error)
}

// Call describes one externally invoked operation.
type Call struct {
	Method  string
	Caller  models.AccountID
	Deposit models.Amount
}

// Host runs calls one at a time. A call's store writes and transfers are
// committed together after it returns nil, and dropped if it fails.
type Host struct {
	mu     sync.Mutex
	store  store.Store
	clock  Clock
	random Random
	logger logrus.FieldLogger
}

func NewHost(s store.Store, clock Clock, random Random, logger logrus.FieldLogger) *Host {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Host{
		store:  s,
		clock:  clock,
		random: random,
		logger: logger,
	}
}

// Store exposes the backing store for read-only projections.
func (h *Host) Store() store.Store {
	return h.store
}

// Call runs fn against a fresh Env and returns the transfers it committed.
func (h *Host) Call(ctx context.Context, c Call, fn func(ctx context.Context, env Env) error) ([]models.Transfer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	env := &callEnv{
		txID:   uuid.NewString(),
		call:   c,
		now:    h.clock.Now(),
		random: h.random,
		batch:  &store.Batch{},
	}

	err := fn(ctx, env)
	if err == nil && !env.batch.Empty() {
		if applyErr := h.store.Apply(ctx, env.batch); applyErr != nil {
			err = fmt.Errorf("commit %s: %w", c.Method, applyErr)
		}
	}

	entry := h.logger.WithFields(logrus.Fields{
		"tx":        env.txID,
		"method":    c.Method,
		"caller":    c.Caller,
		"deposit":   c.Deposit,
		"transfers": len(env.batch.Transfers),
		"duration":  time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Warn("call rejected")
		return nil, err
	}
	entry.Info("call committed")
	return env.batch.Transfers, nil
}

type callEnv struct {
	txID   string
	call   Call
	now    uint64
	random Random
	batch  *store.Batch
}

func (e *callEnv) Caller() models.AccountID { return e.call.Caller }
func (e *callEnv) Now() uint64              { return e.now }
func (e *callEnv) Attached() models.Amount  { return e.call.Deposit }
func (e *callEnv) Writes() *store.Batch     { return e.batch }

func (e *callEnv) Transfer(to models.AccountID, amount models.Amount) error {
	if to == "" {
		return fmt.Errorf("transfer of %d to empty account", amount)
	}
	e.batch.Transfers = append(e.batch.Transfers, models.Transfer{
		ID:        uuid.New(),
		TxID:      e.txID,
		Method:    e.call.Method,
		To:        to,
		Amount:    amount,
		Timestamp: int64(e.now),
	})
	return nil
}

func (e *callEnv) RandomBytes(n int) ([]byte, error) {
	return e.random.Bytes(n)
}
