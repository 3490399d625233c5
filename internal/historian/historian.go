// internal/historian/historian.go is an asynchronous service that pops transfer
// receipts from a queue and persists them in batches.
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/jason-s-yu/roshambo/internal/models"
	log "github.com/sirupsen/logrus"
)

// Source yields the next receipt, or nil when none arrived before its timeout.
// Requeue puts receipts back at the head of the queue, oldest first.
type Source interface {
	Pop(ctx context.Context) (*models.Transfer, error)
	Requeue(ctx context.Context, batch []models.Transfer) error
}

// Sink persists a batch of receipts atomically.
type Sink interface {
	Write(ctx context.Context, batch []models.Transfer) error
}

// maxPendingBatches bounds how many failed batches are held in memory
// before they are handed back to the source.
const maxPendingBatches = 10

// Service accumulates receipts and flushes them when the batch fills or the
// flush delay elapses. A failed flush keeps the batch for the next attempt;
// receipts still unwritten at shutdown, or past the pending cap, go back to the source.
type Service struct {
	source     Source
	sink       Sink
	batchSize  int
	maxPending int
	flushDelay time.Duration
	logger     log.FieldLogger

	batchMu sync.Mutex
	batch   []models.Transfer
}

func NewService(source Source, sink Sink, batchSize int, flushDelay time.Duration, logger log.FieldLogger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{
		source:     source,
		sink:       sink,
		batchSize:  batchSize,
		maxPending: batchSize * maxPendingBatches,
		flushDelay: flushDelay,
		logger:     logger.WithField("component", "historian"),
		batch:      make([]models.Transfer, 0, batchSize),
	}
}

// Run reads until ctx is cancelled, then makes a last flush. Whatever
// that flush cannot write is requeued.
func (hs *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(hs.flushDelay)
	defer ticker.Stop()

	hs.logger.Info("historian started")
	for {
		select {
		case <-ctx.Done():
			shutdownCtx := context.Background()
			if err := hs.Flush(shutdownCtx); err != nil {
				hs.requeuePending(shutdownCtx)
			}
			hs.logger.Info("historian shutting down")
			return

		case <-ticker.C:
			hs.Flush(ctx)

		default:
			rec, err := hs.source.Pop(ctx)
			if err != nil {
				if ctx.Err() == nil {
					hs.logger.WithError(err).Error("pop receipt")
				}
				continue
			}
			if rec == nil {
				continue
			}
			hs.Append(ctx, *rec)
		}
	}
}

// Append adds a receipt to the batch and flushes once it is full. If the
// sink keeps failing and the pending cap is reached, the batch is requeued.
func (hs *Service) Append(ctx context.Context, rec models.Transfer) {
	hs.batchMu.Lock()
	hs.batch = append(hs.batch, rec)
	full := len(hs.batch) >= hs.batchSize
	hs.batchMu.Unlock()

	if !full {
		return
	}
	if err := hs.Flush(ctx); err != nil && hs.Pending() >= hs.maxPending {
		hs.requeuePending(ctx)
	}
}

// Flush writes the pending batch in one call to the sink.
func (hs *Service) Flush(ctx context.Context) error {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()

	if len(hs.batch) == 0 {
		return nil
	}
	batchCopy := make([]models.Transfer, len(hs.batch))
	copy(batchCopy, hs.batch)

	if err := hs.sink.Write(ctx, batchCopy); err != nil {
		hs.logger.WithError(err).WithField("pending", len(batchCopy)).Error("flush receipts")
		return err
	}
	hs.batch = hs.batch[:0]
	hs.logger.WithField("count", len(batchCopy)).Info("flushed receipts")
	return nil
}

// requeuePending hands the unwritten batch back to the source.
func (hs *Service) requeuePending(ctx context.Context) {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()

	if len(hs.batch) == 0 {
		return
	}
	batchCopy := make([]models.Transfer, len(hs.batch))
	copy(batchCopy, hs.batch)

	if err := hs.source.Requeue(ctx, batchCopy); err != nil {
		hs.logger.WithError(err).WithField("lost", len(batchCopy)).Error("requeue receipts")
		return
	}
	hs.batch = hs.batch[:0]
	hs.logger.WithField("count", len(batchCopy)).Warn("requeued unwritten receipts")
}

// Pending reports how many receipts wait for the next flush.
func (hs *Service) Pending() int {
	hs.batchMu.Lock()
	defer hs.batchMu.Unlock()
	return len(hs.batch)
}
