package historian

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSource struct {
	ch chan models.Transfer

	mu       sync.Mutex
	requeued []models.Transfer
}

func (s *chanSource) Requeue(_ context.Context, batch []models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requeued = append(append([]models.Transfer{}, batch...), s.requeued...)
	return nil
}

func (s *chanSource) requeuedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requeued)
}

func (s *chanSource) Pop(ctx context.Context) (*models.Transfer, error) {
	select {
	case t := <-s.ch:
		return &t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Millisecond):
		return nil, nil
	}
}

type memSink struct {
	mu      sync.Mutex
	batches [][]models.Transfer
	fail    bool
}

func (s *memSink) Write(_ context.Context, batch []models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("database unavailable")
	}
	s.batches = append(s.batches, batch)
	return nil
}

func (s *memSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func receipt(amount models.Amount) models.Transfer {
	return models.Transfer{ID: uuid.New(), TxID: "tx", Method: "payout", To: "alice", Amount: amount}
}

func TestAppendFlushesFullBatch(t *testing.T) {
	sink := &memSink{}
	hs := NewService(&chanSource{}, sink, 3, time.Hour, quietLogger())
	ctx := context.Background()

	hs.Append(ctx, receipt(1))
	hs.Append(ctx, receipt(2))
	assert.Equal(t, 2, hs.Pending())
	assert.Empty(t, sink.batches)

	hs.Append(ctx, receipt(3))
	assert.Zero(t, hs.Pending())
	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], 3)
}

func TestFailedFlushKeepsBatch(t *testing.T) {
	sink := &memSink{fail: true}
	hs := NewService(&chanSource{}, sink, 10, time.Hour, quietLogger())
	ctx := context.Background()

	hs.Append(ctx, receipt(1))
	require.Error(t, hs.Flush(ctx))
	assert.Equal(t, 1, hs.Pending())

	sink.fail = false
	require.NoError(t, hs.Flush(ctx))
	assert.Zero(t, hs.Pending())
	assert.Equal(t, 1, sink.count())
}

func TestRunDrainsSourceAndFlushesOnShutdown(t *testing.T) {
	src := &chanSource{ch: make(chan models.Transfer, 4)}
	sink := &memSink{}
	hs := NewService(src, sink, 100, time.Hour, quietLogger())

	for i := 1; i <= 4; i++ {
		src.ch <- receipt(models.Amount(i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hs.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return hs.Pending() == 4 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, 4, sink.count())
}

func TestShutdownRequeuesUnwrittenReceipts(t *testing.T) {
	src := &chanSource{ch: make(chan models.Transfer, 3)}
	sink := &memSink{fail: true}
	hs := NewService(src, sink, 100, time.Hour, quietLogger())

	sent := []models.Transfer{receipt(1), receipt(2), receipt(3)}
	for _, r := range sent {
		src.ch <- r
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hs.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return hs.Pending() == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Zero(t, hs.Pending())
	assert.Zero(t, sink.count())
	require.Equal(t, 3, src.requeuedCount())
	assert.Equal(t, sent, src.requeued)
}

func TestPendingCapRequeues(t *testing.T) {
	src := &chanSource{}
	sink := &memSink{fail: true}
	hs := NewService(src, sink, 2, time.Hour, quietLogger())
	ctx := context.Background()

	limit := 2 * maxPendingBatches
	for i := 0; i < limit-1; i++ {
		hs.Append(ctx, receipt(models.Amount(i)))
	}
	assert.Equal(t, limit-1, hs.Pending())
	assert.Zero(t, src.requeuedCount())

	hs.Append(ctx, receipt(99))
	assert.Zero(t, hs.Pending())
	assert.Equal(t, limit, src.requeuedCount())
}
