package chain

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestHostCommitsOnSuccess(t *testing.T) {
	s := store.NewMemoryStore()
	h := NewHost(s, NewManualClock(100), NewScriptedRandom(), quietLogger())

	call := Call{Method: "create_room", Caller: "alice", Deposit: 7}
	transfers, err := h.Call(context.Background(), call, func(ctx context.Context, env Env) error {
		assert.Equal(t, models.AccountID("alice"), env.Caller())
		assert.Equal(t, models.Amount(7), env.Attached())
		assert.Equal(t, uint64(100), env.Now())

		env.Writes().PutRoom(models.NewRoom("RM-100", env.Caller(), models.Public, int64(env.Now())), true)
		return env.Transfer("bob", 3)
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, models.AccountID("bob"), transfers[0].To)
	assert.Equal(t, "create_room", transfers[0].Method)

	_, err = s.GetRoom(context.Background(), "RM-100")
	require.NoError(t, err)
	assert.Len(t, s.Transfers(), 1)
}

func TestHostDropsEverythingOnFailure(t *testing.T) {
	s := store.NewMemoryStore()
	h := NewHost(s, NewManualClock(1), NewScriptedRandom(), quietLogger())
	boom := errors.New("boom")

	_, err := h.Call(context.Background(), Call{Method: "play", Caller: "alice"}, func(ctx context.Context, env Env) error {
		env.Writes().PutRoom(models.NewRoom("RM-1", "alice", models.Public, 1), true)
		require.NoError(t, env.Transfer("alice", 10))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetRoom(context.Background(), "RM-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, s.Transfers())
}

func TestTransferRejectsEmptyAccount(t *testing.T) {
	h := NewHost(store.NewMemoryStore(), NewManualClock(1), NewScriptedRandom(), quietLogger())
	_, err := h.Call(context.Background(), Call{Method: "payout"}, func(ctx context.Context, env Env) error {
		return env.Transfer("", 1)
	})
	assert.Error(t, err)
}

func TestMonotonicClockNeverGoesBack(t *testing.T) {
	c := NewMonotonicClock()
	first := c.Now()
	c.last = first + 1_000_000_000
	assert.GreaterOrEqual(t, c.Now(), first+1_000_000_000)
}

func TestSeededRandomIsReproducible(t *testing.T) {
	a := NewSeededRandomFrom([]byte("block-seed"))
	b := NewSeededRandomFrom([]byte("block-seed"))

	x, err := a.Bytes(50)
	require.NoError(t, err)
	y, err := b.Bytes(50)
	require.NoError(t, err)
	assert.Equal(t, x, y)

	z, err := a.Bytes(50)
	require.NoError(t, err)
	assert.NotEqual(t, x, z)
}

func TestScriptedRandomExhausts(t *testing.T) {
	r := NewScriptedRandom([]byte{2})
	b, err := r.Bytes(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 0}, b)

	_, err = r.Bytes(3)
	assert.Error(t, err)
}
