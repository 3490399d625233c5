package settlement

import (
	"context"
	"io"
	"testing"

	"github.com/jason-s-yu/roshambo/internal/chain"
	"github.com/jason-s-yu/roshambo/internal/fees"
	"github.com/jason-s-yu/roshambo/internal/game"
	"github.com/jason-s-yu/roshambo/internal/ids"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/room"
	"github.com/jason-s-yu/roshambo/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rock    = []byte{0}
	paper   = []byte{1}
	scissor = []byte{2}
)

type harness struct {
	store      *store.MemoryStore
	host       *chain.Host
	clock      *chain.ManualClock
	random     *chain.ScriptedRandom
	rooms      *room.Registry
	engine     *game.Engine
	settlement *Settlement
	fees       fees.Schedule
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := store.NewMemoryStore()
	clock := chain.NewManualClock(1_000)
	random := chain.NewScriptedRandom()
	schedule := fees.DefaultSchedule()
	gen := ids.NewGenerator()
	rooms := room.NewRegistry(s, schedule, gen, logger)
	return &harness{
		store:      s,
		host:       chain.NewHost(s, clock, random, logger),
		clock:      clock,
		random:     random,
		rooms:      rooms,
		engine:     game.NewEngine(s, rooms, schedule, gen, logger),
		settlement: New(s, schedule, logger),
		fees:       schedule,
	}
}

func (h *harness) call(t *testing.T, caller models.AccountID, deposit models.Amount, fn func(ctx context.Context, env chain.Env) error) ([]models.Transfer, error) {
	t.Helper()
	h.clock.Advance(1)
	return h.host.Call(context.Background(), chain.Call{Method: "test", Caller: caller, Deposit: deposit}, fn)
}

func (h *harness) must(t *testing.T, caller models.AccountID, deposit models.Amount, fn func(ctx context.Context, env chain.Env) error) {
	t.Helper()
	_, err := h.call(t, caller, deposit, fn)
	require.NoError(t, err)
}

// newGame builds a public room owned by alice with bob as member, and an empty game created by alice.
func (h *harness) newGame(t *testing.T) string {
	t.Helper()
	var roomID, gameID string
	h.must(t, "alice", h.fees.Room, func(ctx context.Context, env chain.Env) error {
		var err error
		roomID, err = h.rooms.CreateRoom(ctx, env, models.Public)
		return err
	})
	h.must(t, "bob", 0, func(ctx context.Context, env chain.Env) error {
		return h.rooms.JoinPublic(ctx, env, roomID)
	})
	h.must(t, "alice", h.fees.Game, func(ctx context.Context, env chain.Env) error {
		var err error
		gameID, err = h.engine.CreateGame(ctx, env, roomID)
		return err
	})
	return gameID
}

func (h *harness) play(t *testing.T, caller models.AccountID, gameID string, move []byte) {
	t.Helper()
	h.random.Push(move)
	h.must(t, caller, h.fees.Play, func(ctx context.Context, env chain.Env) error {
		_, err := h.engine.Play(ctx, env, gameID)
		return err
	})
}

func (h *harness) stake(t *testing.T, caller models.AccountID, gameID string, backed models.AccountID) error {
	t.Helper()
	_, err := h.call(t, caller, h.fees.Stake, func(ctx context.Context, env chain.Env) error {
		_, err := h.engine.Stake(ctx, env, gameID, backed)
		return err
	})
	return err
}

func (h *harness) payout(t *testing.T, caller models.AccountID, gameID string) ([]Payout, []models.Transfer, error) {
	t.Helper()
	var payouts []Payout
	transfers, err := h.call(t, caller, 0, func(ctx context.Context, env chain.Env) error {
		var err error
		payouts, err = h.settlement.Payout(ctx, env, gameID)
		return err
	})
	return payouts, transfers, err
}

func (h *harness) game(t *testing.T, id string) *models.Game {
	t.Helper()
	g, err := h.store.GetGame(context.Background(), id)
	require.NoError(t, err)
	return g
}

func sum(transfers []models.Transfer) models.Amount {
	var total models.Amount
	for _, tr := range transfers {
		total += tr.Amount
	}
	return total
}

func TestPayoutWinnerAndBacker(t *testing.T) {
	h := newHarness(t)
	gameID := h.newGame(t)

	require.NoError(t, h.stake(t, "carol", gameID, "alice"))
	h.play(t, "alice", gameID, rock)
	assert.Equal(t, models.Active, h.game(t, gameID).Status)
	h.play(t, "bob", gameID, scissor)

	g := h.game(t, gameID)
	require.Equal(t, models.Completed, g.Status)
	require.Equal(t, []string{"alice"}, g.Winners)

	// stakes close once the outcome is known
	require.ErrorIs(t, h.stake(t, "dave", gameID, "alice"), models.ErrGameCompleted)

	pool := g.Pool
	assert.Equal(t, 2*h.fees.Play+h.fees.Stake, pool)

	payouts, transfers, err := h.payout(t, "alice", gameID)
	require.NoError(t, err)
	require.Len(t, transfers, 2)

	assert.Equal(t, Payout{To: "alice", Amount: h.fees.WinnerReward(), Role: RoleWinner}, payouts[0])
	assert.Equal(t, models.AccountID("carol"), payouts[1].To)
	assert.Equal(t, pool-h.fees.WinnerReward(), payouts[1].Amount)
	assert.Equal(t, RoleBacker, payouts[1].Role)

	assert.LessOrEqual(t, sum(transfers), pool)
	after := h.game(t, gameID)
	assert.True(t, after.Settled)
	assert.Equal(t, pool-sum(transfers), after.Pool)
	assert.Equal(t, models.Completed, after.Status)
	assert.Len(t, h.store.Transfers(), 2)
}

func TestPayoutSplitsEvenlyAmongBackers(t *testing.T) {
	h := newHarness(t)
	gameID := h.newGame(t)

	require.NoError(t, h.stake(t, "carol", gameID, "bob"))
	require.NoError(t, h.stake(t, "dave", gameID, "bob"))
	require.NoError(t, h.stake(t, "erin", gameID, "bob"))
	require.NoError(t, h.stake(t, "frank", gameID, "alice"))
	h.play(t, "alice", gameID, rock)
	h.play(t, "bob", gameID, paper)

	g := h.game(t, gameID)
	require.Equal(t, []string{"bob"}, g.Winners)

	payouts, transfers, err := h.payout(t, "alice", gameID)
	require.NoError(t, err)
	require.Len(t, payouts, 4)

	share := (g.Pool - h.fees.WinnerReward()) / 3
	for _, p := range payouts[1:] {
		assert.Equal(t, share, p.Amount)
		assert.NotEqual(t, models.AccountID("frank"), p.To, "stakes on the loser earn nothing")
	}
	assert.LessOrEqual(t, sum(transfers), g.Pool)
	assert.Equal(t, g.Pool-sum(transfers), h.game(t, gameID).Pool)
}

func TestPayoutWithoutBackersKeepsRemainder(t *testing.T) {
	h := newHarness(t)
	gameID := h.newGame(t)
	h.play(t, "alice", gameID, scissor)
	h.play(t, "bob", gameID, paper)

	payouts, _, err := h.payout(t, "alice", gameID)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, models.AccountID("alice"), payouts[0].To)
	assert.Equal(t, 2*h.fees.Play-h.fees.WinnerReward(), h.game(t, gameID).Pool)
}

func TestPayoutDrawRefundsEveryone(t *testing.T) {
	h := newHarness(t)
	gameID := h.newGame(t)
	require.NoError(t, h.stake(t, "carol", gameID, "alice"))
	h.play(t, "alice", gameID, rock)
	h.play(t, "bob", gameID, rock)

	pool := h.game(t, gameID).Pool
	payouts, transfers, err := h.payout(t, "alice", gameID)
	require.NoError(t, err)
	assert.Equal(t, []Payout{
		{To: "alice", Amount: h.fees.Play, Role: RoleRefund},
		{To: "bob", Amount: h.fees.Play, Role: RoleRefund},
		{To: "carol", Amount: h.fees.Stake, Role: RoleRefund},
	}, payouts)
	assert.Equal(t, pool, sum(transfers))
	assert.Zero(t, h.game(t, gameID).Pool)
}

func TestPayoutRejections(t *testing.T) {
	h := newHarness(t)
	gameID := h.newGame(t)

	_, _, err := h.payout(t, "alice", gameID)
	require.ErrorIs(t, err, models.ErrNotCompleted)

	h.play(t, "alice", gameID, rock)
	_, _, err = h.payout(t, "alice", gameID)
	require.ErrorIs(t, err, models.ErrNotCompleted)

	h.play(t, "bob", gameID, scissor)
	_, _, err = h.payout(t, "bob", gameID)
	require.ErrorIs(t, err, models.ErrUnauthorized)

	_, _, err = h.payout(t, "alice", "GM-404")
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, h.store.Transfers())

	_, _, err = h.payout(t, "alice", gameID)
	require.NoError(t, err)
	paid := len(h.store.Transfers())

	_, _, err = h.payout(t, "alice", gameID)
	require.ErrorIs(t, err, models.ErrAlreadySettled)
	assert.Len(t, h.store.Transfers(), paid)
}
