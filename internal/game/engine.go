// internal/game/engine.go
package game

import (
	"context"
	"fmt"

	"github.com/jason-s-yu/roshambo/internal/chain"
	"github.com/jason-s-yu/roshambo/internal/fees"
	"github.com/jason-s-yu/roshambo/internal/ids"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/store"
	"github.com/sirupsen/logrus"
)

// Membership answers whether an account belongs to a room.
type Membership interface {
	IsMember(ctx context.Context, roomID string, acct models.AccountID) (bool, error)
}

// Engine owns games: rosters, move assignment, outcome and pool accounting.
type Engine struct {
	store   store.Store
	members Membership
	fees    fees.Schedule
	ids     *ids.Generator
	logger  logrus.FieldLogger
}

func NewEngine(s store.Store, members Membership, schedule fees.Schedule, gen *ids.Generator, logger logrus.FieldLogger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		store:   s,
		members: members,
		fees:    schedule,
		ids:     gen,
		logger:  logger.WithField("component", "game"),
	}
}

func (e *Engine) requireMember(ctx context.Context, roomID string, acct models.AccountID) error {
	ok, err := e.members.IsMember(ctx, roomID, acct)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s in room %s: %w", acct, roomID, models.ErrNotMember)
	}
	return nil
}

// CreateGame opens an empty two-player game in a room the caller belongs to.
func (e *Engine) CreateGame(ctx context.Context, env chain.Env, roomID string) (string, error) {
	if err := e.requireMember(ctx, roomID, env.Caller()); err != nil {
		return "", err
	}
	if err := fees.Verify("create game", env.Attached(), e.fees.Game); err != nil {
		return "", err
	}

	id := e.ids.Next(ids.GamePrefix, env.Now())
	g := models.NewGame(id, roomID, env.Caller(), int64(env.Now()))
	env.Writes().PutGame(g, true)

	e.logger.WithFields(logrus.Fields{"game": id, "room": roomID, "creator": g.CreatedBy}).Debug("game created")
	return id, nil
}

// Play seats the caller with an engine-assigned move. Filling the last
// slot resolves the game.
func (e *Engine) Play(ctx context.Context, env chain.Env, gameID string) (*models.Game, error) {
	g, err := e.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.IsFull() {
		return nil, fmt.Errorf("game %s: %w", gameID, models.ErrGameFull)
	}
	caller := env.Caller()
	if err := e.requireMember(ctx, g.RoomID, caller); err != nil {
		return nil, err
	}
	if err := fees.Verify("play", env.Attached(), e.fees.Play); err != nil {
		return nil, err
	}
	if g.HasPlayer(caller) {
		return nil, fmt.Errorf("game %s: %w", gameID, models.ErrSelfPlay)
	}

	move, err := drawMove(env)
	if err != nil {
		return nil, err
	}
	g.Players = append(g.Players, models.Player{
		ID:       e.ids.Next(ids.PlayerPrefix, env.Now()),
		Account:  caller,
		Move:     move,
		FeePaid:  e.fees.Play,
		JoinedAt: int64(env.Now()),
	})
	g.Pool += e.fees.Play

	if g.Status == models.Created {
		g.Status = models.Active
	}
	if g.IsFull() {
		g.Winners = winnersOf(g.Players)
		g.Status = models.Completed
		e.logger.WithFields(logrus.Fields{
			"game":    gameID,
			"winners": g.Winners,
			"pool":    g.Pool,
		}).Debug("game resolved")
	}

	env.Writes().PutGame(g, false)
	return g, nil
}

// Stake backs an account to win. Stakes close once the game is completed.
func (e *Engine) Stake(ctx context.Context, env chain.Env, gameID string, backed models.AccountID) (*models.Staker, error) {
	g, err := e.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := fees.Verify("stake", env.Attached(), e.fees.Stake); err != nil {
		return nil, err
	}
	if g.Status == models.Completed {
		return nil, fmt.Errorf("stake on game %s: %w", gameID, models.ErrGameCompleted)
	}
	if backed == "" {
		return nil, fmt.Errorf("stake on game %s: backed account is required", gameID)
	}

	st := models.Staker{
		ID:       e.ids.Next(ids.StakerPrefix, env.Now()),
		GameID:   gameID,
		Backed:   backed,
		Account:  env.Caller(),
		Amount:   e.fees.Stake,
		StakedAt: int64(env.Now()),
	}
	g.Stakers = append(g.Stakers, st)
	g.Pool += st.Amount
	env.Writes().PutGame(g, false)
	return &st, nil
}
