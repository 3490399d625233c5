// internal/game/query.go
package game

import (
	"context"

	"github.com/jason-s-yu/roshambo/internal/models"
)

func (e *Engine) GetGame(ctx context.Context, id string) (*models.Game, error) {
	return e.store.GetGame(ctx, id)
}

// ListGames returns the games of a room in creation order. An empty roomID lists every game.
func (e *Engine) ListGames(ctx context.Context, roomID string) ([]*models.Game, error) {
	gameIDs, err := e.store.GameIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := []*models.Game{}
	for _, id := range gameIDs {
		g, err := e.store.GetGame(ctx, id)
		if err != nil {
			return nil, err
		}
		if roomID != "" && g.RoomID != roomID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (e *Engine) ListPlayers(ctx context.Context, id string) ([]models.Player, error) {
	g, err := e.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.Players, nil
}

func (e *Engine) ListStakers(ctx context.Context, id string) ([]models.Staker, error) {
	g, err := e.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.Stakers, nil
}

// Winners returns the resolved winners, empty until the roster is full.
func (e *Engine) Winners(ctx context.Context, id string) ([]string, error) {
	g, err := e.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.Winners, nil
}
