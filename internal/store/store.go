// internal/store/store.go
package store

import (
	"context"

	"github.com/jason-s-yu/roshambo/internal/models"
)

// Store persists rooms and games keyed by identifier, plus an append-only
// list of identifiers per kind in creation order. Reads return clones.
type Store interface {
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	GetGame(ctx context.Context, id string) (*models.Game, error)
	RoomIDs(ctx context.Context) ([]string, error)
	GameIDs(ctx context.Context) ([]string, error)

	// Apply commits every write of the batch, or none of them.
	Apply(ctx context.Context, b *Batch) error
}

// Batch collects the writes of a single call.
type Batch struct {
	Rooms     []*models.Room
	Games     []*models.Game
	NewRooms  []string
	NewGames  []string
	Transfers []models.Transfer
}

// PutRoom stages a room write. created appends its id to the room list.
func (b *Batch) PutRoom(r *models.Room, created bool) {
	b.Rooms = append(b.Rooms, r.Clone())
	if created {
		b.NewRooms = append(b.NewRooms, r.ID)
	}
}

// PutGame stages a game write. created appends its id to the game list.
func (b *Batch) PutGame(g *models.Game, created bool) {
	b.Games = append(b.Games, g.Clone())
	if created {
		b.NewGames = append(b.NewGames, g.ID)
	}
}

func (b *Batch) Empty() bool {
	return len(b.Rooms) == 0 && len(b.Games) == 0 && len(b.Transfers) == 0
}
