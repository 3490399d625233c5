// internal/store/memory.go
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jason-s-yu/roshambo/internal/models"
)

// MemoryStore keeps rooms, games and transfer receipts in process memory.
type MemoryStore struct {
	mu sync.Mutex

	rooms     map[string]*models.Room
	roomOrder []string
	games     map[string]*models.Game
	gameOrder []string
	transfers []models.Transfer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]*models.Room),
		games: make(map[string]*models.Game),
	}
}

func (s *MemoryStore) GetRoom(_ context.Context, id string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	return r.Clone(), nil
}

func (s *MemoryStore) GetGame(_ context.Context, id string) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id, models.ErrNotFound)
	}
	return g.Clone(), nil
}

func (s *MemoryStore) RoomIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.roomOrder), nil
}

func (s *MemoryStore) GameIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.gameOrder), nil
}

func (s *MemoryStore) Apply(_ context.Context, b *Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// validate before touching anything so a bad batch leaves no trace
	for _, id := range b.NewRooms {
		if _, exists := s.rooms[id]; exists {
			return fmt.Errorf("room %s already exists", id)
		}
	}
	for _, id := range b.NewGames {
		if _, exists := s.games[id]; exists {
			return fmt.Errorf("game %s already exists", id)
		}
	}

	for _, r := range b.Rooms {
		s.rooms[r.ID] = r.Clone()
	}
	for _, g := range b.Games {
		s.games[g.ID] = g.Clone()
	}
	s.roomOrder = append(s.roomOrder, b.NewRooms...)
	s.gameOrder = append(s.gameOrder, b.NewGames...)
	s.transfers = append(s.transfers, b.Transfers...)
	return nil
}

// Transfers returns every receipt committed so far, oldest first.
func (s *MemoryStore) Transfers() []models.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transfers)
}
