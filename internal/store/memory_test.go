package store

import (
	"context"
	"testing"

	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreApplyAndRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	room := models.NewRoom("RM-1", "alice", models.Public, 1)
	game := models.NewGame("GM-2", "RM-1", "alice", 2)

	b := &Batch{}
	b.PutRoom(room, true)
	b.PutGame(game, true)
	b.Transfers = append(b.Transfers, models.Transfer{To: "alice", Amount: 5})
	require.NoError(t, s.Apply(ctx, b))

	got, err := s.GetRoom(ctx, "RM-1")
	require.NoError(t, err)
	assert.Equal(t, []models.AccountID{"alice"}, got.Members)

	ids, err := s.GameIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GM-2"}, ids)
	assert.Len(t, s.Transfers(), 1)
}

func TestMemoryStoreReturnsClones(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	b := &Batch{}
	b.PutRoom(models.NewRoom("RM-1", "alice", models.Public, 1), true)
	require.NoError(t, s.Apply(ctx, b))

	r, err := s.GetRoom(ctx, "RM-1")
	require.NoError(t, err)
	r.AddMember("mallory")

	again, err := s.GetRoom(ctx, "RM-1")
	require.NoError(t, err)
	assert.False(t, again.IsMember("mallory"), "mutating a read copy must not leak into the store")
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetRoom(context.Background(), "RM-missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = s.GetGame(context.Background(), "GM-missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryStoreRejectsDuplicateCreate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	b := &Batch{}
	b.PutRoom(models.NewRoom("RM-1", "alice", models.Public, 1), true)
	require.NoError(t, s.Apply(ctx, b))

	dup := &Batch{}
	dup.PutRoom(models.NewRoom("RM-1", "bob", models.Private, 2), true)
	dup.Transfers = append(dup.Transfers, models.Transfer{To: "bob", Amount: 1})
	require.Error(t, s.Apply(ctx, dup))

	r, err := s.GetRoom(ctx, "RM-1")
	require.NoError(t, err)
	assert.Equal(t, models.AccountID("alice"), r.Owner)
	assert.Empty(t, s.Transfers())
}
