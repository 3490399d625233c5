// internal/room/query.go
package room

import (
	"context"
	"fmt"

	"github.com/jason-s-yu/roshambo/internal/models"
)

// Filter selects rooms relative to an account.
type Filter string

const (
	All       Filter = "all"
	Joined    Filter = "joined"
	NotJoined Filter = "not_joined"
)

func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", All:
		return All, nil
	case Joined, NotJoined:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown room filter %q", s)
}

func (reg *Registry) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	return reg.store.GetRoom(ctx, id)
}

// ListRooms returns rooms in creation order, filtered by acct's membership.
func (reg *Registry) ListRooms(ctx context.Context, filter Filter, acct models.AccountID) ([]*models.Room, error) {
	roomIDs, err := reg.store.RoomIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := []*models.Room{}
	for _, id := range roomIDs {
		r, err := reg.store.GetRoom(ctx, id)
		if err != nil {
			return nil, err
		}
		switch filter {
		case Joined:
			if !r.IsMember(acct) {
				continue
			}
		case NotJoined:
			if r.IsMember(acct) {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (reg *Registry) ListMembers(ctx context.Context, id string) ([]models.AccountID, error) {
	r, err := reg.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.Members, nil
}

func (reg *Registry) ListPendingRequests(ctx context.Context, id string) ([]models.JoinRequest, error) {
	r, err := reg.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.PendingRequests(), nil
}

// ListRequests returns every request of the room, decided ones included.
func (reg *Registry) ListRequests(ctx context.Context, id string) ([]models.JoinRequest, error) {
	r, err := reg.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.Requests, nil
}

// IsMember reports whether acct belongs to the room.
func (reg *Registry) IsMember(ctx context.Context, roomID string, acct models.AccountID) (bool, error) {
	r, err := reg.store.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	return r.IsMember(acct), nil
}
