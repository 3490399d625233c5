// internal/room/registry.go
package room

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

// Registry owns rooms and their membership ledger.
type Registry struct {
	store  store.Store
	fees   fees.Schedule
	ids    *ids.Generator
	logger logrus.FieldLogger
}

func NewRegistry(s store.Store, schedule fees.Schedule, gen *ids.Generator, logger logrus.FieldLogger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		store:  s,
		fees:   schedule,
		ids:    gen,
		logger: logger.WithField("component", "room"),
	}
}

// CreateRoom charges the room fee and opens a room owned by the caller.
func (reg *Registry) CreateRoom(ctx context.Context, env chain.Env, visibility models.Visibility) (string, error) {
	if err := fees.Verify("create room", env.Attached(), reg.fees.Room); err != nil {
		return "", err
	}
	if visibility != models.Public && visibility != models.Private {
		return "", fmt.Errorf("unknown visibility %d", visibility)
	}

	id := reg.ids.Next(ids.RoomPrefix, env.Now())
	r := models.NewRoom(id, env.Caller(), visibility, int64(env.Now()))
	env.Writes().PutRoom(r, true)

	reg.logger.WithFields(logrus.Fields{
		"room":       id,
		"owner":      r.Owner,
		"visibility": visibility,
	}).Debug("room created")
	return id, nil
}

// JoinPublic adds the caller to a public room.
func (reg *Registry) JoinPublic(ctx context.Context, env chain.Env, roomID string) error {
	r, err := reg.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	caller := env.Caller()
	if r.IsMember(caller) {
		return fmt.Errorf("room %s: %w", roomID, models.ErrAlreadyMember)
	}
	if r.Visibility == models.Private {
		return fmt.Errorf("room %s: %w", roomID, models.ErrRoomIsPrivate)
	}

	r.AddMember(caller)
	env.Writes().PutRoom(r, false)
	return nil
}

// RequestJoin files a pending request to enter a private room.
func (reg *Registry) RequestJoin(ctx context.Context, env chain.Env, roomID string) error {
	if err := fees.Verify("join request", env.Attached(), reg.fees.JoinRequest); err != nil {
		return err
	}
	r, err := reg.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	caller := env.Caller()
	if r.Visibility != models.Private {
		return fmt.Errorf("room %s: %w", roomID, models.ErrRoomIsPublic)
	}
	if r.IsMember(caller) {
		return fmt.Errorf("room %s: %w", roomID, models.ErrAlreadyMember)
	}
	if i := r.LatestRequest(caller); i >= 0 {
		switch r.Requests[i].Status {
		case models.Pending:
			return fmt.Errorf("room %s: %w", roomID, models.ErrDuplicatePending)
		case models.Rejected:
			return fmt.Errorf("room %s: %w", roomID, models.ErrRequestClosed)
		}
	}

	r.Requests = append(r.Requests, models.JoinRequest{
		RoomID:      roomID,
		Requester:   caller,
		Status:      models.Pending,
		RequestedAt: int64(env.Now()),
	})
	env.Writes().PutRoom(r, false)
	return nil
}

// DecideRequest lets the owner accept or reject a pending request. Both outcomes are final.
func (reg *Registry) DecideRequest(ctx context.Context, env chain.Env, roomID string, requester models.AccountID, accept bool) error {
	r, err := reg.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if env.Caller() != r.Owner {
		return fmt.Errorf("only the owner of room %s can decide requests: %w", roomID, models.ErrUnauthorized)
	}
	i := r.LatestRequest(requester)
	if i < 0 || r.Requests[i].Status != models.Pending {
		return fmt.Errorf("room %s, requester %s: %w", roomID, requester, models.ErrNoSuchRequest)
	}

	if accept {
		r.Requests[i].Status = models.Accepted
		r.AddMember(requester)
	} else {
		r.Requests[i].Status = models.Rejected
	}
	env.Writes().PutRoom(r, false)

	reg.logger.WithFields(logrus.Fields{
		"room":      roomID,
		"requester": requester,
		"status":    r.Requests[i].Status,
	}).Debug("join request decided")
	return nil
}
