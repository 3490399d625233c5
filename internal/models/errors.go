// internal/models/errors.go
package models

import (
	"errors"
	"fmt"
)

// Every precondition failure aborts the whole call. Callers wrap these with
// context and match them with errors.Is.
var (
	ErrInsufficientFee  = errors.New("insufficient fee attached")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyMember    = errors.New("already a member of this room")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotMember        = fmt.Errorf("%w: not a member of this room", ErrUnauthorized)
	ErrDuplicatePending = errors.New("a join request is already pending")
	ErrNoSuchRequest    = errors.New("no pending join request")
	ErrRequestClosed    = errors.New("join request was already rejected")
	ErrRoomIsPrivate    = errors.New("room is private, request to join instead")
	ErrRoomIsPublic     = errors.New("room is public, join it directly")
	ErrGameFull         = errors.New("maximum players reached, join another game")
	ErrSelfPlay         = errors.New("account already holds a player slot in this game")
	ErrGameCompleted    = errors.New("game already completed")
	ErrNotCompleted     = errors.New("game not completed")
	ErrAlreadySettled   = errors.New("game already paid out")
	ErrRandomness       = errors.New("randomness source exhausted")
)
