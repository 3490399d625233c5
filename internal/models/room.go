// internal/models/room.go
package models

import "slices"

// AccountID identifies a ledger account, e.g. "alice.testnet".
type AccountID string

// Amount is a count of the ledger's smallest value unit.
type Amount uint64

// Room is a group of accounts that can create and play games together.
type Room struct {
	ID         string      `json:"id"`
	Owner      AccountID   `json:"owner"`
	Visibility Visibility  `json:"visibility"`
	Members    []AccountID `json:"members"`

	// Requests keeps every join request in submission order, decided ones included.
	Requests []JoinRequest `json:"requests"`

	CreatedAt int64 `json:"created_at"`
}

// JoinRequest is an ask to enter a private room, decided once by the owner.
type JoinRequest struct {
	RoomID      string        `json:"room_id"`
	Requester   AccountID     `json:"requester"`
	Status      RequestStatus `json:"status"`
	RequestedAt int64         `json:"requested_at"`
}

// NewRoom seeds the membership with exactly the owner.
func NewRoom(id string, owner AccountID, visibility Visibility, createdAt int64) *Room {
	return &Room{
		ID:         id,
		Owner:      owner,
		Visibility: visibility,
		Members:    []AccountID{owner},
		Requests:   []JoinRequest{},
		CreatedAt:  createdAt,
	}
}

func (r *Room) IsMember(acct AccountID) bool {
	return slices.Contains(r.Members, acct)
}

// AddMember appends acct unless it is already present. Reports whether it was added.
func (r *Room) AddMember(acct AccountID) bool {
	if r.IsMember(acct) {
		return false
	}
	r.Members = append(r.Members, acct)
	return true
}

// LatestRequest returns the index of the most recent request from acct, or -1.
func (r *Room) LatestRequest(acct AccountID) int {
	for i := len(r.Requests) - 1; i >= 0; i-- {
		if r.Requests[i].Requester == acct {
			return i
		}
	}
	return -1
}

// PendingRequests returns the requests still awaiting a decision.
func (r *Room) PendingRequests() []JoinRequest {
	out := []JoinRequest{}
	for _, req := range r.Requests {
		if req.Status == Pending {
			out = append(out, req)
		}
	}
	return out
}

// Clone returns a deep copy so callers can mutate it without touching stored state.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Members = slices.Clone(r.Members)
	c.Requests = slices.Clone(r.Requests)
	if c.Members == nil {
		c.Members = []AccountID{}
	}
	if c.Requests == nil {
		c.Requests = []JoinRequest{}
	}
	return &c
}
