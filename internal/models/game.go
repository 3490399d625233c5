// internal/models/game.go
package models

import "slices"

// DrawMarker is the single winners entry recorded when both players show the same move.
const DrawMarker = "draw"

// DefaultCapacity is the number of player slots in every game.
const DefaultCapacity = 2

// Game is one rock-paper-scissors contest inside a room, with its own stake pool.
type Game struct {
	ID       string     `json:"id"`
	RoomID   string     `json:"room_id"`
	Status   GameStatus `json:"status"`
	Capacity int        `json:"capacity"`

	Players []Player `json:"players"`
	Stakers []Staker `json:"stakers"`

	// Pool is the sum of every play and stake fee credited, less what settlement paid out.
	Pool Amount `json:"pool"`

	// Winners is empty until the roster fills, then holds the winning account or DrawMarker.
	Winners []string `json:"winners"`

	CreatedBy AccountID `json:"created_by"`
	CreatedAt int64     `json:"created_at"`

	// Settled is set once payout has run.
	Settled bool `json:"settled"`
}

// Player occupies one slot of a game. Move is assigned by the engine, not the caller.
type Player struct {
	ID       string    `json:"id"`
	Account  AccountID `json:"account"`
	Move     Move      `json:"move"`
	FeePaid  Amount    `json:"fee_paid"`
	JoinedAt int64     `json:"joined_at"`
}

// Staker backs a player's account to win. The staking account is the payee.
type Staker struct {
	ID       string    `json:"id"`
	GameID   string    `json:"game_id"`
	Backed   AccountID `json:"backed_account"`
	Account  AccountID `json:"account"`
	Amount   Amount    `json:"amount"`
	StakedAt int64     `json:"staked_at"`
}

func NewGame(id, roomID string, createdBy AccountID, createdAt int64) *Game {
	return &Game{
		ID:        id,
		RoomID:    roomID,
		Status:    Created,
		Capacity:  DefaultCapacity,
		Players:   []Player{},
		Stakers:   []Staker{},
		Winners:   []string{},
		CreatedBy: createdBy,
		CreatedAt: createdAt,
	}
}

func (g *Game) IsFull() bool {
	return len(g.Players) >= g.Capacity
}

func (g *Game) HasPlayer(acct AccountID) bool {
	return slices.ContainsFunc(g.Players, func(p Player) bool { return p.Account == acct })
}

// IsDraw reports whether the game resolved without a single winner.
func (g *Game) IsDraw() bool {
	return len(g.Winners) == 1 && g.Winners[0] == DrawMarker
}

// Winner returns the winning account for a decisive game.
func (g *Game) Winner() (AccountID, bool) {
	if g.Status != Completed || len(g.Winners) != 1 || g.IsDraw() {
		return "", false
	}
	return AccountID(g.Winners[0]), true
}

func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.Players = slices.Clone(g.Players)
	c.Stakers = slices.Clone(g.Stakers)
	c.Winners = slices.Clone(g.Winners)
	if c.Players == nil {
		c.Players = []Player{}
	}
	if c.Stakers == nil {
		c.Stakers = []Staker{}
	}
	if c.Winners == nil {
		c.Winners = []string{}
	}
	return &c
}
