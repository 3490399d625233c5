// internal/game/events.go
package game

import "github.com/jason-s-yu/roshambo/internal/models"

// GameEventType is an enum-like type for broadcasting game changes.
type GameEventType string

const (
	EventGameCreated   GameEventType = "game_created"
	EventPlayerJoined  GameEventType = "player_joined"
	EventStakePlaced   GameEventType = "stake_placed"
	EventGameCompleted GameEventType = "game_completed"
	EventGamePaidOut   GameEventType = "game_paid_out"
)

// GameEvent is the payload pushed to event subscribers after a call commits.
type GameEvent struct {
	Type    GameEventType     `json:"type"`
	GameID  string            `json:"game_id"`
	RoomID  string            `json:"room_id"`
	Account models.AccountID  `json:"account,omitempty"`
	Status  models.GameStatus `json:"status"`
	Pool    models.Amount     `json:"pool"`
	Winners []string          `json:"winners,omitempty"`

	// Transfers is only set on payout events.
	Transfers []models.Transfer `json:"transfers,omitempty"`
}

// NewGameEvent snapshots g for an event of type t triggered by acct.
func NewGameEvent(t GameEventType, g *models.Game, acct models.AccountID) GameEvent {
	return GameEvent{
		Type:    t,
		GameID:  g.ID,
		RoomID:  g.RoomID,
		Account: acct,
		Status:  g.Status,
		Pool:    g.Pool,
		Winners: g.Winners,
	}
}
