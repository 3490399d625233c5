// internal/handlers/game.go
package handlers

import (
	"context"
	"net/http"

	"github.com/jason-s-yu/roshambo/internal/chain"
	"github.com/jason-s-yu/roshambo/internal/game"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/settlement"
)

type gameRequest struct {
	RoomID  string        `json:"room_id,omitempty"`
	GameID  string        `json:"game_id,omitempty"`
	Deposit models.Amount `json:"deposit"`
}

type stakeRequest struct {
	GameID  string           `json:"game_id"`
	Backed  models.AccountID `json:"backed_account"`
	Deposit models.Amount    `json:"deposit"`
}

type payoutResponse struct {
	GameID    string              `json:"game_id"`
	Payouts   []settlement.Payout `json:"payouts"`
	Transfers []models.Transfer   `json:"transfers"`
}

// stagedGame returns the game state a call staged for commit.
func stagedGame(env chain.Env, id string) *models.Game {
	games := env.Writes().Games
	for i := len(games) - 1; i >= 0; i-- {
		if games[i].ID == id {
			return games[i].Clone()
		}
	}
	return nil
}

// publish pushes an event for g, the state committed by the call that triggered it.
func (gs *GameServer) publish(t game.GameEventType, g *models.Game, acct models.AccountID, transfers []models.Transfer) {
	if g == nil {
		return
	}
	ev := game.NewGameEvent(t, g, acct)
	ev.Transfers = transfers
	gs.Events.Publish(ev)
}

// CreateGameHandler opens a game in a room the caller belongs to.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		var req gameRequest
		if err := decodeBody(r, &req); err != nil || req.RoomID == "" {
			http.Error(w, "room_id is required", http.StatusBadRequest)
			return
		}

		var gameID string
		var created *models.Game
		_, err := gs.call(r, "create_game", caller, req.Deposit, func(ctx context.Context, env chain.Env) error {
			var err error
			gameID, err = gs.Engine.CreateGame(ctx, env, req.RoomID)
			created = stagedGame(env, gameID)
			return err
		})
		if err != nil {
			writeError(w, err)
			return
		}
		gs.publish(game.EventGameCreated, created, caller, nil)
		writeJSON(w, http.StatusOK, map[string]string{"game_id": gameID})
	}
}

// PlayHandler seats the caller in a game. The move is drawn by the engine.
func PlayHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		var req gameRequest
		if err := decodeBody(r, &req); err != nil || req.GameID == "" {
			http.Error(w, "game_id is required", http.StatusBadRequest)
			return
		}

		var g *models.Game
		_, err := gs.call(r, "play", caller, req.Deposit, func(ctx context.Context, env chain.Env) error {
			var err error
			g, err = gs.Engine.Play(ctx, env, req.GameID)
			return err
		})
		if err != nil {
			writeError(w, err)
			return
		}
		gs.publish(game.EventPlayerJoined, g, caller, nil)
		if g.Status == models.Completed {
			gs.publish(game.EventGameCompleted, g, caller, nil)
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// StakeHandler backs an account to win a game.
func StakeHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		var req stakeRequest
		if err := decodeBody(r, &req); err != nil || req.GameID == "" || req.Backed == "" {
			http.Error(w, "game_id and backed_account are required", http.StatusBadRequest)
			return
		}

		var st *models.Staker
		var staked *models.Game
		_, err := gs.call(r, "stake", caller, req.Deposit, func(ctx context.Context, env chain.Env) error {
			var err error
			st, err = gs.Engine.Stake(ctx, env, req.GameID, req.Backed)
			staked = stagedGame(env, req.GameID)
			return err
		})
		if err != nil {
			writeError(w, err)
			return
		}
		gs.publish(game.EventStakePlaced, staked, caller, nil)
		writeJSON(w, http.StatusOK, st)
	}
}

// PayoutHandler settles a completed game on behalf of its creator.
func PayoutHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		var req gameRequest
		if err := decodeBody(r, &req); err != nil || req.GameID == "" {
			http.Error(w, "game_id is required", http.StatusBadRequest)
			return
		}

		var payouts []settlement.Payout
		var settled *models.Game
		transfers, err := gs.call(r, "payout", caller, req.Deposit, func(ctx context.Context, env chain.Env) error {
			var err error
			payouts, err = gs.Settlement.Payout(ctx, env, req.GameID)
			settled = stagedGame(env, req.GameID)
			return err
		})
		if err != nil {
			writeError(w, err)
			return
		}
		gs.publish(game.EventGamePaidOut, settled, caller, transfers)
		writeJSON(w, http.StatusOK, payoutResponse{GameID: req.GameID, Payouts: payouts, Transfers: transfers})
	}
}

func GetGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := queryID(w, r, "id")
		if !ok {
			return
		}
		g, err := gs.Engine.GetGame(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// ListGamesHandler lists every game, or only those of ?room_id= when given.
func ListGamesHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := gs.Engine.ListGames(r.Context(), r.URL.Query().Get("room_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func ListPlayersHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := queryID(w, r, "id")
		if !ok {
			return
		}
		players, err := gs.Engine.ListPlayers(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func ListStakersHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := queryID(w, r, "id")
		if !ok {
			return
		}
		stakers, err := gs.Engine.ListStakers(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stakers)
	}
}

// WinnerHandler returns the winners list: empty while open, the winner's account, or "draw".
func WinnerHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := queryID(w, r, "id")
		if !ok {
			return
		}
		winners, err := gs.Engine.Winners(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"game_id": id, "winners": winners})
	}
}
