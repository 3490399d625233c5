// internal/handlers/game_server.go
package handlers

import (
	"context"
	"net/http"

	"github.com/jason-s-yu/roshambo/internal/chain"
	"github.com/jason-s-yu/roshambo/internal/game"
	"github.com/jason-s-yu/roshambo/internal/middleware"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/room"
	"github.com/jason-s-yu/roshambo/internal/settlement"
	"github.com/sirupsen/logrus"
)

// GameServer wires the host and the domain services to HTTP.
type GameServer struct {
	Host       *chain.Host
	Rooms      *room.Registry
	Engine     *game.Engine
	Settlement *settlement.Settlement
	Events     *EventHub
	Logger     logrus.FieldLogger
}

func NewGameServer(host *chain.Host, rooms *room.Registry, engine *game.Engine, settle *settlement.Settlement, logger logrus.FieldLogger) *GameServer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GameServer{
		Host:       host,
		Rooms:      rooms,
		Engine:     engine,
		Settlement: settle,
		Events:     NewEventHub(logger),
		Logger:     logger,
	}
}

// call runs fn as one host call on behalf of caller with deposit attached.
func (gs *GameServer) call(r *http.Request, method string, caller models.AccountID, deposit models.Amount, fn func(ctx context.Context, env chain.Env) error) ([]models.Transfer, error) {
	return gs.Host.Call(r.Context(), chain.Call{Method: method, Caller: caller, Deposit: deposit}, fn)
}

// Routes registers every endpoint on mux behind the logging middleware.
func (gs *GameServer) Routes(mux *http.ServeMux, logger logrus.FieldLogger) {
	logged := middleware.LogMiddleware(logger)
	handle := func(path string, h http.HandlerFunc) {
		mux.Handle(path, logged(h))
	}

	handle("/session", SessionHandler)
	logger.Warn("/session issues unverified tokens and trusts client deposits; development use only")

	// rooms
	handle("/room/create", CreateRoomHandler(gs))
	handle("/room/join", JoinRoomHandler(gs))
	handle("/room/request", RequestJoinHandler(gs))
	handle("/room/decide", DecideRequestHandler(gs))
	handle("/room/get", GetRoomHandler(gs))
	handle("/room/list", ListRoomsHandler(gs))
	handle("/room/members", ListMembersHandler(gs))
	handle("/room/requests", ListRequestsHandler(gs))

	// games
	handle("/game/create", CreateGameHandler(gs))
	handle("/game/play", PlayHandler(gs))
	handle("/game/stake", StakeHandler(gs))
	handle("/game/payout", PayoutHandler(gs))
	handle("/game/get", GetGameHandler(gs))
	handle("/game/list", ListGamesHandler(gs))
	handle("/game/players", ListPlayersHandler(gs))
	handle("/game/stakers", ListStakersHandler(gs))
	handle("/game/winner", WinnerHandler(gs))

	handle("/events/ws", EventsWSHandler(gs))
}
