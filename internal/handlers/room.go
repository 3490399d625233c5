// internal/handlers/room.go
package handlers

import (
	"context"
	"net/http"

	"github.com/jason-s-yu/roshambo/internal/chain"
	"github.com/jason-s-yu/roshambo/internal/models"
	"github.com/jason-s-yu/roshambo/internal/room"
)

type createRoomRequest struct {
	Visibility models.Visibility `json:"visibility"`
	Deposit    models.Amount     `json:"deposit"`
}

type roomRequest struct {
	RoomID  string        `json:"room_id"`
	Deposit models.Amount `json:"deposit"`
}

type decideRequest struct {
	RoomID    string           `json:"room_id"`
	Requester models.AccountID `json:"requester"`
	Accept    bool             `json:"accept"`
}

// CreateRoomHandler opens a room owned by the caller. Visibility defaults to public.
func CreateRoomHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		var req createRoomRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var roomID string
		_, err := gs.call(r, "create_room", caller, req.Deposit, func(ctx context.Context, env chain.Env) error {
			var err error
			roomID, err = gs.Rooms.CreateRoom(ctx, env, req.Visibility)
			return err
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"room_id": roomID})
	}
}

// JoinRoomHandler adds the caller to a public room.
func JoinRoomHandler(gs *GameServer) http.HandlerFunc {
	return roomCall(gs, "join_public", func(ctx context.Context, env chain.Env, req roomRequest) error {
		return gs.Rooms.JoinPublic(ctx, env, req.RoomID)
	})
}

// RequestJoinHandler files a join request for a private room.
func RequestJoinHandler(gs *GameServer) http.HandlerFunc {
	return roomCall(gs, "request_join", func(ctx context.Context, env chain.Env, req roomRequest) error {
		return gs.Rooms.RequestJoin(ctx, env, req.RoomID)
	})
}

func roomCall(gs *GameServer, method string, fn func(ctx context.Context, env chain.Env, req roomRequest) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		var req roomRequest
		if err := decodeBody(r, &req); err != nil || req.RoomID == "" {
			http.Error(w, "room_id is required", http.StatusBadRequest)
			return
		}
		_, err := gs.call(r, method, caller, req.Deposit, func(ctx context.Context, env chain.Env) error {
			return fn(ctx, env, req)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// DecideRequestHandler lets a room owner accept or reject a pending request.
func DecideRequestHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		var req decideRequest
		if err := decodeBody(r, &req); err != nil || req.RoomID == "" || req.Requester == "" {
			http.Error(w, "room_id and requester are required", http.StatusBadRequest)
			return
		}
		_, err := gs.call(r, "decide_request", caller, 0, func(ctx context.Context, env chain.Env) error {
			return gs.Rooms.DecideRequest(ctx, env, req.RoomID, req.Requester, req.Accept)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		status := models.Rejected
		if req.Accept {
			status = models.Accepted
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": status})
	}
}

func GetRoomHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := queryID(w, r, "id")
		if !ok {
			return
		}
		rm, err := gs.Rooms.GetRoom(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rm)
	}
}

// ListRoomsHandler lists rooms. The joined and not_joined filters are relative to the caller.
func ListRoomsHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := room.ParseFilter(r.URL.Query().Get("filter"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var caller models.AccountID
		if filter != room.All {
			var ok bool
			if caller, ok = requireCaller(w, r); !ok {
				return
			}
		}
		rooms, err := gs.Rooms.ListRooms(r.Context(), filter, caller)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

func ListMembersHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := queryID(w, r, "id")
		if !ok {
			return
		}
		members, err := gs.Rooms.ListMembers(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}

// ListRequestsHandler lists pending requests, or all of them with ?status=all.
func ListRequestsHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := queryID(w, r, "id")
		if !ok {
			return
		}
		list := gs.Rooms.ListPendingRequests
		if r.URL.Query().Get("status") == "all" {
			list = gs.Rooms.ListRequests
		}
		reqs, err := list(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reqs)
	}
}
