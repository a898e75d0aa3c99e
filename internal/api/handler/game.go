package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ludosur/parchis-server/internal/api/middleware"
	"github.com/ludosur/parchis-server/internal/api/request"
	"github.com/ludosur/parchis-server/internal/api/response"
	"github.com/ludosur/parchis-server/internal/model"
	"github.com/ludosur/parchis-server/internal/services/game"
)

// GameHandler handles in-game action endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// Roll handles POST /api/v1/rooms/{id}/roll
func (h *GameHandler) Roll(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	rm, err := h.gameController.RollDice(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	turn := rm.Game.Turn
	resp := response.RollResponse{
		Dice:     turn.Dice,
		IsDouble: turn.IsDouble(),
		Turn:     response.TurnFromModel(turn),
		Room:     response.RoomFromModel(rm),
	}
	response.OK(w, resp)
}

// Move handles POST /api/v1/rooms/{id}/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Die <= 0 {
		WriteError(w, NewInvalidRequestError("die must be positive"))
		return
	}

	rm, err := h.gameController.MovePiece(r.Context(), id, player.ID, req.PieceID, req.Die, req.UsesBoth)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.MoveResponse{Room: response.RoomFromModel(rm)})
}
