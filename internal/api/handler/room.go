package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ludosur/parchis-server/internal/api/middleware"
	"github.com/ludosur/parchis-server/internal/api/request"
	"github.com/ludosur/parchis-server/internal/api/response"
	"github.com/ludosur/parchis-server/internal/model"
	"github.com/ludosur/parchis-server/internal/services/room"
)

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	roomController *room.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomController *room.Controller) *RoomHandler {
	return &RoomHandler{
		roomController: roomController,
	}
}

// settingsFromRequest builds room settings from the create request,
// filling defaults for omitted fields
func settingsFromRequest(req request.CreateRoomRequest, hostCurrency string) (model.Settings, error) {
	settings := model.Settings{
		Bet:         req.Bet,
		BetCurrency: req.BetCurrency,
		PieceCount:  req.PieceCount,
		AutoExit:    model.ExitMode(req.AutoExit),
		Variant:     model.Variant(req.Variant),
		TeamMode:    req.TeamMode,
	}

	if settings.BetCurrency == "" {
		settings.BetCurrency = hostCurrency
	}
	if settings.PieceCount == 0 {
		settings.PieceCount = 4
	}
	if settings.AutoExit == "" {
		settings.AutoExit = model.ExitModeDouble
	}
	if settings.Variant == "" {
		settings.Variant = model.VariantClassic
	}

	// The forced-capture penalty defaults to on only for the classic,
	// non-team game; prize-distance and team rooms opt in explicitly.
	if req.ForcedCapture != nil {
		settings.ForcedCapture = *req.ForcedCapture
	} else {
		settings.ForcedCapture = settings.Variant == model.VariantClassic && !settings.TeamMode
	}

	if req.HostColor != "" {
		color, err := model.ParseColor(req.HostColor)
		if err != nil {
			return model.Settings{}, model.ErrInvalidSettings
		}
		settings.HostColor = color
	} else {
		settings.HostColor = model.Yellow
	}

	return settings, nil
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for default settings
		req = request.CreateRoomRequest{}
	}

	settings, err := settingsFromRequest(req, player.Currency)
	if err != nil {
		WriteError(w, err)
		return
	}

	rm, err := h.roomController.CreateRoom(r.Context(), *player, settings)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.RoomFromModel(rm))
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	rm, err := h.roomController.GetRoom(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.RoomFromModel(rm))
}

// Join handles POST /api/v1/rooms/{id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	rm, err := h.roomController.JoinRoom(r.Context(), id, *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.RoomFromModel(rm))
}

// Leave handles POST /api/v1/rooms/{id}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	if err := h.roomController.LeaveRoom(r.Context(), id, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Start handles POST /api/v1/rooms/{id}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	rm, err := h.roomController.StartGame(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.RoomFromModel(rm))
}

// ConfirmRematch handles POST /api/v1/rooms/{id}/rematch/confirm
func (h *RoomHandler) ConfirmRematch(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	rm, err := h.roomController.ConfirmRematch(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.RoomFromModel(rm))
}

// StartRematch handles POST /api/v1/rooms/{id}/rematch/start
func (h *RoomHandler) StartRematch(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	rm, err := h.roomController.StartRematch(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.RoomFromModel(rm))
}
