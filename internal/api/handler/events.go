package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ludosur/parchis-server/internal/api/middleware"
	"github.com/ludosur/parchis-server/internal/model"
	"github.com/ludosur/parchis-server/internal/services/room"
	"github.com/ludosur/parchis-server/internal/sse"
)

// EventsHandler streams room events to connected clients
type EventsHandler struct {
	roomController *room.Controller
	hubManager     *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(roomController *room.Controller, hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		roomController: roomController,
		hubManager:     hubManager,
	}
}

// Stream handles GET /api/v1/rooms/{id}/events. Any authenticated player
// may subscribe; spectators receive the same feed as seated players.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	if _, err := h.roomController.GetRoom(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, player.ID)
}
