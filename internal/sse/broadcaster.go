package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/ludosur/parchis-server/internal/model"
)

// Broadcaster serializes game events and pushes them to a room's hub. It is
// the fanout sink the game and room controllers emit through.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Emit broadcasts an event to every client of the room. Rooms without a hub
// have no subscribers yet; the event is dropped silently.
func (b *Broadcaster) Emit(roomID model.RoomID, event model.Event) {
	hub := b.hubManager.GetHub(roomID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("room", string(roomID)),
			slog.String("event", event.EventName()),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(event.EventName(), string(data))
}
