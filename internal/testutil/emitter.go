package testutil

import (
	"sync"

	"github.com/ludosur/parchis-server/internal/model"
)

// RecordingEmitter captures broadcast events for assertions.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []model.Event
}

func NewRecordingEmitter() *RecordingEmitter {
	return &RecordingEmitter{}
}

func (e *RecordingEmitter) Emit(roomID model.RoomID, event model.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

// Events returns all captured events in emission order.
func (e *RecordingEmitter) Events() []model.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.Event(nil), e.events...)
}

// ByName returns the captured events with the given name.
func (e *RecordingEmitter) ByName(name string) []model.Event {
	var out []model.Event
	for _, ev := range e.Events() {
		if ev.EventName() == name {
			out = append(out, ev)
		}
	}
	return out
}

// Last returns the most recent event with the given name, or nil.
func (e *RecordingEmitter) Last(name string) model.Event {
	events := e.ByName(name)
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

// Clear discards captured events.
func (e *RecordingEmitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = nil
}
