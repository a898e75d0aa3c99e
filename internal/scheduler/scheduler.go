// Package scheduler runs deferred per-room actions such as turn handoff
// after a roll with no legal moves, or seat reclamation after a disconnect.
package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ludosur/parchis-server/internal/model"
)

// Scheduler keeps at most one pending timer per (room, kind) key.
// Scheduling over an existing key cancels the previous timer first.
type Scheduler struct {
	logger *slog.Logger

	mu     sync.Mutex
	timers map[key]*time.Timer
	closed bool
}

type key struct {
	roomID model.RoomID
	kind   string
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		timers: make(map[key]*time.Timer),
	}
}

// Schedule runs fn after delay, superseding any pending timer with the
// same room and kind. fn runs on the timer goroutine and must do its own
// locking.
func (s *Scheduler) Schedule(roomID model.RoomID, kind string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	k := key{roomID: roomID, kind: kind}
	if t, ok := s.timers[k]; ok {
		t.Stop()
	}

	s.timers[k] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, k)
		s.mu.Unlock()

		s.logger.Debug("running scheduled action",
			"room_id", roomID,
			"kind", kind)
		fn()
	})
}

// Cancel stops a pending timer for the given room and kind, if any.
func (s *Scheduler) Cancel(roomID model.RoomID, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{roomID: roomID, kind: kind}
	if t, ok := s.timers[k]; ok {
		t.Stop()
		delete(s.timers, k)
	}
}

// CancelRoom stops every pending timer for the room. Called on room
// teardown and on game over.
func (s *Scheduler) CancelRoom(roomID model.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, t := range s.timers {
		if k.roomID == roomID {
			t.Stop()
			delete(s.timers, k)
		}
	}
}

// Close cancels all pending timers and rejects further scheduling.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for k, t := range s.timers {
		t.Stop()
		delete(s.timers, k)
	}
}
