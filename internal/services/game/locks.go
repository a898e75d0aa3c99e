package game

import (
	"sync"

	"github.com/ludosur/parchis-server/internal/model"
)

// Locks hands out one mutex per room. Every read-modify-write of a room's
// state must run under that room's mutex; storage alone does not serialize
// concurrent actions.
type Locks struct {
	mu    sync.Mutex
	locks map[model.RoomID]*sync.Mutex
}

func NewLocks() *Locks {
	return &Locks{
		locks: make(map[model.RoomID]*sync.Mutex),
	}
}

// Get returns the mutex for a room, creating it on first use.
func (l *Locks) Get(roomID model.RoomID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	return m
}

// Release drops a room's mutex after the room is deleted.
func (l *Locks) Release(roomID model.RoomID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, roomID)
}
