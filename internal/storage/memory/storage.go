package memory

import (
	"context"
	"sync"

	"github.com/ludosur/parchis-server/internal/model"
	"github.com/ludosur/parchis-server/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	rooms             map[model.RoomID]*model.Room
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		rooms:             make(map[model.RoomID]*model.Room),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok, nil
}
