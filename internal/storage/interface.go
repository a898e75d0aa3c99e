package storage

import (
	"context"

	"github.com/ludosur/parchis-server/internal/model"
)

// Storage defines the interface for data persistence. Rooms are the unit of
// game state; players form the user directory the settlement engine debits
// and credits.
type Storage interface {
	// Player operations (the user directory)
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Room operations. Creation and deletion here are the only entry points
	// for the room table's lifecycle.
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
}
