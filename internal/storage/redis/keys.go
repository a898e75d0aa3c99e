package redis

import (
	"fmt"

	"github.com/ludosur/parchis-server/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "parchis"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}
