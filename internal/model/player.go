package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player is a game participant's account record, including the wallet the
// settlement engine debits antes from and credits winnings to.
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players
	Credits     int64
	Currency    string
	CreatedAt   time.Time
}

// RegisteredPlayer extends Player with authentication data
// Stored separately for security (password never in memory with session)
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
