package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadySeated    = errors.New("player is already seated in room")
	ErrNotInRoom        = errors.New("player is not in room")
	ErrNotHost          = errors.New("player is not the host")
	ErrGameInProgress   = errors.New("game is in progress")
	ErrGameNotStarted   = errors.New("no game in progress")
	ErrInvalidSettings  = errors.New("invalid room settings")
	ErrNotEnoughPlayers = errors.New("not enough seated players to start")

	// Wallet errors
	ErrInsufficientCredits = errors.New("insufficient credits for ante")

	// Rejected actions (reported to the offending client only)
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrActionInFlight = errors.New("another action is being applied")
	ErrRollNotAllowed = errors.New("a roll is not allowed now")
	ErrIllegalMove    = errors.New("move is not among the legal moves")

	// Path resolution errors
	ErrOvershoot   = errors.New("steps overshoot the goal")
	ErrPathBlocked = errors.New("path crosses a blockade")
	ErrBadCell     = errors.New("cell is not reachable for this color")

	// Rematch errors
	ErrNoRematch       = errors.New("no rematch is open")
	ErrNotWinner       = errors.New("only the winner can start the rematch")
	ErrRematchNotReady = errors.New("not all returning players have confirmed")

	// ErrIntegrity marks an unrecoverable state inconsistency; the room is
	// terminated rather than repaired.
	ErrIntegrity = errors.New("room state integrity violation")
)
