package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ludosur/parchis-server/internal/model"
	"github.com/ludosur/parchis-server/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodeRoomFull            = "ROOM_FULL"
	CodeAlreadySeated       = "ALREADY_SEATED"
	CodeNotInRoom           = "NOT_IN_ROOM"
	CodeNotHost             = "NOT_HOST"
	CodeGameInProgress      = "GAME_IN_PROGRESS"
	CodeNoGameInProgress    = "NO_GAME_IN_PROGRESS"
	CodeInvalidSettings     = "INVALID_SETTINGS"
	CodeNotEnoughPlayers    = "NOT_ENOUGH_PLAYERS"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeActionInFlight      = "ACTION_IN_FLIGHT"
	CodeRollNotAllowed      = "ROLL_NOT_ALLOWED"
	CodeIllegalMove         = "ILLEGAL_MOVE"
	CodeNoRematch           = "NO_REMATCH"
	CodeNotWinner           = "NOT_WINNER"
	CodeRematchNotReady     = "REMATCH_NOT_READY"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "All seats are taken"}}
	case errors.Is(err, model.ErrAlreadySeated):
		return &httpError{http.StatusConflict, APIError{CodeAlreadySeated, "Already seated in this room"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Not seated in this room"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrGameInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game is in progress"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeNoGameInProgress, "No game in progress"}}
	case errors.Is(err, model.ErrInvalidSettings):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSettings, "Invalid room settings"}}
	case errors.Is(err, model.ErrNotEnoughPlayers):
		return &httpError{http.StatusConflict, APIError{CodeNotEnoughPlayers, "Not enough seated players to start"}}
	case errors.Is(err, model.ErrInsufficientCredits):
		return &httpError{http.StatusPaymentRequired, APIError{CodeInsufficientCredits, "Insufficient credits for the ante"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrActionInFlight):
		return &httpError{http.StatusConflict, APIError{CodeActionInFlight, "Another action is being applied"}}
	case errors.Is(err, model.ErrRollNotAllowed):
		return &httpError{http.StatusConflict, APIError{CodeRollNotAllowed, "A roll is not allowed now"}}
	case errors.Is(err, model.ErrIllegalMove):
		return &httpError{http.StatusConflict, APIError{CodeIllegalMove, "Move is not among the legal moves"}}
	case errors.Is(err, model.ErrNoRematch):
		return &httpError{http.StatusConflict, APIError{CodeNoRematch, "No rematch is open"}}
	case errors.Is(err, model.ErrNotWinner):
		return &httpError{http.StatusForbidden, APIError{CodeNotWinner, "Only the winner can start the rematch"}}
	case errors.Is(err, model.ErrRematchNotReady):
		return &httpError{http.StatusConflict, APIError{CodeRematchNotReady, "Not all returning players have confirmed"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
