package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ludosur/parchis-server/internal/api/middleware"
	"github.com/ludosur/parchis-server/internal/api/request"
	"github.com/ludosur/parchis-server/internal/api/response"
	"github.com/ludosur/parchis-server/internal/services/auth"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService *auth.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
	}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.CreateGuestPlayer(r.Context(), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.AuthResponseFromSession(session))
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.AuthResponseFromSession(session))
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		WriteError(w, NewUnauthorizedError())
		return
	}

	// Re-read from storage so the wallet balance reflects antes and payouts
	player, err := h.authService.GetPlayer(r.Context(), session.Token)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.PlayerFromModel(player))
}
