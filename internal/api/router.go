package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ludosur/parchis-server/internal/api/handler"
	"github.com/ludosur/parchis-server/internal/api/middleware"
	"github.com/ludosur/parchis-server/internal/services/auth"
	"github.com/ludosur/parchis-server/internal/services/game"
	"github.com/ludosur/parchis-server/internal/services/room"
	"github.com/ludosur/parchis-server/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	RoomController *room.Controller
	GameController *game.Controller
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.RoomController)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	eventsHandler := handler.NewEventsHandler(cfg.RoomController, cfg.HubManager)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	// Room routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/start", roomHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/rematch/confirm", roomHandler.ConfirmRematch).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/rematch/start", roomHandler.StartRematch).Methods(http.MethodPost)

	// In-game action routes
	rooms.HandleFunc("/{id}/roll", gameHandler.Roll).Methods(http.MethodPost)
	rooms.HandleFunc("/{id}/move", gameHandler.Move).Methods(http.MethodPost)

	// Event stream
	rooms.HandleFunc("/{id}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
