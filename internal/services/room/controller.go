// Package room manages the table lifecycle: seating, antes, game start,
// leaving, and the post-game rematch protocol.
package room

import (
	"context"
	"log/slog"
	"time"

	"github.com/ludosur/parchis-server/internal/board"
	"github.com/ludosur/parchis-server/internal/dependencies/clock"
	"github.com/ludosur/parchis-server/internal/dependencies/random"
	"github.com/ludosur/parchis-server/internal/model"
	"github.com/ludosur/parchis-server/internal/scheduler"
	"github.com/ludosur/parchis-server/internal/services/game"
	"github.com/ludosur/parchis-server/internal/services/settlement"
	"github.com/ludosur/parchis-server/internal/storage"
)

const (
	// RoomIDLength is the length of generated room identifiers
	RoomIDLength = 6
	// RoomIDAlphabet is the characters used in room identifiers (avoid confusing chars)
	RoomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// autoExitSeedCount is how many pieces per seat start on the board
	// when the room plays with automatic exits
	autoExitSeedCount = 2

	// waitingRoomTTL is how long a room may sit in the waiting state with
	// no seating activity before it is collected
	waitingRoomTTL = 30 * time.Minute
)

// Wallet funds antes and refunds.
type Wallet interface {
	Debit(ctx context.Context, playerID model.PlayerID, amount int64) (*model.Player, error)
	Credit(ctx context.Context, playerID model.PlayerID, amount int64) (*model.Player, error)
}

// Controller manages room lifecycle and seating
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	settlement     *settlement.Service
	wallet         Wallet
	scheduler      *scheduler.Scheduler
	locks          *game.Locks
	emitter        game.Emitter
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

// NewController creates a new room controller
func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	settlement *settlement.Service,
	wallet Wallet,
	scheduler *scheduler.Scheduler,
	locks *game.Locks,
	emitter game.Emitter,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		settlement:     settlement,
		wallet:         wallet,
		scheduler:      scheduler,
		locks:          locks,
		emitter:        emitter,
		clock:          clock,
		random:         random,
		logger:         logger,
	}
}

// CreateRoom creates a room with the host seated at seat 0. Seat colors
// rotate from the host's chosen color in turn order.
func (c *Controller) CreateRoom(ctx context.Context, host model.Player, settings model.Settings) (*model.Room, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	now := c.clock.Now()

	var id model.RoomID
	for {
		id = model.RoomID(c.random.String(RoomIDLength, RoomIDAlphabet))
		exists, err := c.storage.RoomExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	room := &model.Room{
		ID:        id,
		Settings:  settings,
		State:     model.RoomStateWaiting,
		HostIndex: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range room.Seats {
		room.Seats[i] = model.Seat{
			Index:  i,
			Color:  model.Color((int(settings.HostColor) + i) % model.ColorCount),
			Status: model.SeatStatusOpen,
		}
	}
	room.Seats[0].PlayerID = host.ID
	room.Seats[0].PlayerName = host.DisplayName
	room.Seats[0].Status = model.SeatStatusWaiting

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.scheduleExpiry(id)

	c.logger.Info("room created",
		"room_id", id,
		"host_id", host.ID,
		"bet", settings.Bet,
		"variant", settings.Variant)

	return room, nil
}

// GetRoom retrieves a room by ID
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// JoinRoom seats a player at the first open seat
func (c *Controller) JoinRoom(ctx context.Context, roomID model.RoomID, player model.Player) (*model.Room, error) {
	mu := c.locks.Get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.State != model.RoomStateWaiting {
		return nil, model.ErrGameInProgress
	}
	if room.SeatOf(player.ID) != nil {
		return nil, model.ErrAlreadySeated
	}

	var seat *model.Seat
	for i := range room.Seats {
		if !room.Seats[i].Occupied() {
			seat = &room.Seats[i]
			break
		}
	}
	if seat == nil {
		return nil, model.ErrRoomFull
	}

	seat.PlayerID = player.ID
	seat.PlayerName = player.DisplayName
	seat.Status = model.SeatStatusWaiting
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	c.scheduleExpiry(roomID)

	c.emitter.Emit(roomID, model.SeatsUpdatedEvent{Seats: room.Seats, State: room.State})
	return room, nil
}

// StartGame collects each seated player's ante into the pot and deals the
// opening position. Only the host may start.
func (c *Controller) StartGame(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Room, error) {
	mu := c.locks.Get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.State != model.RoomStateWaiting {
		return nil, model.ErrGameInProgress
	}
	if room.Host().PlayerID != playerID {
		return nil, model.ErrNotHost
	}
	if err := c.beginGame(ctx, room); err != nil {
		return nil, err
	}

	c.emitter.Emit(roomID, model.GameStartedEvent{Game: room.Game, Seats: room.Seats})
	return room, nil
}

// beginGame antes up every occupied seat, seeds the pieces and opens the
// first turn. Refunds already-collected antes when a later debit fails.
func (c *Controller) beginGame(ctx context.Context, room *model.Room) error {
	seats := room.OccupiedSeats()
	if len(seats) < 2 {
		return model.ErrNotEnoughPlayers
	}
	if room.Settings.TeamMode && len(seats) != 4 {
		return model.ErrNotEnoughPlayers
	}

	var pot int64
	var debited []debitRecord
	for _, seat := range seats {
		amount, err := c.ante(ctx, seat.PlayerID, room.Settings)
		if err != nil {
			for _, d := range debited {
				if _, refundErr := c.wallet.Credit(ctx, d.playerID, d.amount); refundErr != nil {
					c.logger.Error("ante refund failed",
						"room_id", room.ID,
						"player_id", d.playerID,
						"error", refundErr)
				}
			}
			return err
		}
		debited = append(debited, debitRecord{playerID: seat.PlayerID, amount: amount})
		pot += room.Settings.Bet
	}

	now := c.clock.Now()
	g := &model.GameState{
		Pot:       pot,
		Pieces:    make(map[model.Color][]*model.Piece),
		StartedAt: now,
	}
	for _, seat := range seats {
		seat.Status = model.SeatStatusPlaying
		pieces := model.NewPieceSet(seat.Color, room.Settings.PieceCount)
		if room.Settings.AutoExit == model.ExitModeAuto {
			seed := min(autoExitSeedCount, len(pieces))
			start := board.Standard().Start(seat.Color)
			for i := 0; i < seed; i++ {
				pieces[i].Enter(start)
			}
		}
		g.Pieces[seat.Color] = pieces
	}
	g.Turn.Reset(c.openingSeat(room))

	room.Game = g
	room.Rematch = nil
	room.State = model.RoomStatePlaying
	room.UpdatedAt = now

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}
	c.scheduler.Cancel(room.ID, "expire")

	c.logger.Info("game started",
		"room_id", room.ID,
		"players", len(seats),
		"pot", pot)
	return nil
}

type debitRecord struct {
	playerID model.PlayerID
	amount   int64
}

// ante debits the bet from the player's wallet, converted from the room's
// bet currency into theirs. Returns the debited amount for refunds.
func (c *Controller) ante(ctx context.Context, playerID model.PlayerID, settings model.Settings) (int64, error) {
	if settings.Bet == 0 {
		return 0, nil
	}
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}
	amount := c.settlement.Convert(settings.Bet, settings.BetCurrency, player.Currency)
	if _, err := c.wallet.Debit(ctx, playerID, amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// openingSeat picks the seat that rolls first. The yellow seat opens when
// occupied, otherwise the first occupied seat in turn order from yellow.
func (c *Controller) openingSeat(room *model.Room) int {
	color := model.Yellow
	for i := 0; i < model.ColorCount; i++ {
		if seat := room.SeatByColor(color); seat != nil && seat.Occupied() {
			return seat.Index
		}
		color = color.Next()
	}
	return 0
}

// LeaveRoom removes a player. Leaving mid-game forfeits: the deserter's
// stake stays in the pot and the game ends for them.
func (c *Controller) LeaveRoom(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) error {
	mu := c.locks.Get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	seat := room.SeatOf(playerID)
	if seat == nil {
		return model.ErrNotInRoom
	}

	if room.State == model.RoomStatePlaying && seat.Status == model.SeatStatusPlaying {
		return c.gameController.Abandon(ctx, room, seat.Index)
	}

	if room.Rematch != nil {
		delete(room.Rematch.Confirmed, playerID)
		c.updateRematchReadiness(room)
	}

	*seat = model.Seat{
		Index:  seat.Index,
		Color:  seat.Color,
		Status: model.SeatStatusOpen,
	}
	room.UpdatedAt = c.clock.Now()

	if room.Empty() {
		if err := c.storage.DeleteRoom(ctx, roomID); err != nil {
			return err
		}
		c.scheduler.CancelRoom(roomID)
		c.locks.Release(roomID)
		c.logger.Info("room deleted", "room_id", roomID)
		return nil
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}
	c.emitter.Emit(roomID, model.SeatsUpdatedEvent{Seats: room.Seats, State: room.State})
	return nil
}

// ConfirmRematch records a seated player's readiness for another game
func (c *Controller) ConfirmRematch(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Room, error) {
	mu := c.locks.Get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.State != model.RoomStatePostGame || room.Rematch == nil {
		return nil, model.ErrNoRematch
	}
	seat := room.SeatOf(playerID)
	if seat == nil {
		return nil, model.ErrNotInRoom
	}

	room.Rematch.Confirmed[playerID] = true
	c.updateRematchReadiness(room)
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.emitter.Emit(roomID, model.RematchUpdateEvent{Rematch: *room.Rematch})
	return room, nil
}

// StartRematch re-antes all seated players and deals a fresh game. Only a
// winner of the previous game may start it, and only once every seated
// player has confirmed.
func (c *Controller) StartRematch(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Room, error) {
	mu := c.locks.Get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.State != model.RoomStatePostGame || room.Rematch == nil {
		return nil, model.ErrNoRematch
	}
	if !isWinner(room.Rematch, playerID) {
		return nil, model.ErrNotWinner
	}
	if !room.Rematch.CanStart {
		return nil, model.ErrRematchNotReady
	}

	for i := range room.Seats {
		seat := &room.Seats[i]
		switch {
		case seat.Occupied():
			seat.Status = model.SeatStatusWaiting
		case seat.Status == model.SeatStatusAbandoned:
			// A vacated deserter seat reopens for the next game.
			seat.Status = model.SeatStatusOpen
		}
	}
	room.State = model.RoomStateWaiting
	if err := c.beginGame(ctx, room); err != nil {
		return nil, err
	}

	c.emitter.Emit(roomID, model.RematchStartedEvent{Game: room.Game, Seats: room.Seats})
	return room, nil
}

// updateRematchReadiness recomputes whether the rematch can start: at least
// two seated players, all of them confirmed.
func (c *Controller) updateRematchReadiness(room *model.Room) {
	seats := room.OccupiedSeats()
	if len(seats) < 2 {
		room.Rematch.CanStart = false
		return
	}
	for _, seat := range seats {
		if !room.Rematch.Confirmed[seat.PlayerID] {
			room.Rematch.CanStart = false
			return
		}
	}
	room.Rematch.CanStart = true
}

func isWinner(rematch *model.RematchData, playerID model.PlayerID) bool {
	for _, id := range rematch.WinnerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// scheduleExpiry arms the idle-room collector. Any later seating activity
// rearms it; starting a game cancels it.
func (c *Controller) scheduleExpiry(roomID model.RoomID) {
	c.scheduler.Schedule(roomID, "expire", waitingRoomTTL, func() {
		ctx := context.Background()
		mu := c.locks.Get(roomID)
		mu.Lock()
		defer mu.Unlock()

		room, err := c.storage.GetRoom(ctx, roomID)
		if err != nil {
			return
		}
		if room.State != model.RoomStateWaiting {
			return
		}
		if err := c.storage.DeleteRoom(ctx, roomID); err != nil {
			c.logger.Error("room expiry failed", "room_id", roomID, "error", err)
			return
		}
		c.locks.Release(roomID)
		c.logger.Info("idle room collected", "room_id", roomID)
	})
}
