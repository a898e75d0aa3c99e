package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/ludosur/parchis-server/internal/board"
	"github.com/ludosur/parchis-server/internal/dependencies/clock"
	"github.com/ludosur/parchis-server/internal/dependencies/random"
	"github.com/ludosur/parchis-server/internal/model"
	"github.com/ludosur/parchis-server/internal/rules"
	"github.com/ludosur/parchis-server/internal/scheduler"
	"github.com/ludosur/parchis-server/internal/services/settlement"
	"github.com/ludosur/parchis-server/internal/storage"
)

const diceSides = 6

// Emitter fans an event out to every subscriber of a room.
type Emitter interface {
	Emit(roomID model.RoomID, event model.Event)
}

// Config holds game controller configuration
type Config struct {
	// NoMoveDelay is the pause before a stuck turn passes, giving clients
	// time to show the rolled dice. Zero passes the turn synchronously.
	NoMoveDelay time.Duration
	// SettleRetryDelay is the pause between payout retries when a winner's
	// credit could not be applied at game end.
	SettleRetryDelay time.Duration
}

// DefaultConfig returns default game controller configuration
func DefaultConfig() Config {
	return Config{
		NoMoveDelay:      1500 * time.Millisecond,
		SettleRetryDelay: 5 * time.Second,
	}
}

// Controller runs the turn and dice state machine. All mutations of a
// room's game state happen here or in the room controller, under the
// room's lock.
type Controller struct {
	storage    storage.Storage
	settlement *settlement.Service
	scheduler  *scheduler.Scheduler
	locks      *Locks
	emitter    Emitter
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
	cfg        Config
}

// NewController creates a new game controller
func NewController(
	storage storage.Storage,
	settlement *settlement.Service,
	scheduler *scheduler.Scheduler,
	locks *Locks,
	emitter Emitter,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	return &Controller{
		storage:    storage,
		settlement: settlement,
		scheduler:  scheduler,
		locks:      locks,
		emitter:    emitter,
		clock:      clock,
		random:     random,
		logger:     logger,
		cfg:        cfg,
	}
}

func (c *Controller) engineFor(room *model.Room) *rules.Engine {
	return rules.New(board.Standard(), rules.ConfigFor(room.Settings))
}

// RollDice rolls both dice for the acting seat, enumerates the legal moves
// and broadcasts the result. A third consecutive double is a foul: the last
// moved piece returns to base and the turn passes.
func (c *Controller) RollDice(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Room, error) {
	mu := c.locks.Get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	seat, err := c.actingSeat(room, playerID)
	if err != nil {
		return nil, err
	}

	t := &room.Game.Turn
	if t.IsMoving {
		return nil, model.ErrActionInFlight
	}
	if !t.CanRoll && !(t.CanRollAgain && len(t.Moves) == 0) {
		return nil, model.ErrRollNotAllowed
	}

	eng := c.engineFor(room)

	t.Dice = [2]int{c.random.Die(diceSides), c.random.Die(diceSides)}
	t.Moves = []int{t.Dice[0], t.Dice[1]}
	t.CanRoll = false
	t.CanRollAgain = false

	if t.IsDouble() {
		t.DoublesCount++
	}

	if t.DoublesCount >= 3 {
		return c.thirdDoubleFoul(ctx, room, eng)
	}

	if t.IsDouble() {
		t.CanRollAgain = true
	}

	t.PossibleMoves = eng.PossibleMoves(room.Game, seat.Color)
	t.CaptureDue = nil
	if eng.Config().ForcedCapture {
		t.CaptureDue = rules.FindCaptureDue(t.PossibleMoves)
	}

	noMoves := len(t.PossibleMoves) == 0
	if noMoves {
		t.Moves = nil
	}

	if err := c.saveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.emitter.Emit(roomID, model.DiceRolledEvent{
		PlayerIndex: t.PlayerIndex,
		Values:      t.Dice,
		IsDouble:    t.IsDouble(),
		Turn:        *t,
	})

	c.logger.Info("dice rolled",
		"room_id", roomID,
		"player_index", t.PlayerIndex,
		"dice", t.Dice,
		"moves", len(t.PossibleMoves))

	if m, ok := c.autoBlockadeBreak(room, eng, seat); ok {
		if err := c.applyMove(ctx, room, eng, seat, m); err != nil {
			return nil, err
		}
		return room, nil
	}

	if noMoves && !t.CanRollAgain {
		c.deferTurnPass(ctx, room)
	}
	return room, nil
}

// autoBlockadeBreak picks the move the engine applies on its own after a
// doubles roll: when the mover holds exactly one blockade, one die is spent
// moving a piece out of it. With several blockades the choice stays with
// the player, and a pending capture obligation is never overridden.
func (c *Controller) autoBlockadeBreak(room *model.Room, eng *rules.Engine, seat *model.Seat) (model.Move, bool) {
	t := &room.Game.Turn
	if !t.IsDouble() || t.PrizeMoves > 0 {
		return model.Move{}, false
	}
	if len(eng.OwnBlockades(room.Game, seat.Color)) != 1 {
		return model.Move{}, false
	}
	for _, m := range t.PossibleMoves {
		if !m.BreaksBlockade || m.UsesBoth || m.IsPrize || m.IsExit {
			continue
		}
		if t.CaptureDue != nil && m.Captures == nil {
			continue
		}
		return m, true
	}
	return model.Move{}, false
}

// MovePiece applies one of the turn's enumerated moves. Anything not in
// PossibleMoves is rejected outright.
func (c *Controller) MovePiece(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, pieceID, die int, usesBoth bool) (*model.Room, error) {
	mu := c.locks.Get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	seat, err := c.actingSeat(room, playerID)
	if err != nil {
		return nil, err
	}

	t := &room.Game.Turn
	if t.IsMoving {
		return nil, model.ErrActionInFlight
	}

	move, ok := findMove(t.PossibleMoves, pieceID, die, usesBoth)
	if !ok {
		return nil, model.ErrIllegalMove
	}

	eng := c.engineFor(room)
	if err := c.applyMove(ctx, room, eng, seat, move); err != nil {
		return nil, err
	}
	return room, nil
}

// actingSeat validates that the room is mid-game and the player holds the
// seat whose turn it is.
func (c *Controller) actingSeat(room *model.Room, playerID model.PlayerID) (*model.Seat, error) {
	if room.State != model.RoomStatePlaying || room.Game == nil {
		return nil, model.ErrGameNotStarted
	}
	seat := room.SeatOf(playerID)
	if seat == nil {
		return nil, model.ErrNotInRoom
	}
	if seat.Index != room.Game.Turn.PlayerIndex || seat.Status != model.SeatStatusPlaying {
		return nil, model.ErrNotYourTurn
	}
	return seat, nil
}

// applyMove mutates the game state for a validated move, accounts bonuses,
// and either ends the game, passes the turn, or leaves the mover in control.
func (c *Controller) applyMove(ctx context.Context, room *model.Room, eng *rules.Engine, seat *model.Seat, move model.Move) error {
	g := room.Game
	t := &g.Turn

	piece := g.PieceByID(move.PieceID)
	if piece == nil {
		return model.ErrIntegrity
	}
	var captured *model.Piece
	if move.Captures != nil {
		captured = g.PieceByID(move.Captures.PieceID)
		if captured == nil {
			return model.ErrIntegrity
		}
	}

	// The exclusive-move flag rejects any action arriving while this
	// mutation is in progress; it is cleared before the state is saved
	// and broadcast.
	t.IsMoving = true

	if move.IsExit {
		piece.Enter(move.To)
	} else {
		piece.Position = move.To
	}
	if captured != nil {
		captured.ReturnToBase()
		t.CaptureDue = nil
	}
	t.LastMovedPieceID = piece.ID

	switch {
	case move.IsPrize:
		t.PrizeMoves = 0
	case move.UsesBoth:
		t.ConsumeDie(t.Dice[0])
		t.ConsumeDie(t.Dice[1])
	default:
		t.ConsumeDie(move.Die)
	}

	c.accountBonus(eng, t, move)
	t.IsMoving = false

	info := model.MoveInfo{
		PieceID:  move.PieceID,
		From:     move.From,
		To:       move.To,
		Path:     move.Path,
		Captures: move.Captures,
	}

	if eng.AllHome(g, seat.Color) {
		if !room.Settings.TeamMode || eng.AllHome(g, seat.Color.Partner()) {
			if err := c.saveRoom(ctx, room); err != nil {
				return err
			}
			c.emitter.Emit(room.ID, model.GameStateUpdatedEvent{Game: g, Move: info})
			return c.Finish(ctx, room, *seat, false)
		}

		// The mover's color is home but the partner color is not; the win
		// waits for the partner. This seat sits out from here on.
		t.CanRollAgain = false
		t.PrizeMoves = 0
		if err := c.saveRoom(ctx, room); err != nil {
			return err
		}
		c.emitter.Emit(room.ID, model.GameStateUpdatedEvent{Game: g, Move: info})
		return c.passTurn(ctx, room)
	}

	c.refreshMoves(eng, g, seat.Color)

	if err := c.saveRoom(ctx, room); err != nil {
		return err
	}
	c.emitter.Emit(room.ID, model.GameStateUpdatedEvent{Game: g, Move: info})

	if len(t.PossibleMoves) == 0 && t.Exhausted() {
		return c.endTurn(ctx, room, eng)
	}
	return nil
}

// accountBonus applies the variant's reward for a capture or a goal entry.
func (c *Controller) accountBonus(eng *rules.Engine, t *model.Turn, move model.Move) {
	captured := move.Captures != nil
	scored := move.ReachesGoal
	if !captured && !scored {
		return
	}

	if eng.Config().Variant == model.VariantPrizeDistance {
		if captured {
			t.PrizeMoves += rules.PrizeForCapture
		}
		if scored {
			t.PrizeMoves += rules.PrizeForGoal
		}
		return
	}
	t.CanRollAgain = true
}

// refreshMoves re-enumerates the legal moves after a mutation. An unusable
// pending prize distance is forfeited rather than blocking the turn.
func (c *Controller) refreshMoves(eng *rules.Engine, g *model.GameState, color model.Color) {
	t := &g.Turn
	t.PossibleMoves = eng.PossibleMoves(g, color)

	if t.PrizeMoves > 0 && len(t.PossibleMoves) == 0 {
		t.PrizeMoves = 0
		t.PossibleMoves = eng.PossibleMoves(g, color)
	}

	// The capture obligation survives even when the remaining dice can no
	// longer reach it; only executing a capture clears it.
	if eng.Config().ForcedCapture && t.CaptureDue != nil {
		if due := rules.FindCaptureDue(t.PossibleMoves); due != nil {
			t.CaptureDue = due
		}
	}

	if len(t.PossibleMoves) == 0 {
		t.Moves = nil
	}
}

// endTurn applies the missed-capture penalty if owed, then passes the turn.
func (c *Controller) endTurn(ctx context.Context, room *model.Room, eng *rules.Engine) error {
	g := room.Game
	t := &g.Turn

	if eng.Config().ForcedCapture && t.CaptureDue != nil {
		c.penalize(room, t.CaptureDue.PieceID, model.FoulMissedCapture)
	}

	return c.passTurn(ctx, room)
}

// thirdDoubleFoul sends the last moved piece back to base and passes the
// turn. The dice are still broadcast so clients can show the foul roll.
func (c *Controller) thirdDoubleFoul(ctx context.Context, room *model.Room, eng *rules.Engine) (*model.Room, error) {
	t := &room.Game.Turn
	t.Moves = nil
	t.PossibleMoves = nil
	t.CanRollAgain = false

	c.emitter.Emit(room.ID, model.DiceRolledEvent{
		PlayerIndex: t.PlayerIndex,
		Values:      t.Dice,
		IsDouble:    true,
		Turn:        *t,
	})

	if t.LastMovedPieceID != model.NoPiece {
		piece := room.Game.PieceByID(t.LastMovedPieceID)
		if piece != nil && piece.Position != eng.Board().Goal(piece.Color) {
			c.penalize(room, piece.ID, model.FoulThirdDouble)
		}
	}

	c.logger.Info("third double foul",
		"room_id", room.ID,
		"player_index", t.PlayerIndex)

	if err := c.passTurn(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// penalize returns a piece to its base and announces the foul.
func (c *Controller) penalize(room *model.Room, pieceID int, foulType string) {
	piece := room.Game.PieceByID(pieceID)
	if piece == nil || piece.InBase() {
		return
	}
	piece.ReturnToBase()

	c.emitter.Emit(room.ID, model.FoulPenaltyEvent{
		Type:           foulType,
		PenalizedPiece: pieceID,
		PlayerIndex:    room.Game.Turn.PlayerIndex,
		ReturnedToCell: model.NoCell,
	})
}

// passTurn hands control to the next seat still in contention.
func (c *Controller) passTurn(ctx context.Context, room *model.Room) error {
	next := c.nextPlayingIndex(room, room.Game.Turn.PlayerIndex)
	room.Game.Turn.Reset(next)

	if err := c.saveRoom(ctx, room); err != nil {
		return err
	}
	c.emitter.Emit(room.ID, model.TurnChangedEvent{NextPlayerIndex: next})
	return nil
}

func (c *Controller) nextPlayingIndex(room *model.Room, from int) int {
	eng := c.engineFor(room)
	for i := 1; i <= len(room.Seats); i++ {
		idx := (from + i) % len(room.Seats)
		seat := &room.Seats[idx]
		if seat.Status != model.SeatStatusPlaying {
			continue
		}
		// In team mode a seat whose color already finished waits for its
		// partner and no longer takes turns.
		if eng.AllHome(room.Game, seat.Color) {
			continue
		}
		return idx
	}
	return from
}

// deferTurnPass schedules the turn handoff for a roll with no legal moves.
func (c *Controller) deferTurnPass(ctx context.Context, room *model.Room) {
	if c.cfg.NoMoveDelay <= 0 {
		if err := c.passTurn(ctx, room); err != nil {
			c.logger.Error("turn pass failed", "room_id", room.ID, "error", err)
		}
		return
	}

	roomID := room.ID
	turnIndex := room.Game.Turn.PlayerIndex
	c.scheduler.Schedule(roomID, "turn_pass", c.cfg.NoMoveDelay, func() {
		ctx := context.Background()
		mu := c.locks.Get(roomID)
		mu.Lock()
		defer mu.Unlock()

		current, err := c.storage.GetRoom(ctx, roomID)
		if err != nil {
			return
		}
		// The game may have moved on while the timer was pending.
		if current.State != model.RoomStatePlaying || current.Game == nil ||
			current.Game.Turn.PlayerIndex != turnIndex || current.Game.Turn.CanRoll {
			return
		}
		if err := c.passTurn(ctx, current); err != nil {
			c.logger.Error("turn pass failed", "room_id", roomID, "error", err)
		}
	})
}

// Abandon removes a seat from contention mid-game: its pieces leave the
// board and the seat is vacated, so the deserter no longer counts toward
// rematch readiness or keeps the room alive. The game either continues
// without the seat or ends with the last seat standing winning the pot.
// Callers must hold the room's lock.
func (c *Controller) Abandon(ctx context.Context, room *model.Room, seatIndex int) error {
	if room.State != model.RoomStatePlaying || room.Game == nil {
		return model.ErrGameNotStarted
	}

	seat := &room.Seats[seatIndex]
	deserterID := seat.PlayerID
	seat.PlayerID = ""
	seat.PlayerName = ""
	seat.Status = model.SeatStatusAbandoned
	for _, p := range room.Game.Pieces[seat.Color] {
		p.ReturnToBase()
	}

	c.logger.Info("seat abandoned",
		"room_id", room.ID,
		"seat_index", seatIndex,
		"player_id", deserterID)

	remaining := room.PlayingSeats()
	if len(remaining) <= 1 || (room.Settings.TeamMode && sameTeam(remaining)) {
		var winner model.Seat
		if len(remaining) > 0 {
			winner = *remaining[0]
		}
		return c.Finish(ctx, room, winner, true)
	}

	c.emitter.Emit(room.ID, model.SeatsUpdatedEvent{Seats: room.Seats, State: room.State})

	if room.Game.Turn.PlayerIndex == seatIndex {
		return c.passTurn(ctx, room)
	}
	return c.saveRoom(ctx, room)
}

// Finish settles the pot, closes the game and opens the rematch window.
// Callers must hold the room's lock. In team mode the winner's partner
// shares the payout. The game-over broadcast is held back until every
// winner's credit has actually been applied; failed payouts are retried
// in the background.
func (c *Controller) Finish(ctx context.Context, room *model.Room, winner model.Seat, abandonment bool) error {
	var winners []model.Seat
	if winner.Occupied() {
		winners = append(winners, winner)
	}
	if room.Settings.TeamMode {
		partner := room.Seats[(winner.Index+2)%len(room.Seats)]
		if partner.Occupied() {
			winners = append(winners, partner)
		}
	}

	result, settleErr := c.settlement.Settle(ctx, room, winners, abandonment)

	room.State = model.RoomStatePostGame
	room.Rematch = &model.RematchData{
		WinnerIDs:  result.WinnerIDs,
		WinnerName: winner.PlayerName,
		Confirmed:  make(map[model.PlayerID]bool),
	}
	c.scheduler.CancelRoom(room.ID)

	if err := c.saveRoom(ctx, room); err != nil {
		return err
	}

	if settleErr != nil {
		c.logger.Error("settlement incomplete",
			"room_id", room.ID,
			"error", settleErr)
		c.deferSettlement(room.ID, winner.PlayerName, result, abandonment)
		return nil
	}

	c.announceGameOver(room.ID, winner.PlayerName, result, abandonment)
	return nil
}

// deferSettlement retries the unpaid winner credits in the background and
// announces the game over once the last one lands.
func (c *Controller) deferSettlement(roomID model.RoomID, winnerName string, result settlement.Result, abandonment bool) {
	delay := c.cfg.SettleRetryDelay
	if delay <= 0 {
		delay = DefaultConfig().SettleRetryDelay
	}
	c.scheduler.Schedule(roomID, "settle", delay, func() {
		ctx := context.Background()
		mu := c.locks.Get(roomID)
		mu.Lock()
		defer mu.Unlock()

		room, err := c.storage.GetRoom(ctx, roomID)
		if err != nil {
			return
		}
		if err := c.settlement.SettleRemaining(ctx, room, &result); err != nil {
			c.deferSettlement(roomID, winnerName, result, abandonment)
			return
		}
		c.announceGameOver(roomID, winnerName, result, abandonment)
	})
}

func (c *Controller) announceGameOver(roomID model.RoomID, winnerName string, result settlement.Result, abandonment bool) {
	c.emitter.Emit(roomID, model.GameOverEvent{
		WinnerName:     winnerName,
		Pot:            result.Payout.Pot,
		Commission:     result.Payout.Commission,
		NetWinnings:    result.Payout.PerWinner,
		WinningPlayers: result.WinnerIDs,
		Abandonment:    abandonment,
	})

	c.logger.Info("game over",
		"room_id", roomID,
		"winners", result.WinnerIDs,
		"pot", result.Payout.Pot,
		"abandonment", abandonment)
}

func (c *Controller) saveRoom(ctx context.Context, room *model.Room) error {
	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}

// sameTeam reports whether all seats share one partnership. Seats i and
// i+2 are partners.
func sameTeam(seats []*model.Seat) bool {
	for _, s := range seats[1:] {
		if s.Index%2 != seats[0].Index%2 {
			return false
		}
	}
	return true
}

func findMove(moves []model.Move, pieceID, die int, usesBoth bool) (model.Move, bool) {
	for _, m := range moves {
		if m.PieceID == pieceID && m.Die == die && m.UsesBoth == usesBoth {
			return m, true
		}
	}
	return model.Move{}, false
}
