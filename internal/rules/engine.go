// Package rules is the move-legality and capture engine: it enumerates the
// legal moves for the current dice, applies the blockade and safe-cell rules,
// and identifies capture opportunities. It never mutates game state.
package rules

import (
	"github.com/ludosur/parchis-server/internal/board"
	"github.com/ludosur/parchis-server/internal/model"
)

// Prize distances banked in the prize-distance variant
const (
	PrizeForCapture = 20
	PrizeForGoal    = 10
)

// DefaultExitValue is the roll (alone or as the dice sum) that lets pieces
// leave the base
const DefaultExitValue = 5

// Config captures the variant-dependent rule switches for one room
type Config struct {
	ExitValue     int
	Variant       model.Variant
	ForcedCapture bool
}

// ConfigFor derives the rule config from room settings. The forced-capture
// switch is taken as-is; its variant-dependent default is applied when the
// room is created.
func ConfigFor(s model.Settings) Config {
	return Config{
		ExitValue:     DefaultExitValue,
		Variant:       s.Variant,
		ForcedCapture: s.ForcedCapture,
	}
}

// Engine evaluates move legality against a fixed board layout
type Engine struct {
	board *board.Board
	cfg   Config
}

// New creates an Engine for the given board and rule config
func New(b *board.Board, cfg Config) *Engine {
	return &Engine{board: b, cfg: cfg}
}

// Board returns the engine's board layout
func (e *Engine) Board() *board.Board {
	return e.board
}

// Config returns the engine's rule config
func (e *Engine) Config() Config {
	return e.cfg
}

// Occupancy adapts a game state to the resolver's occupancy view
func Occupancy(g *model.GameState) board.Occupancy {
	return func(cell model.Cell) int {
		return len(g.OccupantsAt(cell))
	}
}

// PossibleMoves enumerates every legal move for the mover given the turn's
// remaining dice and pending prize distance. While prize distance is
// outstanding it is the only spendable value.
func (e *Engine) PossibleMoves(g *model.GameState, color model.Color) []model.Move {
	t := &g.Turn
	occ := Occupancy(g)
	var moves []model.Move

	if t.PrizeMoves > 0 {
		for _, p := range g.ActivePieces(color) {
			if m, ok := e.pieceMove(g, occ, p, t.PrizeMoves, pieceMoveKind{prize: true}); ok {
				moves = append(moves, m)
			}
		}
		return moves
	}

	// Exits from base, by a single qualifying die or by the dice sum
	if len(g.BasePieces(color)) > 0 {
		for _, v := range uniqueValues(t.Moves) {
			if v == e.cfg.ExitValue {
				if m, ok := e.exitMove(g, color, false); ok {
					moves = append(moves, m)
				}
			}
		}
		if len(t.Moves) == 2 && t.Moves[0]+t.Moves[1] == e.cfg.ExitValue {
			if m, ok := e.exitMove(g, color, true); ok {
				moves = append(moves, m)
			}
		}
	}

	for _, p := range g.ActivePieces(color) {
		for _, v := range uniqueValues(t.Moves) {
			if m, ok := e.pieceMove(g, occ, p, v, pieceMoveKind{}); ok {
				moves = append(moves, m)
			}
		}
		if len(t.Moves) == 2 {
			sum := t.Moves[0] + t.Moves[1]
			if m, ok := e.pieceMove(g, occ, p, sum, pieceMoveKind{usesBoth: true}); ok {
				moves = append(moves, m)
			}
		}
	}

	return e.applyLargerDieRule(g, color, moves)
}

type pieceMoveKind struct {
	usesBoth bool
	prize    bool
}

// pieceMove builds the move of one active piece over steps cells, or reports
// it illegal
func (e *Engine) pieceMove(g *model.GameState, occ board.Occupancy, p *model.Piece, steps int, kind pieceMoveKind) (model.Move, bool) {
	// A blockade bars opposing pieces from passing or landing; the pieces
	// forming it move freely. Leaving the cell is flagged so the doubles
	// auto-break can find it.
	breaksBlockade := false
	if e.board.OnRing(p.Position) {
		occupants := g.OccupantsAt(p.Position)
		breaksBlockade = len(occupants) >= 2 && sameColor(occupants)
	}

	path, err := board.Resolve(e.board, p.Color, p.Position, steps, occ)
	if err != nil {
		return model.Move{}, false
	}
	dest := path[len(path)-1]

	capture, ok := e.landing(g, p.Color, dest, false)
	if !ok {
		return model.Move{}, false
	}

	return model.Move{
		PieceID:        p.ID,
		Die:            steps,
		UsesBoth:       kind.usesBoth,
		IsPrize:        kind.prize,
		BreaksBlockade: breaksBlockade,
		From:           p.Position,
		To:             dest,
		Path:           path,
		Captures:       capture,
		ReachesGoal:    dest == e.board.Goal(p.Color),
	}, true
}

// exitMove builds the move of the first base piece onto the start cell
func (e *Engine) exitMove(g *model.GameState, color model.Color, usesBoth bool) (model.Move, bool) {
	start := e.board.Start(color)
	capture, ok := e.landing(g, color, start, true)
	if !ok {
		return model.Move{}, false
	}

	p := g.BasePieces(color)[0]
	return model.Move{
		PieceID:  p.ID,
		Die:      e.cfg.ExitValue,
		UsesBoth: usesBoth,
		IsExit:   true,
		From:     model.NoCell,
		To:       start,
		Path:     []model.Cell{start},
		Captures: capture,
	}, true
}

// landing decides whether color may land on dest and whether doing so
// captures. Exits capture a single opposing piece on the (safe) start cell;
// ordinary landings never capture on safe cells.
func (e *Engine) landing(g *model.GameState, color model.Color, dest model.Cell, isExit bool) (*model.CaptureInfo, bool) {
	if dest == e.board.Goal(color) || e.board.InHomeStretch(color, dest) {
		return nil, true
	}

	occupants := g.OccupantsAt(dest)
	switch {
	case len(occupants) == 0:
		return nil, true
	case len(occupants) >= 2:
		// Landing on a 2-piece cell is illegal regardless of ownership; the
		// common track holds at most 2 pieces per cell.
		return nil, false
	}

	other := occupants[0]
	if other.Color == color {
		return nil, true // forms a blockade
	}
	if e.board.IsSafe(dest) && !isExit {
		return nil, true // coexist on a safe cell
	}
	return &model.CaptureInfo{PieceID: other.ID, Color: other.Color, From: dest}, true
}

// applyLargerDieRule enforces the single-active-piece restriction: when the
// only active piece can use the larger die but not the dice sum, the smaller
// die alone may not be played.
func (e *Engine) applyLargerDieRule(g *model.GameState, color model.Color, moves []model.Move) []model.Move {
	t := &g.Turn
	if len(t.Moves) != 2 || t.Moves[0] == t.Moves[1] {
		return moves
	}
	if len(g.BasePieces(color)) > 0 {
		return moves
	}
	movable := 0
	for _, p := range g.ActivePieces(color) {
		if p.Position != e.board.Goal(color) {
			movable++
		}
	}
	if movable != 1 {
		return moves
	}

	larger, smaller := t.Moves[0], t.Moves[1]
	if smaller > larger {
		larger, smaller = smaller, larger
	}

	var hasSum, hasLarger bool
	for _, m := range moves {
		switch {
		case m.UsesBoth:
			hasSum = true
		case m.Die == larger:
			hasLarger = true
		}
	}
	if hasSum || !hasLarger {
		return moves
	}

	filtered := moves[:0]
	for _, m := range moves {
		if !m.UsesBoth && m.Die == smaller {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// FindCaptureDue returns the mandatory-capture obligation implied by the
// move list, or nil when no capturing move exists
func FindCaptureDue(moves []model.Move) *model.CaptureDue {
	for _, m := range moves {
		if m.Captures != nil {
			return &model.CaptureDue{PieceID: m.PieceID}
		}
	}
	return nil
}

// OwnBlockades returns the ring cells where the color holds a 2-piece
// blockade
func (e *Engine) OwnBlockades(g *model.GameState, color model.Color) []model.Cell {
	counts := make(map[model.Cell]int)
	for _, p := range g.ActivePieces(color) {
		if e.board.OnRing(p.Position) {
			counts[p.Position]++
		}
	}
	var cells []model.Cell
	for cell, n := range counts {
		if n >= 2 && len(g.OccupantsAt(cell)) == n {
			cells = append(cells, cell)
		}
	}
	return cells
}

// AllHome reports whether every piece of a color occupies its goal cell
func (e *Engine) AllHome(g *model.GameState, color model.Color) bool {
	goal := e.board.Goal(color)
	for _, p := range g.Pieces[color] {
		if p.InBase() || p.Position != goal {
			return false
		}
	}
	return len(g.Pieces[color]) > 0
}

func sameColor(pieces []*model.Piece) bool {
	for _, p := range pieces[1:] {
		if p.Color != pieces[0].Color {
			return false
		}
	}
	return true
}

func uniqueValues(values []int) []int {
	var out []int
	seen := make(map[int]bool)
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
