// Package board holds the static Parchís board topology and the pure path
// resolver over it. Nothing here mutates game state.
package board

import "github.com/ludosur/parchis-server/internal/model"

// RingSize is the number of common-track cells (1..68)
const RingSize = 68

// HomeStretchLen is the number of home-stretch cells before the goal
const HomeStretchLen = 7

// Board describes the track layout: per-color start, home-stretch entry,
// home-stretch range and goal, plus the shared safe-cell set. The jump table
// is the per-color redirection applied at the entry cell; yellow's entry is
// also the ring wrap cell, so only yellow's loop point coincides with the
// literal first cell.
type Board struct {
	starts    [model.ColorCount]model.Cell
	entries   [model.ColorCount]model.Cell
	homeStart [model.ColorCount]model.Cell
	goals     [model.ColorCount]model.Cell
	safe      map[model.Cell]bool
}

var standard = &Board{
	starts:    [model.ColorCount]model.Cell{5, 22, 39, 56},
	entries:   [model.ColorCount]model.Cell{68, 17, 34, 51},
	homeStart: [model.ColorCount]model.Cell{69, 77, 85, 93},
	goals:     [model.ColorCount]model.Cell{76, 84, 92, 100},
	safe: map[model.Cell]bool{
		5: true, 12: true, 17: true, 22: true, 29: true, 34: true,
		39: true, 46: true, 51: true, 56: true, 63: true, 68: true,
	},
}

// Standard returns the shared immutable board layout
func Standard() *Board {
	return standard
}

// Start returns a color's exit-from-base cell
func (b *Board) Start(c model.Color) model.Cell {
	return b.starts[c]
}

// Entry returns the last ring cell a color touches before its home stretch
func (b *Board) Entry(c model.Color) model.Cell {
	return b.entries[c]
}

// HomeStart returns the first home-stretch cell of a color
func (b *Board) HomeStart(c model.Color) model.Cell {
	return b.homeStart[c]
}

// Goal returns a color's goal cell
func (b *Board) Goal(c model.Color) model.Cell {
	return b.goals[c]
}

// IsSafe reports whether captures are forbidden on the cell
func (b *Board) IsSafe(cell model.Cell) bool {
	return b.safe[cell]
}

// OnRing reports whether the cell is on the shared common track
func (b *Board) OnRing(cell model.Cell) bool {
	return cell >= 1 && cell <= RingSize
}

// InHomeStretch reports whether the cell is inside a color's private run
func (b *Board) InHomeStretch(c model.Color, cell model.Cell) bool {
	return cell >= b.homeStart[c] && cell < b.goals[c]
}

// Reachable reports whether a color's piece may ever legally sit on the cell
func (b *Board) Reachable(c model.Color, cell model.Cell) bool {
	return b.OnRing(cell) || b.InHomeStretch(c, cell) || cell == b.goals[c]
}

// Next returns the cell one step ahead of cell for the given color. The
// second return is false when the piece is already at its goal.
func (b *Board) Next(c model.Color, cell model.Cell) (model.Cell, bool) {
	switch {
	case cell == b.goals[c]:
		return model.NoCell, false
	case b.InHomeStretch(c, cell):
		return cell + 1, true // last stretch cell advances into the goal
	case cell == b.entries[c]:
		return b.homeStart[c], true
	case cell == RingSize:
		return 1, true
	default:
		return cell + 1, true
	}
}

// DistanceToGoal returns the exact number of steps from cell to the color's
// goal. The walk is bounded by the track length.
func (b *Board) DistanceToGoal(c model.Color, cell model.Cell) int {
	dist := 0
	for cell != b.goals[c] {
		next, ok := b.Next(c, cell)
		if !ok || dist > RingSize+HomeStretchLen+1 {
			return -1
		}
		cell = next
		dist++
	}
	return dist
}
