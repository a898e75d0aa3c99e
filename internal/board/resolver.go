package board

import "github.com/ludosur/parchis-server/internal/model"

// Occupancy reports how many active pieces sit on a cell. The resolver only
// needs counts; piece identity is the legality engine's concern.
type Occupancy func(cell model.Cell) int

// Resolve walks steps single-cell advances for a color starting at from and
// returns the ordered cells visited (len == steps; the last entry is the
// destination). It fails with:
//
//   - ErrBadCell if from is not a cell the color can legally occupy
//   - ErrOvershoot if the walk would pass the color's goal (bounce)
//   - ErrPathBlocked if an intermediate cell outside the mover's home
//     stretch holds a 2-piece blockade
//
// Landing-cell legality (captures, blockades on the destination) is not
// checked here. Resolve is deterministic for identical inputs.
func Resolve(b *Board, color model.Color, from model.Cell, steps int, occupied Occupancy) ([]model.Cell, error) {
	if steps <= 0 || !b.Reachable(color, from) {
		return nil, model.ErrBadCell
	}
	if b.DistanceToGoal(color, from) < steps {
		return nil, model.ErrOvershoot
	}

	path := make([]model.Cell, 0, steps)
	cell := from
	for i := 0; i < steps; i++ {
		next, ok := b.Next(color, cell)
		if !ok {
			return nil, model.ErrOvershoot
		}
		cell = next
		path = append(path, cell)

		// Blockades stop movement through intermediate cells. The home
		// stretch is exempt: only the owner's pieces can be there.
		if i < steps-1 && occupied != nil && !b.InHomeStretch(color, cell) && occupied(cell) >= 2 {
			return nil, model.ErrPathBlocked
		}
	}
	return path, nil
}
