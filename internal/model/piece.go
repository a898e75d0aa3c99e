package model

// Cell is a board cell number. Common-track cells are 1..68; home-stretch and
// goal cells use per-color ranges above 68. NoCell marks a piece in its base.
type Cell int

// NoCell is the position of a piece that is still in its base
const NoCell Cell = -1

// PieceState represents whether a piece is in its base or on the board
type PieceState string

const (
	PieceStateBase   PieceState = "base"
	PieceStateActive PieceState = "active"
)

// Piece is a single pawn. Position is NoCell iff State is base.
type Piece struct {
	ID       int        `json:"id"`
	Color    Color      `json:"color"`
	State    PieceState `json:"state"`
	Position Cell       `json:"position"`
}

// InBase reports whether the piece has not yet entered play
func (p *Piece) InBase() bool {
	return p.State == PieceStateBase
}

// Enter places the piece on the board at the given cell
func (p *Piece) Enter(cell Cell) {
	p.State = PieceStateActive
	p.Position = cell
}

// ReturnToBase sends the piece back to its base (capture or penalty)
func (p *Piece) ReturnToBase() {
	p.State = PieceStateBase
	p.Position = NoCell
}

// NewPieceSet creates the pieces for one color. IDs are globally unique
// within a game: color index * count + ordinal.
func NewPieceSet(color Color, count int) []*Piece {
	pieces := make([]*Piece, count)
	for i := range pieces {
		pieces[i] = &Piece{
			ID:       int(color)*count + i,
			Color:    color,
			State:    PieceStateBase,
			Position: NoCell,
		}
	}
	return pieces
}
