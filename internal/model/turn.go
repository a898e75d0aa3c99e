package model

// NoPiece marks LastMovedPieceID when nothing has moved yet this turn
const NoPiece = -1

// CaptureDue records a mandatory-capture obligation: the piece that could
// capture with the dice as rolled. Cleared only by executing a capture;
// a turn that ends with it outstanding draws the missed-capture penalty.
type CaptureDue struct {
	PieceID int `json:"pieceId"`
}

// Turn is the per-room dice and turn state
type Turn struct {
	PlayerIndex      int         `json:"playerIndex"`
	CanRoll          bool        `json:"canRoll"`
	CanRollAgain     bool        `json:"canRollAgain"`
	Dice             [2]int      `json:"dice"`
	Moves            []int       `json:"moves"`
	PossibleMoves    []Move      `json:"possibleMoves"`
	DoublesCount     int         `json:"doublesCount"`
	IsMoving         bool        `json:"isMoving"`
	LastMovedPieceID int         `json:"lastMovedPieceId"`
	PrizeMoves       int         `json:"prizeMoves"`
	CaptureDue       *CaptureDue `json:"captureDue,omitempty"`
}

// Reset prepares the turn for the given seat to roll
func (t *Turn) Reset(playerIndex int) {
	*t = Turn{
		PlayerIndex:      playerIndex,
		CanRoll:          true,
		LastMovedPieceID: NoPiece,
	}
}

// IsDouble reports whether the current dice are a double
func (t *Turn) IsDouble() bool {
	return t.Dice[0] != 0 && t.Dice[0] == t.Dice[1]
}

// ConsumeDie removes one usable die value; for sum moves both dice are
// consumed by two calls. Returns false if the value is not pending.
func (t *Turn) ConsumeDie(value int) bool {
	for i, v := range t.Moves {
		if v == value {
			t.Moves = append(t.Moves[:i], t.Moves[i+1:]...)
			return true
		}
	}
	return false
}

// Exhausted reports whether no dice, bonus roll, or prize distance remain
func (t *Turn) Exhausted() bool {
	return len(t.Moves) == 0 && !t.CanRollAgain && t.PrizeMoves == 0
}
