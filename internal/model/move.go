package model

// CaptureInfo describes an opposing piece sent back to base by a move
type CaptureInfo struct {
	PieceID int   `json:"pieceId"`
	Color   Color `json:"color"`
	From    Cell  `json:"from"`
}

// Move is one legal piece movement for the current dice. Die is the distance
// consumed: a single die value, the dice sum (UsesBoth), or a pending prize
// distance (IsPrize).
type Move struct {
	PieceID        int          `json:"pieceId"`
	Die            int          `json:"die"`
	UsesBoth       bool         `json:"usesBoth,omitempty"`
	IsPrize        bool         `json:"isPrize,omitempty"`
	IsExit         bool         `json:"isExit,omitempty"`
	BreaksBlockade bool         `json:"breaksBlockade,omitempty"`
	From           Cell         `json:"from"`
	To             Cell         `json:"to"`
	Path           []Cell       `json:"path"`
	Captures       *CaptureInfo `json:"captures,omitempty"`
	ReachesGoal    bool         `json:"reachesGoal,omitempty"`
}

// MoveInfo is the broadcastable summary of an applied move
type MoveInfo struct {
	PieceID  int          `json:"pieceId"`
	From     Cell         `json:"from"`
	To       Cell         `json:"to"`
	Path     []Cell       `json:"path"`
	Captures *CaptureInfo `json:"captures,omitempty"`
}
