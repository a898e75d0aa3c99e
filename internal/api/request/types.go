package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateRoomRequest is the request body for creating a room. Settings are
// fixed at creation; omitted fields fall back to the documented defaults.
type CreateRoomRequest struct {
	Bet           int64  `json:"bet"`
	BetCurrency   string `json:"bet_currency,omitempty"`
	PieceCount    int    `json:"piece_count,omitempty"`
	AutoExit      string `json:"auto_exit,omitempty"`
	Variant       string `json:"variant,omitempty"`
	TeamMode      bool   `json:"team_mode,omitempty"`
	HostColor     string `json:"host_color,omitempty"`
	ForcedCapture *bool  `json:"forced_capture,omitempty"`
}

// RollRequest is the request body for rolling the dice. It has no fields;
// the acting player and room come from the session and URL.
type RollRequest struct{}

// MoveRequest is the request body for moving a piece. Die is the distance
// to consume; UsesBoth selects the two-dice sum move.
type MoveRequest struct {
	PieceID  int  `json:"piece_id"`
	Die      int  `json:"die"`
	UsesBoth bool `json:"uses_both,omitempty"`
}
