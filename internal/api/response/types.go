package response

import (
	"time"

	"github.com/ludosur/parchis-server/internal/model"
	"github.com/ludosur/parchis-server/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	Credits     int64  `json:"credits"`
	Currency    string `json:"currency"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
		Credits:     p.Credits,
		Currency:    p.Currency,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Settings represents room settings
type Settings struct {
	Bet           int64  `json:"bet"`
	BetCurrency   string `json:"bet_currency"`
	PieceCount    int    `json:"piece_count"`
	AutoExit      string `json:"auto_exit"`
	Variant       string `json:"variant"`
	TeamMode      bool   `json:"team_mode"`
	HostColor     string `json:"host_color"`
	ForcedCapture bool   `json:"forced_capture"`
}

// SettingsFromModel converts model.Settings
func SettingsFromModel(s model.Settings) Settings {
	return Settings{
		Bet:           s.Bet,
		BetCurrency:   s.BetCurrency,
		PieceCount:    s.PieceCount,
		AutoExit:      string(s.AutoExit),
		Variant:       string(s.Variant),
		TeamMode:      s.TeamMode,
		HostColor:     s.HostColor.String(),
		ForcedCapture: s.ForcedCapture,
	}
}

// Seat represents one seat at the table
type Seat struct {
	Index      int    `json:"index"`
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	Color      string `json:"color"`
	Status     string `json:"status"`
}

// SeatFromModel converts model.Seat
func SeatFromModel(s model.Seat) Seat {
	return Seat{
		Index:      s.Index,
		PlayerID:   string(s.PlayerID),
		PlayerName: s.PlayerName,
		Color:      s.Color.String(),
		Status:     string(s.Status),
	}
}

// Piece represents one pawn
type Piece struct {
	ID       int    `json:"id"`
	Color    string `json:"color"`
	State    string `json:"state"`
	Position int    `json:"position"`
}

// PieceFromModel converts model.Piece
func PieceFromModel(p *model.Piece) Piece {
	return Piece{
		ID:       p.ID,
		Color:    p.Color.String(),
		State:    string(p.State),
		Position: int(p.Position),
	}
}

// CaptureInfo describes an opposing piece a move sends back to base
type CaptureInfo struct {
	PieceID int    `json:"piece_id"`
	Color   string `json:"color"`
	From    int    `json:"from"`
}

// Move represents one legal piece movement
type Move struct {
	PieceID        int          `json:"piece_id"`
	Die            int          `json:"die"`
	UsesBoth       bool         `json:"uses_both,omitempty"`
	IsPrize        bool         `json:"is_prize,omitempty"`
	IsExit         bool         `json:"is_exit,omitempty"`
	BreaksBlockade bool         `json:"breaks_blockade,omitempty"`
	From           int          `json:"from"`
	To             int          `json:"to"`
	Captures       *CaptureInfo `json:"captures,omitempty"`
	ReachesGoal    bool         `json:"reaches_goal,omitempty"`
}

// MoveFromModel converts model.Move
func MoveFromModel(m model.Move) Move {
	mv := Move{
		PieceID:        m.PieceID,
		Die:            m.Die,
		UsesBoth:       m.UsesBoth,
		IsPrize:        m.IsPrize,
		IsExit:         m.IsExit,
		BreaksBlockade: m.BreaksBlockade,
		From:           int(m.From),
		To:             int(m.To),
		ReachesGoal:    m.ReachesGoal,
	}
	if m.Captures != nil {
		mv.Captures = &CaptureInfo{
			PieceID: m.Captures.PieceID,
			Color:   m.Captures.Color.String(),
			From:    int(m.Captures.From),
		}
	}
	return mv
}

// Turn represents the dice and turn state
type Turn struct {
	PlayerIndex      int    `json:"player_index"`
	CanRoll          bool   `json:"can_roll"`
	CanRollAgain     bool   `json:"can_roll_again"`
	Dice             [2]int `json:"dice"`
	Moves            []int  `json:"moves"`
	PossibleMoves    []Move `json:"possible_moves"`
	DoublesCount     int    `json:"doubles_count"`
	LastMovedPieceID int    `json:"last_moved_piece_id"`
	PrizeMoves       int    `json:"prize_moves"`
	CaptureDuePiece  *int   `json:"capture_due_piece_id,omitempty"`
}

// TurnFromModel converts model.Turn
func TurnFromModel(t model.Turn) Turn {
	moves := make([]Move, len(t.PossibleMoves))
	for i, m := range t.PossibleMoves {
		moves[i] = MoveFromModel(m)
	}
	turn := Turn{
		PlayerIndex:      t.PlayerIndex,
		CanRoll:          t.CanRoll,
		CanRollAgain:     t.CanRollAgain,
		Dice:             t.Dice,
		Moves:            t.Moves,
		PossibleMoves:    moves,
		DoublesCount:     t.DoublesCount,
		LastMovedPieceID: t.LastMovedPieceID,
		PrizeMoves:       t.PrizeMoves,
	}
	if t.CaptureDue != nil {
		id := t.CaptureDue.PieceID
		turn.CaptureDuePiece = &id
	}
	return turn
}

// GameState represents the in-progress game
type GameState struct {
	Pot       int64     `json:"pot"`
	Turn      Turn      `json:"turn"`
	Pieces    []Piece   `json:"pieces"`
	StartedAt time.Time `json:"started_at"`
}

// GameStateFromModel converts model.GameState. Pieces are flattened into a
// single list ordered by color then piece ID.
func GameStateFromModel(g *model.GameState) GameState {
	all := g.AllPieces()
	pieces := make([]Piece, len(all))
	for i, p := range all {
		pieces[i] = PieceFromModel(p)
	}
	return GameState{
		Pot:       g.Pot,
		Turn:      TurnFromModel(g.Turn),
		Pieces:    pieces,
		StartedAt: g.StartedAt,
	}
}

// Rematch represents the post-game rematch confirmation state
type Rematch struct {
	WinnerIDs  []string        `json:"winner_ids"`
	WinnerName string          `json:"winner_name"`
	Confirmed  map[string]bool `json:"confirmed"`
	CanStart   bool            `json:"can_start"`
}

// RematchFromModel converts model.RematchData
func RematchFromModel(r *model.RematchData) *Rematch {
	if r == nil {
		return nil
	}
	winners := make([]string, len(r.WinnerIDs))
	for i, id := range r.WinnerIDs {
		winners[i] = string(id)
	}
	confirmed := make(map[string]bool, len(r.Confirmed))
	for id, ok := range r.Confirmed {
		confirmed[string(id)] = ok
	}
	return &Rematch{
		WinnerIDs:  winners,
		WinnerName: r.WinnerName,
		Confirmed:  confirmed,
		CanStart:   r.CanStart,
	}
}

// Room represents a room in API responses
type Room struct {
	ID        string     `json:"id"`
	State     string     `json:"state"`
	HostIndex int        `json:"host_index"`
	Seats     [4]Seat    `json:"seats"`
	Settings  Settings   `json:"settings"`
	Game      *GameState `json:"game,omitempty"`
	Rematch   *Rematch   `json:"rematch,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// RoomFromModel converts model.Room
func RoomFromModel(r *model.Room) Room {
	var seats [4]Seat
	for i, s := range r.Seats {
		seats[i] = SeatFromModel(s)
	}
	room := Room{
		ID:        string(r.ID),
		State:     string(r.State),
		HostIndex: r.HostIndex,
		Seats:     seats,
		Settings:  SettingsFromModel(r.Settings),
		Rematch:   RematchFromModel(r.Rematch),
		CreatedAt: r.CreatedAt,
	}
	if r.Game != nil {
		g := GameStateFromModel(r.Game)
		room.Game = &g
	}
	return room
}

// RollResponse is the response after rolling the dice
type RollResponse struct {
	Dice     [2]int `json:"dice"`
	IsDouble bool   `json:"is_double"`
	Turn     Turn   `json:"turn"`
	Room     Room   `json:"room"`
}

// MoveResponse is the response after moving a piece
type MoveResponse struct {
	Room Room `json:"room"`
}
