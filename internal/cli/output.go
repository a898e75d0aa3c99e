package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Room:
		o.printRoom(v)
	case RollResult:
		o.printRollResult(v)
	case MoveResult:
		o.printRoom(v.Room)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	Credits     int64  `json:"credits"`
	Currency    string `json:"currency"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Settings response type
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

// Seat response type
type Seat struct {
	Index      int    `json:"index"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Color      string `json:"color"`
	Status     string `json:"status"`
}

// Piece response type
type Piece struct {
	ID       int    `json:"id"`
	Color    string `json:"color"`
	State    string `json:"state"`
	Position int    `json:"position"`
}

// Move response type
type Move struct {
	PieceID  int  `json:"piece_id"`
	Die      int  `json:"die"`
	UsesBoth bool `json:"uses_both"`
	IsPrize  bool `json:"is_prize"`
	IsExit   bool `json:"is_exit"`
	From     int  `json:"from"`
	To       int  `json:"to"`
}

// Turn response type
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
	CaptureDuePiece  *int   `json:"capture_due_piece_id"`
}

// GameState response type
type GameState struct {
	Pot    int64   `json:"pot"`
	Turn   Turn    `json:"turn"`
	Pieces []Piece `json:"pieces"`
}

// Rematch response type
type Rematch struct {
	WinnerIDs  []string        `json:"winner_ids"`
	WinnerName string          `json:"winner_name"`
	Confirmed  map[string]bool `json:"confirmed"`
	CanStart   bool            `json:"can_start"`
}

// Room response type
type Room struct {
	ID        string     `json:"id"`
	State     string     `json:"state"`
	HostIndex int        `json:"host_index"`
	Seats     [4]Seat    `json:"seats"`
	Settings  Settings   `json:"settings"`
	Game      *GameState `json:"game"`
	Rematch   *Rematch   `json:"rematch"`
}

// RollResult response type
type RollResult struct {
	Dice     [2]int `json:"dice"`
	IsDouble bool   `json:"is_double"`
	Turn     Turn   `json:"turn"`
	Room     Room   `json:"room"`
}

// MoveResult response type
type MoveResult struct {
	Room Room `json:"room"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
	fmt.Printf("Credits: %d %s\n", p.Credits, p.Currency)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.ID)
	fmt.Printf("State: %s\n", r.State)
	fmt.Printf("Bet: %d %s (%s variant)\n", r.Settings.Bet, r.Settings.BetCurrency, r.Settings.Variant)
	fmt.Println("Seats:")
	for _, s := range r.Seats {
		hostStr := ""
		if s.Index == r.HostIndex {
			hostStr = " [host]"
		}
		if s.PlayerID == "" {
			fmt.Printf("  %d. %-7s (open)\n", s.Index, s.Color)
			continue
		}
		fmt.Printf("  %d. %-7s %s - %s%s\n", s.Index, s.Color, s.PlayerName, s.Status, hostStr)
	}

	if r.Game != nil {
		o.printGameState(*r.Game, r.Seats)
	}

	if r.Rematch != nil {
		fmt.Printf("\nRematch (winner: %s):\n", r.Rematch.WinnerName)
		for id, ok := range r.Rematch.Confirmed {
			mark := " "
			if ok {
				mark = "x"
			}
			fmt.Printf("  [%s] %s\n", mark, id)
		}
		if r.Rematch.CanStart {
			fmt.Println("All confirmed; the winner can start the rematch")
		}
	}
}

func (o *Output) printGameState(g GameState, seats [4]Seat) {
	fmt.Printf("\nPot: %d\n", g.Pot)
	turnSeat := seats[g.Turn.PlayerIndex]
	fmt.Printf("Turn: %s (%s)\n", turnSeat.PlayerName, turnSeat.Color)

	if g.Turn.Dice[0] != 0 {
		fmt.Printf("Dice: %d %d\n", g.Turn.Dice[0], g.Turn.Dice[1])
	}
	if g.Turn.PrizeMoves > 0 {
		fmt.Printf("Prize distance: %d\n", g.Turn.PrizeMoves)
	}
	if g.Turn.CaptureDuePiece != nil {
		fmt.Printf("Capture due with piece %d\n", *g.Turn.CaptureDuePiece)
	}

	if len(g.Turn.PossibleMoves) > 0 {
		fmt.Println("Legal moves:")
		for _, m := range g.Turn.PossibleMoves {
			o.printMove(m)
		}
	}

	fmt.Println("Pieces:")
	byColor := map[string][]string{}
	order := []string{}
	for _, p := range g.Pieces {
		if _, seen := byColor[p.Color]; !seen {
			order = append(order, p.Color)
		}
		pos := "base"
		if p.State == "active" {
			pos = fmt.Sprintf("%d", p.Position)
		}
		byColor[p.Color] = append(byColor[p.Color], fmt.Sprintf("#%d@%s", p.ID, pos))
	}
	for _, color := range order {
		fmt.Printf("  %-7s %s\n", color, strings.Join(byColor[color], " "))
	}
}

func (o *Output) printMove(m Move) {
	from := fmt.Sprintf("%d", m.From)
	if m.IsExit {
		from = "base"
	}
	suffix := ""
	if m.UsesBoth {
		suffix = " (both dice)"
	}
	if m.IsPrize {
		suffix = " (prize)"
	}
	fmt.Printf("  piece %d: %s -> %d with %d%s\n", m.PieceID, from, m.To, m.Die, suffix)
}

func (o *Output) printRollResult(r RollResult) {
	doubleStr := ""
	if r.IsDouble {
		doubleStr = " (double!)"
	}
	fmt.Printf("Rolled: %d %d%s\n", r.Dice[0], r.Dice[1], doubleStr)

	if len(r.Turn.PossibleMoves) == 0 {
		fmt.Println("No legal moves; the turn will pass")
		return
	}

	fmt.Println("Legal moves:")
	for _, m := range r.Turn.PossibleMoves {
		o.printMove(m)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
