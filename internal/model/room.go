package model

import "time"

// RoomID uniquely identifies a room
type RoomID string

// RoomState represents a room's lifecycle phase
type RoomState string

const (
	RoomStateWaiting  RoomState = "waiting"   // Seats filling, game not started
	RoomStatePlaying  RoomState = "playing"   // Game in progress
	RoomStatePostGame RoomState = "post_game" // Game over, rematch protocol open
)

// SeatStatus is the state of one physical seat
type SeatStatus string

const (
	SeatStatusOpen      SeatStatus = "open"
	SeatStatusWaiting   SeatStatus = "waiting"
	SeatStatusPlaying   SeatStatus = "playing"
	SeatStatusAbandoned SeatStatus = "abandoned" // Left mid-game, forfeited
)

// Seat is a fixed physical position at the table. Seat->color mapping is
// fixed at room creation; in team mode seats i and i+2 are partners.
type Seat struct {
	Index      int        `json:"index"`
	PlayerID   PlayerID   `json:"playerId,omitempty"`
	PlayerName string     `json:"playerName,omitempty"`
	Color      Color      `json:"color"`
	Status     SeatStatus `json:"status"`
}

// Occupied reports whether a player holds the seat
func (s *Seat) Occupied() bool {
	return s.PlayerID != ""
}

// ExitMode controls how pieces leave the base
type ExitMode string

const (
	// ExitModeDouble requires a qualifying exit roll to leave base
	ExitModeDouble ExitMode = "double"
	// ExitModeAuto seeds pieces already on the start cell at game start
	ExitModeAuto ExitMode = "auto"
)

// Variant selects the bonus rules
type Variant string

const (
	// VariantClassic grants an extra roll for captures and goals
	VariantClassic Variant = "classic"
	// VariantPrizeDistance banks bonus travel distance instead
	VariantPrizeDistance Variant = "prizeDistance"
)

// Settings are fixed at room creation and immutable thereafter
type Settings struct {
	Bet           int64    `json:"bet"`
	BetCurrency   string   `json:"betCurrency"`
	PieceCount    int      `json:"pieceCount"`
	AutoExit      ExitMode `json:"autoExit"`
	Variant       Variant  `json:"variant"`
	TeamMode      bool     `json:"teamMode"`
	HostColor     Color    `json:"hostColor"`
	ForcedCapture bool     `json:"forcedCapture"`
}

// Validate checks settings invariants
func (s *Settings) Validate() error {
	switch s.PieceCount {
	case 2, 4, 6, 8:
	default:
		return ErrInvalidSettings
	}
	if s.AutoExit != ExitModeDouble && s.AutoExit != ExitModeAuto {
		return ErrInvalidSettings
	}
	if s.Variant != VariantClassic && s.Variant != VariantPrizeDistance {
		return ErrInvalidSettings
	}
	if !s.HostColor.Valid() {
		return ErrInvalidSettings
	}
	if s.Bet < 0 {
		return ErrInvalidSettings
	}
	return nil
}

// RematchData is the post-game rematch confirmation record. Created at game
// end, deleted when the next game starts.
type RematchData struct {
	WinnerIDs  []PlayerID        `json:"winnerIds"`
	WinnerName string            `json:"winnerName"`
	Confirmed  map[PlayerID]bool `json:"confirmed"`
	CanStart   bool              `json:"canStart"`
}

// Room is a table of four seats and, while playing, one game state
type Room struct {
	ID        RoomID       `json:"id"`
	Seats     [4]Seat      `json:"seats"`
	Settings  Settings     `json:"settings"`
	State     RoomState    `json:"state"`
	HostIndex int          `json:"hostIndex"`
	Game      *GameState   `json:"game,omitempty"`
	Rematch   *RematchData `json:"rematch,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// SeatOf returns the seat held by a player, or nil
func (r *Room) SeatOf(playerID PlayerID) *Seat {
	for i := range r.Seats {
		if r.Seats[i].PlayerID == playerID {
			return &r.Seats[i]
		}
	}
	return nil
}

// SeatByColor returns the seat assigned a color
func (r *Room) SeatByColor(color Color) *Seat {
	for i := range r.Seats {
		if r.Seats[i].Color == color {
			return &r.Seats[i]
		}
	}
	return nil
}

// Host returns the host seat
func (r *Room) Host() *Seat {
	return &r.Seats[r.HostIndex]
}

// OccupiedSeats returns the seats currently held by players
func (r *Room) OccupiedSeats() []*Seat {
	var seats []*Seat
	for i := range r.Seats {
		if r.Seats[i].Occupied() {
			seats = append(seats, &r.Seats[i])
		}
	}
	return seats
}

// PlayingSeats returns the seats still in contention
func (r *Room) PlayingSeats() []*Seat {
	var seats []*Seat
	for i := range r.Seats {
		if r.Seats[i].Status == SeatStatusPlaying {
			seats = append(seats, &r.Seats[i])
		}
	}
	return seats
}

// Empty reports whether no player holds any seat
func (r *Room) Empty() bool {
	return len(r.OccupiedSeats()) == 0
}
