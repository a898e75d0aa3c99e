package model

// Event is a fixed-schema payload broadcast to a room. Each action/event
// name maps to exactly one struct; clients never infer shape from optional
// fields.
type Event interface {
	EventName() string
}

// Event names
const (
	EventGameStarted      = "game_started"
	EventDiceRolled       = "dice_rolled"
	EventGameStateUpdated = "game_state_updated"
	EventFoulPenalty      = "foul_penalty"
	EventTurnChanged      = "turn_changed"
	EventGameOver         = "game_over"
	EventRematchUpdate    = "rematch_update"
	EventRematchStarted   = "rematch_started"
	EventSeatsUpdated     = "seats_updated"
)

// Foul types carried by FoulPenaltyEvent
const (
	FoulMissedCapture = "missed_capture"
	FoulThirdDouble   = "third_double"
)

// GameStartedEvent announces a started game with its initial state
type GameStartedEvent struct {
	Game  *GameState `json:"gameState"`
	Seats [4]Seat    `json:"seats"`
}

func (GameStartedEvent) EventName() string { return EventGameStarted }

// DiceRolledEvent carries the dice values and resulting turn state
type DiceRolledEvent struct {
	PlayerIndex int    `json:"playerIndex"`
	Values      [2]int `json:"values"`
	IsDouble    bool   `json:"isDouble"`
	Turn        Turn   `json:"turnState"`
}

func (DiceRolledEvent) EventName() string { return EventDiceRolled }

// GameStateUpdatedEvent carries the state after an applied move
type GameStateUpdatedEvent struct {
	Game *GameState `json:"newGameState"`
	Move MoveInfo   `json:"moveInfo"`
}

func (GameStateUpdatedEvent) EventName() string { return EventGameStateUpdated }

// FoulPenaltyEvent announces a silently corrected rule fault
type FoulPenaltyEvent struct {
	Type            string `json:"type"`
	PenalizedPiece  int    `json:"penalizedPieceId"`
	PlayerIndex     int    `json:"playerIndex"`
	ReturnedToCell  Cell   `json:"returnedToCell"`
}

func (FoulPenaltyEvent) EventName() string { return EventFoulPenalty }

// TurnChangedEvent announces the next seat to act
type TurnChangedEvent struct {
	NextPlayerIndex int `json:"nextPlayerIndex"`
}

func (TurnChangedEvent) EventName() string { return EventTurnChanged }

// GameOverEvent announces settlement. Emitted only after winner credits are
// confirmed persisted.
type GameOverEvent struct {
	WinnerName     string     `json:"winnerName"`
	Pot            int64      `json:"pot"`
	Commission     int64      `json:"commission"`
	NetWinnings    int64      `json:"netWinnings"`
	WinningPlayers []PlayerID `json:"winningPlayers"`
	Abandonment    bool       `json:"abandonment"`
}

func (GameOverEvent) EventName() string { return EventGameOver }

// RematchUpdateEvent reflects the confirmation state of an open rematch
type RematchUpdateEvent struct {
	Rematch RematchData `json:"rematch"`
}

func (RematchUpdateEvent) EventName() string { return EventRematchUpdate }

// RematchStartedEvent announces the reseeded game
type RematchStartedEvent struct {
	Game  *GameState `json:"gameState"`
	Seats [4]Seat    `json:"seats"`
}

func (RematchStartedEvent) EventName() string { return EventRematchStarted }

// SeatsUpdatedEvent reflects seating changes while waiting
type SeatsUpdatedEvent struct {
	Seats [4]Seat   `json:"seats"`
	State RoomState `json:"state"`
}

func (SeatsUpdatedEvent) EventName() string { return EventSeatsUpdated }
