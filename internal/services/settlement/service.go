// Package settlement distributes a finished game's pot to its winners,
// taking the house commission and converting between wallet currencies.
package settlement

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/ludosur/parchis-server/internal/model"
)

// Wallet is the credit sink for payouts.
type Wallet interface {
	Credit(ctx context.Context, playerID model.PlayerID, amount int64) (*model.Player, error)
}

// PlayerLookup resolves a winner's wallet currency before conversion.
type PlayerLookup interface {
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
}

// Config holds settlement parameters.
type Config struct {
	// CommissionRate is the house cut taken from the pot, in [0, 1).
	CommissionRate float64
	// ExchangeRates maps currency codes to their value in the base
	// currency. The base currency has rate 1.
	ExchangeRates map[string]float64
	BaseCurrency  string
	// CreditRetries bounds payout attempts per winner before giving up.
	CreditRetries int
}

// DefaultConfig returns default settlement configuration
func DefaultConfig() Config {
	return Config{
		CommissionRate: 0.10,
		ExchangeRates: map[string]float64{
			"USD": 1.0,
			"EUR": 1.1,
			"ARS": 0.0011,
			"MXN": 0.054,
		},
		BaseCurrency:  "USD",
		CreditRetries: 3,
	}
}

// Payout is the result of dividing a pot among winners.
type Payout struct {
	Pot        int64
	Commission int64
	// PerWinner is the net amount each winner receives, in the pot's
	// currency. Remainder cents after an even split stay with the house.
	PerWinner int64
}

// Service computes and applies pot settlements
type Service struct {
	wallet  Wallet
	players PlayerLookup
	logger  *slog.Logger
	cfg     Config
}

func New(wallet Wallet, players PlayerLookup, logger *slog.Logger, cfg Config) *Service {
	if cfg.CommissionRate == 0 && cfg.ExchangeRates == nil {
		cfg = DefaultConfig()
	}
	if cfg.CreditRetries <= 0 {
		cfg.CreditRetries = DefaultConfig().CreditRetries
	}
	return &Service{
		wallet:  wallet,
		players: players,
		logger:  logger,
		cfg:     cfg,
	}
}

func (s *Service) Config() Config {
	return s.cfg
}

// ComputePayout takes the commission off the pot and splits the rest
// evenly among winnerCount winners.
func (s *Service) ComputePayout(pot int64, winnerCount int) Payout {
	if winnerCount <= 0 || pot <= 0 {
		return Payout{Pot: pot}
	}
	commission := int64(math.Floor(float64(pot) * s.cfg.CommissionRate))
	net := pot - commission
	return Payout{
		Pot:        pot,
		Commission: commission,
		PerWinner:  net / int64(winnerCount),
	}
}

// Convert translates an amount between currencies via the base currency.
// Unknown currencies convert at rate 1.
func (s *Service) Convert(amount int64, from, to string) int64 {
	if from == to {
		return amount
	}
	fromRate, ok := s.cfg.ExchangeRates[from]
	if !ok {
		fromRate = 1
	}
	toRate, ok := s.cfg.ExchangeRates[to]
	if !ok {
		toRate = 1
	}
	return int64(math.Floor(float64(amount) * fromRate / toRate))
}

// Result records an applied settlement for the game-over broadcast.
type Result struct {
	Payout      Payout
	WinnerIDs   []model.PlayerID
	Abandonment bool
	// Unpaid holds the winners whose credit has not been applied yet.
	Unpaid []model.Seat
}

// Settle pays each winner their share, converting from the room's bet
// currency into the winner's wallet currency. Credit attempts are
// retried a bounded number of times; a winner whose payout still fails
// is recorded in the result's Unpaid list so the rest get paid and the
// caller can retry the remainder later.
func (s *Service) Settle(ctx context.Context, room *model.Room, winners []model.Seat, abandonment bool) (Result, error) {
	if room.Game == nil {
		return Result{}, model.ErrGameNotStarted
	}
	payout := s.ComputePayout(room.Game.Pot, len(winners))

	result := Result{
		Payout:      payout,
		Abandonment: abandonment,
	}

	var firstErr error
	for _, seat := range winners {
		result.WinnerIDs = append(result.WinnerIDs, seat.PlayerID)
		if payout.PerWinner <= 0 {
			continue
		}
		if err := s.pay(ctx, seat.PlayerID, payout.PerWinner, room.Settings.BetCurrency); err != nil {
			s.logger.Error("payout failed",
				"room_id", room.ID,
				"player_id", seat.PlayerID,
				"amount", payout.PerWinner,
				"error", err)
			result.Unpaid = append(result.Unpaid, seat)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return result, firstErr
}

// SettleRemaining retries the credits an earlier Settle could not apply.
// Only winners still listed as unpaid are credited, so a winner is never
// paid twice across retries.
func (s *Service) SettleRemaining(ctx context.Context, room *model.Room, result *Result) error {
	var unpaid []model.Seat
	var firstErr error
	for _, seat := range result.Unpaid {
		if err := s.pay(ctx, seat.PlayerID, result.Payout.PerWinner, room.Settings.BetCurrency); err != nil {
			s.logger.Error("payout retry failed",
				"room_id", room.ID,
				"player_id", seat.PlayerID,
				"amount", result.Payout.PerWinner,
				"error", err)
			unpaid = append(unpaid, seat)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	result.Unpaid = unpaid
	return firstErr
}

func (s *Service) pay(ctx context.Context, playerID model.PlayerID, amount int64, currency string) error {
	var lastErr error
	for attempt := 0; attempt < s.cfg.CreditRetries; attempt++ {
		player, err := s.players.GetPlayer(ctx, playerID)
		if err != nil {
			lastErr = err
			continue
		}
		converted := s.Convert(amount, currency, player.Currency)
		if _, err := s.wallet.Credit(ctx, playerID, converted); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("payout not applied")
	}
	return lastErr
}
