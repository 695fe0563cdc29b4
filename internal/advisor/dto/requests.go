package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
)

var validate = validator.New()

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

type PlaceBetRequest struct {
	UserID    string `json:"userId" validate:"required"`
	GameID    string `json:"gameId" validate:"required"`
	BetType   string `json:"betType" validate:"required,oneof=spread moneyline total"`
	Side      string `json:"side" validate:"omitempty,oneof=home away"`       // spread e moneyline
	Direction string `json:"direction" validate:"omitempty,oneof=over under"` // total
	Stake     string `json:"stake" validate:"required"`
}

// Validate checa os campos e o acoplamento tipo/seleção, e devolve o
// stake parseado. Stake precisa ser positivo.
func (r *PlaceBetRequest) Validate() (decimal.Decimal, error) {
	if err := validate.Struct(r); err != nil {
		return decimal.Zero, err
	}

	switch model.BetType(r.BetType) {
	case model.BetSpread, model.BetMoneyline:
		if r.Side == "" {
			return decimal.Zero, fmt.Errorf("side is required for %s bets", r.BetType)
		}
	case model.BetTotal:
		if r.Direction == "" {
			return decimal.Zero, fmt.Errorf("direction is required for total bets")
		}
	}

	stake, err := decimal.NewFromString(r.Stake)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stake %q", r.Stake)
	}
	if !stake.IsPositive() {
		return decimal.Zero, fmt.Errorf("stake must be positive")
	}
	return stake, nil
}

// QuoteRequest pede o payout potencial sem criar aposta.
type QuoteRequest struct {
	Stake string `json:"stake" validate:"required"`
	Odds  int    `json:"odds" validate:"required"`
}

func (r *QuoteRequest) Validate() (decimal.Decimal, error) {
	if err := validate.Struct(r); err != nil {
		return decimal.Zero, err
	}
	stake, err := decimal.NewFromString(r.Stake)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stake %q", r.Stake)
	}
	if !stake.IsPositive() {
		return decimal.Zero, fmt.Errorf("stake must be positive")
	}
	return stake, nil
}
