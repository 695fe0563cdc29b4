package oddsmath

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrOddsZero: odd americana zero não existe no formato.
var ErrOddsZero = errors.New("american odds cannot be zero")

var hundred = decimal.NewFromInt(100)

// PotentialWin calcula o lucro potencial de uma aposta em odds americanas.
// Odd positiva: stake * odds/100 (azarão). Odd negativa: stake * 100/|odds| (favorito).
func PotentialWin(stake decimal.Decimal, odds int) (decimal.Decimal, error) {
	if odds == 0 {
		return decimal.Zero, ErrOddsZero
	}
	if odds > 0 {
		return stake.Mul(decimal.NewFromInt(int64(odds))).Div(hundred), nil
	}
	return stake.Mul(hundred).Div(decimal.NewFromInt(int64(-odds))), nil
}

// TotalReturn calcula o retorno total (stake + lucro potencial).
func TotalReturn(stake decimal.Decimal, odds int) (decimal.Decimal, error) {
	win, err := PotentialWin(stake, odds)
	if err != nil {
		return decimal.Zero, err
	}
	return stake.Add(win), nil
}

// ToDecimal converte odd americana para o multiplicador decimal.
// +150 -> 2.50, -150 -> 1.6667 (só para exibição, não entra no settlement).
func ToDecimal(odds int) (float64, error) {
	if odds == 0 {
		return 0, ErrOddsZero
	}
	if odds > 0 {
		return float64(odds)/100.0 + 1.0, nil
	}
	return 100.0/float64(-odds) + 1.0, nil
}
