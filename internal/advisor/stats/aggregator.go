package stats

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/store"
)

var hundred = decimal.NewFromInt(100)

// Aggregator recalcula as métricas de performance de um usuário a partir
// das apostas liquidadas. Recalcular do zero a cada chamada deixa a
// operação idempotente.
type Aggregator struct {
	store store.Store
	log   *zap.Logger
}

func NewAggregator(s store.Store, log *zap.Logger) *Aggregator {
	return &Aggregator{store: s, log: log}
}

// Refresh recomputa winRate, totalProfit e roi do usuário, persiste no
// store e retorna o snapshot. Só apostas liquidadas entram no cálculo;
// sem apostas liquidadas, tudo zera.
func (a *Aggregator) Refresh(ctx context.Context, userID string) (*model.UserStats, error) {
	if _, err := a.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	bets, err := a.store.ListBetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		totalWagered = decimal.Zero
		totalWon     = decimal.Zero
		settledCount int
		wonCount     int
		lostCount    int
	)
	for _, b := range bets {
		if !b.Settled() {
			continue
		}
		settledCount++
		totalWagered = totalWagered.Add(b.Stake)
		if b.Bet.Status == model.BetWon {
			wonCount++
			totalWon = totalWon.Add(b.ActualWin)
		} else {
			lostCount++
		}
	}

	winRate := decimal.Zero
	roi := decimal.Zero
	totalProfit := totalWon.Sub(totalWagered)
	if settledCount > 0 {
		winRate = decimal.NewFromInt(int64(wonCount)).
			Div(decimal.NewFromInt(int64(settledCount))).
			Mul(hundred).Round(2)
	}
	if totalWagered.IsPositive() {
		roi = totalProfit.Div(totalWagered).Mul(hundred).Round(2)
	}
	totalProfit = totalProfit.Round(2)

	if err := a.store.UpdateUserStats(ctx, userID, winRate, totalProfit, roi); err != nil {
		return nil, err
	}

	a.log.Debug("user stats refreshed",
		zap.String("user_id", userID),
		zap.Int("settled_bets", settledCount),
		zap.String("win_rate", winRate.String()),
		zap.String("roi", roi.String()),
	)

	// bankroll sai do store de novo: o settlement pode ter creditado
	u, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.UserStats{
		Bankroll:    u.Bankroll,
		TotalProfit: totalProfit,
		WinRate:     winRate,
		ROI:         roi,
		TotalBets:   len(bets),
		WonBets:     wonCount,
		LostBets:    lostCount,
	}, nil
}
