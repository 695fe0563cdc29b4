package settlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/oddsmath"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/store"
	"github.com/radieske/sports-bet-advisor-poc/pkg/contracts/events"
)

// Publisher publica os eventos de liquidação no broker.
type Publisher interface {
	PublishBetSettled(ctx context.Context, evt events.BetSettled) error
}

// Broadcaster entrega o resultado do jogo aos clientes conectados.
type Broadcaster interface {
	BroadcastGameResult(ctx context.Context, evt events.GameResult) error
}

// Engine liquida todas as apostas pendentes de um jogo completado.
// O mutex serializa liquidações concorrentes do mesmo jogo; junto com o
// filtro de status do store, cada aposta é liquidada no máximo uma vez.
type Engine struct {
	store       store.Store
	log         *zap.Logger
	publisher   Publisher
	broadcaster Broadcaster

	mu sync.Mutex

	// OnSettled é chamado por aposta liquidada (métricas). Pode ser nil.
	OnSettled func(result model.BetStatus)
}

func NewEngine(s store.Store, log *zap.Logger, pub Publisher, bc Broadcaster) *Engine {
	return &Engine{store: s, log: log, publisher: pub, broadcaster: bc}
}

// Settle avalia e liquida as apostas pendentes do jogo. O jogo precisa
// estar completado com placar registrado. Rodar de novo é no-op.
func (e *Engine) Settle(ctx context.Context, gameID string) ([]model.Bet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !g.Completed() {
		return nil, store.ErrGameNotCompleted
	}

	pending, err := e.store.ListPendingBetsByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	settled := make([]model.Bet, 0, len(pending))
	for _, b := range pending {
		status, actualWin, err := Evaluate(&b, g)
		if err != nil {
			e.log.Error("bet evaluation failed, skipping",
				zap.String("bet_id", b.ID), zap.Error(err))
			continue
		}

		if err := e.store.SettleBet(ctx, b.ID, status, actualWin); err != nil {
			if err == store.ErrBetNotPending {
				continue
			}
			return nil, fmt.Errorf("settle bet %s: %w", b.ID, err)
		}

		b.Status = status
		b.ActualWin = actualWin
		now := time.Now().UTC()
		b.SettledAt = &now
		settled = append(settled, b)

		if e.OnSettled != nil {
			e.OnSettled(status)
		}

		if e.publisher != nil {
			evt := events.BetSettled{
				BetID:     b.ID,
				UserID:    b.UserID,
				GameID:    gameID,
				Result:    string(status),
				Stake:     b.Stake.StringFixed(2),
				ActualWin: actualWin.StringFixed(2),
				Ts:        now,
			}
			if err := e.publisher.PublishBetSettled(ctx, evt); err != nil {
				e.log.Error("failed to publish bet_settled event",
					zap.String("bet_id", b.ID), zap.Error(err))
			}
		}
	}

	e.log.Info("game settled",
		zap.String("game_id", gameID),
		zap.Int("settled_bets", len(settled)),
	)

	if e.broadcaster != nil {
		evt := events.GameResult{
			GameID:      gameID,
			Sport:       string(g.Sport),
			HomeTeam:    g.HomeTeam,
			AwayTeam:    g.AwayTeam,
			HomeScore:   *g.HomeScore,
			AwayScore:   *g.AwayScore,
			SettledBets: len(settled),
			Ts:          time.Now().UTC(),
		}
		if err := e.broadcaster.BroadcastGameResult(ctx, evt); err != nil {
			e.log.Error("failed to broadcast game result",
				zap.String("game_id", gameID), zap.Error(err))
		}
	}

	return settled, nil
}

// Evaluate decide o resultado de uma aposta contra o placar final.
// Push (empate exato contra a linha) conta como derrota. Vitória retorna
// o retorno total (stake + lucro).
func Evaluate(b *model.Bet, g *model.Game) (model.BetStatus, decimal.Decimal, error) {
	if !g.Completed() {
		return "", decimal.Zero, fmt.Errorf("game %s has no final score", g.ID)
	}

	won, err := betWon(b, g)
	if err != nil {
		return "", decimal.Zero, err
	}
	if !won {
		return model.BetLost, decimal.Zero, nil
	}

	ret, err := oddsmath.TotalReturn(b.Stake, b.Odds)
	if err != nil {
		return "", decimal.Zero, err
	}
	return model.BetWon, ret, nil
}

func betWon(b *model.Bet, g *model.Game) (bool, error) {
	home := decimal.NewFromInt(int64(*g.HomeScore))
	away := decimal.NewFromInt(int64(*g.AwayScore))

	switch b.Type {
	case model.BetSpread:
		// diferença ajustada pelo handicap do mandante
		adjusted := home.Sub(away).Add(g.Spread)
		switch b.Selection.Side {
		case model.SideHome:
			return adjusted.GreaterThan(decimal.Zero), nil
		case model.SideAway:
			return adjusted.LessThan(decimal.Zero), nil
		}
		return false, fmt.Errorf("spread bet %s has no side", b.ID)

	case model.BetMoneyline:
		switch b.Selection.Side {
		case model.SideHome:
			return home.GreaterThan(away), nil
		case model.SideAway:
			return away.GreaterThan(home), nil
		}
		return false, fmt.Errorf("moneyline bet %s has no side", b.ID)

	case model.BetTotal:
		points := home.Add(away)
		switch b.Selection.Direction {
		case model.DirectionOver:
			return points.GreaterThan(g.TotalLine), nil
		case model.DirectionUnder:
			return points.LessThan(g.TotalLine), nil
		}
		return false, fmt.Errorf("total bet %s has no direction", b.ID)
	}

	return false, fmt.Errorf("unknown bet type %q", b.Type)
}
