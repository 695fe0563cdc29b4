package simulator

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/store"
)

// faixas de placar por esporte, inclusivas nas duas pontas
type scoreBand struct{ min, max int }

var bands = map[model.Sport]scoreBand{
	model.SportNBA: {88, 132},
	model.SportNFL: {10, 38},
	model.SportMLB: {1, 9},
	model.SportNHL: {0, 6},
}

// Simulator sorteia o placar final de um jogo e registra a transição
// upcoming -> completed no store.
type Simulator struct {
	store store.Store
	log   *zap.Logger
	rnd   *rand.Rand

	// OnSimulated é chamado a cada jogo completado (métricas). Pode ser nil.
	OnSimulated func()
}

// New cria o simulador. rnd injetável pra teste determinístico; nil usa
// a fonte global.
func New(s store.Store, log *zap.Logger, rnd *rand.Rand) *Simulator {
	return &Simulator{store: s, log: log, rnd: rnd}
}

// Simulate completa o jogo com placares independentes dentro da faixa do
// esporte. Empates são resultado válido. Retorna o jogo já completado.
func (s *Simulator) Simulate(ctx context.Context, gameID string) (*model.Game, error) {
	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status != model.GameUpcoming {
		return nil, store.ErrGameNotUpcoming
	}

	band, ok := bands[g.Sport]
	if !ok {
		return nil, fmt.Errorf("no score band for sport %q", g.Sport)
	}

	homeScore := s.draw(band)
	awayScore := s.draw(band)

	if err := s.store.CompleteGame(ctx, gameID, homeScore, awayScore); err != nil {
		return nil, err
	}

	if s.OnSimulated != nil {
		s.OnSimulated()
	}

	s.log.Info("game simulated",
		zap.String("game_id", gameID),
		zap.String("sport", string(g.Sport)),
		zap.Int("home_score", homeScore),
		zap.Int("away_score", awayScore),
	)

	return s.store.GetGame(ctx, gameID)
}

func (s *Simulator) draw(b scoreBand) int {
	if s.rnd != nil {
		return b.min + s.rnd.Intn(b.max-b.min+1)
	}
	return b.min + rand.Intn(b.max-b.min+1)
}
