package dto

import (
	"time"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
)

// Valores monetários saem como string decimal com 2 casas, igual ao
// contrato do frontend.

type LoginResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Bankroll string `json:"bankroll"`
}

type GameResponse struct {
	ID            string                `json:"id"`
	Sport         string                `json:"sport"`
	HomeTeam      string                `json:"homeTeam"`
	AwayTeam      string                `json:"awayTeam"`
	GameTime      time.Time             `json:"gameTime"`
	Status        string                `json:"status"`
	HomeScore     *int                  `json:"homeScore"`
	AwayScore     *int                  `json:"awayScore"`
	Spread        string                `json:"spread"`
	SpreadOdds    int                   `json:"spreadOdds"`
	MoneylineHome int                   `json:"moneylineHome"`
	MoneylineAway int                   `json:"moneylineAway"`
	TotalLine     string                `json:"totalLine"`
	TotalOdds     int                   `json:"totalOdds"`
	Predictions   []PredictionResponse  `json:"predictions,omitempty"`
}

type PredictionResponse struct {
	ID                 string    `json:"id"`
	GameID             string    `json:"gameId"`
	RecommendationType string    `json:"recommendationType"`
	RecommendedBet     string    `json:"recommendedBet"`
	Confidence         int       `json:"confidence"`
	EdgeScore          string    `json:"edgeScore"`
	Reasoning          string    `json:"reasoning"`
	CreatedAt          time.Time `json:"createdAt"`
}

type BetResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	GameID       string     `json:"gameId"`
	BetType      string     `json:"betType"`
	Selection    string     `json:"selection"`
	Stake        string     `json:"stake"`
	Odds         int        `json:"odds"`
	PotentialWin string     `json:"potentialWin"`
	Status       string     `json:"status"`
	ActualWin    string     `json:"actualWin"`
	PlacedAt     time.Time  `json:"placedAt"`
	SettledAt    *time.Time `json:"settledAt,omitempty"`
}

type BetWithGameResponse struct {
	BetResponse
	Game GameResponse `json:"game"`
}

type PlaceBetResponse struct {
	Bet         BetResponse `json:"bet"`
	NewBankroll string      `json:"newBankroll"`
}

type QuoteResponse struct {
	Stake        string `json:"stake"`
	Odds         int    `json:"odds"`
	PotentialWin string `json:"potentialWin"`
	TotalReturn  string `json:"totalReturn"`
}

type StatsResponse struct {
	Bankroll    string `json:"bankroll"`
	TotalProfit string `json:"totalProfit"`
	WinRate     string `json:"winRate"`
	ROI         string `json:"roi"`
	TotalBets   int    `json:"totalBets"`
	WonBets     int    `json:"wonBets"`
	LostBets    int    `json:"lostBets"`
}

type SimulateResponse struct {
	Game        GameResponse  `json:"game"`
	SettledBets []BetResponse `json:"settledBets"`
}

type RefreshPredictionsResponse struct {
	Created int `json:"created"`
}

func FromGame(g *model.Game, preds []model.Prediction) GameResponse {
	out := GameResponse{
		ID:            g.ID,
		Sport:         string(g.Sport),
		HomeTeam:      g.HomeTeam,
		AwayTeam:      g.AwayTeam,
		GameTime:      g.GameTime,
		Status:        string(g.Status),
		HomeScore:     g.HomeScore,
		AwayScore:     g.AwayScore,
		Spread:        g.Spread.String(),
		SpreadOdds:    g.SpreadOdds,
		MoneylineHome: g.MoneylineHome,
		MoneylineAway: g.MoneylineAway,
		TotalLine:     g.TotalLine.String(),
		TotalOdds:     g.TotalOdds,
	}
	for i := range preds {
		out.Predictions = append(out.Predictions, FromPrediction(&preds[i]))
	}
	return out
}

func FromPrediction(p *model.Prediction) PredictionResponse {
	return PredictionResponse{
		ID:                 p.ID,
		GameID:             p.GameID,
		RecommendationType: string(p.RecommendationType),
		RecommendedBet:     p.RecommendedBet,
		Confidence:         p.Confidence,
		EdgeScore:          p.EdgeScore.StringFixed(2),
		Reasoning:          p.Reasoning,
		CreatedAt:          p.CreatedAt,
	}
}

func FromBet(b *model.Bet) BetResponse {
	return BetResponse{
		ID:           b.ID,
		UserID:       b.UserID,
		GameID:       b.GameID,
		BetType:      string(b.Type),
		Selection:    b.Selection.Label,
		Stake:        b.Stake.StringFixed(2),
		Odds:         b.Odds,
		PotentialWin: b.PotentialWin.StringFixed(2),
		Status:       string(b.Status),
		ActualWin:    b.ActualWin.StringFixed(2),
		PlacedAt:     b.PlacedAt,
		SettledAt:    b.SettledAt,
	}
}

func FromStats(s *model.UserStats) StatsResponse {
	return StatsResponse{
		Bankroll:    s.Bankroll.StringFixed(2),
		TotalProfit: s.TotalProfit.StringFixed(2),
		WinRate:     s.WinRate.StringFixed(2),
		ROI:         s.ROI.StringFixed(2),
		TotalBets:   s.TotalBets,
		WonBets:     s.WonBets,
		LostBets:    s.LostBets,
	}
}
