package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
)

// SeedDemo carrega o usuário e os jogos do demo. Idempotente: se o usuário
// já existe, assume que o seed rodou e não insere nada.
func SeedDemo(ctx context.Context, s Store, now time.Time) error {
	if _, err := s.GetUserByUsername(ctx, "angel"); err == nil {
		return nil
	}

	if err := s.CreateUser(ctx, &model.User{
		Username: "angel",
		Password: "angel1004",
		Bankroll: decimal.NewFromInt(10000),
	}); err != nil {
		return err
	}

	games := []model.Game{
		{
			Sport:         model.SportNBA,
			HomeTeam:      "Los Angeles Lakers",
			AwayTeam:      "Golden State Warriors",
			GameTime:      now.Add(2 * time.Hour),
			Spread:        decimal.RequireFromString("-3.5"),
			SpreadOdds:    -110,
			MoneylineHome: -165,
			MoneylineAway: 145,
			TotalLine:     decimal.RequireFromString("218.5"),
			TotalOdds:     -110,
		},
		{
			Sport:         model.SportNBA,
			HomeTeam:      "Brooklyn Nets",
			AwayTeam:      "Miami Heat",
			GameTime:      now.Add(4 * time.Hour),
			Spread:        decimal.RequireFromString("6.5"),
			SpreadOdds:    -110,
			MoneylineHome: 240,
			MoneylineAway: -280,
			TotalLine:     decimal.RequireFromString("210.5"),
			TotalOdds:     -110,
		},
		{
			Sport:         model.SportNFL,
			HomeTeam:      "Kansas City Chiefs",
			AwayTeam:      "Buffalo Bills",
			GameTime:      now.Add(24 * time.Hour),
			Spread:        decimal.RequireFromString("-2.5"),
			SpreadOdds:    -110,
			MoneylineHome: -140,
			MoneylineAway: 125,
			TotalLine:     decimal.RequireFromString("47.5"),
			TotalOdds:     -110,
		},
		{
			Sport:         model.SportMLB,
			HomeTeam:      "New York Yankees",
			AwayTeam:      "Boston Red Sox",
			GameTime:      now.Add(6 * time.Hour),
			Spread:        decimal.RequireFromString("-1.5"),
			SpreadOdds:    130,
			MoneylineHome: -145,
			MoneylineAway: 125,
			TotalLine:     decimal.RequireFromString("9.5"),
			TotalOdds:     -105,
		},
		{
			Sport:         model.SportNHL,
			HomeTeam:      "New York Rangers",
			AwayTeam:      "Boston Bruins",
			GameTime:      now.Add(8 * time.Hour),
			Spread:        decimal.RequireFromString("1.5"),
			SpreadOdds:    -180,
			MoneylineHome: 115,
			MoneylineAway: -135,
			TotalLine:     decimal.RequireFromString("6.5"),
			TotalOdds:     -110,
		},
	}

	for i := range games {
		if err := s.CreateGame(ctx, &games[i]); err != nil {
			return err
		}
	}
	return nil
}
