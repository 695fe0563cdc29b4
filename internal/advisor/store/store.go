package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrGameNotUpcoming   = errors.New("game is not upcoming")
	ErrGameNotCompleted  = errors.New("game is not completed")
	ErrBetNotPending     = errors.New("bet is not pending")
)

// Store é a fronteira de persistência do serviço. Os chamadores dependem
// da interface, não do backend concreto (memória ou Postgres).
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUserStats(ctx context.Context, userID string, winRate, totalProfit, roi decimal.Decimal) error

	// Games
	ListGames(ctx context.Context) ([]model.Game, error)
	GetGame(ctx context.Context, id string) (*model.Game, error)
	CreateGame(ctx context.Context, g *model.Game) error
	ListGamesByStatus(ctx context.Context, status model.GameStatus) ([]model.Game, error)
	ListGamesBySport(ctx context.Context, sport model.Sport) ([]model.Game, error)
	// CompleteGame registra o placar final e faz a transição terminal
	// upcoming -> completed. Retorna ErrGameNotUpcoming se já completou.
	CompleteGame(ctx context.Context, id string, homeScore, awayScore int) error

	// Predictions
	ListPredictionsByGame(ctx context.Context, gameID string) ([]model.Prediction, error)
	CreatePrediction(ctx context.Context, p *model.Prediction) error

	// Bets
	// PlaceBet valida saldo e debita o stake do bankroll na mesma seção
	// crítica. Retorna ErrInsufficientFunds sem alterar estado.
	PlaceBet(ctx context.Context, b *model.Bet) error
	ListBetsByUser(ctx context.Context, userID string) ([]model.BetWithGame, error)
	ListPendingBetsByGame(ctx context.Context, gameID string) ([]model.Bet, error)
	// SettleBet grava a transição pending -> won|lost e, em vitória,
	// credita actualWin (retorno total) no bankroll do usuário.
	SettleBet(ctx context.Context, betID string, status model.BetStatus, actualWin decimal.Decimal) error

	Ping(ctx context.Context) error
}
