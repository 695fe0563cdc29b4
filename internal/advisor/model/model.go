package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sport identifica a liga de um jogo.
type Sport string

const (
	SportNBA Sport = "NBA"
	SportNFL Sport = "NFL"
	SportMLB Sport = "MLB"
	SportNHL Sport = "NHL"
)

// ParseSport valida e normaliza a tag de esporte.
func ParseSport(s string) (Sport, error) {
	switch Sport(strings.ToUpper(s)) {
	case SportNBA:
		return SportNBA, nil
	case SportNFL:
		return SportNFL, nil
	case SportMLB:
		return SportMLB, nil
	case SportNHL:
		return SportNHL, nil
	}
	return "", fmt.Errorf("unknown sport %q", s)
}

// GameStatus é a transição de um jogo: upcoming -> completed (terminal).
type GameStatus string

const (
	GameUpcoming  GameStatus = "upcoming"
	GameCompleted GameStatus = "completed"
)

// BetType é o mercado apostado.
type BetType string

const (
	BetSpread    BetType = "spread"
	BetMoneyline BetType = "moneyline"
	BetTotal     BetType = "total"
)

// BetStatus é a transição de uma aposta: pending -> won|lost (terminal).
type BetStatus string

const (
	BetPending BetStatus = "pending"
	BetWon     BetStatus = "won"
	BetLost    BetStatus = "lost"
)

// Side identifica o lado apostado em spread/moneyline.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Direction identifica o lado apostado em totals.
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

type User struct {
	ID          string
	Username    string
	Password    string // comparação opaca, app demo sem sessão
	Bankroll    decimal.Decimal
	TotalProfit decimal.Decimal
	WinRate     decimal.Decimal
	ROI         decimal.Decimal
	CreatedAt   time.Time
}

type Game struct {
	ID       string
	Sport    Sport
	HomeTeam string
	AwayTeam string
	GameTime time.Time
	Status   GameStatus

	// nil enquanto Status == upcoming
	HomeScore *int
	AwayScore *int

	// Odds do mercado. Spread é o handicap do mandante (negativo = favorito).
	Spread        decimal.Decimal
	SpreadOdds    int
	MoneylineHome int
	MoneylineAway int
	TotalLine     decimal.Decimal
	TotalOdds     int

	CreatedAt time.Time
}

// Completed informa se o jogo terminou com os dois placares registrados.
func (g *Game) Completed() bool {
	return g.Status == GameCompleted && g.HomeScore != nil && g.AwayScore != nil
}

type Prediction struct {
	ID                 string
	GameID             string
	RecommendationType BetType
	RecommendedBet     string
	Confidence         int // 1-100
	EdgeScore          decimal.Decimal
	Reasoning          string
	CreatedAt          time.Time
}

// Selection é a seleção estruturada decidida no momento da aposta.
// A liquidação usa Side/Direction; Label é só exibição.
type Selection struct {
	Side      Side      // spread e moneyline
	Direction Direction // total
	Label     string    // ex: "Lakers -3.5", "Over 218.5"
}

type Bet struct {
	ID           string
	UserID       string
	GameID       string
	Type         BetType
	Selection    Selection
	Stake        decimal.Decimal
	Odds         int // odd americana congelada no momento da aposta
	PotentialWin decimal.Decimal
	Status       BetStatus
	ActualWin    decimal.Decimal // retorno total (stake + lucro); zero se perdeu ou pendente
	PlacedAt     time.Time
	SettledAt    *time.Time
}

// Settled informa se a aposta já foi liquidada.
func (b *Bet) Settled() bool {
	return b.Status != BetPending
}

// BetWithGame é a aposta acompanhada do jogo para o histórico do usuário.
type BetWithGame struct {
	Bet
	Game Game
}

// UserStats é o snapshot agregado exposto pela API.
type UserStats struct {
	Bankroll    decimal.Decimal
	TotalProfit decimal.Decimal
	WinRate     decimal.Decimal
	ROI         decimal.Decimal
	TotalBets   int
	WonBets     int
	LostBets    int
}
