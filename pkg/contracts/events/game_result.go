package events

import "time"

// Resultado final de um jogo simulado, enviado aos clientes WebSocket
// via Redis Pub/Sub (ou broadcast direto quando não há Redis).
type GameResult struct {
	GameID      string    `json:"game_id"`
	Sport       string    `json:"sport"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	HomeScore   int       `json:"home_score"`
	AwayScore   int       `json:"away_score"`
	SettledBets int       `json:"settled_bets"`
	Ts          time.Time `json:"ts"`
}
