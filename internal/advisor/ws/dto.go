package ws

import "github.com/radieske/sports-bet-advisor-poc/pkg/contracts/events"

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// GameID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type   string `json:"type"`   // subscribe | unsubscribe | ping
	GameID string `json:"gameId"` // requerido em subscribe/unsubscribe
}

// ServerMsg é o envelope enviado aos clientes WebSocket
type ServerMsg struct {
	Type    string            `json:"type"` // game_result
	Payload events.GameResult `json:"payload"`
}
