package events

import "time"

// Evento publicado no tópico "bet_settled" após a liquidação de uma aposta.
type BetSettled struct {
	BetID     string    `json:"bet_id"`
	UserID    string    `json:"user_id"`
	GameID    string    `json:"game_id"`
	Result    string    `json:"result"` // "won" | "lost"
	Stake     string    `json:"stake"`
	ActualWin string    `json:"actual_win"` // retorno total creditado (stake + lucro); "0.00" em derrota
	Ts        time.Time `json:"ts"`
}
