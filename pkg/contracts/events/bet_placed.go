package events

// Evento publicado no tópico "bet_placed" a cada aposta aceita.
// Valores monetários viajam como string decimal com 2 casas.
type BetPlaced struct {
	BetID        string `json:"bet_id"`
	UserID       string `json:"user_id"`
	GameID       string `json:"game_id"`
	BetType      string `json:"bet_type"`  // "spread" | "moneyline" | "total"
	Selection    string `json:"selection"` // rótulo da seleção (ex: "Lakers -3.5")
	Stake        string `json:"stake"`
	Odds         int    `json:"odds"` // odd americana no momento da aposta
	PotentialWin string `json:"potential_win"`
	TsUnixMs     int64  `json:"ts_unix_ms"`
}
