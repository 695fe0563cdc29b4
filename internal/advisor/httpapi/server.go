package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/cache"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/prediction"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/producer"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/settlement"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/simulator"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/stats"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/store"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/ws"
)

// API expõe os endpoints REST do serviço de apostas
// Cache e Hub podem ser nil quando Redis/WebSocket não estão habilitados
type API struct {
	Store       store.Store
	Simulator   *simulator.Simulator
	Settlement  *settlement.Engine
	Stats       *stats.Aggregator
	Predictions *prediction.Service
	Producer    producer.Producer
	Cache       *cache.Cache // nil desliga o cache de jogos
	Hub         *ws.Hub
	Log         *zap.Logger

	// OnBetPlaced é chamado a cada aposta aceita (métricas). Pode ser nil.
	OnBetPlaced func()
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/v1/auth/login", a.login)

	r.Get("/v1/games", a.listGames)                      // Lista jogos com previsões
	r.Get("/v1/games/sport/{sport}", a.listGamesBySport) // Filtra por esporte
	r.Post("/v1/games/{id}/simulate", a.simulateGame)    // Simula e liquida

	r.Post("/v1/bets", a.placeBet)
	r.Post("/v1/payout/quote", a.quotePayout)

	r.Get("/v1/users/{id}/stats", a.userStats)
	r.Get("/v1/users/{id}/bets", a.userBets)

	r.Post("/v1/predictions/refresh", a.refreshPredictions)

	if a.Hub != nil {
		r.Get("/ws", a.Hub.HandleWS)
	}

	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError mapeia os erros sentinela do store pro status HTTP
func (a *API) writeStoreError(w http.ResponseWriter, err error) {
	switch err {
	case store.ErrNotFound:
		writeError(w, http.StatusNotFound, "not found")
	case store.ErrInsufficientFunds:
		writeError(w, http.StatusConflict, "insufficient funds")
	case store.ErrGameNotUpcoming:
		writeError(w, http.StatusConflict, "game is not upcoming")
	case store.ErrGameNotCompleted:
		writeError(w, http.StatusConflict, "game is not completed")
	case store.ErrBetNotPending:
		writeError(w, http.StatusConflict, "bet is not pending")
	default:
		a.Log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
