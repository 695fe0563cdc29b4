package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/dto"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/oddsmath"
	"github.com/radieske/sports-bet-advisor-poc/pkg/contracts/events"
)

// login autentica por comparação direta de credenciais (app demo, sem
// sessão nem token)
func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := a.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil || u.Password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		UserID:   u.ID,
		Username: u.Username,
		Bankroll: u.Bankroll.StringFixed(2),
	})
}

// listGames retorna todos os jogos com suas previsões, preferencialmente
// do cache
func (a *API) listGames(w http.ResponseWriter, r *http.Request) {
	if a.Cache != nil {
		var cached []dto.GameResponse
		if ok, _ := a.Cache.GetGames(r.Context(), &cached); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	games, err := a.Store.ListGames(r.Context())
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	out, err := a.gamesWithPredictions(r, games)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	if a.Cache != nil {
		_ = a.Cache.SetGames(r.Context(), out)
	}
	writeJSON(w, http.StatusOK, out)
}

// listGamesBySport filtra os jogos pela liga (NBA, NFL, MLB, NHL)
func (a *API) listGamesBySport(w http.ResponseWriter, r *http.Request) {
	sport, err := model.ParseSport(chi.URLParam(r, "sport"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	games, err := a.Store.ListGamesBySport(r.Context(), sport)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	out, err := a.gamesWithPredictions(r, games)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) gamesWithPredictions(r *http.Request, games []model.Game) ([]dto.GameResponse, error) {
	out := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		preds, err := a.Store.ListPredictionsByGame(r.Context(), games[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.FromGame(&games[i], preds))
	}
	return out, nil
}

// placeBet valida a aposta, congela a odd do mercado escolhido e debita
// o stake do bankroll
func (a *API) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	stake, err := req.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := a.Store.GetGame(r.Context(), req.GameID)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	if g.Status != model.GameUpcoming {
		writeError(w, http.StatusConflict, "game is not upcoming")
		return
	}

	betType := model.BetType(req.BetType)
	sel, odds := buildSelection(g, betType, model.Side(req.Side), model.Direction(req.Direction))

	potentialWin, err := oddsmath.PotentialWin(stake, odds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bet := &model.Bet{
		UserID:       req.UserID,
		GameID:       req.GameID,
		Type:         betType,
		Selection:    sel,
		Stake:        stake,
		Odds:         odds,
		PotentialWin: potentialWin,
	}
	if err := a.Store.PlaceBet(r.Context(), bet); err != nil {
		a.writeStoreError(w, err)
		return
	}

	if a.OnBetPlaced != nil {
		a.OnBetPlaced()
	}

	if a.Producer != nil {
		evt := events.BetPlaced{
			BetID:        bet.ID,
			UserID:       bet.UserID,
			GameID:       bet.GameID,
			BetType:      string(bet.Type),
			Selection:    bet.Selection.Label,
			Stake:        bet.Stake.StringFixed(2),
			Odds:         bet.Odds,
			PotentialWin: bet.PotentialWin.StringFixed(2),
			TsUnixMs:     time.Now().UnixMilli(),
		}
		if err := a.Producer.PublishBetPlaced(r.Context(), evt); err != nil {
			a.Log.Error("failed to publish bet_placed event",
				zap.String("bet_id", bet.ID), zap.Error(err))
		}
	}

	u, err := a.Store.GetUser(r.Context(), bet.UserID)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PlaceBetResponse{
		Bet:         dto.FromBet(bet),
		NewBankroll: u.Bankroll.StringFixed(2),
	})
}

// buildSelection resolve a seleção estruturada e congela a odd do
// mercado no momento da aposta
func buildSelection(g *model.Game, t model.BetType, side model.Side, dir model.Direction) (model.Selection, int) {
	switch t {
	case model.BetSpread:
		if side == model.SideHome {
			return model.Selection{Side: side, Label: spreadLabel(g.HomeTeam, g.Spread)}, g.SpreadOdds
		}
		return model.Selection{Side: side, Label: spreadLabel(g.AwayTeam, g.Spread.Neg())}, g.SpreadOdds
	case model.BetMoneyline:
		if side == model.SideHome {
			return model.Selection{Side: side, Label: g.HomeTeam + " ML"}, g.MoneylineHome
		}
		return model.Selection{Side: side, Label: g.AwayTeam + " ML"}, g.MoneylineAway
	default: // total
		if dir == model.DirectionOver {
			return model.Selection{Direction: dir, Label: "Over " + g.TotalLine.String()}, g.TotalOdds
		}
		return model.Selection{Direction: dir, Label: "Under " + g.TotalLine.String()}, g.TotalOdds
	}
}

func spreadLabel(team string, spread decimal.Decimal) string {
	s := spread.String()
	if !spread.IsNegative() {
		s = "+" + s
	}
	return team + " " + s
}

// quotePayout calcula o payout potencial sem criar aposta
func (a *API) quotePayout(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	stake, err := req.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	potentialWin, err := oddsmath.PotentialWin(stake, req.Odds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	totalReturn, err := oddsmath.TotalReturn(stake, req.Odds)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteResponse{
		Stake:        stake.StringFixed(2),
		Odds:         req.Odds,
		PotentialWin: potentialWin.StringFixed(2),
		TotalReturn:  totalReturn.StringFixed(2),
	})
}

// simulateGame sorteia o placar final, liquida as apostas pendentes e
// atualiza as estatísticas dos usuários afetados
func (a *API) simulateGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	g, err := a.Simulator.Simulate(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	settled, err := a.Settlement.Settle(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	// estatísticas recalculadas uma vez por usuário afetado
	seen := make(map[string]struct{})
	for _, b := range settled {
		if _, ok := seen[b.UserID]; ok {
			continue
		}
		seen[b.UserID] = struct{}{}
		if _, err := a.Stats.Refresh(r.Context(), b.UserID); err != nil {
			a.Log.Error("failed to refresh user stats",
				zap.String("user_id", b.UserID), zap.Error(err))
		}
	}

	if a.Cache != nil {
		_ = a.Cache.Invalidate(r.Context())
	}

	resp := dto.SimulateResponse{Game: dto.FromGame(g, nil), SettledBets: make([]dto.BetResponse, 0, len(settled))}
	for i := range settled {
		resp.SettledBets = append(resp.SettledBets, dto.FromBet(&settled[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// userStats recalcula e retorna o snapshot de performance do usuário
func (a *API) userStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := a.Stats.Refresh(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromStats(s))
}

// userBets retorna o histórico de apostas do usuário com os jogos
func (a *API) userBets(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := a.Store.GetUser(r.Context(), id); err != nil {
		a.writeStoreError(w, err)
		return
	}

	bets, err := a.Store.ListBetsByUser(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	out := make([]dto.BetWithGameResponse, 0, len(bets))
	for i := range bets {
		out = append(out, dto.BetWithGameResponse{
			BetResponse: dto.FromBet(&bets[i].Bet),
			Game:        dto.FromGame(&bets[i].Game, nil),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// refreshPredictions garante previsão pra todo jogo upcoming sem uma
func (a *API) refreshPredictions(w http.ResponseWriter, r *http.Request) {
	created, err := a.Predictions.RefreshAll(r.Context())
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	if a.Cache != nil && created > 0 {
		_ = a.Cache.Invalidate(r.Context())
	}
	writeJSON(w, http.StatusOK, dto.RefreshPredictionsResponse{Created: created})
}
