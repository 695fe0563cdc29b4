package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/dto"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/prediction"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/settlement"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/simulator"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/stats"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/store"
)

type staticRecommender struct{}

func (staticRecommender) Recommend(_ context.Context, g *model.Game) (*prediction.Recommendation, error) {
	return &prediction.Recommendation{
		RecommendationType: model.BetSpread,
		RecommendedBet:     g.HomeTeam + " " + g.Spread.String(),
		Confidence:         65,
		EdgeScore:          decimal.RequireFromString("5.5"),
		Reasoning:          "test",
	}, nil
}

type testEnv struct {
	srv   *httptest.Server
	store *store.Memory
	user  *model.User
	game  *model.Game
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemory()
	ctx := context.Background()
	log := zap.NewNop()

	u := &model.User{Username: "angel", Password: "angel1004", Bankroll: decimal.NewFromInt(10000)}
	require.NoError(t, st.CreateUser(ctx, u))

	g := &model.Game{
		Sport:         model.SportNBA,
		HomeTeam:      "Los Angeles Lakers",
		AwayTeam:      "Golden State Warriors",
		GameTime:      time.Now().Add(2 * time.Hour),
		Spread:        decimal.RequireFromString("-3.5"),
		SpreadOdds:    -110,
		MoneylineHome: -165,
		MoneylineAway: 145,
		TotalLine:     decimal.RequireFromString("218.5"),
		TotalOdds:     -110,
	}
	require.NoError(t, st.CreateGame(ctx, g))

	api := &API{
		Store:       st,
		Simulator:   simulator.New(st, log, rand.New(rand.NewSource(7))),
		Settlement:  settlement.NewEngine(st, log, nil, nil),
		Stats:       stats.NewAggregator(st, log),
		Predictions: prediction.NewService(st, log, staticRecommender{}),
		Log:         log,
	}

	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: st, user: u, game: g}
}

func (e *testEnv) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(e.srv.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return res
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	res, err := http.Get(e.srv.URL + path)
	require.NoError(t, err)
	return res
}

func decodeBody[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)

	res := e.post(t, "/v1/auth/login", dto.LoginRequest{Username: "angel", Password: "angel1004"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	out := decodeBody[dto.LoginResponse](t, res)
	assert.Equal(t, e.user.ID, out.UserID)
	assert.Equal(t, "10000.00", out.Bankroll)
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newTestEnv(t)
	res := e.post(t, "/v1/auth/login", dto.LoginRequest{Username: "angel", Password: "nope"})
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestListGames(t *testing.T) {
	e := newTestEnv(t)
	res := e.get(t, "/v1/games")
	require.Equal(t, http.StatusOK, res.StatusCode)
	games := decodeBody[[]dto.GameResponse](t, res)
	require.Len(t, games, 1)
	assert.Equal(t, "NBA", games[0].Sport)
	assert.Equal(t, "-3.5", games[0].Spread)
}

func TestListGamesBySport(t *testing.T) {
	e := newTestEnv(t)

	res := e.get(t, "/v1/games/sport/nba")
	require.Equal(t, http.StatusOK, res.StatusCode)
	games := decodeBody[[]dto.GameResponse](t, res)
	assert.Len(t, games, 1)

	res = e.get(t, "/v1/games/sport/NFL")
	require.Equal(t, http.StatusOK, res.StatusCode)
	games = decodeBody[[]dto.GameResponse](t, res)
	assert.Empty(t, games)

	res = e.get(t, "/v1/games/sport/cricket")
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPlaceBet_Moneyline(t *testing.T) {
	e := newTestEnv(t)

	res := e.post(t, "/v1/bets", dto.PlaceBetRequest{
		UserID:  e.user.ID,
		GameID:  e.game.ID,
		BetType: "moneyline",
		Side:    "home",
		Stake:   "100",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	out := decodeBody[dto.PlaceBetResponse](t, res)

	assert.Equal(t, "Los Angeles Lakers ML", out.Bet.Selection)
	assert.Equal(t, -165, out.Bet.Odds)
	assert.Equal(t, "60.61", out.Bet.PotentialWin)
	assert.Equal(t, "pending", out.Bet.Status)
	assert.Equal(t, "9900.00", out.NewBankroll)
}

func TestPlaceBet_SpreadAwayLabel(t *testing.T) {
	e := newTestEnv(t)

	res := e.post(t, "/v1/bets", dto.PlaceBetRequest{
		UserID:  e.user.ID,
		GameID:  e.game.ID,
		BetType: "spread",
		Side:    "away",
		Stake:   "50",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	out := decodeBody[dto.PlaceBetResponse](t, res)

	// visitante recebe o handicap invertido
	assert.Equal(t, "Golden State Warriors +3.5", out.Bet.Selection)
	assert.Equal(t, -110, out.Bet.Odds)
}

func TestPlaceBet_ValidationErrors(t *testing.T) {
	e := newTestEnv(t)

	cases := []struct {
		name string
		req  dto.PlaceBetRequest
	}{
		{"missing side", dto.PlaceBetRequest{UserID: e.user.ID, GameID: e.game.ID, BetType: "spread", Stake: "10"}},
		{"missing direction", dto.PlaceBetRequest{UserID: e.user.ID, GameID: e.game.ID, BetType: "total", Stake: "10"}},
		{"bad bet type", dto.PlaceBetRequest{UserID: e.user.ID, GameID: e.game.ID, BetType: "parlay", Side: "home", Stake: "10"}},
		{"zero stake", dto.PlaceBetRequest{UserID: e.user.ID, GameID: e.game.ID, BetType: "moneyline", Side: "home", Stake: "0"}},
		{"negative stake", dto.PlaceBetRequest{UserID: e.user.ID, GameID: e.game.ID, BetType: "moneyline", Side: "home", Stake: "-5"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.post(t, "/v1/bets", tc.req)
			defer res.Body.Close()
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestPlaceBet_InsufficientFunds(t *testing.T) {
	e := newTestEnv(t)

	res := e.post(t, "/v1/bets", dto.PlaceBetRequest{
		UserID:  e.user.ID,
		GameID:  e.game.ID,
		BetType: "moneyline",
		Side:    "home",
		Stake:   "10001",
	})
	defer res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestPlaceBet_UnknownGame(t *testing.T) {
	e := newTestEnv(t)

	res := e.post(t, "/v1/bets", dto.PlaceBetRequest{
		UserID:  e.user.ID,
		GameID:  "missing",
		BetType: "moneyline",
		Side:    "home",
		Stake:   "10",
	})
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestQuotePayout(t *testing.T) {
	e := newTestEnv(t)

	res := e.post(t, "/v1/payout/quote", dto.QuoteRequest{Stake: "100", Odds: -150})
	require.Equal(t, http.StatusOK, res.StatusCode)
	out := decodeBody[dto.QuoteResponse](t, res)
	assert.Equal(t, "66.67", out.PotentialWin)
	assert.Equal(t, "166.67", out.TotalReturn)

	res = e.post(t, "/v1/payout/quote", dto.QuoteRequest{Stake: "100", Odds: 0})
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSimulate_SettlesAndRefreshesStats(t *testing.T) {
	e := newTestEnv(t)

	res := e.post(t, "/v1/bets", dto.PlaceBetRequest{
		UserID:    e.user.ID,
		GameID:    e.game.ID,
		BetType:   "total",
		Direction: "over",
		Stake:     "100",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	res.Body.Close()

	res = e.post(t, "/v1/games/"+e.game.ID+"/simulate", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	out := decodeBody[dto.SimulateResponse](t, res)

	assert.Equal(t, "completed", out.Game.Status)
	require.NotNil(t, out.Game.HomeScore)
	require.NotNil(t, out.Game.AwayScore)
	require.Len(t, out.SettledBets, 1)
	assert.Contains(t, []string{"won", "lost"}, out.SettledBets[0].Status)

	// estatísticas do usuário refletem a liquidação
	sres := e.get(t, "/v1/users/"+e.user.ID+"/stats")
	require.Equal(t, http.StatusOK, sres.StatusCode)
	st := decodeBody[dto.StatsResponse](t, sres)
	assert.Equal(t, 1, st.TotalBets)
	assert.Equal(t, 1, st.WonBets+st.LostBets)

	// segunda simulação é rejeitada
	res = e.post(t, "/v1/games/"+e.game.ID+"/simulate", nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestUserBets_History(t *testing.T) {
	e := newTestEnv(t)

	res := e.post(t, "/v1/bets", dto.PlaceBetRequest{
		UserID:  e.user.ID,
		GameID:  e.game.ID,
		BetType: "moneyline",
		Side:    "away",
		Stake:   "25",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	res.Body.Close()

	bres := e.get(t, "/v1/users/"+e.user.ID+"/bets")
	require.Equal(t, http.StatusOK, bres.StatusCode)
	bets := decodeBody[[]dto.BetWithGameResponse](t, bres)
	require.Len(t, bets, 1)
	assert.Equal(t, "Golden State Warriors ML", bets[0].Selection)
	assert.Equal(t, 145, bets[0].Odds)
	assert.Equal(t, e.game.ID, bets[0].Game.ID)
}

func TestUserEndpoints_UnknownUser(t *testing.T) {
	e := newTestEnv(t)

	res := e.get(t, "/v1/users/missing/stats")
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res2 := e.get(t, "/v1/users/missing/bets")
	defer res2.Body.Close()
	assert.Equal(t, http.StatusNotFound, res2.StatusCode)
}

func TestRefreshPredictions(t *testing.T) {
	e := newTestEnv(t)

	res := e.post(t, "/v1/predictions/refresh", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	out := decodeBody[dto.RefreshPredictionsResponse](t, res)
	assert.Equal(t, 1, out.Created)

	// jogos listados agora carregam a previsão
	gres := e.get(t, "/v1/games")
	require.Equal(t, http.StatusOK, gres.StatusCode)
	games := decodeBody[[]dto.GameResponse](t, gres)
	require.Len(t, games, 1)
	require.Len(t, games[0].Predictions, 1)
	assert.Equal(t, "spread", games[0].Predictions[0].RecommendationType)
}
