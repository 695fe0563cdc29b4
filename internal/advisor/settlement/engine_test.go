package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/store"
	"github.com/radieske/sports-bet-advisor-poc/pkg/contracts/events"
)

type capturingPublisher struct {
	settled []events.BetSettled
}

func (p *capturingPublisher) PublishBetSettled(_ context.Context, evt events.BetSettled) error {
	p.settled = append(p.settled, evt)
	return nil
}

type capturingBroadcaster struct {
	results []events.GameResult
}

func (b *capturingBroadcaster) BroadcastGameResult(_ context.Context, evt events.GameResult) error {
	b.results = append(b.results, evt)
	return nil
}

type fixture struct {
	store  *store.Memory
	engine *Engine
	pub    *capturingPublisher
	bc     *capturingBroadcaster
	user   *model.User
	game   *model.Game
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	ctx := context.Background()

	u := &model.User{Username: "angel", Bankroll: decimal.NewFromInt(1000)}
	require.NoError(t, st.CreateUser(ctx, u))

	g := &model.Game{
		Sport:         model.SportNBA,
		HomeTeam:      "Los Angeles Lakers",
		AwayTeam:      "Golden State Warriors",
		GameTime:      time.Now().Add(time.Hour),
		Spread:        decimal.RequireFromString("-3.5"),
		SpreadOdds:    -110,
		MoneylineHome: -150,
		MoneylineAway: 130,
		TotalLine:     decimal.RequireFromString("218.5"),
		TotalOdds:     -110,
	}
	require.NoError(t, st.CreateGame(ctx, g))

	pub := &capturingPublisher{}
	bc := &capturingBroadcaster{}
	return &fixture{
		store:  st,
		engine: NewEngine(st, zap.NewNop(), pub, bc),
		pub:    pub,
		bc:     bc,
		user:   u,
		game:   g,
	}
}

func (f *fixture) placeBet(t *testing.T, betType model.BetType, sel model.Selection, stake string, odds int) *model.Bet {
	t.Helper()
	b := &model.Bet{
		UserID:    f.user.ID,
		GameID:    f.game.ID,
		Type:      betType,
		Selection: sel,
		Stake:     decimal.RequireFromString(stake),
		Odds:      odds,
	}
	require.NoError(t, f.store.PlaceBet(context.Background(), b))
	return b
}

func TestSettle_MoneylineHomeWin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.placeBet(t, model.BetMoneyline, model.Selection{Side: model.SideHome}, "100", -150)

	require.NoError(t, f.store.CompleteGame(ctx, f.game.ID, 100, 90))

	settled, err := f.engine.Settle(ctx, f.game.ID)
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, model.BetWon, settled[0].Status)
	assert.Equal(t, "166.67", settled[0].ActualWin.StringFixed(2))

	// bankroll: 1000 - 100 + 166.67
	u, err := f.store.GetUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "1066.67", u.Bankroll.StringFixed(2))

	require.Len(t, f.pub.settled, 1)
	assert.Equal(t, b.ID, f.pub.settled[0].BetID)
	assert.Equal(t, "won", f.pub.settled[0].Result)

	require.Len(t, f.bc.results, 1)
	assert.Equal(t, 1, f.bc.results[0].SettledBets)
}

func TestSettle_MoneylineTieLoses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.placeBet(t, model.BetMoneyline, model.Selection{Side: model.SideHome}, "100", -150)

	require.NoError(t, f.store.CompleteGame(ctx, f.game.ID, 95, 95))

	settled, err := f.engine.Settle(ctx, f.game.ID)
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, model.BetLost, settled[0].Status)
	assert.True(t, settled[0].ActualWin.IsZero())
}

func TestSettle_SpreadCover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// mandante -3.5 precisa vencer por 4+
	b := f.placeBet(t, model.BetSpread, model.Selection{Side: model.SideHome}, "50", -110)

	require.NoError(t, f.store.CompleteGame(ctx, f.game.ID, 110, 100))

	settled, err := f.engine.Settle(ctx, f.game.ID)
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, model.BetWon, settled[0].Status)

	got, _ := f.store.ListBetsByUser(ctx, f.user.ID)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, model.BetWon, got[0].Bet.Status)
}

func TestSettle_SpreadAwayCovers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// visitante +3.5 cobre se perder por até 3
	f.placeBet(t, model.BetSpread, model.Selection{Side: model.SideAway}, "50", -110)

	require.NoError(t, f.store.CompleteGame(ctx, f.game.ID, 102, 100))

	settled, err := f.engine.Settle(ctx, f.game.ID)
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, model.BetWon, settled[0].Status)
}

func TestSettle_SpreadPushIsLoss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// linha inteira pra forçar o push exato
	g := &model.Game{
		Sport:      model.SportNBA,
		HomeTeam:   "Brooklyn Nets",
		AwayTeam:   "Miami Heat",
		GameTime:   time.Now().Add(time.Hour),
		Spread:     decimal.RequireFromString("-3"),
		SpreadOdds: -110,
		TotalLine:  decimal.RequireFromString("210"),
		TotalOdds:  -110,
	}
	require.NoError(t, f.store.CreateGame(ctx, g))

	b := &model.Bet{
		UserID:    f.user.ID,
		GameID:    g.ID,
		Type:      model.BetSpread,
		Selection: model.Selection{Side: model.SideHome},
		Stake:     decimal.NewFromInt(100),
		Odds:      -110,
	}
	require.NoError(t, f.store.PlaceBet(ctx, b))

	// vitória por exatamente 3: empate contra a linha
	require.NoError(t, f.store.CompleteGame(ctx, g.ID, 103, 100))

	settled, err := f.engine.Settle(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, model.BetLost, settled[0].Status)
	assert.True(t, settled[0].ActualWin.IsZero())
}

func TestSettle_TotalOverAndUnder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	over := f.placeBet(t, model.BetTotal, model.Selection{Direction: model.DirectionOver}, "100", -110)
	under := f.placeBet(t, model.BetTotal, model.Selection{Direction: model.DirectionUnder}, "100", -110)

	// 120 + 100 = 220 > 218.5: over ganha
	require.NoError(t, f.store.CompleteGame(ctx, f.game.ID, 120, 100))

	settled, err := f.engine.Settle(ctx, f.game.ID)
	require.NoError(t, err)
	require.Len(t, settled, 2)

	byID := map[string]model.Bet{}
	for _, b := range settled {
		byID[b.ID] = b
	}
	assert.Equal(t, model.BetWon, byID[over.ID].Status)
	assert.Equal(t, model.BetLost, byID[under.ID].Status)
}

func TestSettle_SecondRunIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.placeBet(t, model.BetMoneyline, model.Selection{Side: model.SideHome}, "100", -150)

	require.NoError(t, f.store.CompleteGame(ctx, f.game.ID, 100, 90))

	first, err := f.engine.Settle(ctx, f.game.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.engine.Settle(ctx, f.game.ID)
	require.NoError(t, err)
	assert.Empty(t, second)

	// bankroll creditado só uma vez
	u, err := f.store.GetUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "1066.67", u.Bankroll.StringFixed(2))
}

func TestSettle_RequiresCompletedGame(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Settle(context.Background(), f.game.ID)
	assert.ErrorIs(t, err, store.ErrGameNotCompleted)
}

func TestSettle_NoPendingBets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.CompleteGame(ctx, f.game.ID, 100, 90))

	settled, err := f.engine.Settle(ctx, f.game.ID)
	require.NoError(t, err)
	assert.Empty(t, settled)
	require.Len(t, f.bc.results, 1)
	assert.Equal(t, 0, f.bc.results[0].SettledBets)
}

func TestEvaluate_CountsSettlements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var won, lost int
	f.engine.OnSettled = func(result model.BetStatus) {
		if result == model.BetWon {
			won++
		} else {
			lost++
		}
	}

	f.placeBet(t, model.BetMoneyline, model.Selection{Side: model.SideHome}, "100", -150)
	f.placeBet(t, model.BetMoneyline, model.Selection{Side: model.SideAway}, "100", 130)

	require.NoError(t, f.store.CompleteGame(ctx, f.game.ID, 100, 90))
	_, err := f.engine.Settle(ctx, f.game.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
}
