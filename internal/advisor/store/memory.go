package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
)

// Memory guarda todo o estado em maps no processo, default do modo demo.
// O mutex único serializa placement, liquidação e crédito de bankroll —
// suficiente pra garantir o débito atômico e o settlement exactly-once.
type Memory struct {
	mu          sync.Mutex
	users       map[string]*model.User
	games       map[string]*model.Game
	predictions map[string]*model.Prediction
	bets        map[string]*model.Bet
}

func NewMemory() *Memory {
	return &Memory{
		users:       make(map[string]*model.User),
		games:       make(map[string]*model.Game),
		predictions: make(map[string]*model.Prediction),
		bets:        make(map[string]*model.Bet),
	}
}

func (m *Memory) GetUser(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Memory) UpdateUserStats(_ context.Context, userID string, winRate, totalProfit, roi decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.WinRate = winRate
	u.TotalProfit = totalProfit
	u.ROI = roi
	return nil
}

func (m *Memory) ListGames(_ context.Context) ([]model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Game, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, *g)
	}
	sortGamesByTime(out)
	return out, nil
}

func (m *Memory) GetGame(_ context.Context, id string) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *Memory) CreateGame(_ context.Context, g *model.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = model.GameUpcoming
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	cp := *g
	m.games[g.ID] = &cp
	return nil
}

func (m *Memory) ListGamesByStatus(_ context.Context, status model.GameStatus) ([]model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Game
	for _, g := range m.games {
		if g.Status == status {
			out = append(out, *g)
		}
	}
	sortGamesByTime(out)
	return out, nil
}

func (m *Memory) ListGamesBySport(_ context.Context, sport model.Sport) ([]model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Game
	for _, g := range m.games {
		if g.Sport == sport {
			out = append(out, *g)
		}
	}
	sortGamesByTime(out)
	return out, nil
}

func (m *Memory) CompleteGame(_ context.Context, id string, homeScore, awayScore int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	if g.Status != model.GameUpcoming {
		return ErrGameNotUpcoming
	}
	g.Status = model.GameCompleted
	g.HomeScore = &homeScore
	g.AwayScore = &awayScore
	return nil
}

func (m *Memory) ListPredictionsByGame(_ context.Context, gameID string) ([]model.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Prediction
	for _, p := range m.predictions {
		if p.GameID == gameID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *Memory) CreatePrediction(_ context.Context, p *model.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[p.GameID]; !ok {
		return ErrNotFound
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	m.predictions[p.ID] = &cp
	return nil
}

func (m *Memory) PlaceBet(_ context.Context, b *model.Bet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[b.UserID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m.games[b.GameID]; !ok {
		return ErrNotFound
	}
	if b.Stake.GreaterThan(u.Bankroll) {
		return ErrInsufficientFunds
	}

	// débito e criação na mesma seção crítica
	u.Bankroll = u.Bankroll.Sub(b.Stake)

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Status = model.BetPending
	b.ActualWin = decimal.Zero
	if b.PlacedAt.IsZero() {
		b.PlacedAt = time.Now().UTC()
	}
	cp := *b
	m.bets[b.ID] = &cp
	return nil
}

func (m *Memory) ListBetsByUser(_ context.Context, userID string) ([]model.BetWithGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.BetWithGame
	for _, b := range m.bets {
		if b.UserID != userID {
			continue
		}
		g, ok := m.games[b.GameID]
		if !ok {
			continue
		}
		out = append(out, model.BetWithGame{Bet: *b, Game: *g})
	}
	return out, nil
}

func (m *Memory) ListPendingBetsByGame(_ context.Context, gameID string) ([]model.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Bet
	for _, b := range m.bets {
		if b.GameID == gameID && b.Status == model.BetPending {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *Memory) SettleBet(_ context.Context, betID string, status model.BetStatus, actualWin decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bets[betID]
	if !ok {
		return ErrNotFound
	}
	if b.Status != model.BetPending {
		return ErrBetNotPending
	}
	b.Status = status
	b.ActualWin = actualWin
	now := time.Now().UTC()
	b.SettledAt = &now

	// em vitória o retorno total volta pro bankroll; derrota já foi
	// debitada no placement
	if status == model.BetWon {
		u, ok := m.users[b.UserID]
		if !ok {
			return ErrNotFound
		}
		u.Bankroll = u.Bankroll.Add(actualWin)
	}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func sortGamesByTime(games []model.Game) {
	sort.Slice(games, func(i, j int) bool {
		return games[i].GameTime.Before(games[j].GameTime)
	})
}
