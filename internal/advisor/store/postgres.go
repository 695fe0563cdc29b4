package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/sports-bet-advisor-poc/internal/advisor/model"
)

// Postgres implementa Store em banco relacional, pra quando o demo precisar
// sobreviver a restart. Mesmo contrato do backend em memória.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const gameColumns = `id, sport, home_team, away_team, game_time, status,
	home_score, away_score, spread, spread_odds, moneyline_home, moneyline_away,
	total_line, total_odds, created_at`

func (p *Postgres) GetUser(ctx context.Context, id string) (*model.User, error) {
	return p.scanUser(p.db.QueryRowContext(ctx, `
		SELECT id, username, password, bankroll, total_profit, win_rate, roi, created_at
		FROM users WHERE id=$1`, id))
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return p.scanUser(p.db.QueryRowContext(ctx, `
		SELECT id, username, password, bankroll, total_profit, win_rate, roi, created_at
		FROM users WHERE username=$1`, username))
}

func (p *Postgres) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Bankroll, &u.TotalProfit, &u.WinRate, &u.ROI, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password, bankroll, total_profit, win_rate, roi, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Username, u.Password, u.Bankroll, u.TotalProfit, u.WinRate, u.ROI, u.CreatedAt,
	)
	return err
}

func (p *Postgres) UpdateUserStats(ctx context.Context, userID string, winRate, totalProfit, roi decimal.Decimal) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE users SET win_rate=$1, total_profit=$2, roi=$3 WHERE id=$4`,
		winRate, totalProfit, roi, userID,
	)
	if err != nil {
		return err
	}
	return oneRowAffected(res)
}

func (p *Postgres) ListGames(ctx context.Context) ([]model.Game, error) {
	return p.queryGames(ctx, `SELECT `+gameColumns+` FROM games ORDER BY game_time`)
}

func (p *Postgres) ListGamesByStatus(ctx context.Context, status model.GameStatus) ([]model.Game, error) {
	return p.queryGames(ctx, `SELECT `+gameColumns+` FROM games WHERE status=$1 ORDER BY game_time`, string(status))
}

func (p *Postgres) ListGamesBySport(ctx context.Context, sport model.Sport) ([]model.Game, error) {
	return p.queryGames(ctx, `SELECT `+gameColumns+` FROM games WHERE sport=$1 ORDER BY game_time`, string(sport))
}

func (p *Postgres) queryGames(ctx context.Context, q string, args ...any) ([]model.Game, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (p *Postgres) GetGame(ctx context.Context, id string) (*model.Game, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return scanGame(rows)
}

func scanGame(rows *sql.Rows) (*model.Game, error) {
	var g model.Game
	var home, away sql.NullInt64
	err := rows.Scan(&g.ID, &g.Sport, &g.HomeTeam, &g.AwayTeam, &g.GameTime, &g.Status,
		&home, &away, &g.Spread, &g.SpreadOdds, &g.MoneylineHome, &g.MoneylineAway,
		&g.TotalLine, &g.TotalOdds, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	if home.Valid {
		v := int(home.Int64)
		g.HomeScore = &v
	}
	if away.Valid {
		v := int(away.Int64)
		g.AwayScore = &v
	}
	return &g, nil
}

func (p *Postgres) CreateGame(ctx context.Context, g *model.Game) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = model.GameUpcoming
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO games (`+gameColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		g.ID, g.Sport, g.HomeTeam, g.AwayTeam, g.GameTime, g.Status,
		nil, nil, g.Spread, g.SpreadOdds, g.MoneylineHome, g.MoneylineAway,
		g.TotalLine, g.TotalOdds, g.CreatedAt,
	)
	return err
}

// CompleteGame só transiciona jogos upcoming; o WHERE garante o terminal.
func (p *Postgres) CompleteGame(ctx context.Context, id string, homeScore, awayScore int) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE games SET status=$1, home_score=$2, away_score=$3
		WHERE id=$4 AND status=$5`,
		model.GameCompleted, homeScore, awayScore, id, model.GameUpcoming,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distingue inexistente de já completado
		var status string
		err := p.db.QueryRowContext(ctx, `SELECT status FROM games WHERE id=$1`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrGameNotUpcoming
	}
	return nil
}

func (p *Postgres) ListPredictionsByGame(ctx context.Context, gameID string) ([]model.Prediction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, game_id, recommendation_type, recommended_bet, confidence, edge_score, reasoning, created_at
		FROM predictions WHERE game_id=$1 ORDER BY created_at`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Prediction
	for rows.Next() {
		var pr model.Prediction
		if err := rows.Scan(&pr.ID, &pr.GameID, &pr.RecommendationType, &pr.RecommendedBet,
			&pr.Confidence, &pr.EdgeScore, &pr.Reasoning, &pr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (p *Postgres) CreatePrediction(ctx context.Context, pr *model.Prediction) error {
	if pr.ID == "" {
		pr.ID = uuid.NewString()
	}
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = time.Now().UTC()
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO predictions (id, game_id, recommendation_type, recommended_bet, confidence, edge_score, reasoning, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		pr.ID, pr.GameID, pr.RecommendationType, pr.RecommendedBet, pr.Confidence, pr.EdgeScore, pr.Reasoning, pr.CreatedAt,
	)
	return err
}

// PlaceBet usa transação com lock pessimista na linha do usuário: a
// verificação de saldo e o débito do stake são atômicos.
func (p *Postgres) PlaceBet(ctx context.Context, b *model.Bet) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var bankroll decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT bankroll FROM users WHERE id=$1 FOR UPDATE`, b.UserID).Scan(&bankroll)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if b.Stake.GreaterThan(bankroll) {
		return ErrInsufficientFunds
	}

	if _, err = tx.ExecContext(ctx, `UPDATE users SET bankroll = bankroll - $1 WHERE id=$2`,
		b.Stake, b.UserID); err != nil {
		return err
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Status = model.BetPending
	b.ActualWin = decimal.Zero
	if b.PlacedAt.IsZero() {
		b.PlacedAt = time.Now().UTC()
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, game_id, bet_type, side, direction, selection_label,
			stake, odds, potential_win, status, actual_win, placed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		b.ID, b.UserID, b.GameID, b.Type, b.Selection.Side, b.Selection.Direction, b.Selection.Label,
		b.Stake, b.Odds, b.PotentialWin, b.Status, b.ActualWin, b.PlacedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (p *Postgres) ListBetsByUser(ctx context.Context, userID string) ([]model.BetWithGame, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.game_id, b.bet_type, b.side, b.direction, b.selection_label,
			b.stake, b.odds, b.potential_win, b.status, b.actual_win, b.placed_at, b.settled_at,
			g.id, g.sport, g.home_team, g.away_team, g.game_time, g.status,
			g.home_score, g.away_score, g.spread, g.spread_odds, g.moneyline_home, g.moneyline_away,
			g.total_line, g.total_odds, g.created_at
		FROM bets b
		JOIN games g ON g.id = b.game_id
		WHERE b.user_id=$1
		ORDER BY b.placed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BetWithGame
	for rows.Next() {
		var bw model.BetWithGame
		var settledAt sql.NullTime
		var home, away sql.NullInt64
		err := rows.Scan(&bw.ID, &bw.UserID, &bw.GameID, &bw.Type,
			&bw.Selection.Side, &bw.Selection.Direction, &bw.Selection.Label,
			&bw.Stake, &bw.Odds, &bw.PotentialWin, &bw.Bet.Status, &bw.ActualWin, &bw.PlacedAt, &settledAt,
			&bw.Game.ID, &bw.Game.Sport, &bw.Game.HomeTeam, &bw.Game.AwayTeam, &bw.Game.GameTime, &bw.Game.Status,
			&home, &away, &bw.Game.Spread, &bw.Game.SpreadOdds, &bw.Game.MoneylineHome, &bw.Game.MoneylineAway,
			&bw.Game.TotalLine, &bw.Game.TotalOdds, &bw.Game.CreatedAt)
		if err != nil {
			return nil, err
		}
		if settledAt.Valid {
			t := settledAt.Time
			bw.SettledAt = &t
		}
		if home.Valid {
			v := int(home.Int64)
			bw.Game.HomeScore = &v
		}
		if away.Valid {
			v := int(away.Int64)
			bw.Game.AwayScore = &v
		}
		out = append(out, bw)
	}
	return out, rows.Err()
}

func (p *Postgres) ListPendingBetsByGame(ctx context.Context, gameID string) ([]model.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, game_id, bet_type, side, direction, selection_label,
			stake, odds, potential_win, status, actual_win, placed_at
		FROM bets WHERE game_id=$1 AND status=$2`, gameID, model.BetPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Bet
	for rows.Next() {
		var b model.Bet
		if err := rows.Scan(&b.ID, &b.UserID, &b.GameID, &b.Type,
			&b.Selection.Side, &b.Selection.Direction, &b.Selection.Label,
			&b.Stake, &b.Odds, &b.PotentialWin, &b.Status, &b.ActualWin, &b.PlacedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SettleBet grava a transição e credita o retorno na mesma transação.
// O filtro status='pending' garante liquidação única por aposta.
func (p *Postgres) SettleBet(ctx context.Context, betID string, status model.BetStatus, actualWin decimal.Decimal) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, `
		UPDATE bets SET status=$1, actual_win=$2, settled_at=NOW()
		WHERE id=$3 AND status=$4
		RETURNING user_id`,
		status, actualWin, betID, model.BetPending).Scan(&userID)
	if err == sql.ErrNoRows {
		// aposta inexistente ou já liquidada
		var s string
		qerr := tx.QueryRowContext(ctx, `SELECT status FROM bets WHERE id=$1`, betID).Scan(&s)
		if qerr == sql.ErrNoRows {
			return ErrNotFound
		}
		if qerr != nil {
			return qerr
		}
		return ErrBetNotPending
	}
	if err != nil {
		return err
	}

	if status == model.BetWon {
		if _, err = tx.ExecContext(ctx, `UPDATE users SET bankroll = bankroll + $1 WHERE id=$2`,
			actualWin, userID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func oneRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if n > 1 {
		return fmt.Errorf("expected 1 row affected, got %d", n)
	}
	return nil
}
