package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/valuebet-engine/internal/database"
	"github.com/yourusername/valuebet-engine/internal/models"
)

const betColumns = `id, fixture_id, match_date, league, home_team, away_team, market, bookmaker,
	       bk_odds, model_odds, probability, value, result, success, notified, created_at, settled_at`

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

// Create inserts a new value bet
func (b *PostgresBetRepository) Create(ctx context.Context, bet *models.ValueBet) error {
	query := `
		INSERT INTO bets (id, fixture_id, match_date, league, home_team, away_team, market, bookmaker,
		                  bk_odds, model_odds, probability, value, notified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := b.db.GetPool().Exec(ctx, query,
		bet.ID, bet.FixtureID, bet.MatchDate, bet.League, bet.HomeTeam, bet.AwayTeam, bet.Market,
		bet.Bookmaker, bet.BkOdds, bet.ModelOdds, bet.Probability, bet.Value, bet.Notified, bet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

// ListRecent retrieves the most recently flagged bets
func (b *PostgresBetRepository) ListRecent(ctx context.Context, limit int) ([]*models.ValueBet, error) {
	query := `SELECT ` + betColumns + ` FROM bets ORDER BY created_at DESC LIMIT $1`

	rows, err := b.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// ListPending retrieves unresolved bets whose match date is on or before the
// given time. Match dates are stored as YYYY-MM-DD so a lexicographic
// comparison is a date comparison.
func (b *PostgresBetRepository) ListPending(ctx context.Context, before time.Time) ([]*models.ValueBet, error) {
	query := `SELECT ` + betColumns + ` FROM bets
		WHERE success IS NULL AND match_date <= $1
		ORDER BY match_date ASC`

	rows, err := b.db.GetPool().Query(ctx, query, before.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending bets: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// UpdateResult records the final score and win/loss for a bet
func (b *PostgresBetRepository) UpdateResult(ctx context.Context, id uuid.UUID, result string, success bool) error {
	query := `UPDATE bets SET result = $2, success = $3, settled_at = NOW() WHERE id = $1`

	commandTag, err := b.db.GetPool().Exec(ctx, query, id, result, success)
	if err != nil {
		return fmt.Errorf("failed to update bet result: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// CountSince counts bets flagged at or after the given time
func (b *PostgresBetRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := b.db.GetPool().QueryRow(ctx,
		`SELECT COUNT(*) FROM bets WHERE created_at >= $1`, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bets: %w", err)
	}
	return count, nil
}

// AggregateStats computes overall performance of resolved bets at one flat
// unit per bet, plus a per-league breakdown.
func (b *PostgresBetRepository) AggregateStats(ctx context.Context) (*models.BetStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE success IS TRUE),
		       COUNT(*) FILTER (WHERE success IS FALSE),
		       COUNT(*) FILTER (WHERE success IS NULL),
		       COALESCE(AVG(value), 0),
		       COALESCE(AVG(probability), 0),
		       COALESCE(SUM(CASE WHEN success IS TRUE THEN bk_odds - 1
		                         WHEN success IS FALSE THEN -1
		                         ELSE 0 END), 0)
		FROM bets
	`

	stats := &models.BetStats{}
	var avgValue, avgProb, profit float64
	err := b.db.GetPool().QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Wins, &stats.Losses, &stats.Pending,
		&avgValue, &avgProb, &profit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bet stats: %w", err)
	}

	stats.AvgValuePct = pct(avgValue)
	stats.AvgProbability = pct(avgProb)

	resolved := stats.Wins + stats.Losses
	if resolved > 0 {
		stats.ROIPct = decimal.NewFromFloat(profit).
			Div(decimal.NewFromInt(int64(resolved))).
			Mul(decimal.NewFromInt(100)).Round(2)
		stats.WinRatePct = decimal.NewFromInt(int64(stats.Wins)).
			Div(decimal.NewFromInt(int64(resolved))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}

	byLeague, err := b.aggregateByLeague(ctx)
	if err != nil {
		return nil, err
	}
	stats.ByLeague = byLeague

	return stats, nil
}

func (b *PostgresBetRepository) aggregateByLeague(ctx context.Context) ([]models.LeagueBreakdown, error) {
	query := `
		SELECT league,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE success IS TRUE),
		       COALESCE(AVG(value), 0)
		FROM bets
		GROUP BY league
		ORDER BY COUNT(*) DESC
	`

	rows, err := b.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate league stats: %w", err)
	}
	defer rows.Close()

	var breakdown []models.LeagueBreakdown
	for rows.Next() {
		var lb models.LeagueBreakdown
		var avgValue float64
		if err := rows.Scan(&lb.League, &lb.Total, &lb.Wins, &avgValue); err != nil {
			return nil, fmt.Errorf("failed to scan league stats: %w", err)
		}
		lb.AvgValue = pct(avgValue)
		breakdown = append(breakdown, lb)
	}

	return breakdown, rows.Err()
}

func scanBets(rows pgx.Rows) ([]*models.ValueBet, error) {
	var bets []*models.ValueBet
	for rows.Next() {
		bet := &models.ValueBet{}
		err := rows.Scan(
			&bet.ID, &bet.FixtureID, &bet.MatchDate, &bet.League, &bet.HomeTeam, &bet.AwayTeam, &bet.Market,
			&bet.Bookmaker, &bet.BkOdds, &bet.ModelOdds, &bet.Probability, &bet.Value, &bet.Result,
			&bet.Success, &bet.Notified, &bet.CreatedAt, &bet.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

func pct(fraction float64) decimal.Decimal {
	return decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100)).Round(2)
}
