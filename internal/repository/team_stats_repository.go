package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/valuebet-engine/internal/database"
	"github.com/yourusername/valuebet-engine/internal/models"
)

// PostgresTeamStatsRepository implements TeamStatsRepository for PostgreSQL
type PostgresTeamStatsRepository struct {
	db *database.DB
}

// NewPostgresTeamStatsRepository creates a new team stats repository
func NewPostgresTeamStatsRepository(db *database.DB) TeamStatsRepository {
	return &PostgresTeamStatsRepository{db: db}
}

// Upsert inserts or replaces a team's season statistics
func (r *PostgresTeamStatsRepository) Upsert(ctx context.Context, stats *models.TeamSeasonStats) error {
	query := `
		INSERT INTO team_stats (league_id, season, team_id, team_name,
		                        home_goals_scored, home_goals_conceded,
		                        away_goals_scored, away_goals_conceded,
		                        home_games, away_games, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (league_id, season, team_id) DO UPDATE SET
			team_name = EXCLUDED.team_name,
			home_goals_scored = EXCLUDED.home_goals_scored,
			home_goals_conceded = EXCLUDED.home_goals_conceded,
			away_goals_scored = EXCLUDED.away_goals_scored,
			away_goals_conceded = EXCLUDED.away_goals_conceded,
			home_games = EXCLUDED.home_games,
			away_games = EXCLUDED.away_games,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		stats.LeagueID, stats.Season, stats.TeamID, stats.TeamName,
		stats.HomeGoalsScored, stats.HomeGoalsConceded,
		stats.AwayGoalsScored, stats.AwayGoalsConceded,
		stats.HomeGames, stats.AwayGames,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team stats: %w", err)
	}

	return nil
}

// GetByLeagueSeason retrieves all team statistics for a league and season
func (r *PostgresTeamStatsRepository) GetByLeagueSeason(ctx context.Context, leagueID, season int) ([]*models.TeamSeasonStats, error) {
	query := `
		SELECT league_id, season, team_id, team_name,
		       home_goals_scored, home_goals_conceded,
		       away_goals_scored, away_goals_conceded,
		       home_games, away_games, updated_at
		FROM team_stats
		WHERE league_id = $1 AND season = $2
		ORDER BY team_id
	`

	rows, err := r.db.GetPool().Query(ctx, query, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query team stats: %w", err)
	}
	defer rows.Close()

	var all []*models.TeamSeasonStats
	for rows.Next() {
		stats := &models.TeamSeasonStats{}
		err := rows.Scan(
			&stats.LeagueID, &stats.Season, &stats.TeamID, &stats.TeamName,
			&stats.HomeGoalsScored, &stats.HomeGoalsConceded,
			&stats.AwayGoalsScored, &stats.AwayGoalsConceded,
			&stats.HomeGames, &stats.AwayGames, &stats.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team stats: %w", err)
		}
		all = append(all, stats)
	}

	return all, rows.Err()
}
