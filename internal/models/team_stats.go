package models

import "time"

// TeamSeasonStats holds a team's aggregated goal record for one season,
// split by home and away context. One row per (league, season, team).
type TeamSeasonStats struct {
	LeagueID          int       `db:"league_id" json:"league_id" validate:"required"`
	Season            int       `db:"season" json:"season" validate:"required"`
	TeamID            int       `db:"team_id" json:"team_id" validate:"required"`
	TeamName          string    `db:"team_name" json:"team_name" validate:"required"`
	HomeGoalsScored   float64   `db:"home_goals_scored" json:"home_goals_scored"`
	HomeGoalsConceded float64   `db:"home_goals_conceded" json:"home_goals_conceded"`
	AwayGoalsScored   float64   `db:"away_goals_scored" json:"away_goals_scored"`
	AwayGoalsConceded float64   `db:"away_goals_conceded" json:"away_goals_conceded"`
	HomeGames         int       `db:"home_games" json:"home_games"`
	AwayGames         int       `db:"away_games" json:"away_games"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// LeagueAverages holds the season-wide per-game scoring rates for a league.
// Recomputed wholesale on every stats refresh; immutable within a pipeline run.
type LeagueAverages struct {
	AvgHomeGoals float64 `json:"avg_home_goals"`
	AvgAwayGoals float64 `json:"avg_away_goals"`
}

// TeamStrength holds a team's attack/defense multipliers relative to the
// league averages. Derived from the full TeamSeasonStats snapshot, never
// updated incrementally.
type TeamStrength struct {
	TeamID  int     `json:"team_id"`
	Name    string  `json:"name"`
	AttHome float64 `json:"att_home"`
	DefHome float64 `json:"def_home"`
	AttAway float64 `json:"att_away"`
	DefAway float64 `json:"def_away"`
}
