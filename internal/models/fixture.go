package models

// Fixture is an upcoming match as reported by the fixtures provider.
// It is an immutable per-run snapshot and is not persisted by the pipeline.
type Fixture struct {
	FixtureID    int    `json:"fixture_id"`
	Date         string `json:"date"` // YYYY-MM-DD, UTC
	LeagueID     int    `json:"league_id"`
	HomeTeamID   int    `json:"home_team_id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamID   int    `json:"away_team_id"`
	AwayTeamName string `json:"away_team_name"`
}

// FixtureResult is the final outcome of a finished fixture.
type FixtureResult struct {
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
	Status    string `json:"status"` // FT, AET, PEN
	Score     string `json:"score"`  // e.g. "2-1"
}
