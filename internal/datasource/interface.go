package datasource

import (
	"context"
	"time"

	"github.com/yourusername/valuebet-engine/internal/models"
)

// FixturesProvider fetches upcoming fixtures and final results for a league.
type FixturesProvider interface {
	// FetchFixtures retrieves not-started fixtures for the league and season
	// within the date window.
	FetchFixtures(ctx context.Context, leagueID, season int, from, to time.Time) ([]models.Fixture, error)

	// FetchFixtureResult retrieves the final result for a fixture. Returns
	// (nil, nil) when the fixture has not finished yet.
	FetchFixtureResult(ctx context.Context, fixtureID int) (*models.FixtureResult, error)

	// Name returns the name of the data source
	Name() string
}

// StandingsProvider fetches per-team season statistics for a league.
type StandingsProvider interface {
	FetchStandings(ctx context.Context, leagueID, season int) ([]models.TeamSeasonStats, error)
}

// OddsProvider fetches bookmaker odds for a league's upcoming events.
type OddsProvider interface {
	FetchOdds(ctx context.Context, leagueID int) ([]models.OddsEvent, error)
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
