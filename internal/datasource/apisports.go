package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-engine/internal/metrics"
	"github.com/yourusername/valuebet-engine/internal/models"
)

const apiSportsSourceName = "api_sports"

// Fixture statuses that count as finished. Anything else leaves the bet
// pending.
var finishedStatuses = map[string]bool{
	"FT":  true,
	"AET": true,
	"PEN": true,
}

// APISportsClient fetches fixtures, results and standings from the
// API-Sports football API. It implements FixturesProvider and
// StandingsProvider.
type APISportsClient struct {
	baseURL string
	apiKey  string
	client  *RateLimitedHTTPClient
	logger  *logrus.Logger
}

// NewAPISportsClient creates a new API-Sports client
func NewAPISportsClient(baseURL, apiKey string, client *RateLimitedHTTPClient, logger *logrus.Logger) *APISportsClient {
	return &APISportsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		logger:  logger,
	}
}

// Name returns the name of the data source
func (c *APISportsClient) Name() string {
	return apiSportsSourceName
}

type apiSportsEnvelope struct {
	Response []json.RawMessage `json:"response"`
}

type apiSportsFixture struct {
	Fixture struct {
		ID     int    `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	Teams struct {
		Home struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type apiSportsStandingsGroup struct {
	League struct {
		Standings [][]apiSportsStandingEntry `json:"standings"`
	} `json:"league"`
}

type apiSportsStandingEntry struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Home apiSportsSideRecord `json:"home"`
	Away apiSportsSideRecord `json:"away"`
}

type apiSportsSideRecord struct {
	Win   int `json:"win"`
	Draw  int `json:"draw"`
	Lose  int `json:"lose"`
	Goals struct {
		For     float64 `json:"for"`
		Against float64 `json:"against"`
	} `json:"goals"`
}

// FetchFixtures retrieves not-started fixtures for the league within the
// date window, dates in UTC.
func (c *APISportsClient) FetchFixtures(ctx context.Context, leagueID, season int, from, to time.Time) ([]models.Fixture, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))
	params.Set("from", from.UTC().Format("2006-01-02"))
	params.Set("to", to.UTC().Format("2006-01-02"))
	params.Set("status", "NS")
	params.Set("timezone", "UTC")

	var envelope apiSportsEnvelope
	if err := c.get(ctx, "/fixtures", params, &envelope); err != nil {
		return nil, err
	}

	fixtures := make([]models.Fixture, 0, len(envelope.Response))
	for _, raw := range envelope.Response {
		var item apiSportsFixture
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, NewDataSourceError(apiSportsSourceName, ErrCodeInvalidData, "malformed fixture entry", err)
		}
		date := item.Fixture.Date
		if len(date) > 10 {
			date = date[:10]
		}
		fixtures = append(fixtures, models.Fixture{
			FixtureID:    item.Fixture.ID,
			Date:         date,
			LeagueID:     leagueID,
			HomeTeamID:   item.Teams.Home.ID,
			HomeTeamName: item.Teams.Home.Name,
			AwayTeamID:   item.Teams.Away.ID,
			AwayTeamName: item.Teams.Away.Name,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"league_id": leagueID,
		"fixtures":  len(fixtures),
	}).Debug("Fetched fixtures")

	return fixtures, nil
}

// FetchFixtureResult retrieves the final result for a fixture. Returns
// (nil, nil) when the fixture is not finished or unknown.
func (c *APISportsClient) FetchFixtureResult(ctx context.Context, fixtureID int) (*models.FixtureResult, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(fixtureID))

	var envelope apiSportsEnvelope
	if err := c.get(ctx, "/fixtures", params, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Response) == 0 {
		return nil, nil
	}

	var item apiSportsFixture
	if err := json.Unmarshal(envelope.Response[0], &item); err != nil {
		return nil, NewDataSourceError(apiSportsSourceName, ErrCodeInvalidData, "malformed fixture entry", err)
	}

	status := item.Fixture.Status.Short
	if !finishedStatuses[status] || item.Goals.Home == nil || item.Goals.Away == nil {
		return nil, nil
	}

	return &models.FixtureResult{
		HomeGoals: *item.Goals.Home,
		AwayGoals: *item.Goals.Away,
		Status:    status,
		Score:     fmt.Sprintf("%d-%d", *item.Goals.Home, *item.Goals.Away),
	}, nil
}

// FetchStandings retrieves per-team season statistics from the standings
// endpoint. Home and away game counts are derived from the win/draw/lose
// record.
func (c *APISportsClient) FetchStandings(ctx context.Context, leagueID, season int) ([]models.TeamSeasonStats, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))

	var envelope apiSportsEnvelope
	if err := c.get(ctx, "/standings", params, &envelope); err != nil {
		return nil, err
	}

	var stats []models.TeamSeasonStats
	for _, raw := range envelope.Response {
		var group apiSportsStandingsGroup
		if err := json.Unmarshal(raw, &group); err != nil {
			return nil, NewDataSourceError(apiSportsSourceName, ErrCodeInvalidData, "malformed standings entry", err)
		}
		for _, table := range group.League.Standings {
			for _, entry := range table {
				stats = append(stats, models.TeamSeasonStats{
					LeagueID:          leagueID,
					Season:            season,
					TeamID:            entry.Team.ID,
					TeamName:          entry.Team.Name,
					HomeGoalsScored:   entry.Home.Goals.For,
					HomeGoalsConceded: entry.Home.Goals.Against,
					AwayGoalsScored:   entry.Away.Goals.For,
					AwayGoalsConceded: entry.Away.Goals.Against,
					HomeGames:         entry.Home.Win + entry.Home.Draw + entry.Home.Lose,
					AwayGames:         entry.Away.Win + entry.Away.Draw + entry.Away.Lose,
				})
			}
		}
	}

	c.logger.WithFields(logrus.Fields{
		"league_id": leagueID,
		"teams":     len(stats),
	}).Debug("Fetched standings")

	return stats, nil
}

func (c *APISportsClient) get(ctx context.Context, path string, params url.Values, out any) error {
	start := time.Now()
	defer func() {
		metrics.RecordProviderRequest(apiSportsSourceName, time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return NewDataSourceError(apiSportsSourceName, ErrCodeUnknown, "failed to build request", err)
	}
	req.Header.Set("x-apisports-key", c.apiKey)

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(apiSportsSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(apiSportsSourceName, resp.StatusCode); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(apiSportsSourceName, ErrCodeInvalidData, "failed to decode response", err)
	}
	return nil
}

// checkStatus maps HTTP status codes onto data source error codes.
func checkStatus(source string, status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewDataSourceError(source, ErrCodeAuthenticationFailed, fmt.Sprintf("status %d", status), nil)
	case status == http.StatusTooManyRequests:
		return NewDataSourceError(source, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case status == http.StatusNotFound:
		return NewDataSourceError(source, ErrCodeNotFound, "not found", nil)
	case status >= 500:
		return NewDataSourceError(source, ErrCodeServerError, fmt.Sprintf("status %d", status), nil)
	default:
		return NewDataSourceError(source, ErrCodeUnknown, fmt.Sprintf("unexpected status %d", status), nil)
	}
}
