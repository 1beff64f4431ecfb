package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/valuebet-engine/internal/models"
)

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, nil)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const fixturesPayload = `{
	"response": [
		{
			"fixture": {"id": 1001, "date": "2026-08-30T19:00:00+00:00", "status": {"short": "NS"}},
			"teams": {
				"home": {"id": 80, "name": "Olympique Lyonnais"},
				"away": {"id": 79, "name": "Lille"}
			}
		}
	]
}`

func TestFetchFixtures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fixtures", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-apisports-key"))

		q := r.URL.Query()
		assert.Equal(t, "61", q.Get("league"))
		assert.Equal(t, "2026", q.Get("season"))
		assert.Equal(t, "NS", q.Get("status"))
		assert.Equal(t, "UTC", q.Get("timezone"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixturesPayload))
	}))
	defer server.Close()

	client := NewAPISportsClient(server.URL, "test-key", testHTTPClient(), testLogger())

	from := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	fixtures, err := client.FetchFixtures(context.Background(), 61, 2026, from, from.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, fixtures, 1)

	fix := fixtures[0]
	assert.Equal(t, 1001, fix.FixtureID)
	assert.Equal(t, "2026-08-30", fix.Date)
	assert.Equal(t, 61, fix.LeagueID)
	assert.Equal(t, "Olympique Lyonnais", fix.HomeTeamName)
	assert.Equal(t, 79, fix.AwayTeamID)
}

func TestFetchFixtureResult(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    *models.FixtureResult
	}{
		{
			name: "finished fixture",
			payload: `{"response": [{
				"fixture": {"id": 1001, "status": {"short": "FT"}},
				"goals": {"home": 2, "away": 1}
			}]}`,
			want: &models.FixtureResult{HomeGoals: 2, AwayGoals: 1, Status: "FT", Score: "2-1"},
		},
		{
			name: "in play fixture stays pending",
			payload: `{"response": [{
				"fixture": {"id": 1001, "status": {"short": "2H"}},
				"goals": {"home": 1, "away": 0}
			}]}`,
			want: nil,
		},
		{
			name:    "unknown fixture",
			payload: `{"response": []}`,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			client := NewAPISportsClient(server.URL, "test-key", testHTTPClient(), testLogger())
			result, err := client.FetchFixtureResult(context.Background(), 1001)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestFetchStandings(t *testing.T) {
	payload := `{"response": [{
		"league": {
			"standings": [[
				{
					"team": {"id": 80, "name": "Olympique Lyonnais"},
					"home": {"win": 6, "draw": 2, "lose": 2, "goals": {"for": 21, "against": 11}},
					"away": {"win": 4, "draw": 3, "lose": 3, "goals": {"for": 12, "against": 14}}
				}
			]]
		}
	}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/standings", r.URL.Path)
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	client := NewAPISportsClient(server.URL, "test-key", testHTTPClient(), testLogger())
	stats, err := client.FetchStandings(context.Background(), 61, 2026)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	s := stats[0]
	assert.Equal(t, 80, s.TeamID)
	assert.Equal(t, "Olympique Lyonnais", s.TeamName)
	assert.Equal(t, 10, s.HomeGames)
	assert.Equal(t, 10, s.AwayGames)
	assert.InDelta(t, 21.0, s.HomeGoalsScored, 1e-9)
	assert.InDelta(t, 14.0, s.AwayGoalsConceded, 1e-9)
}

func TestAPISportsAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewAPISportsClient(server.URL, "bad-key", testHTTPClient(), testLogger())
	_, err := client.FetchStandings(context.Background(), 61, 2026)
	require.Error(t, err)

	var dsErr DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ErrCodeAuthenticationFailed, dsErr.Code)
}

const oddsPayload = `[
	{
		"id": "evt1",
		"commence_time": "2026-08-30T19:00:00Z",
		"home_team": "Lyon",
		"away_team": "Lille",
		"bookmakers": [
			{
				"key": "pinnacle",
				"title": "Pinnacle",
				"markets": [
					{
						"key": "h2h",
						"outcomes": [
							{"name": "Lyon", "price": 2.1},
							{"name": "Draw", "price": 3.4},
							{"name": "Lille", "price": 3.6}
						]
					},
					{
						"key": "totals",
						"outcomes": [
							{"name": "Over", "price": 1.9, "point": 2.5},
							{"name": "Under", "price": 1.95, "point": 2.5},
							{"name": "Over", "price": 3.1, "point": 3.5}
						]
					}
				]
			}
		]
	}
]`

func newOddsClient(serverURL string, ttl time.Duration) *OddsAPIClient {
	return NewOddsAPIClient(serverURL, "test-key", "eu", []string{"pinnacle"}, ttl, testHTTPClient(), testLogger())
}

func TestFetchOdds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sports/soccer_france_ligue_one/odds", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("apiKey"))
		assert.Equal(t, "h2h,totals", q.Get("markets"))
		assert.Equal(t, "pinnacle", q.Get("bookmakers"))
		_, _ = w.Write([]byte(oddsPayload))
	}))
	defer server.Close()

	client := newOddsClient(server.URL, time.Minute)
	events, err := client.FetchOdds(context.Background(), 61)
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, "evt1", event.EventID)
	assert.Equal(t, "2026-08-30", event.Date)
	assert.Equal(t, "Lyon", event.HomeTeam)

	prices, ok := event.Odds["Pinnacle"]
	require.True(t, ok)

	home, ok := prices.Get(models.MarketHomeWin)
	require.True(t, ok)
	assert.InDelta(t, 2.1, home, 1e-9)

	draw, _ := prices.Get(models.MarketDraw)
	assert.InDelta(t, 3.4, draw, 1e-9)

	over, ok := prices.Get(models.MarketOver25)
	require.True(t, ok)
	assert.InDelta(t, 1.9, over, 1e-9, "only the 2.5 line must be kept")

	under, _ := prices.Get(models.MarketUnder25)
	assert.InDelta(t, 1.95, under, 1e-9)
}

func TestFetchOddsUsesCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(oddsPayload))
	}))
	defer server.Close()

	client := newOddsClient(server.URL, time.Minute)

	_, err := client.FetchOdds(context.Background(), 61)
	require.NoError(t, err)
	_, err = client.FetchOdds(context.Background(), 61)
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls.Load(), "second fetch must hit the cache")
}

func TestFetchOddsUnmappedLeague(t *testing.T) {
	client := newOddsClient("http://invalid.test", time.Minute)
	events, err := client.FetchOdds(context.Background(), 9999)
	require.NoError(t, err)
	assert.Empty(t, events)
}
