package datasource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-engine/internal/metrics"
	"github.com/yourusername/valuebet-engine/internal/models"
)

const oddsAPISourceName = "odds_api"

// LeagueSportMap maps API-Sports league IDs to The Odds API sport keys.
// Leagues without an entry simply return no odds.
var LeagueSportMap = map[int]string{
	61:  "soccer_france_ligue_one",
	39:  "soccer_england_premier_league",
	140: "soccer_spain_la_liga",
	78:  "soccer_germany_bundesliga",
	135: "soccer_italy_serie_a",
}

// OddsAPIClient fetches bookmaker odds from The Odds API. Responses are
// cached to stretch the monthly request quota; one pipeline run touching a
// league several times costs a single request.
type OddsAPIClient struct {
	baseURL    string
	apiKey     string
	regions    string
	bookmakers []string
	client     *RateLimitedHTTPClient
	cache      *cache.Cache
	logger     *logrus.Logger
}

// NewOddsAPIClient creates a new Odds API client with response caching
func NewOddsAPIClient(baseURL, apiKey, regions string, bookmakers []string, cacheTTL time.Duration, client *RateLimitedHTTPClient, logger *logrus.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		regions:    regions,
		bookmakers: bookmakers,
		client:     client,
		cache:      cache.New(cacheTTL, 2*cacheTTL),
		logger:     logger,
	}
}

type oddsAPIEvent struct {
	ID           string `json:"id"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	Bookmakers   []struct {
		Key     string `json:"key"`
		Title   string `json:"title"`
		Markets []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
				Point float64 `json:"point"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// FetchOdds retrieves h2h and totals odds for the league's upcoming events.
// An unmapped league returns an empty slice, not an error.
func (c *OddsAPIClient) FetchOdds(ctx context.Context, leagueID int) ([]models.OddsEvent, error) {
	sportKey, ok := LeagueSportMap[leagueID]
	if !ok {
		c.logger.WithField("league_id", leagueID).Warn("No sport key mapped for league, skipping odds")
		return []models.OddsEvent{}, nil
	}

	cacheKey := "odds:" + sportKey
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]models.OddsEvent), nil
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.regions)
	params.Set("markets", "h2h,totals")
	params.Set("oddsFormat", "decimal")
	if len(c.bookmakers) > 0 {
		params.Set("bookmakers", strings.Join(c.bookmakers, ","))
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/sports/"+sportKey+"/odds?"+params.Encode(), nil)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeUnknown, "failed to build request", err)
	}

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()
	metrics.RecordProviderRequest(oddsAPISourceName, time.Since(start).Seconds())

	if err := checkStatus(oddsAPISourceName, resp.StatusCode); err != nil {
		return nil, err
	}

	var rawEvents []oddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&rawEvents); err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to decode response", err)
	}

	events := make([]models.OddsEvent, 0, len(rawEvents))
	for _, raw := range rawEvents {
		events = append(events, c.parseEvent(raw, leagueID))
	}

	c.cache.Set(cacheKey, events, cache.DefaultExpiration)

	c.logger.WithFields(logrus.Fields{
		"league_id": leagueID,
		"events":    len(events),
	}).Debug("Fetched odds")

	return events, nil
}

// parseEvent flattens one provider event into per-bookmaker market prices.
// H2h outcomes are named after the teams; totals outcomes carry the line in
// the point field and only the 2.5 line is kept.
func (c *OddsAPIClient) parseEvent(raw oddsAPIEvent, leagueID int) models.OddsEvent {
	date := raw.CommenceTime
	if len(date) > 10 {
		date = date[:10]
	}

	event := models.OddsEvent{
		EventID:  raw.ID,
		LeagueID: leagueID,
		Date:     date,
		HomeTeam: raw.HomeTeam,
		AwayTeam: raw.AwayTeam,
		Odds:     make(map[string]models.OutcomeOdds),
	}

	for _, bk := range raw.Bookmakers {
		name := bk.Title
		if name == "" {
			name = bk.Key
		}

		prices := models.OutcomeOdds{}
		for _, market := range bk.Markets {
			switch market.Key {
			case "h2h":
				for _, outcome := range market.Outcomes {
					price := outcome.Price
					switch outcome.Name {
					case raw.HomeTeam:
						prices.HomeWin = &price
					case "Draw":
						prices.Draw = &price
					case raw.AwayTeam:
						prices.AwayWin = &price
					}
				}
			case "totals":
				for _, outcome := range market.Outcomes {
					if outcome.Point != 2.5 {
						continue
					}
					price := outcome.Price
					switch outcome.Name {
					case "Over":
						prices.Over25 = &price
					case "Under":
						prices.Under25 = &price
					}
				}
			}
		}
		event.Odds[name] = prices
	}

	return event
}
