package models

// Market labels used across the scorer, persistence and notifications.
const (
	MarketHomeWin = "Home Win"
	MarketDraw    = "Draw"
	MarketAwayWin = "Away Win"
	MarketOver25  = "Over 2.5"
	MarketUnder25 = "Under 2.5"
)

// OutcomeOdds holds one bookmaker's decimal prices per market for a single
// event. A nil pointer means the bookmaker does not price that market.
type OutcomeOdds struct {
	HomeWin *float64 `json:"home_win"`
	Draw    *float64 `json:"draw"`
	AwayWin *float64 `json:"away_win"`
	Over25  *float64 `json:"over_2_5"`
	Under25 *float64 `json:"under_2_5"`
}

// Get returns the price for a market label, if quoted.
func (o OutcomeOdds) Get(market string) (float64, bool) {
	var p *float64
	switch market {
	case MarketHomeWin:
		p = o.HomeWin
	case MarketDraw:
		p = o.Draw
	case MarketAwayWin:
		p = o.AwayWin
	case MarketOver25:
		p = o.Over25
	case MarketUnder25:
		p = o.Under25
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// OddsEvent is one event from the odds provider with quotes aggregated per
// bookmaker. Team names come from the odds provider and are not guaranteed
// to match the fixtures provider's naming.
type OddsEvent struct {
	EventID  string                 `json:"event_id"`
	LeagueID int                    `json:"league_id"`
	Date     string                 `json:"date"` // YYYY-MM-DD, UTC
	HomeTeam string                 `json:"home_team"`
	AwayTeam string                 `json:"away_team"`
	Odds     map[string]OutcomeOdds `json:"odds"` // bookmaker name -> prices
}
