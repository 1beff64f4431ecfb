package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueBet is a flagged edge: a market where the bookmaker price exceeds
// the model's fair price by more than the configured threshold.
// Result and Success stay nil until the settlement job resolves the fixture.
type ValueBet struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	FixtureID   int        `db:"fixture_id" json:"fixture_id"`
	MatchDate   string     `db:"match_date" json:"match_date" validate:"required"`
	League      string     `db:"league" json:"league" validate:"required"`
	HomeTeam    string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string     `db:"away_team" json:"away_team" validate:"required"`
	Market      string     `db:"market" json:"market" validate:"required"`
	Bookmaker   string     `db:"bookmaker" json:"bookmaker" validate:"required"`
	BkOdds      float64    `db:"bk_odds" json:"bk_odds" validate:"required,gt=1"`
	ModelOdds   float64    `db:"model_odds" json:"model_odds" validate:"required,gt=0"`
	Probability float64    `db:"probability" json:"probability" validate:"required,gte=0,lte=1"`
	Value       float64    `db:"value" json:"value" validate:"required,gt=0"`
	Result      *string    `db:"result" json:"result"`   // final score, e.g. "2-1"
	Success     *bool      `db:"success" json:"success"` // nil = pending
	Notified    bool       `db:"notified" json:"notified"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	SettledAt   *time.Time `db:"settled_at" json:"settled_at"`
}

// IsPending reports whether the bet still awaits a result.
func (b *ValueBet) IsPending() bool {
	return b.Success == nil
}

// LeagueBreakdown aggregates performance for a single league.
type LeagueBreakdown struct {
	League   string          `db:"league" json:"league"`
	Total    int             `db:"total" json:"total"`
	Wins     int             `db:"wins" json:"wins"`
	AvgValue decimal.Decimal `db:"avg_value" json:"avg_value"`
}

// BetStats aggregates historical bet performance. ROI and win rate are
// computed over resolved bets only, at one flat unit per bet.
type BetStats struct {
	Total          int               `json:"total"`
	Wins           int               `json:"wins"`
	Losses         int               `json:"losses"`
	Pending        int               `json:"pending"`
	AvgValuePct    decimal.Decimal   `json:"avg_value_pct"`
	AvgProbability decimal.Decimal   `json:"avg_probability_pct"`
	ROIPct         decimal.Decimal   `json:"roi_pct"`
	WinRatePct     decimal.Decimal   `json:"win_rate_pct"`
	ByLeague       []LeagueBreakdown `json:"by_league"`
}
