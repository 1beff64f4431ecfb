package notify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/valuebet-engine/internal/models"
	"github.com/yourusername/valuebet-engine/internal/service"
)

func sampleBet() *models.ValueBet {
	return &models.ValueBet{
		FixtureID:   1001,
		MatchDate:   "2026-08-30",
		League:      "Ligue 1",
		HomeTeam:    "Lyon",
		AwayTeam:    "Lille",
		Market:      models.MarketHomeWin,
		Bookmaker:   "Pinnacle",
		BkOdds:      2.1,
		ModelOdds:   1.818,
		Probability: 0.55,
		Value:       0.155,
	}
}

func TestFormatBetMessage(t *testing.T) {
	msg := FormatBetMessage(sampleBet())

	assert.Contains(t, msg, "🟢", "value above ten percent gets the green marker")
	assert.Contains(t, msg, "Lyon vs Lille")
	assert.Contains(t, msg, "2026-08-30 | Ligue 1")
	assert.Contains(t, msg, "Pinnacle")
	assert.Contains(t, msg, "2.10")
	assert.Contains(t, msg, "55.0%")
	assert.Contains(t, msg, "+15.5%")
}

func TestFormatBetMessageLowValueMarker(t *testing.T) {
	bet := sampleBet()
	bet.Value = 0.06

	msg := FormatBetMessage(bet)
	assert.Contains(t, msg, "🟡")
	assert.NotContains(t, msg, "🟢")
}

func TestFormatBetMessageEscapesHTML(t *testing.T) {
	bet := sampleBet()
	bet.HomeTeam = "Brighton & Hove"

	msg := FormatBetMessage(bet)
	assert.Contains(t, msg, "Brighton &amp; Hove")
}

func TestFormatErrorDigest(t *testing.T) {
	msg := FormatErrorDigest([]string{"Ligue 1: fetch fixtures: timeout", "Serie A: odds <unavailable>"})

	assert.Contains(t, msg, "2 error(s)")
	assert.Contains(t, msg, "Ligue 1: fetch fixtures: timeout")
	assert.Contains(t, msg, "&lt;unavailable&gt;", "error text must be escaped")
}

func TestFormatRecentBets(t *testing.T) {
	won := true
	settled := sampleBet()
	settled.Success = &won

	msg := formatRecentBets([]*models.ValueBet{settled, sampleBet()})
	assert.Contains(t, msg, "Last 2 bets")
	assert.Contains(t, msg, "✅")
	assert.Contains(t, msg, "⏳")

	assert.Equal(t, "No bets recorded yet.", formatRecentBets(nil))
}

func TestFormatStats(t *testing.T) {
	stats := &models.BetStats{
		Total:      12,
		Wins:       5,
		Losses:     4,
		Pending:    3,
		WinRatePct: decimal.NewFromFloat(55.56),
		ROIPct:     decimal.NewFromFloat(12.5),
		ByLeague: []models.LeagueBreakdown{
			{League: "Ligue 1", Total: 7, Wins: 3},
		},
	}

	msg := formatStats(stats)
	assert.Contains(t, msg, "12 (5 won, 4 lost, 3 pending)")
	assert.Contains(t, msg, "55.56%")
	assert.Contains(t, msg, "Ligue 1: 7 bets, 3 won")
}

func TestFormatStatus(t *testing.T) {
	idle := formatStatus(service.WorkerSnapshot{})
	assert.Contains(t, idle, "Idle")
	assert.Contains(t, idle, "Last run: never")

	// The banner shows when the current run started, not when the worker
	// process came up.
	running := formatStatus(service.WorkerSnapshot{
		Running:      true,
		StartedAt:    time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC),
		RunStartedAt: time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC),
		LastRun:      time.Date(2026, 8, 24, 8, 2, 0, 0, time.UTC),
		BetsToday:    4,
	})
	assert.Contains(t, running, "Run in progress since 2026-08-25T08:00:00Z")
	assert.NotContains(t, running, "2026-08-20T06:00:00Z")
	assert.Contains(t, running, "2026-08-24 08:02 UTC")
	assert.Contains(t, running, "Bets found today: 4")
}
