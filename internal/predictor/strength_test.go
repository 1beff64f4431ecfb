package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/valuebet-engine/internal/models"
)

func TestLeagueAverages(t *testing.T) {
	stats := map[int]models.TeamSeasonStats{
		1: {TeamID: 1, HomeGoalsScored: 20, AwayGoalsScored: 10, HomeGames: 10, AwayGames: 10},
		2: {TeamID: 2, HomeGoalsScored: 8, AwayGoalsScored: 12, HomeGames: 10, AwayGames: 10},
	}

	avg := LeagueAverages(stats)
	assert.InDelta(t, 1.4, avg.AvgHomeGoals, epsilon) // 28 goals / 20 games
	assert.InDelta(t, 1.1, avg.AvgAwayGoals, epsilon) // 22 goals / 20 games
}

func TestLeagueAveragesEmptySnapshot(t *testing.T) {
	avg := LeagueAverages(map[int]models.TeamSeasonStats{})
	assert.Zero(t, avg.AvgHomeGoals)
	assert.Zero(t, avg.AvgAwayGoals)
}

func TestStrengths(t *testing.T) {
	stats := map[int]models.TeamSeasonStats{
		7: {
			TeamID:            7,
			TeamName:          "Lyon",
			HomeGoalsScored:   21, // 2.1 per game
			HomeGoalsConceded: 11, // 1.1 per game
			AwayGoalsScored:   12, // 1.2 per game
			AwayGoalsConceded: 14, // 1.4 per game
			HomeGames:         10,
			AwayGames:         10,
		},
	}
	avg := models.LeagueAverages{AvgHomeGoals: 1.4, AvgAwayGoals: 1.1}

	strengths := Strengths(stats, avg)
	s, ok := strengths[7]
	require.True(t, ok)

	assert.Equal(t, "Lyon", s.Name)
	assert.InDelta(t, 2.1/1.4, s.AttHome, epsilon)
	assert.InDelta(t, 1.1/1.1, s.DefHome, epsilon)
	assert.InDelta(t, 1.2/1.1, s.AttAway, epsilon)
	assert.InDelta(t, 1.4/1.4, s.DefAway, epsilon)
}

func TestStrengthsZeroGames(t *testing.T) {
	// A newly promoted team with no recorded games must not divide by
	// zero and must yield finite, zero-valued strengths.
	stats := map[int]models.TeamSeasonStats{
		99: {TeamID: 99, TeamName: "Le Havre"},
	}
	avg := models.LeagueAverages{AvgHomeGoals: 1.4, AvgAwayGoals: 1.1}

	strengths := Strengths(stats, avg)
	s, ok := strengths[99]
	require.True(t, ok)

	assert.Zero(t, s.AttHome)
	assert.Zero(t, s.DefHome)
	assert.Zero(t, s.AttAway)
	assert.Zero(t, s.DefAway)
}

func TestStrengthsZeroLeagueAverage(t *testing.T) {
	stats := map[int]models.TeamSeasonStats{
		1: {TeamID: 1, HomeGoalsScored: 10, HomeGames: 10},
	}
	strengths := Strengths(stats, models.LeagueAverages{})

	s := strengths[1]
	assert.False(t, s.AttHome != s.AttHome, "strength must not be NaN")
	assert.InDelta(t, 1.0/0.01, s.AttHome, epsilon)
}
