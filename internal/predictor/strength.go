// Package predictor implements the Poisson match model: attack/defense
// strength ratings derived from season goal records, and full scoreline
// probability distributions per fixture.
package predictor

import (
	"github.com/yourusername/valuebet-engine/internal/models"
)

// minLeagueAverage guards the strength ratios against a degenerate league
// average; a league that has recorded games always averages well above it.
const minLeagueAverage = 0.01

// LeagueAverages computes the league-wide home and away goals per game
// across the full stats snapshot. Game counts are floored at 1 so an empty
// snapshot degrades to zero averages rather than a division error.
func LeagueAverages(stats map[int]models.TeamSeasonStats) models.LeagueAverages {
	var homeScored, awayScored float64
	var homeGames, awayGames int

	for _, s := range stats {
		homeScored += s.HomeGoalsScored
		awayScored += s.AwayGoalsScored
		homeGames += s.HomeGames
		awayGames += s.AwayGames
	}

	return models.LeagueAverages{
		AvgHomeGoals: homeScored / float64(maxInt(homeGames, 1)),
		AvgAwayGoals: awayScored / float64(maxInt(awayGames, 1)),
	}
}

// Strengths converts the season stats snapshot into per-team attack and
// defense multipliers relative to the league averages. Teams with zero
// recorded games degrade to zero-valued strengths.
func Strengths(stats map[int]models.TeamSeasonStats, avg models.LeagueAverages) map[int]models.TeamStrength {
	strengths := make(map[int]models.TeamStrength, len(stats))

	avgHome := maxFloat(avg.AvgHomeGoals, minLeagueAverage)
	avgAway := maxFloat(avg.AvgAwayGoals, minLeagueAverage)

	for id, s := range stats {
		homeGames := float64(maxInt(s.HomeGames, 1))
		awayGames := float64(maxInt(s.AwayGames, 1))

		homeScoredAvg := s.HomeGoalsScored / homeGames
		homeConcededAvg := s.HomeGoalsConceded / homeGames
		awayScoredAvg := s.AwayGoalsScored / awayGames
		awayConcededAvg := s.AwayGoalsConceded / awayGames

		strengths[id] = models.TeamStrength{
			TeamID:  id,
			Name:    s.TeamName,
			AttHome: homeScoredAvg / avgHome,
			DefHome: homeConcededAvg / avgAway,
			AttAway: awayScoredAvg / avgAway,
			DefAway: awayConcededAvg / avgHome,
		}
	}

	return strengths
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
