package predictor

import (
	"math"

	"github.com/yourusername/valuebet-engine/internal/models"
)

// Lambda clamp bounds. Expected goal rates outside this range are
// extrapolation artifacts from small samples, not plausible scoring rates.
const (
	minLambda = 0.3
	maxLambda = 6.0
)

const overUnderLine = 2.5

// Predict computes the full Prediction for a fixture between two teams.
// The second return value is false when either team is absent from the
// strength map; a roster or ID mismatch between the fixtures and stats
// providers is a normal condition, not an error.
func Predict(homeTeamID, awayTeamID int, strengths map[int]models.TeamStrength, avg models.LeagueAverages) (*models.Prediction, bool) {
	home, ok := strengths[homeTeamID]
	if !ok {
		return nil, false
	}
	away, ok := strengths[awayTeamID]
	if !ok {
		return nil, false
	}

	lambdaHome := clamp(home.AttHome*away.DefAway*avg.AvgHomeGoals, minLambda, maxLambda)
	lambdaAway := clamp(away.AttAway*home.DefHome*avg.AvgAwayGoals, minLambda, maxLambda)

	matrix := ScoreMatrix(lambdaHome, lambdaAway)
	homeWin, draw, awayWin := OutcomeProbs(matrix)
	over := OverProb(matrix, overUnderLine)
	btts := BTTSProb(matrix)

	// Rounding happens only here, at the boundary, for downstream
	// comparison stability; the grid itself is computed at full precision.
	return &models.Prediction{
		LambdaHome: round(lambdaHome, 3),
		LambdaAway: round(lambdaAway, 3),
		HomeWin:    round(homeWin, 4),
		Draw:       round(draw, 4),
		AwayWin:    round(awayWin, 4),
		Over25:     round(over, 4),
		Under25:    round(1-over, 4),
		BTTSYes:    round(btts, 4),
		BTTSNo:     round(1-btts, 4),
	}, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
