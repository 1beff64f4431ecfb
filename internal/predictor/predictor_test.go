package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/valuebet-engine/internal/models"
)

func TestPredictLambdas(t *testing.T) {
	strengths := map[int]models.TeamStrength{
		1: {TeamID: 1, AttHome: 1.2, DefHome: 1.1, AttAway: 0.9, DefAway: 0.9},
		2: {TeamID: 2, AttHome: 1.0, DefHome: 1.1, AttAway: 1.0, DefAway: 0.9},
	}
	avg := models.LeagueAverages{AvgHomeGoals: 1.4, AvgAwayGoals: 1.1}

	pred, ok := Predict(1, 2, strengths, avg)
	require.True(t, ok)

	// lambda_home = 1.2 * 0.9 * 1.4, lambda_away = 1.0 * 1.1 * 1.1
	assert.InDelta(t, 1.512, pred.LambdaHome, 1e-9)
	assert.InDelta(t, 1.21, pred.LambdaAway, 1e-9)

	// With lambda_home > lambda_away the home win must be the more
	// likely outcome.
	assert.Greater(t, pred.HomeWin, pred.AwayWin)
}

func TestPredictProbabilitiesSumToOne(t *testing.T) {
	strengths := map[int]models.TeamStrength{
		1: {TeamID: 1, AttHome: 1.1, DefHome: 0.9, AttAway: 1.0, DefAway: 1.0},
		2: {TeamID: 2, AttHome: 0.8, DefHome: 1.2, AttAway: 0.7, DefAway: 1.3},
	}
	avg := models.LeagueAverages{AvgHomeGoals: 1.5, AvgAwayGoals: 1.2}

	pred, ok := Predict(1, 2, strengths, avg)
	require.True(t, ok)

	assert.InDelta(t, 1.0, pred.HomeWin+pred.Draw+pred.AwayWin, 1e-3)
	assert.InDelta(t, 1.0, pred.Over25+pred.Under25, 1e-3)
	assert.InDelta(t, 1.0, pred.BTTSYes+pred.BTTSNo, 1e-3)
}

func TestPredictLambdaClamp(t *testing.T) {
	tests := []struct {
		name     string
		home     models.TeamStrength
		away     models.TeamStrength
		wantHome float64
		wantAway float64
	}{
		{
			name:     "extreme attack clamps high",
			home:     models.TeamStrength{AttHome: 100, DefHome: 1},
			away:     models.TeamStrength{AttAway: 100, DefAway: 1},
			wantHome: 6.0,
			wantAway: 6.0,
		},
		{
			name:     "zero strengths clamp low",
			home:     models.TeamStrength{},
			away:     models.TeamStrength{},
			wantHome: 0.3,
			wantAway: 0.3,
		},
	}

	avg := models.LeagueAverages{AvgHomeGoals: 1.4, AvgAwayGoals: 1.1}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strengths := map[int]models.TeamStrength{1: tt.home, 2: tt.away}
			pred, ok := Predict(1, 2, strengths, avg)
			require.True(t, ok)
			assert.Equal(t, tt.wantHome, pred.LambdaHome)
			assert.Equal(t, tt.wantAway, pred.LambdaAway)
		})
	}
}

func TestPredictMissingTeam(t *testing.T) {
	strengths := map[int]models.TeamStrength{
		1: {TeamID: 1, AttHome: 1.0, DefHome: 1.0, AttAway: 1.0, DefAway: 1.0},
	}
	avg := models.LeagueAverages{AvgHomeGoals: 1.4, AvgAwayGoals: 1.1}

	pred, ok := Predict(1, 42, strengths, avg)
	assert.False(t, ok)
	assert.Nil(t, pred)

	pred, ok = Predict(42, 1, strengths, avg)
	assert.False(t, ok)
	assert.Nil(t, pred)
}
