package predictor

import "math"

// MaxGoals is the per-side cap of the scoreline grid; the grid covers
// scores 0..MaxGoals for each team.
const MaxGoals = 8

// PoissonProb returns P(X=k) for a Poisson distribution with rate lambda.
// A non-positive lambda degenerates to a point mass at k=0.
func PoissonProb(lambda float64, k int) float64 {
	if lambda <= 0 {
		if k == 0 {
			return 1.0
		}
		return 0.0
	}
	return math.Pow(lambda, float64(k)) * math.Exp(-lambda) / factorial(k)
}

// ScoreMatrix builds the (MaxGoals+1)x(MaxGoals+1) grid of joint scoreline
// probabilities, cell (i,j) = P(home=i) * P(away=j). Home and away goals
// are treated as independent; no score correlation term.
func ScoreMatrix(lambdaHome, lambdaAway float64) [][]float64 {
	matrix := make([][]float64, MaxGoals+1)
	for i := 0; i <= MaxGoals; i++ {
		matrix[i] = make([]float64, MaxGoals+1)
		for j := 0; j <= MaxGoals; j++ {
			matrix[i][j] = PoissonProb(lambdaHome, i) * PoissonProb(lambdaAway, j)
		}
	}
	return matrix
}

// OutcomeProbs sums the grid into home-win (i>j), draw (i==j) and
// away-win (i<j) probabilities.
func OutcomeProbs(matrix [][]float64) (homeWin, draw, awayWin float64) {
	for i := range matrix {
		for j := range matrix[i] {
			switch {
			case i > j:
				homeWin += matrix[i][j]
			case i == j:
				draw += matrix[i][j]
			default:
				awayWin += matrix[i][j]
			}
		}
	}
	return homeWin, draw, awayWin
}

// OverProb returns the probability of total goals exceeding the threshold.
func OverProb(matrix [][]float64, threshold float64) float64 {
	var over float64
	for i := range matrix {
		for j := range matrix[i] {
			if float64(i+j) > threshold {
				over += matrix[i][j]
			}
		}
	}
	return over
}

// BTTSProb returns the probability that both teams score at least once.
func BTTSProb(matrix [][]float64) float64 {
	var btts float64
	for i := 1; i < len(matrix); i++ {
		for j := 1; j < len(matrix[i]); j++ {
			btts += matrix[i][j]
		}
	}
	return btts
}

func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}
