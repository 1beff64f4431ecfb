// Package strategy decides which bookmaker quotes constitute value bets
// relative to the model's probabilities.
package strategy

import (
	"math"
	"sort"

	"github.com/yourusername/valuebet-engine/internal/models"
)

// ScoredMarkets lists the markets compared against bookmaker prices.
// BTTS is predicted but not scored; the odds feed does not carry it yet.
var ScoredMarkets = []string{
	models.MarketHomeWin,
	models.MarketDraw,
	models.MarketAwayWin,
	models.MarketOver25,
	models.MarketUnder25,
}

// Candidate is one qualifying (bookmaker, market) edge before persistence.
type Candidate struct {
	Market      string
	Bookmaker   string
	BkOdds      float64
	ModelOdds   float64
	Probability float64
	Value       float64
}

// ValueScorer filters and ranks edges across bookmakers and markets.
type ValueScorer struct {
	ValueThreshold float64 // minimum edge, exclusive: value must exceed it
	MinProbability float64 // minimum model probability, inclusive
}

// NewValueScorer creates a scorer with the given thresholds.
func NewValueScorer(valueThreshold, minProbability float64) *ValueScorer {
	return &ValueScorer{
		ValueThreshold: valueThreshold,
		MinProbability: minProbability,
	}
}

// Score compares the prediction against every bookmaker's prices and
// returns all qualifying candidates sorted by value descending. Ties keep
// discovery order (stable sort). A candidate qualifies only when the model
// probability is at least MinProbability and value strictly exceeds
// ValueThreshold.
func (s *ValueScorer) Score(pred *models.Prediction, odds map[string]models.OutcomeOdds) []Candidate {
	var candidates []Candidate

	for bookmaker, prices := range odds {
		for _, market := range ScoredMarkets {
			prob, ok := pred.Probability(market)
			if !ok {
				continue
			}
			price, ok := prices.Get(market)
			if !ok {
				continue
			}
			if prob < s.MinProbability {
				continue
			}

			value := price*prob - 1
			if value <= s.ValueThreshold {
				continue
			}

			candidates = append(candidates, Candidate{
				Market:      market,
				Bookmaker:   bookmaker,
				BkOdds:      round(price, 3),
				ModelOdds:   round(1/prob, 3),
				Probability: round(prob, 4),
				Value:       round(value, 4),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Value > candidates[j].Value
	})

	return candidates
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
