package models

// Prediction is the model output for one fixture: expected goal rates and
// derived market probabilities. Pure function output, never mutated.
type Prediction struct {
	LambdaHome float64 `json:"lambda_home"`
	LambdaAway float64 `json:"lambda_away"`
	HomeWin    float64 `json:"home_win"`
	Draw       float64 `json:"draw"`
	AwayWin    float64 `json:"away_win"`
	Over25     float64 `json:"over_2_5"`
	Under25    float64 `json:"under_2_5"`
	BTTSYes    float64 `json:"btts_yes"`
	BTTSNo     float64 `json:"btts_no"`
}

// Probability returns the model probability for a market label. BTTS is
// computed by the predictor but not offered to the scorer; it is kept on
// the struct for future market support.
func (p *Prediction) Probability(market string) (float64, bool) {
	switch market {
	case MarketHomeWin:
		return p.HomeWin, true
	case MarketDraw:
		return p.Draw, true
	case MarketAwayWin:
		return p.AwayWin, true
	case MarketOver25:
		return p.Over25, true
	case MarketUnder25:
		return p.Under25, true
	}
	return 0, false
}
