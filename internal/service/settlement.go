package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-engine/internal/datasource"
	"github.com/yourusername/valuebet-engine/internal/metrics"
	"github.com/yourusername/valuebet-engine/internal/models"
	"github.com/yourusername/valuebet-engine/internal/repository"
)

// Settlement grades pending bets against final fixture results.
type Settlement struct {
	fixtures datasource.FixturesProvider
	betRepo  repository.BetRepository
	logger   *logrus.Logger
}

// NewSettlement creates a settlement service.
func NewSettlement(fixtures datasource.FixturesProvider, betRepo repository.BetRepository, logger *logrus.Logger) *Settlement {
	return &Settlement{
		fixtures: fixtures,
		betRepo:  betRepo,
		logger:   logger,
	}
}

// SettlePending fetches results for bets whose match date has passed and
// records win or loss. Fixtures still in play or without a final result are
// left pending for the next pass. Returns the number of bets settled.
func (s *Settlement) SettlePending(ctx context.Context) (int, error) {
	pending, err := s.betRepo.ListPending(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("list pending bets: %w", err)
	}
	if len(pending) == 0 {
		metrics.SetPendingBets(0)
		return 0, nil
	}

	s.logger.WithField("pending", len(pending)).Info("Settling bets")

	// One result fetch per fixture, not per bet.
	results := make(map[int]*models.FixtureResult)
	settled := 0

	for _, bet := range pending {
		result, fetched := results[bet.FixtureID]
		if !fetched {
			result, err = s.fixtures.FetchFixtureResult(ctx, bet.FixtureID)
			if err != nil {
				s.logger.WithError(err).WithField("fixture_id", bet.FixtureID).Warn("Failed to fetch result")
				results[bet.FixtureID] = nil
				continue
			}
			results[bet.FixtureID] = result
		}
		if result == nil {
			continue
		}

		success, ok := GradeBet(bet.Market, result.HomeGoals, result.AwayGoals)
		if !ok {
			s.logger.WithField("market", bet.Market).Warn("Cannot grade market, leaving pending")
			continue
		}

		if err := s.betRepo.UpdateResult(ctx, bet.ID, result.Score, success); err != nil {
			s.logger.WithError(err).WithField("bet_id", bet.ID).Error("Failed to record settlement")
			continue
		}

		outcome := "lost"
		if success {
			outcome = "won"
		}
		metrics.RecordBetSettled(outcome)
		settled++
	}

	metrics.SetPendingBets(len(pending) - settled)

	s.logger.WithFields(logrus.Fields{
		"settled": settled,
		"pending": len(pending) - settled,
	}).Info("Settlement pass complete")

	return settled, nil
}

// GradeBet decides whether a market won given the final score. The second
// return value is false for markets this engine cannot grade.
func GradeBet(market string, homeGoals, awayGoals int) (bool, bool) {
	switch market {
	case models.MarketHomeWin:
		return homeGoals > awayGoals, true
	case models.MarketDraw:
		return homeGoals == awayGoals, true
	case models.MarketAwayWin:
		return awayGoals > homeGoals, true
	case models.MarketOver25:
		return homeGoals+awayGoals >= 3, true
	case models.MarketUnder25:
		return homeGoals+awayGoals <= 2, true
	}
	return false, false
}
