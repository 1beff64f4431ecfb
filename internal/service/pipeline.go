// Package service orchestrates the value bet pipeline: fixtures in,
// predictions and odds reconciled, qualifying bets persisted and notified.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-engine/internal/datasource"
	"github.com/yourusername/valuebet-engine/internal/metrics"
	"github.com/yourusername/valuebet-engine/internal/models"
	"github.com/yourusername/valuebet-engine/internal/predictor"
	"github.com/yourusername/valuebet-engine/internal/repository"
	"github.com/yourusername/valuebet-engine/internal/strategy"
)

// ErrRunInProgress is returned when a pipeline run is triggered while
// another run holds the guard.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// Notifier delivers run results to the operator channel.
type Notifier interface {
	NotifyRunSummary(ctx context.Context, bets []*models.ValueBet, errs []string) error
}

// PipelineConfig carries the tunables for a pipeline run.
type PipelineConfig struct {
	Leagues     []int
	LeagueNames map[int]string
	Season      int
	DaysAhead   int
}

// RunReport summarizes one pipeline run.
type RunReport struct {
	FixturesSeen int
	BetsFound    []*models.ValueBet
	Errors       []string
	Duration     time.Duration
}

// Pipeline runs the per-league value detection flow. Leagues are processed
// sequentially and failures are isolated: one league's error never aborts
// the others.
type Pipeline struct {
	fixtures  datasource.FixturesProvider
	standings datasource.StandingsProvider
	odds      datasource.OddsProvider
	betRepo   repository.BetRepository
	statsRepo repository.TeamStatsRepository
	scorer    *strategy.ValueScorer
	notifier  Notifier
	state     *WorkerState
	cfg       PipelineConfig
	logger    *logrus.Logger
}

// NewPipeline creates a pipeline service.
func NewPipeline(
	fixtures datasource.FixturesProvider,
	standings datasource.StandingsProvider,
	odds datasource.OddsProvider,
	betRepo repository.BetRepository,
	statsRepo repository.TeamStatsRepository,
	scorer *strategy.ValueScorer,
	notifier Notifier,
	state *WorkerState,
	cfg PipelineConfig,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		fixtures:  fixtures,
		standings: standings,
		odds:      odds,
		betRepo:   betRepo,
		statsRepo: statsRepo,
		scorer:    scorer,
		notifier:  notifier,
		state:     state,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes one full pipeline pass over all configured leagues. It
// returns ErrRunInProgress when another run is active. Per-league and
// per-record failures are collected into the report instead of aborting.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	if !p.state.TryStartRun() {
		return nil, ErrRunInProgress
	}

	metrics.RecordRunStarted()
	start := time.Now()
	report := &RunReport{}
	completed := false
	defer func() {
		p.state.FinishRun(len(report.BetsFound), completed)
	}()

	p.logger.WithField("leagues", len(p.cfg.Leagues)).Info("Starting pipeline run")

	for _, leagueID := range p.cfg.Leagues {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		p.runLeague(ctx, leagueID, report)
	}

	if p.notifier != nil {
		if err := p.notifier.NotifyRunSummary(ctx, report.BetsFound, report.Errors); err != nil {
			p.logger.WithError(err).Error("Failed to send run summary")
		}
	}

	report.Duration = time.Since(start)
	completed = true
	metrics.RecordRunCompleted(report.Duration.Seconds())

	p.logger.WithFields(logrus.Fields{
		"fixtures": report.FixturesSeen,
		"bets":     len(report.BetsFound),
		"errors":   len(report.Errors),
		"duration": report.Duration,
	}).Info("Pipeline run complete")

	return report, nil
}

// runLeague processes a single league and appends its failures to the
// report. Every error string is prefixed with the league name so the digest
// reads without extra context.
func (p *Pipeline) runLeague(ctx context.Context, leagueID int, report *RunReport) {
	league := p.leagueName(leagueID)
	log := p.logger.WithField("league", league)

	from := time.Now().UTC()
	to := from.AddDate(0, 0, p.cfg.DaysAhead)

	fixtures, err := p.fixtures.FetchFixtures(ctx, leagueID, p.cfg.Season, from, to)
	if err != nil {
		p.recordLeagueError(report, league, fmt.Errorf("fetch fixtures: %w", err))
		return
	}
	if len(fixtures) == 0 {
		log.Info("No upcoming fixtures")
		return
	}
	log.WithField("fixtures", len(fixtures)).Info("Fetched fixtures")

	strengths, avg, err := p.loadStrengths(ctx, leagueID)
	if err != nil {
		p.recordLeagueError(report, league, fmt.Errorf("load strengths: %w", err))
		return
	}

	// Odds failures are tolerated: predictions without prices are simply
	// not actionable this run.
	events, err := p.odds.FetchOdds(ctx, leagueID)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch odds, continuing without prices")
		events = nil
	}
	reconciler := NewOddsReconciler(events)

	for i := range fixtures {
		fix := &fixtures[i]
		pred, ok := predictor.Predict(fix.HomeTeamID, fix.AwayTeamID, strengths, avg)
		if !ok {
			log.WithFields(logrus.Fields{
				"home": fix.HomeTeamName,
				"away": fix.AwayTeamName,
			}).Debug("Skipping fixture, no stats for one of the teams")
			continue
		}
		report.FixturesSeen++
		metrics.RecordFixtureProcessed()

		event, ok := reconciler.Match(fix.HomeTeamName, fix.AwayTeamName)
		if !ok {
			log.WithFields(logrus.Fields{
				"home": fix.HomeTeamName,
				"away": fix.AwayTeamName,
			}).Debug("No odds found for fixture")
			continue
		}

		for _, c := range p.scorer.Score(pred, event.Odds) {
			bet := &models.ValueBet{
				ID:          uuid.New(),
				FixtureID:   fix.FixtureID,
				MatchDate:   fix.Date,
				League:      league,
				HomeTeam:    fix.HomeTeamName,
				AwayTeam:    fix.AwayTeamName,
				Market:      c.Market,
				Bookmaker:   c.Bookmaker,
				BkOdds:      c.BkOdds,
				ModelOdds:   c.ModelOdds,
				Probability: c.Probability,
				Value:       c.Value,
				CreatedAt:   time.Now().UTC(),
			}
			if err := p.betRepo.Create(ctx, bet); err != nil {
				p.recordLeagueError(report, league, fmt.Errorf("persist bet %s vs %s %s: %w",
					fix.HomeTeamName, fix.AwayTeamName, c.Market, err))
				continue
			}
			metrics.RecordValueBet(c.Market)
			report.BetsFound = append(report.BetsFound, bet)
		}
	}
}

// loadStrengths builds the league's strength map from stored team stats.
// An empty snapshot triggers one automatic refresh from the standings
// provider before giving up.
func (p *Pipeline) loadStrengths(ctx context.Context, leagueID int) (map[int]models.TeamStrength, models.LeagueAverages, error) {
	stats, err := p.statsSnapshot(ctx, leagueID)
	if err != nil {
		return nil, models.LeagueAverages{}, err
	}
	if len(stats) == 0 {
		p.logger.WithField("league_id", leagueID).Info("No stored team stats, refreshing from standings")
		if err := p.refreshLeague(ctx, leagueID); err != nil {
			return nil, models.LeagueAverages{}, err
		}
		stats, err = p.statsSnapshot(ctx, leagueID)
		if err != nil {
			return nil, models.LeagueAverages{}, err
		}
		if len(stats) == 0 {
			return nil, models.LeagueAverages{}, errors.New("no team stats after refresh")
		}
	}

	avg := predictor.LeagueAverages(stats)
	return predictor.Strengths(stats, avg), avg, nil
}

func (p *Pipeline) statsSnapshot(ctx context.Context, leagueID int) (map[int]models.TeamSeasonStats, error) {
	rows, err := p.statsRepo.GetByLeagueSeason(ctx, leagueID, p.cfg.Season)
	if err != nil {
		return nil, err
	}
	stats := make(map[int]models.TeamSeasonStats, len(rows))
	for _, row := range rows {
		stats[row.TeamID] = *row
	}
	return stats, nil
}

// RefreshStrengths re-fetches standings for every configured league and
// upserts the team stats. Partial failures are reported as a joined error
// but do not stop the remaining leagues.
func (p *Pipeline) RefreshStrengths(ctx context.Context) error {
	var errs []error
	for _, leagueID := range p.cfg.Leagues {
		if err := p.refreshLeague(ctx, leagueID); err != nil {
			errs = append(errs, fmt.Errorf("league %s: %w", p.leagueName(leagueID), err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	p.state.MarkRefresh()
	metrics.RecordStrengthRefresh()
	return nil
}

func (p *Pipeline) refreshLeague(ctx context.Context, leagueID int) error {
	stats, err := p.standings.FetchStandings(ctx, leagueID, p.cfg.Season)
	if err != nil {
		return fmt.Errorf("fetch standings: %w", err)
	}
	for i := range stats {
		if err := p.statsRepo.Upsert(ctx, &stats[i]); err != nil {
			return fmt.Errorf("upsert stats for team %d: %w", stats[i].TeamID, err)
		}
	}
	p.logger.WithFields(logrus.Fields{
		"league_id": leagueID,
		"teams":     len(stats),
	}).Info("Refreshed team stats")
	return nil
}

func (p *Pipeline) recordLeagueError(report *RunReport, league string, err error) {
	msg := fmt.Sprintf("%s: %v", league, err)
	report.Errors = append(report.Errors, msg)
	metrics.RecordLeagueError(league)
	p.logger.Error(msg)
}

func (p *Pipeline) leagueName(leagueID int) string {
	if name, ok := p.cfg.LeagueNames[leagueID]; ok {
		return name
	}
	return "League " + strconv.Itoa(leagueID)
}
