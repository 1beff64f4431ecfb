package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/valuebet-engine/internal/models"
)

// MockFixturesProvider mocks the fixtures data source
type MockFixturesProvider struct {
	mock.Mock
}

func (m *MockFixturesProvider) FetchFixtures(ctx context.Context, leagueID, season int, from, to time.Time) ([]models.Fixture, error) {
	args := m.Called(ctx, leagueID, season, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fixture), args.Error(1)
}

func (m *MockFixturesProvider) FetchFixtureResult(ctx context.Context, fixtureID int) (*models.FixtureResult, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FixtureResult), args.Error(1)
}

func (m *MockFixturesProvider) Name() string {
	return "mock-fixtures"
}

// MockStandingsProvider mocks the standings data source
type MockStandingsProvider struct {
	mock.Mock
}

func (m *MockStandingsProvider) FetchStandings(ctx context.Context, leagueID, season int) ([]models.TeamSeasonStats, error) {
	args := m.Called(ctx, leagueID, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamSeasonStats), args.Error(1)
}

// MockOddsProvider mocks the odds data source
type MockOddsProvider struct {
	mock.Mock
}

func (m *MockOddsProvider) FetchOdds(ctx context.Context, leagueID int) ([]models.OddsEvent, error) {
	args := m.Called(ctx, leagueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OddsEvent), args.Error(1)
}

// MockBetRepository mocks bet persistence
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.ValueBet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) ListRecent(ctx context.Context, limit int) ([]*models.ValueBet, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ValueBet), args.Error(1)
}

func (m *MockBetRepository) ListPending(ctx context.Context, before time.Time) ([]*models.ValueBet, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ValueBet), args.Error(1)
}

func (m *MockBetRepository) UpdateResult(ctx context.Context, id uuid.UUID, result string, success bool) error {
	args := m.Called(ctx, id, result, success)
	return args.Error(0)
}

func (m *MockBetRepository) AggregateStats(ctx context.Context) (*models.BetStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetStats), args.Error(1)
}

func (m *MockBetRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

// MockTeamStatsRepository mocks team stats persistence
type MockTeamStatsRepository struct {
	mock.Mock
}

func (m *MockTeamStatsRepository) Upsert(ctx context.Context, stats *models.TeamSeasonStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockTeamStatsRepository) GetByLeagueSeason(ctx context.Context, leagueID, season int) ([]*models.TeamSeasonStats, error) {
	args := m.Called(ctx, leagueID, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TeamSeasonStats), args.Error(1)
}

// MockNotifier mocks the notification channel
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyRunSummary(ctx context.Context, bets []*models.ValueBet, errs []string) error {
	args := m.Called(ctx, bets, errs)
	return args.Error(0)
}
