// Package repository defines data access interfaces and their Postgres
// implementations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/valuebet-engine/internal/models"
)

// BetRepository defines the interface for value bet persistence
type BetRepository interface {
	Create(ctx context.Context, bet *models.ValueBet) error
	ListRecent(ctx context.Context, limit int) ([]*models.ValueBet, error)
	ListPending(ctx context.Context, before time.Time) ([]*models.ValueBet, error)
	UpdateResult(ctx context.Context, id uuid.UUID, result string, success bool) error
	AggregateStats(ctx context.Context) (*models.BetStats, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// TeamStatsRepository defines the interface for team season statistics
type TeamStatsRepository interface {
	Upsert(ctx context.Context, stats *models.TeamSeasonStats) error
	GetByLeagueSeason(ctx context.Context, leagueID, season int) ([]*models.TeamSeasonStats, error)
}
