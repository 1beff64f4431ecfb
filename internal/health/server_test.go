package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/valuebet-engine/internal/models"
)

type stubBetRepo struct {
	recent []*models.ValueBet
	stats  *models.BetStats
	err    error
}

func (s *stubBetRepo) Create(ctx context.Context, bet *models.ValueBet) error { return nil }
func (s *stubBetRepo) ListRecent(ctx context.Context, limit int) ([]*models.ValueBet, error) {
	return s.recent, s.err
}
func (s *stubBetRepo) ListPending(ctx context.Context, before time.Time) ([]*models.ValueBet, error) {
	return nil, nil
}
func (s *stubBetRepo) UpdateResult(ctx context.Context, id uuid.UUID, result string, success bool) error {
	return nil
}
func (s *stubBetRepo) AggregateStats(ctx context.Context) (*models.BetStats, error) {
	return s.stats, s.err
}
func (s *stubBetRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	return len(s.recent), nil
}

func newTestServer(repo *stubBetRepo) *Server {
	return NewServer(Config{
		ServiceName: "valuebet-engine",
		Port:        "0",
		Bets:        repo,
	})
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubBetRepo{})
	rec := httptest.NewRecorder()

	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "valuebet-engine", resp.Service)
}

func TestHandleReadyNotReady(t *testing.T) {
	srv := newTestServer(&stubBetRepo{})
	rec := httptest.NewRecorder()

	srv.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "not_ready", resp.Checks["service"])
}

func TestHandleReadyAfterSetReady(t *testing.T) {
	srv := newTestServer(&stubBetRepo{})
	srv.SetReady(true)
	rec := httptest.NewRecorder()

	srv.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleBets(t *testing.T) {
	repo := &stubBetRepo{recent: []*models.ValueBet{
		{ID: uuid.New(), HomeTeam: "Lyon", AwayTeam: "Lille", Market: models.MarketHomeWin},
	}}
	srv := newTestServer(repo)
	rec := httptest.NewRecorder()

	srv.handleBets(rec, httptest.NewRequest(http.MethodGet, "/api/bets", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var bets []*models.ValueBet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bets))
	require.Len(t, bets, 1)
	assert.Equal(t, "Lyon", bets[0].HomeTeam)
}

func TestHandleBetsRejectsBadLimit(t *testing.T) {
	srv := newTestServer(&stubBetRepo{})

	for _, limit := range []string{"0", "-5", "9999", "abc"} {
		rec := httptest.NewRecorder()
		srv.handleBets(rec, httptest.NewRequest(http.MethodGet, "/api/bets?limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}
