package service

import (
	"strings"

	"github.com/yourusername/valuebet-engine/internal/models"
)

type matchKey struct {
	home string
	away string
}

// OddsReconciler matches odds-provider events to fixtures by team name.
// The two providers do not share IDs, so matching is name-based: an exact
// lowercased (home, away) lookup first, then a partial scan where each side
// must contain or be contained by its counterpart.
type OddsReconciler struct {
	index map[matchKey]*models.OddsEvent
	order []matchKey
}

// NewOddsReconciler indexes the provider's events for lookup. Later events
// with the same team pair overwrite earlier ones.
func NewOddsReconciler(events []models.OddsEvent) *OddsReconciler {
	r := &OddsReconciler{
		index: make(map[matchKey]*models.OddsEvent, len(events)),
		order: make([]matchKey, 0, len(events)),
	}
	for i := range events {
		ev := &events[i]
		key := matchKey{
			home: strings.ToLower(ev.HomeTeam),
			away: strings.ToLower(ev.AwayTeam),
		}
		if _, seen := r.index[key]; !seen {
			r.order = append(r.order, key)
		}
		r.index[key] = ev
	}
	return r
}

// Match finds the odds event for a fixture's team names. Exact key match
// wins; otherwise the first partial match in insertion order is returned.
func (r *OddsReconciler) Match(homeTeam, awayTeam string) (*models.OddsEvent, bool) {
	home := strings.ToLower(homeTeam)
	away := strings.ToLower(awayTeam)

	if ev, ok := r.index[matchKey{home: home, away: away}]; ok {
		return ev, true
	}

	for _, key := range r.order {
		if partialMatch(key.home, home) && partialMatch(key.away, away) {
			return r.index[key], true
		}
	}
	return nil, false
}

// partialMatch reports whether either name contains the other. Both inputs
// must already be lowercased.
func partialMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
