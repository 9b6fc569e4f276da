package nba

import (
	"context"
	"sync"
	"time"

	"github.com/m3rciful/courtbot/core/logger"
	"log/slog"
)

// TeamCache keeps the league roster in memory. The set of franchises changes
// about never, so entries are refreshed on a long TTL and stale data is served
// when a refresh fails.
type TeamCache struct {
	client *Client
	ttl    time.Duration

	mu        sync.RWMutex
	teams     []Team
	byID      map[int64]Team
	fetchedAt time.Time
}

// NewTeamCache builds a cache over the given client.
func NewTeamCache(client *Client, ttl time.Duration) *TeamCache {
	return &TeamCache{client: client, ttl: ttl}
}

// Warm performs an initial fetch. Meant for startup; a failure here is fatal
// because nothing warm exists to fall back on.
func (tc *TeamCache) Warm(ctx context.Context) error {
	return tc.refresh(ctx)
}

// All returns every franchise, refreshing first when the cached set expired.
func (tc *TeamCache) All(ctx context.Context) ([]Team, error) {
	if err := tc.ensureFresh(ctx); err != nil {
		return nil, err
	}
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	out := make([]Team, len(tc.teams))
	copy(out, tc.teams)
	return out, nil
}

// ByID resolves one franchise by id. The boolean is false for unknown ids.
func (tc *TeamCache) ByID(ctx context.Context, id int64) (Team, bool, error) {
	if err := tc.ensureFresh(ctx); err != nil {
		return Team{}, false, err
	}
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	team, ok := tc.byID[id]
	return team, ok, nil
}

func (tc *TeamCache) ensureFresh(ctx context.Context) error {
	tc.mu.RLock()
	warm := len(tc.teams) > 0
	fresh := warm && time.Since(tc.fetchedAt) < tc.ttl
	tc.mu.RUnlock()

	if fresh {
		return nil
	}

	if err := tc.refresh(ctx); err != nil {
		if warm {
			// Stale roster beats no roster.
			logger.Warn(ctx, "nba.cache", "teams.refresh",
				slog.String("status", "fail"),
				slog.String("cache", "stale"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			return nil
		}
		return err
	}
	return nil
}

func (tc *TeamCache) refresh(ctx context.Context) error {
	teams, err := tc.client.Teams(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int64]Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	tc.mu.Lock()
	tc.teams = teams
	tc.byID = byID
	tc.fetchedAt = time.Now()
	tc.mu.Unlock()

	logger.Info(ctx, "nba.cache", "teams.refresh",
		slog.String("status", "ok"),
		slog.Int("count", len(teams)),
	)
	return nil
}
