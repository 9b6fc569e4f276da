package nba

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	coreconfig "github.com/m3rciful/courtbot/core/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(coreconfig.StatsConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
		PerPage:        5,
	})
	return client, srv
}

func TestSearchPlayers(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/players" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("search"); got != "curry" {
			t.Errorf("search = %q, want curry", got)
		}
		if got := q.Get("per_page"); got != "25" {
			t.Errorf("per_page = %q, want 25", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"id": 115, "first_name": "Stephen", "last_name": "Curry",
				"position": "G", "team": {"id": 10, "full_name": "Golden State Warriors"}}],
			"meta": {"total_pages": 1, "current_page": 1, "next_page": null, "per_page": 25, "total_count": 1}
		}`))
	}))

	page, err := client.SearchPlayers(context.Background(), "curry", 1, 25)
	if err != nil {
		t.Fatalf("SearchPlayers: %v", err)
	}
	if len(page.Data) != 1 {
		t.Fatalf("got %d players, want 1", len(page.Data))
	}
	p := page.Data[0]
	if p.ID != 115 || p.LastName != "Curry" || p.Team.ID != 10 {
		t.Errorf("unexpected player: %+v", p)
	}
	if page.Meta.TotalCount != 1 {
		t.Errorf("total_count = %d, want 1", page.Meta.TotalCount)
	}
}

func TestGamesQueryEncoding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q["team_ids[]"]; len(got) != 1 || got[0] != "14" {
			t.Errorf("team_ids[] = %v, want [14]", got)
		}
		if got := q["seasons[]"]; len(got) != 1 || got[0] != "2018" {
			t.Errorf("seasons[] = %v, want [2018]", got)
		}
		if got := q.Get("start_date"); got != "2018-10-01" {
			t.Errorf("start_date = %q", got)
		}
		if got := q.Get("end_date"); got != "2018-10-31" {
			t.Errorf("end_date = %q", got)
		}
		if got := q.Get("per_page"); got != "5" {
			t.Errorf("per_page = %q, want default 5", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [], "meta": {"total_pages": 0, "current_page": 1, "per_page": 5, "total_count": 0}}`))
	}))

	page, err := client.Games(context.Background(), GamesQuery{
		TeamIDs:   []int64{14},
		Seasons:   []int{2018},
		StartDate: "2018-10-01",
		EndDate:   "2018-10-31",
	})
	if err != nil {
		t.Fatalf("Games: %v", err)
	}
	if len(page.Data) != 0 {
		t.Errorf("empty result expected, got %d games", len(page.Data))
	}
}

func TestStatusError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))

	_, err := client.SearchPlayers(context.Background(), "james", 1, 25)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", statusErr.StatusCode)
	}
	if statusErr.Code() != "NBA_HTTP_429" {
		t.Errorf("code = %q", statusErr.Code())
	}
}

func TestMissingMetaIsProtocolError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))

	_, err := client.Stats(context.Background(), StatsQuery{PlayerIDs: []int64{115}})
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestSeasonAveragesEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("season"); got != "2017" {
			t.Errorf("season = %q", got)
		}
		if got := q["player_ids[]"]; len(got) != 1 || got[0] != "115" {
			t.Errorf("player_ids[] = %v", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [], "meta": {"total_count": 0, "total_pages": 0, "current_page": 1, "per_page": 25}}`))
	}))

	avg, err := client.SeasonAverages(context.Background(), 2017, 115)
	if err != nil {
		t.Fatalf("SeasonAverages: %v", err)
	}
	if avg != nil {
		t.Errorf("expected nil average for empty data, got %+v", avg)
	}
}

func TestSeasonAveragesMissingMeta(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))

	_, err := client.SeasonAverages(context.Background(), 2017, 115)
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestTeamCacheServesStale(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) > 1 {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"id": 1, "abbreviation": "ATL", "full_name": "Atlanta Hawks", "name": "Hawks"}],
			"meta": {"total_pages": 1, "current_page": 1, "per_page": 100, "total_count": 1}
		}`))
	}))

	cache := NewTeamCache(client, time.Nanosecond)
	if err := cache.Warm(context.Background()); err != nil {
		t.Fatalf("Warm: %v", err)
	}

	time.Sleep(time.Millisecond)

	// The TTL has expired and the refresh now fails; warm data must survive.
	team, ok, err := cache.ByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("ByID after failed refresh: %v", err)
	}
	if !ok || team.Abbreviation != "ATL" {
		t.Errorf("stale team not served: ok=%v team=%+v", ok, team)
	}
}

func TestTeamCacheUnknownID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"id": 1, "abbreviation": "ATL", "full_name": "Atlanta Hawks", "name": "Hawks"}],
			"meta": {"total_pages": 1, "current_page": 1, "per_page": 100, "total_count": 1}
		}`))
	}))

	cache := NewTeamCache(client, time.Hour)
	_, ok, err := cache.ByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if ok {
		t.Error("unknown id resolved unexpectedly")
	}
}
