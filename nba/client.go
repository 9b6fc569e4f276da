package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	coreconfig "github.com/m3rciful/courtbot/core/config"
	"github.com/m3rciful/courtbot/core/logger"
	"github.com/m3rciful/courtbot/core/telegram/netutil"
	"log/slog"
)

// Client talks to the balldontlie stats API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	perPage    int
}

// NewClient builds a stats API client from configuration. Transient network
// failures are retried at the transport level; HTTP status answers are not.
func NewClient(cfg coreconfig.StatsConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &netutil.RetryTransport{
				MaxRetries: 2,
				Backoff:    500 * time.Millisecond,
			},
		},
		baseURL: cfg.BaseURL,
		perPage: cfg.PerPage,
	}
}

// GamesQuery narrows the games listing.
type GamesQuery struct {
	TeamIDs    []int64
	Seasons    []int
	Dates      []string
	StartDate  string
	EndDate    string
	Postseason *bool
	Page       int
	PerPage    int
}

// Encode renders the query as API parameters.
func (q GamesQuery) Encode() url.Values {
	v := url.Values{}
	for _, id := range q.TeamIDs {
		v.Add("team_ids[]", strconv.FormatInt(id, 10))
	}
	encodeCommon(v, q.Seasons, q.Dates, q.StartDate, q.EndDate, q.Postseason, q.Page, q.PerPage)
	return v
}

// StatsQuery narrows the box score listing.
type StatsQuery struct {
	PlayerIDs  []int64
	GameIDs    []int64
	Seasons    []int
	Dates      []string
	StartDate  string
	EndDate    string
	Postseason *bool
	Page       int
	PerPage    int
}

// Encode renders the query as API parameters.
func (q StatsQuery) Encode() url.Values {
	v := url.Values{}
	for _, id := range q.PlayerIDs {
		v.Add("player_ids[]", strconv.FormatInt(id, 10))
	}
	for _, id := range q.GameIDs {
		v.Add("game_ids[]", strconv.FormatInt(id, 10))
	}
	encodeCommon(v, q.Seasons, q.Dates, q.StartDate, q.EndDate, q.Postseason, q.Page, q.PerPage)
	return v
}

func encodeCommon(v url.Values, seasons []int, dates []string, startDate, endDate string, postseason *bool, page, perPage int) {
	for _, s := range seasons {
		v.Add("seasons[]", strconv.Itoa(s))
	}
	for _, d := range dates {
		v.Add("dates[]", d)
	}
	if startDate != "" {
		v.Set("start_date", startDate)
	}
	if endDate != "" {
		v.Set("end_date", endDate)
	}
	if postseason != nil {
		v.Set("postseason", strconv.FormatBool(*postseason))
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		v.Set("per_page", strconv.Itoa(perPage))
	}
}

// Teams returns the full league roster of franchises. The set is small and
// fetched in one oversized page.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	var body struct {
		Data []Team `json:"data"`
		Meta *Meta  `json:"meta"`
	}
	params := url.Values{}
	params.Set("per_page", "100")
	if err := c.get(ctx, "/teams", params, &body); err != nil {
		return nil, err
	}
	if body.Meta == nil {
		return nil, &ProtocolError{Endpoint: "/teams", Reason: "missing meta"}
	}
	return body.Data, nil
}

// SearchPlayers queries player profiles by a free-form name fragment.
func (c *Client) SearchPlayers(ctx context.Context, query string, page, perPage int) (PlayersPage, error) {
	var body struct {
		Data []Player `json:"data"`
		Meta *Meta    `json:"meta"`
	}
	params := url.Values{}
	params.Set("search", query)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		params.Set("per_page", strconv.Itoa(perPage))
	}
	if err := c.get(ctx, "/players", params, &body); err != nil {
		return PlayersPage{}, err
	}
	if body.Meta == nil {
		return PlayersPage{}, &ProtocolError{Endpoint: "/players", Reason: "missing meta"}
	}
	return PlayersPage{Data: body.Data, Meta: *body.Meta}, nil
}

// Games lists games matching the query. An empty page is a valid answer.
func (c *Client) Games(ctx context.Context, q GamesQuery) (GamesPage, error) {
	if q.PerPage == 0 {
		q.PerPage = c.perPage
	}
	var body struct {
		Data []Game `json:"data"`
		Meta *Meta  `json:"meta"`
	}
	if err := c.get(ctx, "/games", q.Encode(), &body); err != nil {
		return GamesPage{}, err
	}
	if body.Meta == nil {
		return GamesPage{}, &ProtocolError{Endpoint: "/games", Reason: "missing meta"}
	}
	return GamesPage{Data: body.Data, Meta: *body.Meta}, nil
}

// Stats lists per-game box score lines matching the query.
func (c *Client) Stats(ctx context.Context, q StatsQuery) (StatsPage, error) {
	if q.PerPage == 0 {
		q.PerPage = c.perPage
	}
	var body struct {
		Data []StatLine `json:"data"`
		Meta *Meta      `json:"meta"`
	}
	if err := c.get(ctx, "/stats", q.Encode(), &body); err != nil {
		return StatsPage{}, err
	}
	if body.Meta == nil {
		return StatsPage{}, &ProtocolError{Endpoint: "/stats", Reason: "missing meta"}
	}
	return StatsPage{Data: body.Data, Meta: *body.Meta}, nil
}

// SeasonAverages returns a player's averaged line for one season, or nil when
// the player logged no games that season.
func (c *Client) SeasonAverages(ctx context.Context, season int, playerID int64) (*SeasonAverage, error) {
	var body struct {
		Data []SeasonAverage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	params := url.Values{}
	params.Set("season", strconv.Itoa(season))
	params.Add("player_ids[]", strconv.FormatInt(playerID, 10))
	if err := c.get(ctx, "/season_averages", params, &body); err != nil {
		return nil, err
	}
	if body.Meta == nil {
		return nil, &ProtocolError{Endpoint: "/season_averages", Reason: "missing meta"}
	}
	if len(body.Data) == 0 {
		return nil, nil
	}
	return &body.Data[0], nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("nba: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn(ctx, "nba", "nba.request",
			slog.String("status", "fail"),
			slog.String("endpoint", path),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn(ctx, "nba", "nba.request",
			slog.String("status", "fail"),
			slog.String("endpoint", path),
			slog.Int("http_status", resp.StatusCode),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		)
		return &StatusError{StatusCode: resp.StatusCode, Endpoint: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProtocolError{Endpoint: path, Reason: "malformed body: " + err.Error()}
	}

	logger.Debug(ctx, "nba", "nba.request",
		slog.String("status", "ok"),
		slog.String("endpoint", path),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return nil
}
