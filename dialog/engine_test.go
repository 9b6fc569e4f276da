package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/m3rciful/courtbot/nba"
)

type fakeSource struct {
	players     nba.PlayersPage
	games       nba.GamesPage
	stats       nba.StatsPage
	average     *nba.SeasonAverage
	err         error
	lastGamesQ  nba.GamesQuery
	lastStatsQ  nba.StatsQuery
	lastSearch  string
	gamesCalls  int
	statsCalls  int
	searchCalls int
}

func (f *fakeSource) SearchPlayers(_ context.Context, query string, page, perPage int) (nba.PlayersPage, error) {
	f.searchCalls++
	f.lastSearch = query
	return f.players, f.err
}

func (f *fakeSource) Games(_ context.Context, q nba.GamesQuery) (nba.GamesPage, error) {
	f.gamesCalls++
	f.lastGamesQ = q
	return f.games, f.err
}

func (f *fakeSource) Stats(_ context.Context, q nba.StatsQuery) (nba.StatsPage, error) {
	f.statsCalls++
	f.lastStatsQ = q
	return f.stats, f.err
}

func (f *fakeSource) SeasonAverages(_ context.Context, season int, playerID int64) (*nba.SeasonAverage, error) {
	return f.average, f.err
}

type fakeTeams struct{ teams []nba.Team }

func (f *fakeTeams) All(context.Context) ([]nba.Team, error) { return f.teams, nil }

func (f *fakeTeams) ByID(_ context.Context, id int64) (nba.Team, bool, error) {
	for _, t := range f.teams {
		if t.ID == id {
			return t, true, nil
		}
	}
	return nba.Team{}, false, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Player(p nba.Player) string { return "card:" + p.LastName }
func (fakeRenderer) PlayerLine(p nba.Player) string {
	return "line:" + p.LastName
}
func (fakeRenderer) TeamBrief(t nba.Team) string { return fmt.Sprintf("%d. %s", t.ID, t.FullName) }
func (fakeRenderer) Game(g nba.Game) string {
	return fmt.Sprintf("game:%d season:%d-%d", g.ID, g.Season, g.Season+1)
}
func (fakeRenderer) GameStats(s nba.StatLine) string { return fmt.Sprintf("stat:%d", s.ID) }
func (fakeRenderer) SeasonStats(a nba.SeasonAverage, p Player) string {
	return fmt.Sprintf("avg:%s:%d", p.LastName, a.Season)
}

func newTestEngine(src *fakeSource) (*Engine, *Store) {
	store := NewStore()
	teams := &fakeTeams{teams: []nba.Team{{ID: 7, FullName: "Denver Nuggets"}}}
	return NewEngine(store, src, teams, fakeRenderer{}, 25), store
}

func send(t *testing.T, e *Engine, userID int64, texts ...string) []Reply {
	t.Helper()
	var last []Reply
	for _, text := range texts {
		var err error
		last, err = e.HandleText(context.Background(), userID, text)
		if err != nil {
			t.Fatalf("HandleText(%q): %v", text, err)
		}
	}
	return last
}

func repliesText(rs []Reply) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, "\n---\n")
}

func keyboardHas(r Reply, label string) bool {
	for _, row := range r.Keyboard {
		for _, l := range row {
			if l == label {
				return true
			}
		}
	}
	return false
}

func TestGamesSeasonScenario(t *testing.T) {
	src := &fakeSource{games: nba.GamesPage{
		Data: []nba.Game{{ID: 1, Season: 2016}},
		Meta: nba.Meta{TotalPages: 1, CurrentPage: 1, TotalCount: 1},
	}}
	e, _ := newTestEngine(src)

	out := send(t, e, 1, LabelGames, LabelAllGames, LabelAllTeams, LabelSeason, "2016")

	q := src.lastGamesQ
	if q.Postseason == nil || *q.Postseason {
		t.Error("postseason should be false")
	}
	if len(q.TeamIDs) != 0 {
		t.Errorf("team ids = %v, want none", q.TeamIDs)
	}
	if len(q.Seasons) != 1 || q.Seasons[0] != 2016 {
		t.Errorf("seasons = %v, want [2016]", q.Seasons)
	}
	if !strings.Contains(repliesText(out), "season:2016-2017") {
		t.Errorf("rendered games missing season label:\n%s", repliesText(out))
	}
	if e.InProgress(1) {
		t.Error("session must reset after execution")
	}
}

func TestGamesSingleDayScenario(t *testing.T) {
	src := &fakeSource{games: nba.GamesPage{
		Data: []nba.Game{{ID: 2}},
		Meta: nba.Meta{TotalPages: 1, CurrentPage: 1, TotalCount: 1},
	}}
	e, _ := newTestEngine(src)

	send(t, e, 1, LabelGames, LabelAllGames, LabelSpecificTeam, "7",
		LabelTimePeriod, LabelSpecificDay, "01-07-2021")

	q := src.lastGamesQ
	if len(q.TeamIDs) != 1 || q.TeamIDs[0] != 7 {
		t.Errorf("team ids = %v, want [7]", q.TeamIDs)
	}
	if len(q.Dates) != 1 || q.Dates[0] != "2021-07-01" {
		t.Errorf("dates = %v, want [2021-07-01]", q.Dates)
	}
}

func TestTeamIDPromptListsTeams(t *testing.T) {
	src := &fakeSource{}
	e, _ := newTestEngine(src)

	out := send(t, e, 1, LabelGames, LabelAllGames, LabelSpecificTeam)
	if !strings.Contains(repliesText(out), "7. Denver Nuggets") {
		t.Errorf("team list should precede the team id prompt:\n%s", repliesText(out))
	}
}

func TestTeamIDAnswerEchoesTeam(t *testing.T) {
	src := &fakeSource{}
	e, _ := newTestEngine(src)

	send(t, e, 1, LabelGames, LabelAllGames, LabelSpecificTeam)
	out := send(t, e, 1, "7")
	if !strings.HasPrefix(repliesText(out), "7. Denver Nuggets") {
		t.Errorf("accepted team id should be echoed with the franchise name:\n%s", repliesText(out))
	}
}

func TestInvalidAnswerRePrompts(t *testing.T) {
	src := &fakeSource{}
	e, store := newTestEngine(src)

	send(t, e, 1, LabelGames, LabelAllGames, LabelSpecificTeam)
	out := send(t, e, 1, "55")

	if !strings.Contains(repliesText(out), msgRetryPrefix[:4]) {
		t.Errorf("expected a retry prompt:\n%s", repliesText(out))
	}
	sess := store.Get(1)
	sess.Lock()
	defer sess.Unlock()
	if len(sess.Answers) != 2 {
		t.Errorf("invalid input must not record an answer, got %d answers", len(sess.Answers))
	}
}

func TestBackPopsOneAnswer(t *testing.T) {
	src := &fakeSource{}
	e, store := newTestEngine(src)

	send(t, e, 1, LabelGames, LabelAllGames, LabelAllTeams)
	send(t, e, 1, LabelBack)

	sess := store.Get(1)
	sess.Lock()
	if len(sess.Answers) != 1 || sess.Topic != TopicGames {
		t.Errorf("back should pop exactly one answer: topic=%q answers=%d", sess.Topic, len(sess.Answers))
	}
	sess.Unlock()
}

func TestBackFromFirstStepClearsTopicKeepsPlayer(t *testing.T) {
	src := &fakeSource{}
	e, store := newTestEngine(src)

	sess := store.Get(1)
	sess.Lock()
	sess.Player = &Player{ID: 115, LastName: "Curry"}
	sess.Unlock()

	send(t, e, 1, LabelGames)
	out := send(t, e, 1, LabelBack)

	sess.Lock()
	defer sess.Unlock()
	if sess.Topic != TopicNone {
		t.Errorf("topic = %q, want cleared", sess.Topic)
	}
	if sess.Player == nil {
		t.Error("back must keep the resolved player")
	}
	if !keyboardHas(out[len(out)-1], LabelSeasonStats) {
		t.Error("head menu should offer stats topics while a player is resolved")
	}
}

func TestHomeClearsEverything(t *testing.T) {
	src := &fakeSource{}
	e, store := newTestEngine(src)

	sess := store.Get(1)
	sess.Lock()
	sess.Player = &Player{ID: 115}
	sess.Unlock()

	send(t, e, 1, LabelGames, LabelHome)

	sess.Lock()
	defer sess.Unlock()
	if sess.Topic != TopicNone || sess.Player != nil {
		t.Error("home must clear the topic and the resolved player")
	}
}

func TestSearchNothingFoundKeepsTopic(t *testing.T) {
	src := &fakeSource{players: nba.PlayersPage{Meta: nba.Meta{TotalCount: 0}}}
	e, _ := newTestEngine(src)

	out := send(t, e, 1, LabelFindPlayer, "Zzyzx")
	if !strings.Contains(repliesText(out), msgRefineSearch) {
		t.Errorf("expected refine message:\n%s", repliesText(out))
	}
	if !e.InProgress(1) {
		t.Error("search topic must stay active awaiting a new name")
	}
}

func TestSearchTooManyMatches(t *testing.T) {
	src := &fakeSource{players: nba.PlayersPage{Meta: nba.Meta{TotalCount: 30}}}
	e, _ := newTestEngine(src)

	out := send(t, e, 1, LabelFindPlayer, "Smith")
	text := repliesText(out)
	if !strings.Contains(text, msgNarrowSearch) {
		t.Errorf("expected narrow message:\n%s", text)
	}
	if strings.Contains(text, "line:") {
		t.Error("no names should be listed for an oversized match set")
	}
	if !e.InProgress(1) {
		t.Error("search topic must stay active")
	}
}

func TestSearchUniqueMatchResolvesPlayer(t *testing.T) {
	src := &fakeSource{players: nba.PlayersPage{
		Data: []nba.Player{{ID: 115, FirstName: "Stephen", LastName: "Curry"}},
		Meta: nba.Meta{TotalCount: 1},
	}}
	e, store := newTestEngine(src)

	out := send(t, e, 1, LabelFindPlayer, "Curry")

	sess := store.Get(1)
	sess.Lock()
	if sess.Player == nil || sess.Player.ID != 115 {
		t.Fatalf("resolved player = %+v, want id 115", sess.Player)
	}
	sess.Unlock()

	last := out[len(out)-1]
	if !keyboardHas(last, LabelSeasonStats) || !keyboardHas(last, LabelPerGameStats) {
		t.Error("post-search menu must offer season and per-game stats")
	}
	if e.InProgress(1) {
		t.Error("search completes after a unique match")
	}
}

func TestSearchFewMatchesOffersPicks(t *testing.T) {
	src := &fakeSource{players: nba.PlayersPage{
		Data: []nba.Player{
			{ID: 1, FirstName: "Seth", LastName: "Curry"},
			{ID: 2, FirstName: "Stephen", LastName: "Curry"},
		},
		Meta: nba.Meta{TotalCount: 2},
	}}
	e, store := newTestEngine(src)

	out := send(t, e, 1, LabelFindPlayer, "Curry")
	if len(out[0].Players) != 2 {
		t.Fatalf("got %d pick buttons, want 2", len(out[0].Players))
	}

	picks, err := e.PickPlayer(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("PickPlayer: %v", err)
	}
	sess := store.Get(1)
	sess.Lock()
	if sess.Player == nil || sess.Player.LastName != "Curry" || sess.Player.ID != 2 {
		t.Errorf("picked player = %+v", sess.Player)
	}
	sess.Unlock()
	if !strings.Contains(repliesText(picks), "card:Curry") {
		t.Errorf("pick should render the player card:\n%s", repliesText(picks))
	}
}

func TestSeasonStatsNeedsPlayer(t *testing.T) {
	src := &fakeSource{}
	e, _ := newTestEngine(src)

	out := send(t, e, 1, LabelSeasonStats)
	if !strings.Contains(repliesText(out), msgFindPlayerFirst) {
		t.Errorf("expected find-player hint:\n%s", repliesText(out))
	}
	if e.InProgress(1) {
		t.Error("no topic should start without a resolved player")
	}
}

func TestSeasonStatsFlow(t *testing.T) {
	src := &fakeSource{average: &nba.SeasonAverage{Season: 2016, GamesPlayed: 79}}
	e, store := newTestEngine(src)

	sess := store.Get(1)
	sess.Lock()
	sess.Player = &Player{ID: 115, LastName: "Curry"}
	sess.Unlock()

	out := send(t, e, 1, LabelSeasonStats, "2016")
	if !strings.Contains(repliesText(out), "avg:Curry:2016") {
		t.Errorf("season averages not rendered:\n%s", repliesText(out))
	}
}

func TestGameStatsKnownGameFlow(t *testing.T) {
	src := &fakeSource{stats: nba.StatsPage{
		Data: []nba.StatLine{{ID: 9}},
		Meta: nba.Meta{TotalPages: 1, CurrentPage: 1, TotalCount: 1},
	}}
	e, store := newTestEngine(src)

	sess := store.Get(1)
	sess.Lock()
	sess.Player = &Player{ID: 115}
	sess.Unlock()

	send(t, e, 1, LabelPerGameStats, LabelYes, "48900")

	q := src.lastStatsQ
	if len(q.GameIDs) != 1 || q.GameIDs[0] != 48900 {
		t.Errorf("game ids = %v, want [48900]", q.GameIDs)
	}
	if len(q.PlayerIDs) != 1 || q.PlayerIDs[0] != 115 {
		t.Errorf("player ids = %v, want [115]", q.PlayerIDs)
	}
}

func TestPaginationFlow(t *testing.T) {
	src := &fakeSource{games: nba.GamesPage{
		Data: []nba.Game{{ID: 1}},
		Meta: nba.Meta{TotalPages: 3, CurrentPage: 1, TotalCount: 15},
	}}
	e, store := newTestEngine(src)

	out := send(t, e, 1, LabelGames, LabelAllGames, LabelAllTeams, LabelSeason, "2016")
	last := out[len(out)-1]
	if last.Nav == nil || last.Nav.ShowPrev || !last.Nav.ShowNext {
		t.Fatalf("page 1 of 3 should show only the next control, nav = %+v", last.Nav)
	}

	src.games.Meta.CurrentPage = 2
	replies, err := e.Advance(context.Background(), 1, Next)
	if err != nil {
		t.Fatalf("Advance(Next): %v", err)
	}
	if src.lastGamesQ.Page != 2 {
		t.Errorf("advance issued page %d, want 2", src.lastGamesQ.Page)
	}
	if replies[0].Nav == nil || !replies[0].Nav.ShowPrev || !replies[0].Nav.ShowNext {
		t.Errorf("page 2 of 3 should show both controls, nav = %+v", replies[0].Nav)
	}

	// Previous then Next returns to the same page and query.
	if _, err := e.Advance(context.Background(), 1, Previous); err != nil {
		t.Fatalf("Advance(Previous): %v", err)
	}
	if _, err := e.Advance(context.Background(), 1, Next); err != nil {
		t.Fatalf("Advance(Next): %v", err)
	}
	sess := store.Get(1)
	sess.Lock()
	if sess.Book == nil || sess.Book.Page != 2 {
		t.Errorf("bookmark page = %+v, want back at 2", sess.Book)
	}
	sess.Unlock()
}

func TestPaginationBounds(t *testing.T) {
	src := &fakeSource{games: nba.GamesPage{
		Data: []nba.Game{{ID: 1}},
		Meta: nba.Meta{TotalPages: 2, CurrentPage: 1, TotalCount: 10},
	}}
	e, _ := newTestEngine(src)

	send(t, e, 1, LabelGames, LabelAllGames, LabelAllTeams, LabelSeason, "2016")

	if _, err := e.Advance(context.Background(), 1, Previous); !errors.Is(err, ErrNoSuchPage) {
		t.Errorf("previous from page 1 = %v, want ErrNoSuchPage", err)
	}
}

func TestNewTopicDropsStaleBookmark(t *testing.T) {
	src := &fakeSource{games: nba.GamesPage{
		Data: []nba.Game{{ID: 1}},
		Meta: nba.Meta{TotalPages: 3, CurrentPage: 1, TotalCount: 15},
	}}
	e, store := newTestEngine(src)

	send(t, e, 1, LabelGames, LabelAllGames, LabelAllTeams, LabelSeason, "2016")
	send(t, e, 1, LabelGames)

	sess := store.Get(1)
	sess.Lock()
	if sess.Book != nil {
		t.Error("starting a topic must drop the previous result's bookmark")
	}
	sess.Unlock()

	calls := src.gamesCalls
	replies, err := e.Advance(context.Background(), 1, Next)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if src.gamesCalls != calls {
		t.Error("no query may be re-issued from a stale bookmark mid-dialogue")
	}
	if !strings.Contains(repliesText(replies), msgNoPaging) {
		t.Errorf("expected nothing-to-page message:\n%s", repliesText(replies))
	}
}

func TestUpstreamFailureResetsSessionKeepsPlayer(t *testing.T) {
	src := &fakeSource{err: &nba.StatusError{StatusCode: 500, Endpoint: "/games"}}
	e, store := newTestEngine(src)

	sess := store.Get(1)
	sess.Lock()
	sess.Player = &Player{ID: 115}
	sess.Unlock()

	send(t, e, 1, LabelGames, LabelAllGames, LabelAllTeams, LabelSeason)
	replies, err := e.HandleText(context.Background(), 1, "2016")
	if err == nil {
		t.Fatal("upstream failure must propagate for logging and alerts")
	}
	if !strings.Contains(repliesText(replies), msgSomethingWrong) {
		t.Errorf("user should see a generic failure message:\n%s", repliesText(replies))
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.Topic != TopicNone {
		t.Error("session must reset to the head menu")
	}
	if sess.Player == nil {
		t.Error("resolved player survives an upstream failure")
	}
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	src := &fakeSource{games: nba.GamesPage{Meta: nba.Meta{TotalPages: 0, CurrentPage: 1}}}
	e, _ := newTestEngine(src)

	out := send(t, e, 1, LabelGames, LabelAllGames, LabelAllTeams, LabelSeason, "2016")
	if !strings.Contains(repliesText(out), msgNothingFound) {
		t.Errorf("empty result should render nothing-found:\n%s", repliesText(out))
	}
}

func TestConcurrentUsersAreIsolated(t *testing.T) {
	src := &fakeSource{players: nba.PlayersPage{
		Data: []nba.Player{{ID: 115, FirstName: "Stephen", LastName: "Curry"}},
		Meta: nba.Meta{TotalCount: 1},
	}}
	e, store := newTestEngine(src)

	done := make(chan struct{}, 2)
	go func() {
		send(t, e, 1, LabelFindPlayer, "Curry")
		done <- struct{}{}
	}()
	go func() {
		send(t, e, 2, LabelGames, LabelAllGames)
		done <- struct{}{}
	}()
	<-done
	<-done

	one := store.Get(1)
	two := store.Get(2)
	one.Lock()
	if one.Player == nil {
		t.Error("user 1 should have a resolved player")
	}
	one.Unlock()
	two.Lock()
	if two.Player != nil {
		t.Error("user 2 must not observe user 1's resolved player")
	}
	if two.Topic != TopicGames {
		t.Errorf("user 2 topic = %q, want games in progress", two.Topic)
	}
	two.Unlock()
}
