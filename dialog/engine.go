package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/courtbot/core/logger"
	"github.com/m3rciful/courtbot/nba"
	"log/slog"
)

// StatsSource is the upstream statistics API as the engine needs it.
type StatsSource interface {
	SearchPlayers(ctx context.Context, query string, page, perPage int) (nba.PlayersPage, error)
	Games(ctx context.Context, q nba.GamesQuery) (nba.GamesPage, error)
	Stats(ctx context.Context, q nba.StatsQuery) (nba.StatsPage, error)
	SeasonAverages(ctx context.Context, season int, playerID int64) (*nba.SeasonAverage, error)
}

// TeamDirectory serves the cached league roster.
type TeamDirectory interface {
	All(ctx context.Context) ([]nba.Team, error)
	ByID(ctx context.Context, id int64) (nba.Team, bool, error)
}

// Renderer turns raw records into display text.
type Renderer interface {
	Player(p nba.Player) string
	PlayerLine(p nba.Player) string
	TeamBrief(t nba.Team) string
	Game(g nba.Game) string
	GameStats(s nba.StatLine) string
	SeasonStats(a nba.SeasonAverage, p Player) string
}

// PlayerButton is an inline pick offered for a multi-match search.
type PlayerButton struct {
	ID    int64
	Label string
}

// Reply is one outbound message decided by the engine. The bot layer turns
// it into transport sends; keeping it plain data keeps the engine testable.
type Reply struct {
	Text     string
	Keyboard [][]string
	Nav      *NavState
	Players  []PlayerButton
}

// User-facing texts.
const (
	msgChooseTopic     = "What would you like to look at?"
	msgBackToStart     = "Back to the start."
	msgSomethingWrong  = "Something went wrong, try again later."
	msgNothingFound    = "Nothing found, try different filters."
	msgRefineSearch    = "Nothing found, refine your search."
	msgNarrowSearch    = "Too many matches, please narrow your search."
	msgSeveralMatch    = "Several players match, pick one or refine your search:"
	msgUnknownInput    = "Use the menu buttons below."
	msgFindPlayerFirst = "Find a player first, then ask for stats."
	msgPickExpired     = "That pick is no longer available, search again."
	msgNoSeasonGames   = "No games played that season."
	msgNoPaging        = "Nothing to page through."
	msgRetryPrefix     = "That doesn't look right. "
	msgWhatNext        = "What next?"
)

// Engine drives the dialogue state machine for every user.
type Engine struct {
	store         *Store
	source        StatsSource
	teams         TeamDirectory
	render        Renderer
	searchPerPage int
}

// NewEngine wires the engine with its collaborators.
func NewEngine(store *Store, source StatsSource, teams TeamDirectory, render Renderer, searchPerPage int) *Engine {
	if searchPerPage <= 0 {
		searchPerPage = 25
	}
	return &Engine{
		store:         store,
		source:        source,
		teams:         teams,
		render:        render,
		searchPerPage: searchPerPage,
	}
}

// InProgress reports whether the user has an active dialogue.
func (e *Engine) InProgress(userID int64) bool {
	sess := e.store.Get(userID)
	sess.Lock()
	defer sess.Unlock()
	return sess.Topic != TopicNone
}

// HeadMenu returns the top-level menu for a user. The stats rows appear once
// a player has been resolved.
func (e *Engine) HeadMenu(userID int64) Reply {
	sess := e.store.Get(userID)
	sess.Lock()
	defer sess.Unlock()
	return Reply{Text: msgChooseTopic, Keyboard: headRows(sess)}
}

// HandleText processes one incoming text turn for a user. The returned error
// is an upstream failure the caller should log and alert on; user-facing
// replies are complete either way.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) ([]Reply, error) {
	sess := e.store.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	text = strings.TrimSpace(text)
	switch text {
	case LabelHome:
		sess.Clear()
		return []Reply{{Text: msgBackToStart, Keyboard: headRows(sess)}}, nil
	case LabelBack:
		return e.handleBack(ctx, sess)
	}

	if sess.Topic == TopicNone {
		return e.handleMenu(ctx, sess, text)
	}
	return e.handleStep(ctx, sess, text)
}

// Advance flips the user's pagination bookmark one page and re-issues the
// remembered query. Moves outside the page range return ErrNoSuchPage.
func (e *Engine) Advance(ctx context.Context, userID int64, dir Direction) ([]Reply, error) {
	sess := e.store.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	book := sess.Book
	if book == nil {
		return []Reply{{Text: msgNoPaging}}, nil
	}
	page, err := book.Target(dir)
	if err != nil {
		return nil, err
	}

	switch book.Topic {
	case TopicGames:
		q := book.Games
		q.Page = page
		res, err := e.source.Games(ctx, q)
		if err != nil {
			return e.upstreamFailure(sess, err)
		}
		book.Page = page
		if res.Meta.TotalPages > 0 {
			book.Pages = res.Meta.TotalPages
		}
		return []Reply{e.pagedReply(renderGames(e.render, res.Data), book)}, nil
	case TopicGameStats:
		q := book.Stats
		q.Page = page
		res, err := e.source.Stats(ctx, q)
		if err != nil {
			return e.upstreamFailure(sess, err)
		}
		book.Page = page
		if res.Meta.TotalPages > 0 {
			book.Pages = res.Meta.TotalPages
		}
		return []Reply{e.pagedReply(renderStats(e.render, res.Data), book)}, nil
	}
	return []Reply{{Text: msgNoPaging}}, nil
}

// PickPlayer resolves a player from the last multi-match search list.
func (e *Engine) PickPlayer(ctx context.Context, userID, playerID int64) ([]Reply, error) {
	sess := e.store.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	for _, p := range sess.Candidates {
		if p.ID == playerID {
			sess.Player = &Player{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName}
			sess.Finish(nil)
			logger.Info(ctx, "dialog", "player.resolved",
				slog.Int64("user_id", userID),
				slog.Int64("player_id", p.ID),
			)
			return []Reply{
				{Text: e.render.Player(p)},
				{Text: msgWhatNext, Keyboard: headRows(sess)},
			}, nil
		}
	}
	return []Reply{{Text: msgPickExpired, Keyboard: headRows(sess)}}, nil
}

func (e *Engine) handleMenu(ctx context.Context, sess *Session, text string) ([]Reply, error) {
	switch text {
	case LabelTeams:
		return e.renderTeams(ctx, sess)
	case LabelGames:
		return e.startTopic(ctx, sess, TopicGames)
	case LabelFindPlayer:
		return e.startTopic(ctx, sess, TopicPlayerSearch)
	case LabelSeasonStats:
		return e.startTopic(ctx, sess, TopicSeasonStats)
	case LabelPerGameStats:
		return e.startTopic(ctx, sess, TopicGameStats)
	}
	return []Reply{{Text: msgUnknownInput, Keyboard: headRows(sess)}}, nil
}

func (e *Engine) startTopic(ctx context.Context, sess *Session, topic Topic) ([]Reply, error) {
	spec, ok := SpecFor(topic)
	if !ok {
		return []Reply{{Text: msgUnknownInput, Keyboard: headRows(sess)}}, nil
	}
	if spec.NeedsPlayer && sess.Player == nil {
		return []Reply{{Text: msgFindPlayerFirst, Keyboard: headRows(sess)}}, nil
	}
	sess.Start(topic)
	return e.prompt(ctx, sess, spec.CurrentStep(sess.Answers), "")
}

func (e *Engine) handleBack(ctx context.Context, sess *Session) ([]Reply, error) {
	if sess.Topic == TopicNone {
		return []Reply{{Text: msgChooseTopic, Keyboard: headRows(sess)}}, nil
	}
	if cleared := sess.PopOrClear(); cleared {
		return []Reply{{Text: msgBackToStart, Keyboard: headRows(sess)}}, nil
	}
	spec, _ := SpecFor(sess.Topic)
	return e.prompt(ctx, sess, spec.CurrentStep(sess.Answers), "")
}

func (e *Engine) handleStep(ctx context.Context, sess *Session, text string) ([]Reply, error) {
	spec, ok := SpecFor(sess.Topic)
	if !ok {
		sess.ResetToHome()
		return []Reply{{Text: msgChooseTopic, Keyboard: headRows(sess)}}, nil
	}
	st := spec.CurrentStep(sess.Answers)
	if st == nil {
		sess.ResetToHome()
		return []Reply{{Text: msgChooseTopic, Keyboard: headRows(sess)}}, nil
	}

	if st.Choice() {
		switch text {
		case st.First:
			sess.Push(Answer{Step: st.ID, Flag: true, IsFlag: true})
		case st.Second:
			sess.Push(Answer{Step: st.ID, Flag: false, IsFlag: true})
		default:
			return e.prompt(ctx, sess, st, msgRetryPrefix)
		}
	} else {
		if !ValidAnswer(st, text) {
			return e.prompt(ctx, sess, st, msgRetryPrefix)
		}
		sess.Push(Answer{Step: st.ID, Text: text})
	}

	echo := e.echoTeam(ctx, st, text)
	if next := spec.CurrentStep(sess.Answers); next != nil {
		replies, err := e.prompt(ctx, sess, next, "")
		return append(echo, replies...), err
	}
	replies, err := e.execute(ctx, sess)
	return append(echo, replies...), err
}

// echoTeam confirms an accepted team id with the franchise it names. A cache
// miss skips the echo; the id itself was already validated.
func (e *Engine) echoTeam(ctx context.Context, st *Step, text string) []Reply {
	if st.ID != StepTeamID || st.Choice() {
		return nil
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil
	}
	team, ok, err := e.teams.ByID(ctx, id)
	if err != nil || !ok {
		return nil
	}
	return []Reply{{Text: e.render.TeamBrief(team)}}
}

// prompt emits the question for a step. Asking for a team id is preceded by
// the numbered team list the answer refers to.
func (e *Engine) prompt(ctx context.Context, sess *Session, st *Step, prefix string) ([]Reply, error) {
	var replies []Reply
	if st.ID == StepTeamID && prefix == "" {
		teams, err := e.teams.All(ctx)
		if err != nil {
			return e.upstreamFailure(sess, err)
		}
		replies = append(replies, Reply{Text: renderTeamList(e.render, teams)})
	}
	replies = append(replies, Reply{Text: prefix + st.Prompt, Keyboard: st.Keyboard()})
	return replies, nil
}

func (e *Engine) execute(ctx context.Context, sess *Session) ([]Reply, error) {
	topic := sess.Topic
	logger.Debug(ctx, "dialog", "topic.execute",
		slog.String("topic", string(topic)),
		slog.Int("count", len(sess.Answers)),
	)

	switch topic {
	case TopicGames:
		return e.executeGames(ctx, sess)
	case TopicPlayerSearch:
		return e.executeSearch(ctx, sess)
	case TopicSeasonStats:
		return e.executeSeasonStats(ctx, sess)
	case TopicGameStats:
		return e.executeGameStats(ctx, sess)
	}
	sess.ResetToHome()
	return []Reply{{Text: msgChooseTopic, Keyboard: headRows(sess)}}, nil
}

func (e *Engine) executeGames(ctx context.Context, sess *Session) ([]Reply, error) {
	q, err := BuildGamesQuery(sess.Answers)
	if err != nil {
		return e.upstreamFailure(sess, err)
	}
	res, err := e.source.Games(ctx, q)
	if err != nil {
		return e.upstreamFailure(sess, err)
	}
	if len(res.Data) == 0 {
		sess.Finish(nil)
		return []Reply{{Text: msgNothingFound, Keyboard: headRows(sess)}}, nil
	}
	book := OpenBookmark(TopicGames, q, nba.StatsQuery{}, res.Meta)
	sess.Finish(book)
	return []Reply{e.pagedReplyWithKeyboard(renderGames(e.render, res.Data), book, headRows(sess))}, nil
}

func (e *Engine) executeGameStats(ctx context.Context, sess *Session) ([]Reply, error) {
	if sess.Player == nil {
		sess.ResetToHome()
		return []Reply{{Text: msgFindPlayerFirst, Keyboard: headRows(sess)}}, nil
	}
	q, err := BuildStatsQuery(sess.Answers, sess.Player.ID)
	if err != nil {
		return e.upstreamFailure(sess, err)
	}
	res, err := e.source.Stats(ctx, q)
	if err != nil {
		return e.upstreamFailure(sess, err)
	}
	if len(res.Data) == 0 {
		sess.Finish(nil)
		return []Reply{{Text: msgNothingFound, Keyboard: headRows(sess)}}, nil
	}
	book := OpenBookmark(TopicGameStats, nba.GamesQuery{}, q, res.Meta)
	sess.Finish(book)
	return []Reply{e.pagedReplyWithKeyboard(renderStats(e.render, res.Data), book, headRows(sess))}, nil
}

func (e *Engine) executeSeasonStats(ctx context.Context, sess *Session) ([]Reply, error) {
	if sess.Player == nil {
		sess.ResetToHome()
		return []Reply{{Text: msgFindPlayerFirst, Keyboard: headRows(sess)}}, nil
	}
	year, err := SeasonYear(sess.Answers)
	if err != nil {
		return e.upstreamFailure(sess, err)
	}
	avg, err := e.source.SeasonAverages(ctx, year, sess.Player.ID)
	if err != nil {
		return e.upstreamFailure(sess, err)
	}
	player := *sess.Player
	sess.Finish(nil)
	if avg == nil {
		return []Reply{{Text: msgNoSeasonGames, Keyboard: headRows(sess)}}, nil
	}
	return []Reply{{Text: e.render.SeasonStats(*avg, player), Keyboard: headRows(sess)}}, nil
}

func (e *Engine) executeSearch(ctx context.Context, sess *Session) ([]Reply, error) {
	name, _ := sess.Answers.Text(StepPlayerName)
	res, err := e.source.SearchPlayers(ctx, name, 1, e.searchPerPage)
	if err != nil {
		return e.upstreamFailure(sess, err)
	}

	total := res.Meta.TotalCount
	switch {
	case total == 0:
		// Topic stays active awaiting another name.
		sess.Start(TopicPlayerSearch)
		return []Reply{{Text: msgRefineSearch, Keyboard: backHomeRows()}}, nil
	case total > e.searchPerPage:
		sess.Start(TopicPlayerSearch)
		return []Reply{{Text: msgNarrowSearch, Keyboard: backHomeRows()}}, nil
	case total == 1:
		p := res.Data[0]
		sess.Player = &Player{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName}
		sess.Finish(nil)
		logger.Info(ctx, "dialog", "player.resolved",
			slog.Int64("player_id", p.ID),
		)
		return []Reply{
			{Text: e.render.Player(p)},
			{Text: msgWhatNext, Keyboard: headRows(sess)},
		}, nil
	}

	// A handful of matches: list them and offer inline picks.
	sess.Start(TopicPlayerSearch)
	sess.Candidates = res.Data
	var b strings.Builder
	b.WriteString(msgSeveralMatch)
	buttons := make([]PlayerButton, 0, len(res.Data))
	for _, p := range res.Data {
		b.WriteString("\n")
		b.WriteString(e.render.PlayerLine(p))
		buttons = append(buttons, PlayerButton{
			ID:    p.ID,
			Label: fmt.Sprintf("%s %s", p.FirstName, p.LastName),
		})
	}
	return []Reply{{Text: b.String(), Keyboard: backHomeRows(), Players: buttons}}, nil
}

func (e *Engine) renderTeams(ctx context.Context, sess *Session) ([]Reply, error) {
	teams, err := e.teams.All(ctx)
	if err != nil {
		return e.upstreamFailure(sess, err)
	}
	return []Reply{{Text: renderTeamList(e.render, teams), Keyboard: headRows(sess)}}, nil
}

// upstreamFailure resets the dialogue to the head menu, keeps the resolved
// player, and propagates the error so the bot layer can log and alert.
func (e *Engine) upstreamFailure(sess *Session, err error) ([]Reply, error) {
	sess.ResetToHome()
	return []Reply{{Text: msgSomethingWrong, Keyboard: headRows(sess)}}, err
}

func (e *Engine) pagedReply(text string, book *Bookmark) Reply {
	r := Reply{Text: text}
	if book != nil {
		nav := book.Nav()
		r.Nav = &nav
	}
	return r
}

func (e *Engine) pagedReplyWithKeyboard(text string, book *Bookmark, rows [][]string) Reply {
	r := e.pagedReply(text, book)
	r.Keyboard = rows
	return r
}

func headRows(sess *Session) [][]string {
	rows := [][]string{
		{LabelTeams, LabelGames},
		{LabelFindPlayer},
	}
	if sess.Player != nil {
		rows = append(rows, []string{LabelSeasonStats, LabelPerGameStats})
	}
	return rows
}

func backHomeRows() [][]string {
	return [][]string{{LabelBack, LabelHome}}
}

func renderGames(r Renderer, games []nba.Game) string {
	parts := make([]string, 0, len(games))
	for _, g := range games {
		parts = append(parts, r.Game(g))
	}
	return strings.Join(parts, "\n\n")
}

func renderStats(r Renderer, stats []nba.StatLine) string {
	parts := make([]string, 0, len(stats))
	for _, s := range stats {
		parts = append(parts, r.GameStats(s))
	}
	return strings.Join(parts, "\n\n")
}

func renderTeamList(r Renderer, teams []nba.Team) string {
	parts := make([]string, 0, len(teams))
	for _, t := range teams {
		parts = append(parts, r.TeamBrief(t))
	}
	return strings.Join(parts, "\n")
}
