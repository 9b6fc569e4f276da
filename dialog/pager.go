package dialog

import (
	"errors"

	"github.com/m3rciful/courtbot/nba"
)

// Direction selects a pagination move.
type Direction int

const (
	// Previous pages backwards.
	Previous Direction = iota
	// Next pages forwards.
	Next
)

// ErrNoSuchPage is returned for a move outside [1, pages]. The caller answers
// the press instead of silently clamping.
var ErrNoSuchPage = errors.New("dialog: no such page")

// Bookmark remembers the query behind the last result set so paging is
// resumable per user. One exists only when the result had more than one page.
type Bookmark struct {
	Topic Topic
	Games nba.GamesQuery
	Stats nba.StatsQuery
	Page  int
	Pages int
}

// NavState tells the bot layer which pagination buttons to show.
type NavState struct {
	ShowPrev bool
	ShowNext bool
}

// OpenBookmark records a bookmark for a multi-page result, or returns nil
// when everything fit on one page.
func OpenBookmark(topic Topic, gamesQ nba.GamesQuery, statsQ nba.StatsQuery, meta nba.Meta) *Bookmark {
	if meta.TotalPages <= 1 {
		return nil
	}
	page := meta.CurrentPage
	if page < 1 {
		page = 1
	}
	return &Bookmark{
		Topic: topic,
		Games: gamesQ,
		Stats: statsQ,
		Page:  page,
		Pages: meta.TotalPages,
	}
}

// Target computes the page a move lands on, or ErrNoSuchPage at the edges.
func (b *Bookmark) Target(dir Direction) (int, error) {
	page := b.Page
	switch dir {
	case Next:
		page++
	case Previous:
		page--
	}
	if page < 1 || page > b.Pages {
		return 0, ErrNoSuchPage
	}
	return page, nil
}

// Nav reflects the bookmark position: both buttons in the middle, one at each
// edge.
func (b *Bookmark) Nav() NavState {
	return NavState{
		ShowPrev: b.Page > 1,
		ShowNext: b.Page < b.Pages,
	}
}
