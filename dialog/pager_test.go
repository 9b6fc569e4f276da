package dialog

import (
	"errors"
	"testing"

	"github.com/m3rciful/courtbot/nba"
)

func TestOpenBookmarkSinglePage(t *testing.T) {
	book := OpenBookmark(TopicGames, nba.GamesQuery{}, nba.StatsQuery{}, nba.Meta{TotalPages: 1, CurrentPage: 1})
	if book != nil {
		t.Error("single-page results need no bookmark")
	}
}

func TestTargetBounds(t *testing.T) {
	book := &Bookmark{Page: 1, Pages: 3}

	if _, err := book.Target(Previous); !errors.Is(err, ErrNoSuchPage) {
		t.Error("previous from page 1 must be rejected")
	}

	page, err := book.Target(Next)
	if err != nil || page != 2 {
		t.Errorf("next from 1 = (%d, %v), want (2, nil)", page, err)
	}

	book.Page = 3
	if _, err := book.Target(Next); !errors.Is(err, ErrNoSuchPage) {
		t.Error("next from the last page must be rejected")
	}
}

func TestTargetRoundTrip(t *testing.T) {
	book := &Bookmark{Page: 2, Pages: 5}

	prev, err := book.Target(Previous)
	if err != nil {
		t.Fatalf("previous: %v", err)
	}
	book.Page = prev
	next, err := book.Target(Next)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != 2 {
		t.Errorf("previous then next should return to page 2, got %d", next)
	}
}

func TestNavReflectsPosition(t *testing.T) {
	tests := []struct {
		page, pages        int
		wantPrev, wantNext bool
	}{
		{1, 3, false, true},
		{2, 3, true, true},
		{3, 3, true, false},
	}
	for _, tt := range tests {
		b := &Bookmark{Page: tt.page, Pages: tt.pages}
		nav := b.Nav()
		if nav.ShowPrev != tt.wantPrev || nav.ShowNext != tt.wantNext {
			t.Errorf("page %d/%d nav = %+v", tt.page, tt.pages, nav)
		}
	}
}
