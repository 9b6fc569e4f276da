package dialog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/courtbot/nba"
)

// BuildGamesQuery maps a completed Games answer list to API filter
// parameters. Pure and deterministic; dates are reformatted from the user's
// DD-MM-YYYY to the YYYY-MM-DD wire form.
func BuildGamesQuery(ans Answers) (nba.GamesQuery, error) {
	var q nba.GamesQuery

	if post, ok := ans.Flag(StepPostseason); ok {
		v := post
		q.Postseason = &v
	}

	if wantTeam, _ := ans.Flag(StepTeamScope); wantTeam {
		raw, ok := ans.Text(StepTeamID)
		if !ok {
			return q, fmt.Errorf("dialog: team id answer missing")
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, fmt.Errorf("dialog: bad team id %q: %w", raw, err)
		}
		q.TeamIDs = []int64{id}
	}

	seasons, dates, start, end, err := periodFilters(ans)
	if err != nil {
		return q, err
	}
	q.Seasons = seasons
	q.Dates = dates
	q.StartDate = start
	q.EndDate = end
	return q, nil
}

// BuildStatsQuery maps a completed per-game stats answer list, threading the
// resolved player id and the optional specific game id.
func BuildStatsQuery(ans Answers, playerID int64) (nba.StatsQuery, error) {
	q := nba.StatsQuery{PlayerIDs: []int64{playerID}}

	if knowGame, _ := ans.Flag(StepKnowGame); knowGame {
		raw, ok := ans.Text(StepGameID)
		if !ok {
			return q, fmt.Errorf("dialog: game id answer missing")
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, fmt.Errorf("dialog: bad game id %q: %w", raw, err)
		}
		q.GameIDs = []int64{id}
		return q, nil
	}

	if post, ok := ans.Flag(StepPostseason); ok {
		v := post
		q.Postseason = &v
	}

	seasons, dates, start, end, err := periodFilters(ans)
	if err != nil {
		return q, err
	}
	q.Seasons = seasons
	q.Dates = dates
	q.StartDate = start
	q.EndDate = end
	return q, nil
}

// periodFilters resolves the season-or-dates branch shared by games and
// per-game stats. Season and date filters are mutually exclusive by the
// branch taken.
func periodFilters(ans Answers) (seasons []int, dates []string, start, end string, err error) {
	bySeason, ok := ans.Flag(StepPeriodKind)
	if !ok {
		return nil, nil, "", "", nil
	}

	if bySeason {
		raw, ok := ans.Text(StepSeason)
		if !ok {
			return nil, nil, "", "", fmt.Errorf("dialog: season answer missing")
		}
		year, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return nil, nil, "", "", fmt.Errorf("dialog: bad season %q: %w", raw, convErr)
		}
		return []int{year}, nil, "", "", nil
	}

	if singleDay, _ := ans.Flag(StepDayKind); singleDay {
		raw, ok := ans.Text(StepDate)
		if !ok {
			return nil, nil, "", "", fmt.Errorf("dialog: date answer missing")
		}
		wire, convErr := WireDate(raw)
		if convErr != nil {
			return nil, nil, "", "", fmt.Errorf("dialog: bad date %q: %w", raw, convErr)
		}
		return nil, []string{wire}, "", "", nil
	}

	raw, ok := ans.Text(StepDateRange)
	if !ok {
		return nil, nil, "", "", fmt.Errorf("dialog: date range answer missing")
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return nil, nil, "", "", fmt.Errorf("dialog: bad date range %q", raw)
	}
	start, err = WireDate(parts[0])
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("dialog: bad range start %q: %w", parts[0], err)
	}
	end, err = WireDate(parts[1])
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("dialog: bad range end %q: %w", parts[1], err)
	}
	return nil, nil, start, end, nil
}

// SeasonYear extracts the season answer for the season-averages topic.
func SeasonYear(ans Answers) (int, error) {
	raw, ok := ans.Text(StepSeason)
	if !ok {
		return 0, fmt.Errorf("dialog: season answer missing")
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("dialog: bad season %q: %w", raw, err)
	}
	return year, nil
}
