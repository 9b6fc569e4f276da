package dialog

import "testing"

func flagAnswer(step string, v bool) Answer { return Answer{Step: step, Flag: v, IsFlag: true} }
func textAnswer(step, v string) Answer      { return Answer{Step: step, Text: v} }

func TestBuildGamesQuerySeason(t *testing.T) {
	ans := Answers{
		flagAnswer(StepPostseason, false),
		flagAnswer(StepTeamScope, false),
		flagAnswer(StepPeriodKind, true),
		textAnswer(StepSeason, "2016"),
	}
	q, err := BuildGamesQuery(ans)
	if err != nil {
		t.Fatalf("BuildGamesQuery: %v", err)
	}
	if q.Postseason == nil || *q.Postseason {
		t.Error("postseason should be explicit false")
	}
	if len(q.TeamIDs) != 0 {
		t.Errorf("team ids = %v, want none", q.TeamIDs)
	}
	if len(q.Seasons) != 1 || q.Seasons[0] != 2016 {
		t.Errorf("seasons = %v, want [2016]", q.Seasons)
	}
	if len(q.Dates) != 0 || q.StartDate != "" || q.EndDate != "" {
		t.Error("season and date filters are mutually exclusive")
	}
}

func TestBuildGamesQuerySingleDay(t *testing.T) {
	ans := Answers{
		flagAnswer(StepPostseason, false),
		flagAnswer(StepTeamScope, true),
		textAnswer(StepTeamID, "7"),
		flagAnswer(StepPeriodKind, false),
		flagAnswer(StepDayKind, true),
		textAnswer(StepDate, "01-07-2021"),
	}
	q, err := BuildGamesQuery(ans)
	if err != nil {
		t.Fatalf("BuildGamesQuery: %v", err)
	}
	if len(q.TeamIDs) != 1 || q.TeamIDs[0] != 7 {
		t.Errorf("team ids = %v, want [7]", q.TeamIDs)
	}
	// User types DD-MM-YYYY, the wire speaks YYYY-MM-DD.
	if len(q.Dates) != 1 || q.Dates[0] != "2021-07-01" {
		t.Errorf("dates = %v, want [2021-07-01]", q.Dates)
	}
	if len(q.Seasons) != 0 {
		t.Error("season filter must be absent on the date branch")
	}
}

func TestBuildGamesQueryRange(t *testing.T) {
	ans := Answers{
		flagAnswer(StepPostseason, true),
		flagAnswer(StepTeamScope, false),
		flagAnswer(StepPeriodKind, false),
		flagAnswer(StepDayKind, false),
		textAnswer(StepDateRange, "01-10-2018 31-10-2018"),
	}
	q, err := BuildGamesQuery(ans)
	if err != nil {
		t.Fatalf("BuildGamesQuery: %v", err)
	}
	if q.Postseason == nil || !*q.Postseason {
		t.Error("postseason should be true")
	}
	if q.StartDate != "2018-10-01" || q.EndDate != "2018-10-31" {
		t.Errorf("range = %q..%q, both ends must convert independently", q.StartDate, q.EndDate)
	}
}

func TestBuildStatsQueryKnownGame(t *testing.T) {
	ans := Answers{
		flagAnswer(StepKnowGame, true),
		textAnswer(StepGameID, "48900"),
	}
	q, err := BuildStatsQuery(ans, 115)
	if err != nil {
		t.Fatalf("BuildStatsQuery: %v", err)
	}
	if len(q.PlayerIDs) != 1 || q.PlayerIDs[0] != 115 {
		t.Errorf("player ids = %v, want [115]", q.PlayerIDs)
	}
	if len(q.GameIDs) != 1 || q.GameIDs[0] != 48900 {
		t.Errorf("game ids = %v, want [48900]", q.GameIDs)
	}
	if q.Postseason != nil || len(q.Seasons) != 0 {
		t.Error("known game id must not carry extra filters")
	}
}

func TestBuildStatsQuerySeasonBranch(t *testing.T) {
	ans := Answers{
		flagAnswer(StepKnowGame, false),
		flagAnswer(StepPostseason, false),
		flagAnswer(StepPeriodKind, true),
		textAnswer(StepSeason, "2018"),
	}
	q, err := BuildStatsQuery(ans, 115)
	if err != nil {
		t.Fatalf("BuildStatsQuery: %v", err)
	}
	if len(q.Seasons) != 1 || q.Seasons[0] != 2018 {
		t.Errorf("seasons = %v, want [2018]", q.Seasons)
	}
	if len(q.GameIDs) != 0 {
		t.Error("no game ids expected on the filter branch")
	}
}
