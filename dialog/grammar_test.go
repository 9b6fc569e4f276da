package dialog

import "testing"

func TestTeamIDPattern(t *testing.T) {
	valid := []string{"1", "9", "10", "19", "20", "29", "30"}
	invalid := []string{"0", "31", "007", "-3", "abc", "", "3 0"}
	for _, v := range valid {
		if !teamIDPattern.MatchString(v) {
			t.Errorf("team id %q should match", v)
		}
	}
	for _, v := range invalid {
		if teamIDPattern.MatchString(v) {
			t.Errorf("team id %q should not match", v)
		}
	}
}

func TestSeasonPattern(t *testing.T) {
	if !seasonPattern.MatchString("2016") {
		t.Error("2016 should match")
	}
	for _, v := range []string{"16", "20166", "year", ""} {
		if seasonPattern.MatchString(v) {
			t.Errorf("%q should not match", v)
		}
	}
}

func TestDatePattern(t *testing.T) {
	valid := []string{"01-07-2021", "31-12-1999", "29-02-2020"}
	invalid := []string{"2021-07-01", "32-01-2021", "01-13-2021", "1-7-2021", ""}
	for _, v := range valid {
		if !datePattern.MatchString(v) {
			t.Errorf("date %q should match", v)
		}
	}
	for _, v := range invalid {
		if datePattern.MatchString(v) {
			t.Errorf("date %q should not match", v)
		}
	}
}

func TestNamePattern(t *testing.T) {
	if !namePattern.MatchString("Stephen Curry") {
		t.Error("latin name should match")
	}
	for _, v := range []string{"curry23", "Стефен", ""} {
		if namePattern.MatchString(v) {
			t.Errorf("%q should not match", v)
		}
	}
}

func TestRangeValidation(t *testing.T) {
	st := &Step{ID: StepDateRange, Pattern: rangePattern}

	if !ValidAnswer(st, "01-07-2021 15-07-2021") {
		t.Error("ordered range should validate")
	}
	if !ValidAnswer(st, "01-07-2021 01-07-2021") {
		t.Error("same-day range should validate")
	}
	// End before start must be rejected at validation, never sent upstream.
	if ValidAnswer(st, "15-07-2021 01-07-2021") {
		t.Error("reversed range should be rejected")
	}
	if ValidAnswer(st, "01-07-2021") {
		t.Error("single date is not a range")
	}
}

func TestWireDate(t *testing.T) {
	got, err := WireDate("01-07-2021")
	if err != nil {
		t.Fatalf("WireDate: %v", err)
	}
	if got != "2021-07-01" {
		t.Errorf("WireDate = %q, want 2021-07-01", got)
	}
}
