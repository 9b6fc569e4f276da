package dialog

import "regexp"

// Button labels shown to the user. The engine matches incoming text against
// these verbatim, so they double as transition triggers.
const (
	LabelTeams        = "Teams"
	LabelGames        = "Games"
	LabelFindPlayer   = "Find a player"
	LabelSeasonStats  = "Season stats"
	LabelPerGameStats = "Per-game stats"
	LabelBack         = "Back"
	LabelHome         = "Home"

	LabelOnlyPlayoffs = "Only playoffs"
	LabelAllGames     = "All games"
	LabelSpecificTeam = "Specific team"
	LabelAllTeams     = "All teams"
	LabelSeason       = "Season"
	LabelTimePeriod   = "Time period"
	LabelSpecificDay  = "Specific day"
	LabelDateRange    = "Date range"
	LabelYes          = "Yes"
	LabelNo           = "No"
)

// Step ids used to tag recorded answers.
const (
	StepPostseason = "postseason"
	StepTeamScope  = "team_scope"
	StepTeamID     = "team_id"
	StepPeriodKind = "period_kind"
	StepSeason     = "season"
	StepDayKind    = "day_kind"
	StepDate       = "date"
	StepDateRange  = "date_range"
	StepKnowGame   = "know_game"
	StepGameID     = "game_id"
	StepPlayerName = "player_name"
)

// Step is one question within a topic. A step with First/Second labels is a
// two-branch choice recording a flag; a step with a Pattern is free-text
// input. When, if set, gates the step on answers already collected.
type Step struct {
	ID      string
	Prompt  string
	First   string
	Second  string
	Pattern *regexp.Regexp
	When    func(Answers) bool
}

// Choice reports whether the step is answered by one of two fixed buttons.
func (s *Step) Choice() bool { return s.First != "" }

// Keyboard returns the reply keyboard rows for the step's prompt.
func (s *Step) Keyboard() [][]string {
	if s.Choice() {
		return [][]string{{s.First, s.Second}, {LabelBack, LabelHome}}
	}
	return [][]string{{LabelBack, LabelHome}}
}

// TopicSpec is a declarative step table. All topics share one engine; the
// variable-length paths come from When guards, not separate code.
type TopicSpec struct {
	Topic Topic
	Steps []Step
	// NeedsPlayer topics refuse to start until a player is resolved.
	NeedsPlayer bool
}

func flagIs(step string, want bool) func(Answers) bool {
	return func(a Answers) bool {
		v, ok := a.Flag(step)
		return ok && v == want
	}
}

func allOf(conds ...func(Answers) bool) func(Answers) bool {
	return func(a Answers) bool {
		for _, c := range conds {
			if !c(a) {
				return false
			}
		}
		return true
	}
}

var gamesSpec = TopicSpec{
	Topic: TopicGames,
	Steps: []Step{
		{
			ID:     StepPostseason,
			Prompt: "Which games are you interested in?",
			First:  LabelOnlyPlayoffs,
			Second: LabelAllGames,
		},
		{
			ID:     StepTeamScope,
			Prompt: "Games of a specific team or the whole league?",
			First:  LabelSpecificTeam,
			Second: LabelAllTeams,
		},
		{
			ID:      StepTeamID,
			Prompt:  "Send the team number from the list above.",
			Pattern: teamIDPattern,
			When:    flagIs(StepTeamScope, true),
		},
		{
			ID:     StepPeriodKind,
			Prompt: "Pick games by season or by time period?",
			First:  LabelSeason,
			Second: LabelTimePeriod,
		},
		{
			ID:      StepSeason,
			Prompt:  "Send the season start year, e.g. 2016.",
			Pattern: seasonPattern,
			When:    flagIs(StepPeriodKind, true),
		},
		{
			ID:     StepDayKind,
			Prompt: "A specific day or a date range?",
			First:  LabelSpecificDay,
			Second: LabelDateRange,
			When:   flagIs(StepPeriodKind, false),
		},
		{
			ID:      StepDate,
			Prompt:  "Send the date as DD-MM-YYYY.",
			Pattern: datePattern,
			When:    allOf(flagIs(StepPeriodKind, false), flagIs(StepDayKind, true)),
		},
		{
			ID:      StepDateRange,
			Prompt:  "Send two dates as DD-MM-YYYY DD-MM-YYYY.",
			Pattern: rangePattern,
			When:    allOf(flagIs(StepPeriodKind, false), flagIs(StepDayKind, false)),
		},
	},
}

var playerSearchSpec = TopicSpec{
	Topic: TopicPlayerSearch,
	Steps: []Step{
		{
			ID:      StepPlayerName,
			Prompt:  "Send the player's name, latin letters only.",
			Pattern: namePattern,
		},
	},
}

var seasonStatsSpec = TopicSpec{
	Topic:       TopicSeasonStats,
	NeedsPlayer: true,
	Steps: []Step{
		{
			ID:      StepSeason,
			Prompt:  "Send the season start year, e.g. 2016.",
			Pattern: seasonPattern,
		},
	},
}

var gameStatsSpec = TopicSpec{
	Topic:       TopicGameStats,
	NeedsPlayer: true,
	Steps: []Step{
		{
			ID:     StepKnowGame,
			Prompt: "Do you know the id of the game?",
			First:  LabelYes,
			Second: LabelNo,
		},
		{
			ID:      StepGameID,
			Prompt:  "Send the game id.",
			Pattern: gameIDPattern,
			When:    flagIs(StepKnowGame, true),
		},
		{
			ID:     StepPostseason,
			Prompt: "Which games are you interested in?",
			First:  LabelOnlyPlayoffs,
			Second: LabelAllGames,
			When:   flagIs(StepKnowGame, false),
		},
		{
			ID:     StepPeriodKind,
			Prompt: "Pick games by season or by time period?",
			First:  LabelSeason,
			Second: LabelTimePeriod,
			When:   flagIs(StepKnowGame, false),
		},
		{
			ID:      StepSeason,
			Prompt:  "Send the season start year, e.g. 2016.",
			Pattern: seasonPattern,
			When:    allOf(flagIs(StepKnowGame, false), flagIs(StepPeriodKind, true)),
		},
		{
			ID:     StepDayKind,
			Prompt: "A specific day or a date range?",
			First:  LabelSpecificDay,
			Second: LabelDateRange,
			When:   allOf(flagIs(StepKnowGame, false), flagIs(StepPeriodKind, false)),
		},
		{
			ID:      StepDate,
			Prompt:  "Send the date as DD-MM-YYYY.",
			Pattern: datePattern,
			When: allOf(flagIs(StepKnowGame, false), flagIs(StepPeriodKind, false),
				flagIs(StepDayKind, true)),
		},
		{
			ID:      StepDateRange,
			Prompt:  "Send two dates as DD-MM-YYYY DD-MM-YYYY.",
			Pattern: rangePattern,
			When: allOf(flagIs(StepKnowGame, false), flagIs(StepPeriodKind, false),
				flagIs(StepDayKind, false)),
		},
	},
}

var topicSpecs = map[Topic]*TopicSpec{
	TopicGames:        &gamesSpec,
	TopicPlayerSearch: &playerSearchSpec,
	TopicSeasonStats:  &seasonStatsSpec,
	TopicGameStats:    &gameStatsSpec,
}

// SpecFor returns the step table for a topic.
func SpecFor(topic Topic) (*TopicSpec, bool) {
	spec, ok := topicSpecs[topic]
	return spec, ok
}

// CurrentStep walks the table and returns the first applicable unanswered
// step, or nil when the topic is complete and ready to execute. Guarded steps
// whose condition does not hold are skipped entirely.
func (t *TopicSpec) CurrentStep(ans Answers) *Step {
	answered := 0
	for i := range t.Steps {
		st := &t.Steps[i]
		if st.When != nil && !st.When(ans) {
			continue
		}
		if answered < len(ans) {
			answered++
			continue
		}
		return st
	}
	return nil
}
