package presenter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/m3rciful/courtbot/core/telegram/format"
	"github.com/m3rciful/courtbot/dialog"
	"github.com/m3rciful/courtbot/nba"
)

// Unit coefficients for converting the API's imperial measures.
const (
	footCm  = 30.48
	inchCm  = 2.54
	poundKg = 0.45
	// Shooting and win percentages arrive as fractions in [0, 1].
	pctScale = 100
)

// Presenter renders raw API records into chat display text.
type Presenter struct{}

// New builds a Presenter.
func New() *Presenter { return &Presenter{} }

// Player renders a full player card.
func (p *Presenter) Player(pl nba.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", pl.FirstName, pl.LastName)
	fmt.Fprintf(&b, "Team: %s\n", pl.Team.FullName)
	position := pl.Position
	if position == "" {
		position = "unknown"
	}
	fmt.Fprintf(&b, "Position: %s\n", position)
	b.WriteString("Height: " + heightCm(pl) + "\n")
	b.WriteString("Weight: " + weightKg(pl))
	return b.String()
}

// PlayerLine renders a brief one-line entry for search result lists.
func (p *Presenter) PlayerLine(pl nba.Player) string {
	line := fmt.Sprintf("%s %s", pl.FirstName, pl.LastName)
	if pl.Team.FullName != "" {
		line += ", " + pl.Team.FullName
	}
	if pl.Position != "" {
		line += " (" + pl.Position + ")"
	}
	return line
}

// TeamBrief renders the numbered one-line entry used in the team list.
func (p *Presenter) TeamBrief(t nba.Team) string {
	return fmt.Sprintf("%d. %s (%s)", t.ID, t.FullName, t.Abbreviation)
}

// TeamFull renders a full franchise card.
func (p *Presenter) TeamFull(t nba.Team) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", t.FullName, t.Abbreviation)
	fmt.Fprintf(&b, "City: %s\n", t.City)
	fmt.Fprintf(&b, "Conference: %s\n", t.Conference)
	fmt.Fprintf(&b, "Division: %s", t.Division)
	return b.String()
}

// Game renders one game with score, season label and status.
func (p *Presenter) Game(g nba.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", displayDate(g.Date))
	fmt.Fprintf(&b, "%s %d : %d %s\n",
		g.HomeTeam.FullName, g.HomeTeamScore, g.VisitorTeamScore, g.VisitorTeam.FullName)
	fmt.Fprintf(&b, "Season: %s\n", SeasonLabel(g.Season))
	b.WriteString(gameStatus(g))
	return b.String()
}

// GameStats renders one box score line for the resolved player.
func (p *Presenter) GameStats(s nba.StatLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s, %s\n", s.Player.FirstName, s.Player.LastName, displayDate(s.Game.Date))
	fmt.Fprintf(&b, "Game id %d, season %s\n", s.Game.ID, SeasonLabel(s.Game.Season))
	minutes := s.Min
	if minutes == "" {
		minutes = "0"
	}
	fmt.Fprintf(&b, "Minutes: %s\n", minutes)
	fmt.Fprintf(&b, "Points: %d, rebounds: %d, assists: %d\n", s.Pts, s.Reb, s.Ast)
	fmt.Fprintf(&b, "Steals: %d, blocks: %d, turnovers: %d\n", s.Stl, s.Blk, s.Turnover)
	fmt.Fprintf(&b, "Field goals: %d/%d (%s)\n", s.Fgm, s.Fga, pct(s.FgPct))
	fmt.Fprintf(&b, "Three-pointers: %d/%d (%s)\n", s.Fg3m, s.Fg3a, pct(s.Fg3Pct))
	fmt.Fprintf(&b, "Free throws: %d/%d (%s)", s.Ftm, s.Fta, pct(s.FtPct))
	return b.String()
}

// SeasonStats renders a season-averages card.
func (p *Presenter) SeasonStats(a nba.SeasonAverage, pl dialog.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s, season %s\n", pl.FirstName, pl.LastName, SeasonLabel(a.Season))
	fmt.Fprintf(&b, "Games played: %d\n", a.GamesPlayed)
	fmt.Fprintf(&b, "Minutes per game: %s\n", a.Min)
	fmt.Fprintf(&b, "Points: %.1f, rebounds: %.1f, assists: %.1f\n", a.Pts, a.Reb, a.Ast)
	fmt.Fprintf(&b, "Steals: %.1f, blocks: %.1f, turnovers: %.1f\n", a.Stl, a.Blk, a.Turnover)
	fmt.Fprintf(&b, "Field goals: %s, three-pointers: %s, free throws: %s",
		pct(a.FgPct), pct(a.Fg3Pct), pct(a.FtPct))
	return b.String()
}

// SeasonLabel renders the API's start year as the span users expect,
// e.g. 2016 becomes "2016-2017".
func SeasonLabel(start int) string {
	return fmt.Sprintf("%d-%d", start, start+1)
}

func pct(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*pctScale)
}

func heightCm(pl nba.Player) string {
	if pl.HeightFeet == nil {
		return "unknown"
	}
	cm := float64(*pl.HeightFeet)*footCm + float64(format.DerefInt(pl.HeightInches, 0))*inchCm
	return fmt.Sprintf("%d cm", int(math.Round(cm)))
}

func weightKg(pl nba.Player) string {
	if pl.WeightPounds == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d kg", int(math.Round(float64(*pl.WeightPounds)*poundKg)))
}

// displayDate converts the API's ISO date to the DD-MM-YYYY form users see
// and type everywhere else in the dialogue.
func displayDate(wire string) string {
	if len(wire) < 10 {
		return wire
	}
	t, err := time.Parse("2006-01-02", wire[:10])
	if err != nil {
		return wire
	}
	return t.Format("02-01-2006")
}

func gameStatus(g nba.Game) string {
	switch {
	case g.Status == "Final":
		return "Final"
	case strings.Contains(g.Status, "Halftime"):
		return "Halftime"
	case g.Period > 0:
		if g.Time != "" {
			return fmt.Sprintf("Q%d %s", g.Period, g.Time)
		}
		return fmt.Sprintf("Q%d", g.Period)
	default:
		return "Tip-off: " + g.Status
	}
}
