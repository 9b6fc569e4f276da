package nba

// Team describes an NBA franchise as served by the stats API.
type Team struct {
	ID           int64  `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

// Player describes a player profile. Physical attributes are frequently
// missing upstream, hence the pointers.
type Player struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	HeightFeet   *int   `json:"height_feet"`
	HeightInches *int   `json:"height_inches"`
	WeightPounds *int   `json:"weight_pounds"`
	Team         Team   `json:"team"`
}

// Game is a single scheduled or finished game.
type Game struct {
	ID               int64  `json:"id"`
	Date             string `json:"date"`
	HomeTeam         Team   `json:"home_team"`
	HomeTeamScore    int    `json:"home_team_score"`
	VisitorTeam      Team   `json:"visitor_team"`
	VisitorTeamScore int    `json:"visitor_team_score"`
	Season           int    `json:"season"`
	Period           int    `json:"period"`
	Status           string `json:"status"`
	Time             string `json:"time"`
	Postseason       bool   `json:"postseason"`
}

// GameRef is the trimmed game object embedded in a stat line.
type GameRef struct {
	ID               int64  `json:"id"`
	Date             string `json:"date"`
	HomeTeamID       int64  `json:"home_team_id"`
	HomeTeamScore    int    `json:"home_team_score"`
	VisitorTeamID    int64  `json:"visitor_team_id"`
	VisitorTeamScore int    `json:"visitor_team_score"`
	Season           int    `json:"season"`
	Postseason       bool   `json:"postseason"`
}

// StatLine is a per-game box score line for one player.
type StatLine struct {
	ID       int64   `json:"id"`
	Min      string  `json:"min"`
	Pts      int     `json:"pts"`
	Ast      int     `json:"ast"`
	Reb      int     `json:"reb"`
	Oreb     int     `json:"oreb"`
	Dreb     int     `json:"dreb"`
	Stl      int     `json:"stl"`
	Blk      int     `json:"blk"`
	Turnover int     `json:"turnover"`
	Pf       int     `json:"pf"`
	Fgm      int     `json:"fgm"`
	Fga      int     `json:"fga"`
	FgPct    float64 `json:"fg_pct"`
	Fg3m     int     `json:"fg3m"`
	Fg3a     int     `json:"fg3a"`
	Fg3Pct   float64 `json:"fg3_pct"`
	Ftm      int     `json:"ftm"`
	Fta      int     `json:"fta"`
	FtPct    float64 `json:"ft_pct"`
	Player   Player  `json:"player"`
	Team     Team    `json:"team"`
	Game     GameRef `json:"game"`
}

// SeasonAverage holds a player's averaged line for one season.
type SeasonAverage struct {
	PlayerID    int64   `json:"player_id"`
	Season      int     `json:"season"`
	GamesPlayed int     `json:"games_played"`
	Min         string  `json:"min"`
	Pts         float64 `json:"pts"`
	Ast         float64 `json:"ast"`
	Reb         float64 `json:"reb"`
	Oreb        float64 `json:"oreb"`
	Dreb        float64 `json:"dreb"`
	Stl         float64 `json:"stl"`
	Blk         float64 `json:"blk"`
	Turnover    float64 `json:"turnover"`
	Pf          float64 `json:"pf"`
	Fgm         float64 `json:"fgm"`
	Fga         float64 `json:"fga"`
	FgPct       float64 `json:"fg_pct"`
	Fg3m        float64 `json:"fg3m"`
	Fg3a        float64 `json:"fg3a"`
	Fg3Pct      float64 `json:"fg3_pct"`
	Ftm         float64 `json:"ftm"`
	Fta         float64 `json:"fta"`
	FtPct       float64 `json:"ft_pct"`
}

// Meta is the pagination envelope returned alongside list data.
type Meta struct {
	TotalPages  int  `json:"total_pages"`
	CurrentPage int  `json:"current_page"`
	NextPage    *int `json:"next_page"`
	PerPage     int  `json:"per_page"`
	TotalCount  int  `json:"total_count"`
}

// TeamsPage is one page of teams.
type TeamsPage struct {
	Data []Team
	Meta Meta
}

// PlayersPage is one page of player search results.
type PlayersPage struct {
	Data []Player
	Meta Meta
}

// GamesPage is one page of games.
type GamesPage struct {
	Data []Game
	Meta Meta
}

// StatsPage is one page of box score lines.
type StatsPage struct {
	Data []StatLine
	Meta Meta
}
