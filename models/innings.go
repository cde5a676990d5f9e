package models

type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
	Byes    int `json:"byes"`
	LegByes int `json:"leg_byes"`
	Total   int `json:"total"`
}

type BattingPerformance struct {
	PlayerID   int     `json:"player_id"`
	Runs       int     `json:"runs"`
	BallsFaced int     `json:"balls_faced"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	IsOut      bool    `json:"is_out"`
}

type BowlingPerformance struct {
	PlayerID     int     `json:"player_id"`
	Overs        int     `json:"overs"` // complete overs bowled
	Balls        int     `json:"balls"` // legal balls beyond the complete overs, 0-5
	Maidens      int     `json:"maidens"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	EconomyRate  float64 `json:"economy_rate"`
	Wides        int     `json:"wides"`
	NoBalls      int     `json:"no_balls"`
}

type Ball struct {
	Runs     int     `json:"runs"`
	IsWicket bool    `json:"is_wicket"`
	Extra    *string `json:"extra,omitempty"`
}

type Over struct {
	Number   int    `json:"number"` // 1-based
	BowlerID int    `json:"bowler_id"`
	Balls    []Ball `json:"balls"`
	Runs     int    `json:"runs"`
	Wickets  int    `json:"wickets"`
	Extras   int    `json:"extras"`
}

type FallOfWicket struct {
	BatterID int `json:"batter_id"`
	Score    int `json:"score"`  // team score when the wicket fell
	Wicket   int `json:"wicket"` // 1-based wicket number
}

// Innings is one team's turn batting. A limited-overs match has exactly two,
// created zero-valued when the match goes live, ordered by batting order.
type Innings struct {
	TeamID  int    `json:"team_id"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	// Legal deliveries faced. Overs in the cricket mixed notation are derived
	// from this, never stored.
	TotalBalls int    `json:"total_balls"`
	Extras     Extras `json:"extras"`
	Overs      []Over `json:"overs"`

	CurrentStrikerID *int `json:"current_striker_id,omitempty"`
	NonStrikerID     *int `json:"non_striker_id,omitempty"`
	CurrentBowlerID  *int `json:"current_bowler_id,omitempty"`

	FallOfWickets       []FallOfWicket       `json:"fall_of_wickets"`
	BattingPerformances []BattingPerformance `json:"batting_performances"`
	BowlingPerformances []BowlingPerformance `json:"bowling_performances"`
}

// HasBatter reports whether playerID already has a batting performance entry.
func (in *Innings) HasBatter(playerID int) bool {
	for i := range in.BattingPerformances {
		if in.BattingPerformances[i].PlayerID == playerID {
			return true
		}
	}
	return false
}

// HasBowler reports whether playerID already has a bowling performance entry.
func (in *Innings) HasBowler(playerID int) bool {
	for i := range in.BowlingPerformances {
		if in.BowlingPerformances[i].PlayerID == playerID {
			return true
		}
	}
	return false
}

// NewInnings returns a zero-initialized innings for the given batting team.
func NewInnings(teamID int) Innings {
	return Innings{
		TeamID:              teamID,
		Overs:               []Over{},
		FallOfWickets:       []FallOfWicket{},
		BattingPerformances: []BattingPerformance{},
		BowlingPerformances: []BowlingPerformance{},
	}
}
