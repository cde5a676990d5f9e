package models

import (
	"fmt"
	"time"
)

// PlayerStats holds a player's career aggregates. Counters only ever grow;
// Economy is overwritten per bowling innings and BestBowling* is replaced
// only by a strictly better figure.
type PlayerStats struct {
	Matches        int     `json:"matches" db:"matches"`
	BattingInnings int     `json:"batting_innings" db:"batting_innings"`
	Runs           int     `json:"runs" db:"runs"`
	BallsFaced     int     `json:"balls_faced" db:"balls_faced"`
	HighestScore   int     `json:"highest_score" db:"highest_score"`
	Centuries      int     `json:"centuries" db:"centuries"`
	HalfCenturies  int     `json:"half_centuries" db:"half_centuries"`
	BowlingInnings int     `json:"bowling_innings" db:"bowling_innings"`
	RunsConceded   int     `json:"runs_conceded" db:"runs_conceded"`
	Wickets        int     `json:"wickets" db:"wickets"`
	FiveWickets    int     `json:"five_wickets" db:"five_wickets"`
	TenWickets     int     `json:"ten_wickets" db:"ten_wickets"`
	Economy        float64 `json:"economy" db:"economy"`

	BestBowlingWickets *int `json:"-" db:"best_bowling_wickets"`
	BestBowlingRuns    *int `json:"-" db:"best_bowling_runs"`
}

// BestBowling renders the best-bowling figure in the conventional
// "wickets/runs" form, or "" if the player has never bowled.
func (s PlayerStats) BestBowling() string {
	if s.BestBowlingWickets == nil || s.BestBowlingRuns == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", *s.BestBowlingWickets, *s.BestBowlingRuns)
}

type Player struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	Role      *string     `json:"role,omitempty"`
	TeamID    *int        `json:"team_id,omitempty"`
	Stats     PlayerStats `json:"stats"`
	CreatedAt time.Time   `json:"created_at"`
}
