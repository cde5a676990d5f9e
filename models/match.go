package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
)

type TossDecision string

const (
	TossDecisionBat   TossDecision = "bat"
	TossDecisionField TossDecision = "field"
)

// PlayingXI is one team's registered eleven for a match. A match carries
// exactly two entries, one per team.
type PlayingXI struct {
	TeamID    int   `json:"team_id"`
	PlayerIDs []int `json:"player_ids"`
}

func (p PlayingXI) HasPlayer(playerID int) bool {
	for _, id := range p.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// MatchResult carries either a winner or a tie flag, never both.
type MatchResult struct {
	WinnerTeamID *int `json:"winner_team_id,omitempty"`
	IsTie        bool `json:"is_tie"`
}

type Match struct {
	ID           int         `json:"id"`
	TournamentID int         `json:"tournament_id"`
	RoundID      int         `json:"round_id"`
	Team1ID      int         `json:"team1_id"`
	Team2ID      int         `json:"team2_id"`
	Venue        string      `json:"venue"`
	Overs        int         `json:"overs"`
	Date         string      `json:"date"` // YYYY-MM-DD
	StartTime    string      `json:"start_time"` // HH:MM, 24h
	Status       MatchStatus `json:"status"`

	TossWinnerID *int          `json:"toss_winner_id,omitempty"`
	TossDecision *TossDecision `json:"toss_decision,omitempty"`
	PlayingXIs   []PlayingXI   `json:"playing_11,omitempty"`

	// 1-based index of the innings currently in progress; 0 until live.
	CurrentInnings int       `json:"current_innings"`
	Innings        []Innings `json:"innings,omitempty"`

	Result *MatchResult `json:"result,omitempty"`

	// Aggregation completion flags. Once set, re-running the statistics
	// aggregator for this match is a no-op.
	PlayerStatsApplied bool `json:"player_stats_applied"`
	TeamStatsApplied   bool `json:"team_stats_applied"`

	CreatedAt time.Time `json:"created_at"`
}

// HasTeam reports whether teamID is one of the two sides of the match.
func (m *Match) HasTeam(teamID int) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}

// OpponentOf returns the other side of the match relative to teamID.
func (m *Match) OpponentOf(teamID int) int {
	if m.Team1ID == teamID {
		return m.Team2ID
	}
	return m.Team1ID
}

// PlayingXIFor returns the registered eleven for teamID, or nil.
func (m *Match) PlayingXIFor(teamID int) *PlayingXI {
	for i := range m.PlayingXIs {
		if m.PlayingXIs[i].TeamID == teamID {
			return &m.PlayingXIs[i]
		}
	}
	return nil
}

// InningsFor returns the innings batted by teamID, or nil.
func (m *Match) InningsFor(teamID int) *Innings {
	for i := range m.Innings {
		if m.Innings[i].TeamID == teamID {
			return &m.Innings[i]
		}
	}
	return nil
}
