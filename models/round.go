package models

import "time"

type ScheduleType string

const (
	ScheduleRoundRobin ScheduleType = "round-robin"
	ScheduleKnockout   ScheduleType = "knockout"
)

// Standing is derived entirely from completed matches and recomputed from
// scratch by the standings service; it is never hand-edited.
type Standing struct {
	TeamID     int     `json:"team_id"`
	Played     int     `json:"played"`
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	Tied       int     `json:"tied"`
	Points     int     `json:"points"`
	NetRunRate float64 `json:"net_run_rate"`
}

// Group is owned by its Round and persisted inside the round's groups JSONB
// column. Teams and matches are referenced by id, never by live pointer.
type Group struct {
	Name      string     `json:"name"`
	TeamIDs   []int      `json:"team_ids"`
	MatchIDs  []int      `json:"match_ids"`
	Standings []Standing `json:"standings"`
}

// ContainsTeam reports whether teamID is a member of the group.
func (g *Group) ContainsTeam(teamID int) bool {
	for _, id := range g.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

type Round struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	ScheduleType ScheduleType `json:"schedule_type"`
	TournamentID int          `json:"tournament_id"`
	// Number of teams advancing per group; round-robin rounds only.
	QualifiersCount  int       `json:"qualifiers_count"`
	IsFinalRound     bool      `json:"is_final_round"`
	Completed        bool      `json:"completed"`
	Groups           []Group   `json:"groups"`
	QualifiedTeamIDs []int     `json:"qualified_team_ids"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasScheduledMatches reports whether any group already carries fixtures.
func (r *Round) HasScheduledMatches() bool {
	for i := range r.Groups {
		if len(r.Groups[i].MatchIDs) > 0 {
			return true
		}
	}
	return false
}

// GroupForTeams returns the index of the group whose team set contains both
// supplied teams, or -1 if no such group exists.
func (r *Round) GroupForTeams(team1ID, team2ID int) int {
	for i := range r.Groups {
		if r.Groups[i].ContainsTeam(team1ID) && r.Groups[i].ContainsTeam(team2ID) {
			return i
		}
	}
	return -1
}
