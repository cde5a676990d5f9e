package models

import "time"

type Tournament struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	ShortName      string    `json:"short_name"`
	Season         string    `json:"season"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	BallType       string    `json:"ball_type"`
	TournamentType string    `json:"tournament_type"`
	// Set at most once, when a final round resolves to a single qualifier.
	WinnerTeamID *int      `json:"winner_team_id,omitempty"`
	TeamIDs      []int64   `json:"team_ids"`
	CreatedAt    time.Time `json:"created_at"`

	// Optional linked entities, populated by the service layer.
	Winner *Team   `json:"winner,omitempty"`
	Teams  []Team  `json:"teams,omitempty"`
	Squads []Squad `json:"squads,omitempty"`
}

type SquadStatus string

const (
	SquadStatusPending  SquadStatus = "pending"
	SquadStatusApproved SquadStatus = "approved"
	SquadStatusRejected SquadStatus = "rejected"
)

type Squad struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	TeamID       int         `json:"team_id"`
	TournamentID int         `json:"tournament_id"`
	Status       SquadStatus `json:"status"`
	PlayerIDs    []int64     `json:"player_ids"`
	CreatedAt    time.Time   `json:"created_at"`
}
