package models

import "time"

type TeamStats struct {
	Matches int `json:"matches" db:"matches"`
	Wins    int `json:"wins" db:"wins"`
	Losses  int `json:"losses" db:"losses"`
	Draws   int `json:"draws" db:"draws"`
}

type Team struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	ClubID *int      `json:"club_id,omitempty"`
	Stats  TeamStats `json:"stats"`
	// IDs of tournaments this team has won. Inserts are duplicate-suppressing.
	TournamentsWon []int64   `json:"tournaments_won"`
	CreatedAt      time.Time `json:"created_at"`
}
