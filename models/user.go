package models

import "time"

type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleClubManager UserRole = "club_manager"
	RoleScorer      UserRole = "scorer"
)

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
