package schedule

import "errors"

// ErrGroupTooSmall is returned when a group does not carry enough teams to
// produce a single fixture.
var ErrGroupTooSmall = errors.New("group must contain at least two teams")

// Pairing is a single generated fixture between two teams of one group.
type Pairing struct {
	Team1ID int
	Team2ID int
}

// FixtureGenerator turns a group's team list into the pairings the group
// needs for one round. Implementations must not mutate the input slice.
type FixtureGenerator interface {
	GeneratePairings(teamIDs []int) ([]Pairing, error)

	Name() string
}
