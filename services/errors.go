package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapper.
var (
	// Missing resources
	ErrNotFound           = errors.New("requested resource not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrRoundNotFound      = errors.New("round not found")
	ErrGroupNotFound      = errors.New("no group in this round contains both teams")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrSquadNotFound      = errors.New("squad not found")
	ErrUserNotFound       = errors.New("user not found")

	// Validation and business rules
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidStartDate   = errors.New("invalid start date format, expected YYYY-MM-DD")
	ErrInvalidMatchTime   = errors.New("invalid match time format, expected HH:MM")
	ErrNoVenues           = errors.New("at least one venue is required")
	ErrNoMatchTimes       = errors.New("at least one match time is required")
	ErrGroupTooSmall      = errors.New("each group must contain at least two teams")
	ErrInvalidPlayingXI   = errors.New("playing eleven must contain exactly one entry per team")
	ErrInvalidTossWinner  = errors.New("toss winner must be one of the match teams")
	ErrInvalidTossChoice  = errors.New("toss decision must be bat or field")
	ErrPlayerNotInXI      = errors.New("player is not part of the registered playing eleven")
	ErrInvalidResult      = errors.New("match result must name a winner or be a tie")
	ErrInvalidInnings     = errors.New("innings data does not match the match teams")

	// Lifecycle state
	ErrMatchNotScheduled = errors.New("match has already started or completed")
	ErrMatchNotLive      = errors.New("match is not live")
	ErrMatchNotCompleted = errors.New("match is not completed")

	// Conflicts
	ErrRoundAlreadyScheduled  = errors.New("matches are already scheduled for this round")
	ErrTournamentNameConflict = errors.New("tournament with this name and season already exists")
	ErrSquadConflict          = errors.New("squad already registered for this team and tournament")
	ErrUserEmailConflict      = errors.New("email address is already in use")

	// Computation
	ErrStandingsComputation = errors.New("standings recomputation encountered inconsistent data")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
)
