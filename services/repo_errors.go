package services

import (
	"errors"

	"github.com/Dosada05/cricket-system/repositories"
)

// mapRepoError translates repository sentinels into the service-level error
// vocabulary so handlers only ever match against this package.
func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrRoundNotFound):
		return ErrRoundNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrSquadNotFound):
		return ErrSquadNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrNotificationNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrSquadConflict):
		return ErrSquadConflict
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	default:
		return err
	}
}
