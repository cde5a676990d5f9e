package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

// SquadService manages tournament squad registrations: admins approve or
// reject them, managers fill and trim the player list.
type SquadService struct {
	squadRepo  repositories.SquadRepository
	playerRepo repositories.PlayerRepository
	logger     *slog.Logger
}

func NewSquadService(squadRepo repositories.SquadRepository, playerRepo repositories.PlayerRepository, logger *slog.Logger) *SquadService {
	return &SquadService{squadRepo: squadRepo, playerRepo: playerRepo, logger: logger}
}

func (s *SquadService) GetSquad(ctx context.Context, id int) (*models.Squad, error) {
	squad, err := s.squadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return squad, nil
}

func (s *SquadService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Squad, error) {
	squads, err := s.squadRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return squads, nil
}

func (s *SquadService) SetStatus(ctx context.Context, id int, status models.SquadStatus) error {
	switch status {
	case models.SquadStatusApproved, models.SquadStatusRejected, models.SquadStatusPending:
	default:
		return fmt.Errorf("%w: unknown squad status %q", ErrValidationFailed, status)
	}
	if err := s.squadRepo.UpdateStatus(ctx, id, status); err != nil {
		return mapRepoError(err)
	}
	s.logger.Info("squad status updated", slog.Int("squad_id", id), slog.String("status", string(status)))
	return nil
}

func (s *SquadService) RemovePlayer(ctx context.Context, squadID, playerID int) error {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return mapRepoError(err)
	}
	if err := s.squadRepo.RemovePlayer(ctx, squadID, playerID); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *SquadService) DeleteSquad(ctx context.Context, id int) error {
	if err := s.squadRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}
