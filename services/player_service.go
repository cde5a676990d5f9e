package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

type PlayerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo, teamRepo: teamRepo}
}

func (s *PlayerService) CreatePlayer(ctx context.Context, player *models.Player) error {
	if player.Name == "" {
		return fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if player.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *player.TeamID); err != nil {
			return mapRepoError(err)
		}
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return player, nil
}

func (s *PlayerService) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	players, err := s.playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return players, nil
}
