package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

type TeamService struct {
	teamRepo repositories.TeamRepository
}

func NewTeamService(teamRepo repositories.TeamRepository) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

func (s *TeamService) CreateTeam(ctx context.Context, team *models.Team) error {
	if team.Name == "" {
		return fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *TeamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return teams, nil
}
