package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

// CreateRoundInput describes a new stage of a tournament with its group
// composition.
type CreateRoundInput struct {
	Name            string              `json:"name"`
	ScheduleType    models.ScheduleType `json:"schedule_type"`
	TournamentID    int                 `json:"tournament_id"`
	QualifiersCount int                 `json:"qualifiers_count"`
	IsFinalRound    bool                `json:"is_final_round"`
	Groups          []GroupInput        `json:"groups"`
}

type GroupInput struct {
	Name    string `json:"name"`
	TeamIDs []int  `json:"team_ids"`
}

type RoundService struct {
	roundRepo      repositories.RoundRepository
	tournamentRepo repositories.TournamentRepository
	scheduler      *SchedulerService
	logger         *slog.Logger
}

func NewRoundService(
	roundRepo repositories.RoundRepository,
	tournamentRepo repositories.TournamentRepository,
	scheduler *SchedulerService,
	logger *slog.Logger,
) *RoundService {
	return &RoundService{
		roundRepo:      roundRepo,
		tournamentRepo: tournamentRepo,
		scheduler:      scheduler,
		logger:         logger,
	}
}

// CreateRound validates the group composition and persists the round with
// zero-valued standings for every member team.
func (s *RoundService) CreateRound(ctx context.Context, input CreateRoundInput) (*models.Round, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: round name is required", ErrValidationFailed)
	}
	if input.ScheduleType != models.ScheduleRoundRobin && input.ScheduleType != models.ScheduleKnockout {
		return nil, fmt.Errorf("%w: schedule type must be round-robin or knockout", ErrValidationFailed)
	}
	if len(input.Groups) == 0 {
		return nil, fmt.Errorf("%w: at least one group is required", ErrValidationFailed)
	}
	if input.ScheduleType == models.ScheduleRoundRobin && input.QualifiersCount <= 0 {
		return nil, fmt.Errorf("%w: qualifiers count must be positive for round-robin rounds", ErrValidationFailed)
	}
	for _, g := range input.Groups {
		if len(g.TeamIDs) < 2 {
			return nil, ErrGroupTooSmall
		}
	}
	if _, err := s.tournamentRepo.GetByID(ctx, input.TournamentID); err != nil {
		return nil, mapRepoError(err)
	}

	groups := make([]models.Group, 0, len(input.Groups))
	for _, g := range input.Groups {
		groups = append(groups, models.Group{
			Name:      g.Name,
			TeamIDs:   g.TeamIDs,
			MatchIDs:  []int{},
			Standings: zeroStandings(g.TeamIDs),
		})
	}

	round := &models.Round{
		Name:             input.Name,
		ScheduleType:     input.ScheduleType,
		TournamentID:     input.TournamentID,
		QualifiersCount:  input.QualifiersCount,
		IsFinalRound:     input.IsFinalRound,
		Groups:           groups,
		QualifiedTeamIDs: []int{},
	}
	if err := s.roundRepo.Create(ctx, round); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.Info("round created",
		slog.Int("round_id", round.ID),
		slog.Int("tournament_id", round.TournamentID),
		slog.String("schedule_type", string(round.ScheduleType)))
	return round, nil
}

func (s *RoundService) GetRound(ctx context.Context, id int) (*models.Round, error) {
	round, err := s.roundRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return round, nil
}

func (s *RoundService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Round, error) {
	rounds, err := s.roundRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return rounds, nil
}

// DeleteRound removes the round together with every fixture it owns.
func (s *RoundService) DeleteRound(ctx context.Context, id int) error {
	if err := s.scheduler.DeleteRoundMatches(ctx, id); err != nil {
		return err
	}
	if err := s.roundRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.logger.Info("round deleted", slog.Int("round_id", id))
	return nil
}
