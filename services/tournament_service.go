package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

type CreateTournamentInput struct {
	Name           string    `json:"name"`
	ShortName      string    `json:"short_name"`
	Season         string    `json:"season"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	BallType       string    `json:"ball_type"`
	TournamentType string    `json:"tournament_type"`
}

type TournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	squadRepo      repositories.SquadRepository
	notifications  *NotificationService
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	squadRepo repositories.SquadRepository,
	notifications *NotificationService,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		squadRepo:      squadRepo,
		notifications:  notifications,
		logger:         logger,
	}
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" || input.Season == "" {
		return nil, fmt.Errorf("%w: tournament name and season are required", ErrValidationFailed)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrValidationFailed)
	}

	tournament := &models.Tournament{
		Name:           input.Name,
		ShortName:      input.ShortName,
		Season:         input.Season,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		BallType:       input.BallType,
		TournamentType: input.TournamentType,
		TeamIDs:        []int64{},
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("name", tournament.Name),
		slog.String("season", tournament.Season))
	return tournament, nil
}

// GetTournament loads a tournament with its winner and teams resolved.
func (s *TournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if len(tournament.TeamIDs) > 0 {
		ids := make([]int, 0, len(tournament.TeamIDs))
		for _, id := range tournament.TeamIDs {
			ids = append(ids, int(id))
		}
		teams, err := s.teamRepo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, mapRepoError(err)
		}
		tournament.Teams = make([]models.Team, 0, len(teams))
		for _, team := range teams {
			tournament.Teams = append(tournament.Teams, *team)
			if tournament.WinnerTeamID != nil && team.ID == *tournament.WinnerTeamID {
				winner := *team
				tournament.Winner = &winner
			}
		}
	}

	squads, err := s.squadRepo.ListByTournament(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	tournament.Squads = make([]models.Squad, 0, len(squads))
	for _, squad := range squads {
		tournament.Squads = append(tournament.Squads, *squad)
	}
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context, filter repositories.TournamentDateFilter) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter, time.Now())
	if err != nil {
		return nil, mapRepoError(err)
	}
	return tournaments, nil
}

// AddTeams enrolls teams into the tournament, opens a pending squad for each
// and notifies the first administrator about the registrations.
func (s *TournamentService) AddTeams(ctx context.Context, tournamentID int, teamIDs []int) error {
	if len(teamIDs) == 0 {
		return fmt.Errorf("%w: at least one team is required", ErrValidationFailed)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return mapRepoError(err)
	}
	teams, err := s.teamRepo.ListByIDs(ctx, teamIDs)
	if err != nil {
		return mapRepoError(err)
	}
	if len(teams) != len(teamIDs) {
		return ErrTeamNotFound
	}

	if err := s.tournamentRepo.AddTeams(ctx, tournamentID, teamIDs); err != nil {
		return mapRepoError(err)
	}

	for _, team := range teams {
		// Re-enrollment keeps the existing squad and its status.
		if _, err := s.squadRepo.GetByTournamentAndTeam(ctx, tournamentID, team.ID); err == nil {
			continue
		} else if mapRepoError(err) != ErrSquadNotFound {
			return mapRepoError(err)
		}

		squad := &models.Squad{
			Name:         fmt.Sprintf("%s - %s", team.Name, tournament.Name),
			TeamID:       team.ID,
			TournamentID: tournamentID,
			Status:       models.SquadStatusPending,
			PlayerIDs:    []int64{},
		}
		if err := s.squadRepo.Create(ctx, squad); err != nil {
			if mapRepoError(err) != ErrSquadConflict {
				return mapRepoError(err)
			}
			continue
		}
		s.notifications.NotifySquadRegistration(ctx, squad, team, tournament)
	}

	s.logger.Info("teams added to tournament",
		slog.Int("tournament_id", tournamentID),
		slog.Int("teams", len(teamIDs)))
	return nil
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.logger.Info("tournament deleted", slog.Int("tournament_id", id))
	return nil
}
