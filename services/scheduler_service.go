package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
	"github.com/Dosada05/cricket-system/schedule"
)

// ScheduleRequest carries the fixture-generation parameters for one round.
type ScheduleRequest struct {
	RoundID       int      `json:"round_id"`
	Venues        []string `json:"venues"`
	Overs         int      `json:"overs"`
	StartDate     string   `json:"start_date"`  // YYYY-MM-DD
	MatchTimes    []string `json:"match_times"` // HH:MM, 24h
	MatchesPerDay int      `json:"matches_per_day"`
}

// SchedulerService turns a round's groups into persisted fixtures, cycling
// venues and time slots and advancing the calendar day as slots fill up.
type SchedulerService struct {
	roundRepo  repositories.RoundRepository
	matchRepo  repositories.MatchRepository
	roundRobin schedule.FixtureGenerator
	knockout   schedule.FixtureGenerator
	logger     *slog.Logger
}

func NewSchedulerService(
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	roundRobin schedule.FixtureGenerator,
	knockout schedule.FixtureGenerator,
	logger *slog.Logger,
) *SchedulerService {
	return &SchedulerService{
		roundRepo:  roundRepo,
		matchRepo:  matchRepo,
		roundRobin: roundRobin,
		knockout:   knockout,
		logger:     logger,
	}
}

// ScheduleRound generates and persists fixtures for every group of the round
// and attaches the created match ids to their groups. A round that already
// carries fixtures is rejected.
func (s *SchedulerService) ScheduleRound(ctx context.Context, req ScheduleRequest) (*models.Round, error) {
	if err := validateScheduleRequest(req); err != nil {
		return nil, err
	}

	round, err := s.roundRepo.GetByID(ctx, req.RoundID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if round.HasScheduledMatches() {
		return nil, ErrRoundAlreadyScheduled
	}

	generator, err := s.generatorFor(round.ScheduleType)
	if err != nil {
		return nil, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)

	currentDate := startDate
	matchesScheduled := 0
	for i := range round.Groups {
		group := &round.Groups[i]
		pairings, err := generator.GeneratePairings(group.TeamIDs)
		if err != nil {
			if err == schedule.ErrGroupTooSmall {
				return nil, ErrGroupTooSmall
			}
			return nil, fmt.Errorf("generating %s fixtures for group %q: %w", generator.Name(), group.Name, err)
		}

		for _, pairing := range pairings {
			match := &models.Match{
				TournamentID: round.TournamentID,
				RoundID:      round.ID,
				Team1ID:      pairing.Team1ID,
				Team2ID:      pairing.Team2ID,
				Venue:        req.Venues[matchesScheduled%len(req.Venues)],
				Overs:        req.Overs,
				Date:         currentDate.Format("2006-01-02"),
				StartTime:    req.MatchTimes[matchesScheduled%len(req.MatchTimes)],
				Status:       models.MatchStatusScheduled,
			}
			if err := s.matchRepo.Create(ctx, nil, match); err != nil {
				return nil, mapRepoError(err)
			}
			group.MatchIDs = append(group.MatchIDs, match.ID)

			matchesScheduled++
			if matchesScheduled%req.MatchesPerDay == 0 {
				currentDate = currentDate.AddDate(0, 0, 1)
			}
		}
	}

	if err := s.roundRepo.UpdateGroups(ctx, round); err != nil {
		return nil, fmt.Errorf("attaching fixtures to round %d: %w", round.ID, err)
	}

	s.logger.Info("round scheduled",
		slog.Int("round_id", round.ID),
		slog.String("schedule_type", string(round.ScheduleType)),
		slog.Int("matches", matchesScheduled))
	return round, nil
}

// DeleteRoundMatches removes every fixture attached to the round and clears
// the groups' fixture lists.
func (s *SchedulerService) DeleteRoundMatches(ctx context.Context, roundID int) error {
	round, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return mapRepoError(err)
	}

	matchIDs := make([]int, 0)
	for i := range round.Groups {
		matchIDs = append(matchIDs, round.Groups[i].MatchIDs...)
		round.Groups[i].MatchIDs = nil
		round.Groups[i].Standings = zeroStandings(round.Groups[i].TeamIDs)
	}
	if len(matchIDs) == 0 {
		return nil
	}

	if err := s.matchRepo.DeleteByIDs(ctx, matchIDs); err != nil {
		return mapRepoError(err)
	}
	if err := s.roundRepo.UpdateGroups(ctx, round); err != nil {
		return fmt.Errorf("clearing fixtures from round %d: %w", round.ID, err)
	}

	s.logger.Info("round fixtures deleted", slog.Int("round_id", round.ID), slog.Int("matches", len(matchIDs)))
	return nil
}

func (s *SchedulerService) generatorFor(scheduleType models.ScheduleType) (schedule.FixtureGenerator, error) {
	switch scheduleType {
	case models.ScheduleRoundRobin:
		return s.roundRobin, nil
	case models.ScheduleKnockout:
		return s.knockout, nil
	default:
		return nil, fmt.Errorf("%w: unknown schedule type %q", ErrValidationFailed, scheduleType)
	}
}

func validateScheduleRequest(req ScheduleRequest) error {
	if len(req.Venues) == 0 {
		return ErrNoVenues
	}
	if len(req.MatchTimes) == 0 {
		return ErrNoMatchTimes
	}
	if req.Overs <= 0 {
		return fmt.Errorf("%w: overs limit must be positive", ErrValidationFailed)
	}
	if req.MatchesPerDay <= 0 {
		return fmt.Errorf("%w: matches per day must be positive", ErrValidationFailed)
	}
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		return ErrInvalidStartDate
	}
	for _, t := range req.MatchTimes {
		if _, err := time.Parse("15:04", t); err != nil {
			return ErrInvalidMatchTime
		}
	}
	return nil
}

func zeroStandings(teamIDs []int) []models.Standing {
	standings := make([]models.Standing, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		standings = append(standings, models.Standing{TeamID: teamID})
	}
	return standings
}
