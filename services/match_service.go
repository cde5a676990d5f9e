package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

// CreateMatchInput carries a manually created fixture, outside the bulk
// scheduler path.
type CreateMatchInput struct {
	TournamentID int    `json:"tournament_id"`
	RoundID      int    `json:"round_id"`
	Team1ID      int    `json:"team1_id"`
	Team2ID      int    `json:"team2_id"`
	Venue        string `json:"venue"`
	Overs        int    `json:"overs"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
}

// StartMatchInput is the toss outcome plus both elevens.
type StartMatchInput struct {
	TossWinnerID int                 `json:"toss_winner_id"`
	TossDecision models.TossDecision `json:"toss_decision"`
	PlayingXIs   []models.PlayingXI  `json:"playing_11"`
}

// InitializePlayersInput names the opening batters and bowler for the
// current innings.
type InitializePlayersInput struct {
	StrikerID    int `json:"striker_id"`
	NonStrikerID int `json:"non_striker_id"`
	BowlerID     int `json:"bowler_id"`
}

// CompleteMatchInput closes a live match with its final result. Innings may
// optionally carry the final scorecard, replacing whatever the live feed
// accumulated.
type CompleteMatchInput struct {
	Result  models.MatchResult `json:"result"`
	Innings []models.Innings   `json:"innings,omitempty"`
}

// MatchService drives the match lifecycle. Completion fans out into the
// statistics aggregator and the standings calculator.
type MatchService struct {
	matchRepo repositories.MatchRepository
	roundRepo repositories.RoundRepository
	stats     *StatsService
	standings *StandingsService
	notifier  Notifier
	logger    *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	roundRepo repositories.RoundRepository,
	stats *StatsService,
	standings *StandingsService,
	notifier Notifier,
	logger *slog.Logger,
) *MatchService {
	return &MatchService{
		matchRepo: matchRepo,
		roundRepo: roundRepo,
		stats:     stats,
		standings: standings,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.Team1ID == input.Team2ID {
		return nil, fmt.Errorf("%w: a match needs two distinct teams", ErrValidationFailed)
	}
	if input.Overs <= 0 {
		return nil, fmt.Errorf("%w: overs limit must be positive", ErrValidationFailed)
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, ErrInvalidStartDate
	}
	if _, err := time.Parse("15:04", input.StartTime); err != nil {
		return nil, ErrInvalidMatchTime
	}
	if _, err := s.roundRepo.GetByID(ctx, input.RoundID); err != nil {
		return nil, mapRepoError(err)
	}

	match := &models.Match{
		TournamentID: input.TournamentID,
		RoundID:      input.RoundID,
		Team1ID:      input.Team1ID,
		Team2ID:      input.Team2ID,
		Venue:        input.Venue,
		Overs:        input.Overs,
		Date:         input.Date,
		StartTime:    input.StartTime,
		Status:       models.MatchStatusScheduled,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, mapRepoError(err)
	}
	return match, nil
}

func (s *MatchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return match, nil
}

func (s *MatchService) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return matches, nil
}

func (s *MatchService) ListByTeam(ctx context.Context, teamID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return matches, nil
}

// StartMatch moves a scheduled match to live: records the toss, registers
// both elevens, and seeds two zero-valued innings in batting order.
func (s *MatchService) StartMatch(ctx context.Context, matchID int, input StartMatchInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if match.Status != models.MatchStatusScheduled {
		return nil, ErrMatchNotScheduled
	}
	if len(input.PlayingXIs) != 2 {
		return nil, ErrInvalidPlayingXI
	}
	if input.PlayingXIs[0].TeamID == input.PlayingXIs[1].TeamID ||
		!match.HasTeam(input.PlayingXIs[0].TeamID) || !match.HasTeam(input.PlayingXIs[1].TeamID) {
		return nil, ErrInvalidPlayingXI
	}
	if !match.HasTeam(input.TossWinnerID) {
		return nil, ErrInvalidTossWinner
	}
	if input.TossDecision != models.TossDecisionBat && input.TossDecision != models.TossDecisionField {
		return nil, ErrInvalidTossChoice
	}

	battingFirst := input.TossWinnerID
	if input.TossDecision == models.TossDecisionField {
		battingFirst = match.OpponentOf(input.TossWinnerID)
	}

	tossWinnerID := input.TossWinnerID
	tossDecision := input.TossDecision
	match.TossWinnerID = &tossWinnerID
	match.TossDecision = &tossDecision
	match.PlayingXIs = input.PlayingXIs
	match.Innings = []models.Innings{
		models.NewInnings(battingFirst),
		models.NewInnings(match.OpponentOf(battingFirst)),
	}
	match.CurrentInnings = 1
	match.Status = models.MatchStatusLive

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, mapRepoError(err)
	}

	s.notifyMatch(match, "match_started", fmt.Sprintf("Match %d is live", match.ID))
	s.logger.Info("match started",
		slog.Int("match_id", match.ID),
		slog.Int("batting_first", battingFirst))
	return match, nil
}

// InitializeInningsPlayers records the opening striker, non-striker and
// bowler for the current innings and opens its first over. All three must be
// members of the correct side's registered eleven.
func (s *MatchService) InitializeInningsPlayers(ctx context.Context, matchID int, input InitializePlayersInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if match.Status != models.MatchStatusLive {
		return nil, ErrMatchNotLive
	}
	if match.CurrentInnings < 1 || match.CurrentInnings > len(match.Innings) {
		return nil, fmt.Errorf("%w: current innings index %d out of range", ErrValidationFailed, match.CurrentInnings)
	}

	innings := &match.Innings[match.CurrentInnings-1]
	battingXI := match.PlayingXIFor(innings.TeamID)
	bowlingXI := match.PlayingXIFor(match.OpponentOf(innings.TeamID))
	if battingXI == nil || bowlingXI == nil {
		return nil, ErrInvalidPlayingXI
	}
	if !battingXI.HasPlayer(input.StrikerID) || !battingXI.HasPlayer(input.NonStrikerID) {
		return nil, ErrPlayerNotInXI
	}
	if !bowlingXI.HasPlayer(input.BowlerID) {
		return nil, ErrPlayerNotInXI
	}
	if input.StrikerID == input.NonStrikerID {
		return nil, fmt.Errorf("%w: striker and non-striker must differ", ErrValidationFailed)
	}

	strikerID := input.StrikerID
	nonStrikerID := input.NonStrikerID
	bowlerID := input.BowlerID
	innings.CurrentStrikerID = &strikerID
	innings.NonStrikerID = &nonStrikerID
	innings.CurrentBowlerID = &bowlerID

	for _, batterID := range []int{input.StrikerID, input.NonStrikerID} {
		if !innings.HasBatter(batterID) {
			innings.BattingPerformances = append(innings.BattingPerformances, models.BattingPerformance{PlayerID: batterID})
		}
	}
	if !innings.HasBowler(input.BowlerID) {
		innings.BowlingPerformances = append(innings.BowlingPerformances, models.BowlingPerformance{PlayerID: input.BowlerID})
	}
	innings.Overs = append(innings.Overs, models.Over{
		Number:   len(innings.Overs) + 1,
		BowlerID: input.BowlerID,
		Balls:    []models.Ball{},
	})

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, mapRepoError(err)
	}

	s.notifyMatch(match, "players_initialized", fmt.Sprintf("Opening players set for innings %d", match.CurrentInnings))
	return match, nil
}

// CompleteMatch records the final result, then folds the match into player
// and team statistics and refreshes the round standings. Aggregation errors
// do not roll back the completed status.
func (s *MatchService) CompleteMatch(ctx context.Context, matchID int, input CompleteMatchInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if match.Status != models.MatchStatusLive {
		return nil, ErrMatchNotLive
	}
	if input.Result.IsTie == (input.Result.WinnerTeamID != nil) {
		return nil, ErrInvalidResult
	}
	if input.Result.WinnerTeamID != nil && !match.HasTeam(*input.Result.WinnerTeamID) {
		return nil, ErrInvalidResult
	}
	if len(input.Innings) > 0 {
		if len(input.Innings) != 2 {
			return nil, ErrInvalidInnings
		}
		for i := range input.Innings {
			if !match.HasTeam(input.Innings[i].TeamID) {
				return nil, ErrInvalidInnings
			}
		}
		match.Innings = input.Innings
	}

	result := input.Result
	match.Result = &result
	match.Status = models.MatchStatusCompleted

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.stats.ApplyMatchStats(ctx, match.ID); err != nil {
		s.logger.Error("statistics aggregation failed",
			slog.Int("match_id", match.ID),
			slog.String("error", err.Error()))
	}
	if err := s.standings.RecomputeForMatch(ctx, match); err != nil {
		s.logger.Error("standings recomputation failed",
			slog.Int("match_id", match.ID),
			slog.String("error", err.Error()))
	}

	s.notifyMatch(match, "match_completed", fmt.Sprintf("Match %d completed", match.ID))
	s.logger.Info("match completed", slog.Int("match_id", match.ID))
	return match, nil
}

// ReconcilePendingStats retries statistics aggregation and standings
// recomputation for completed matches that were not fully folded in, e.g.
// after a crash between completion and aggregation. Standings are retried
// for every completed match in a round that is still open, which also covers
// the case where aggregation succeeded but the standings write failed.
func (s *MatchService) ReconcilePendingStats(ctx context.Context) error {
	pending, err := s.matchRepo.ListPendingAggregation(ctx)
	if err != nil {
		return mapRepoError(err)
	}
	for _, match := range pending {
		if err := s.stats.ApplyMatchStats(ctx, match.ID); err != nil {
			s.logger.Error("statistics reconciliation failed",
				slog.Int("match_id", match.ID),
				slog.String("error", err.Error()))
		}
	}

	unsettled, err := s.matchRepo.ListCompletedInOpenRounds(ctx)
	if err != nil {
		return mapRepoError(err)
	}
	for _, match := range unsettled {
		if err := s.standings.RecomputeForMatch(ctx, match); err != nil {
			s.logger.Error("standings reconciliation failed",
				slog.Int("match_id", match.ID),
				slog.String("error", err.Error()))
		}
	}

	if len(pending) > 0 || len(unsettled) > 0 {
		s.logger.Info("pending statistics reconciled",
			slog.Int("aggregations", len(pending)),
			slog.Int("standings", len(unsettled)))
	}
	return nil
}

func (s *MatchService) notifyMatch(match *models.Match, eventType, message string) {
	s.notifier.NotifyMatch(match.ID, eventType, map[string]interface{}{
		"message": message,
		"match":   match,
	})
}
