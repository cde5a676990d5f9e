package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

// StatsService folds a completed match into the cumulative player and team
// records. Application is idempotent per match: once the per-match flags are
// set, a repeat invocation is a silent no-op.
type StatsService struct {
	matchRepo  repositories.MatchRepository
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	logger     *slog.Logger
}

func NewStatsService(
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) *StatsService {
	return &StatsService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		logger:     logger,
	}
}

// ApplyMatchStats aggregates the match's innings into player records and its
// result into team records. The match must be completed with a result.
func (s *StatsService) ApplyMatchStats(ctx context.Context, matchID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return mapRepoError(err)
	}
	if match.Status != models.MatchStatusCompleted || match.Result == nil {
		return ErrMatchNotCompleted
	}

	if !match.PlayerStatsApplied {
		if err := s.applyPlayerStats(ctx, match); err != nil {
			return err
		}
		if err := s.matchRepo.MarkStatsApplied(ctx, match.ID, true, false); err != nil {
			return fmt.Errorf("marking player stats applied for match %d: %w", match.ID, err)
		}
	}

	if !match.TeamStatsApplied {
		if err := s.applyTeamStats(ctx, match); err != nil {
			return err
		}
		if err := s.matchRepo.MarkStatsApplied(ctx, match.ID, false, true); err != nil {
			return fmt.Errorf("marking team stats applied for match %d: %w", match.ID, err)
		}
	}

	s.logger.Info("match statistics aggregated", slog.Int("match_id", match.ID))
	return nil
}

func (s *StatsService) applyPlayerStats(ctx context.Context, match *models.Match) error {
	g, gctx := errgroup.WithContext(ctx)

	// Every registered player gets a match appearance, whether or not they
	// batted or bowled.
	for _, xi := range match.PlayingXIs {
		for _, playerID := range xi.PlayerIDs {
			playerID := playerID
			g.Go(func() error {
				if err := s.playerRepo.IncrementMatches(gctx, playerID); err != nil {
					return fmt.Errorf("incrementing matches for player %d: %w", playerID, err)
				}
				return nil
			})
		}
	}

	for i := range match.Innings {
		innings := &match.Innings[i]
		for _, perf := range innings.BattingPerformances {
			perf := perf
			g.Go(func() error {
				return s.applyBattingPerformance(gctx, perf)
			})
		}
		for _, perf := range innings.BowlingPerformances {
			perf := perf
			g.Go(func() error {
				return s.applyBowlingPerformance(gctx, perf)
			})
		}
	}

	return g.Wait()
}

func (s *StatsService) applyBattingPerformance(ctx context.Context, perf models.BattingPerformance) error {
	delta := repositories.BattingStatsDelta{
		Runs:       perf.Runs,
		BallsFaced: perf.BallsFaced,
	}
	switch {
	case perf.Runs >= 100:
		delta.Centuries = 1
	case perf.Runs >= 50:
		delta.HalfCenturies = 1
	}
	if err := s.playerRepo.ApplyBattingStats(ctx, perf.PlayerID, delta); err != nil {
		return fmt.Errorf("applying batting stats for player %d: %w", perf.PlayerID, err)
	}
	return nil
}

func (s *StatsService) applyBowlingPerformance(ctx context.Context, perf models.BowlingPerformance) error {
	delta := repositories.BowlingStatsDelta{
		RunsConceded: perf.RunsConceded,
		Wickets:      perf.Wickets,
		Economy:      bowlingEconomy(perf.RunsConceded, perf.Overs, perf.Balls),
	}
	if perf.Wickets >= 5 {
		delta.FiveWickets = 1
	}
	if perf.Wickets >= 10 {
		delta.TenWickets = 1
	}
	if err := s.playerRepo.ApplyBowlingStats(ctx, perf.PlayerID, delta); err != nil {
		return fmt.Errorf("applying bowling stats for player %d: %w", perf.PlayerID, err)
	}
	if err := s.playerRepo.UpdateBestBowling(ctx, perf.PlayerID, perf.Wickets, perf.RunsConceded); err != nil {
		return fmt.Errorf("updating best bowling for player %d: %w", perf.PlayerID, err)
	}
	return nil
}

func (s *StatsService) applyTeamStats(ctx context.Context, match *models.Match) error {
	team1Wins, team1Losses, team1Draws := 0, 0, 0
	team2Wins, team2Losses, team2Draws := 0, 0, 0
	switch {
	case match.Result.IsTie:
		team1Draws, team2Draws = 1, 1
	case match.Result.WinnerTeamID != nil && *match.Result.WinnerTeamID == match.Team1ID:
		team1Wins, team2Losses = 1, 1
	case match.Result.WinnerTeamID != nil && *match.Result.WinnerTeamID == match.Team2ID:
		team2Wins, team1Losses = 1, 1
	default:
		return ErrInvalidResult
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.teamRepo.ApplyMatchResult(gctx, match.Team1ID, team1Wins, team1Losses, team1Draws); err != nil {
			return fmt.Errorf("applying result for team %d: %w", match.Team1ID, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.teamRepo.ApplyMatchResult(gctx, match.Team2ID, team2Wins, team2Losses, team2Draws); err != nil {
			return fmt.Errorf("applying result for team %d: %w", match.Team2ID, err)
		}
		return nil
	})
	return g.Wait()
}

// bowlingEconomy renders overs-and-balls in the conventional decimal form
// (4 overs 3 balls reads 4.3) before dividing runs conceded by it.
func bowlingEconomy(runsConceded, overs, balls int) float64 {
	denominator := float64(overs) + float64(balls%6)/10
	if denominator == 0 {
		return 0
	}
	economy := float64(runsConceded) / denominator
	if math.IsNaN(economy) || math.IsInf(economy, 0) {
		return 0
	}
	return math.Round(economy*100) / 100
}
