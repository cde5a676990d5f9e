package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

// StandingsService recomputes group tables and net run rate from completed
// matches, decides qualification once a round is fully played, and crowns the
// tournament winner after the final round.
type StandingsService struct {
	roundRepo      repositories.RoundRepository
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	logger         *slog.Logger

	// One lock per round keeps concurrent recomputations for the same round
	// serialized; different rounds proceed independently.
	mu         sync.Mutex
	roundLocks map[int]*sync.Mutex
}

func NewStandingsService(
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) *StandingsService {
	return &StandingsService{
		roundRepo:      roundRepo,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		logger:         logger,
		roundLocks:     make(map[int]*sync.Mutex),
	}
}

func (s *StandingsService) lockRound(roundID int) *sync.Mutex {
	s.mu.Lock()
	lock, ok := s.roundLocks[roundID]
	if !ok {
		lock = &sync.Mutex{}
		s.roundLocks[roundID] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock
}

// RecomputeForMatch refreshes the standings of the group containing the two
// sides of the given completed match, then advances qualification if the
// whole round is played out.
func (s *StandingsService) RecomputeForMatch(ctx context.Context, match *models.Match) error {
	lock := s.lockRound(match.RoundID)
	defer lock.Unlock()

	round, err := s.roundRepo.GetByID(ctx, match.RoundID)
	if err != nil {
		return mapRepoError(err)
	}

	groupIdx := round.GroupForTeams(match.Team1ID, match.Team2ID)
	if groupIdx < 0 {
		return ErrGroupNotFound
	}

	standings, err := s.computeGroupStandings(ctx, &round.Groups[groupIdx])
	if err != nil {
		return err
	}
	round.Groups[groupIdx].Standings = standings

	if err := s.finalizeRound(ctx, round); err != nil {
		return err
	}

	if err := s.roundRepo.UpdateGroups(ctx, round); err != nil {
		return fmt.Errorf("persisting standings for round %d: %w", round.ID, err)
	}

	// Crowning happens only once the finalized round is in storage, so a
	// failed round write never leaves a winner on an open round.
	if round.Completed && round.IsFinalRound && len(round.QualifiedTeamIDs) == 1 {
		if err := s.crownWinner(ctx, round.TournamentID, round.QualifiedTeamIDs[0]); err != nil {
			return err
		}
	}

	s.logger.Info("standings recomputed",
		slog.Int("round_id", round.ID),
		slog.String("group", round.Groups[groupIdx].Name),
		slog.Bool("round_completed", round.Completed))
	return nil
}

// computeGroupStandings rebuilds the table from scratch: only completed
// matches contribute, and every team in the group appears even with zero
// matches played.
func (s *StandingsService) computeGroupStandings(ctx context.Context, group *models.Group) ([]models.Standing, error) {
	matches, err := s.matchRepo.ListByIDs(ctx, group.MatchIDs)
	if err != nil {
		return nil, fmt.Errorf("loading group matches: %w", err)
	}

	type tally struct {
		standing     models.Standing
		runsScored   int
		ballsFaced   int
		runsConceded int
		ballsBowled  int
	}
	tallies := make(map[int]*tally, len(group.TeamIDs))
	for _, teamID := range group.TeamIDs {
		tallies[teamID] = &tally{standing: models.Standing{TeamID: teamID}}
	}

	for _, match := range matches {
		if match.Status != models.MatchStatusCompleted {
			continue
		}
		if match.Result == nil {
			return nil, fmt.Errorf("%w: completed match %d has no result", ErrStandingsComputation, match.ID)
		}
		t1, ok1 := tallies[match.Team1ID]
		t2, ok2 := tallies[match.Team2ID]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: match %d references a team outside the group", ErrStandingsComputation, match.ID)
		}

		t1.standing.Played++
		t2.standing.Played++
		switch {
		case match.Result.IsTie:
			t1.standing.Tied++
			t2.standing.Tied++
		case match.Result.WinnerTeamID != nil && *match.Result.WinnerTeamID == match.Team1ID:
			t1.standing.Won++
			t2.standing.Lost++
		case match.Result.WinnerTeamID != nil && *match.Result.WinnerTeamID == match.Team2ID:
			t2.standing.Won++
			t1.standing.Lost++
		default:
			return nil, fmt.Errorf("%w: match %d result names no winner and is not a tie", ErrStandingsComputation, match.ID)
		}

		for i := range match.Innings {
			innings := &match.Innings[i]
			batting, ok := tallies[innings.TeamID]
			if !ok {
				return nil, fmt.Errorf("%w: match %d innings batted by a team outside the group", ErrStandingsComputation, match.ID)
			}
			bowling := tallies[match.OpponentOf(innings.TeamID)]
			batting.runsScored += innings.Runs
			batting.ballsFaced += innings.TotalBalls
			bowling.runsConceded += innings.Runs
			bowling.ballsBowled += innings.TotalBalls
		}
	}

	standings := make([]models.Standing, 0, len(group.TeamIDs))
	for _, teamID := range group.TeamIDs {
		t := tallies[teamID]
		t.standing.Points = 2*t.standing.Won + t.standing.Tied
		t.standing.NetRunRate = calcNetRunRate(t.runsScored, t.ballsFaced, t.runsConceded, t.ballsBowled)
		standings = append(standings, t.standing)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		return standings[i].NetRunRate > standings[j].NetRunRate
	})
	return standings, nil
}

// finalizeRound marks the round completed and resolves qualifiers once every
// fixture in every group has been played.
func (s *StandingsService) finalizeRound(ctx context.Context, round *models.Round) error {
	for i := range round.Groups {
		done, err := s.groupFullyPlayed(ctx, &round.Groups[i])
		if err != nil {
			return err
		}
		if !done {
			return nil
		}
	}

	qualified, err := s.resolveQualifiers(ctx, round)
	if err != nil {
		return err
	}
	round.QualifiedTeamIDs = qualified
	round.Completed = true
	return nil
}

func (s *StandingsService) groupFullyPlayed(ctx context.Context, group *models.Group) (bool, error) {
	if len(group.MatchIDs) == 0 {
		return false, nil
	}
	matches, err := s.matchRepo.ListByIDs(ctx, group.MatchIDs)
	if err != nil {
		return false, fmt.Errorf("loading group matches: %w", err)
	}
	if len(matches) != len(group.MatchIDs) {
		return false, fmt.Errorf("%w: group %q lists %d matches but %d exist", ErrStandingsComputation, group.Name, len(group.MatchIDs), len(matches))
	}
	for _, match := range matches {
		if match.Status != models.MatchStatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

func (s *StandingsService) resolveQualifiers(ctx context.Context, round *models.Round) ([]int, error) {
	switch round.ScheduleType {
	case models.ScheduleRoundRobin:
		qualified := make([]int, 0, len(round.Groups)*round.QualifiersCount)
		for i := range round.Groups {
			standings := round.Groups[i].Standings
			n := round.QualifiersCount
			if n > len(standings) {
				n = len(standings)
			}
			for _, standing := range standings[:n] {
				qualified = append(qualified, standing.TeamID)
			}
		}
		return qualified, nil
	case models.ScheduleKnockout:
		return s.knockoutWinners(ctx, round)
	default:
		return nil, fmt.Errorf("%w: unknown schedule type %q", ErrStandingsComputation, round.ScheduleType)
	}
}

// knockoutWinners collects the distinct match winners across the round's
// groups. A tie in a knockout fixture has no advancing side and fails the
// recomputation.
func (s *StandingsService) knockoutWinners(ctx context.Context, round *models.Round) ([]int, error) {
	seen := make(map[int]bool)
	winners := make([]int, 0)
	for i := range round.Groups {
		matches, err := s.matchRepo.ListByIDs(ctx, round.Groups[i].MatchIDs)
		if err != nil {
			return nil, fmt.Errorf("loading knockout matches: %w", err)
		}
		for _, match := range matches {
			if match.Result == nil || match.Result.WinnerTeamID == nil {
				return nil, fmt.Errorf("%w: knockout match %d has no winner", ErrStandingsComputation, match.ID)
			}
			winnerID := *match.Result.WinnerTeamID
			if !seen[winnerID] {
				seen[winnerID] = true
				winners = append(winners, winnerID)
			}
		}
	}
	return winners, nil
}

// crownWinner records the tournament champion. The assignment is first-write
// wins, so a replayed final never overwrites or double-awards the trophy.
func (s *StandingsService) crownWinner(ctx context.Context, tournamentID, teamID int) error {
	assigned, err := s.tournamentRepo.SetWinnerIfUnset(ctx, tournamentID, teamID)
	if err != nil {
		return mapRepoError(err)
	}
	if !assigned {
		return nil
	}
	if err := s.teamRepo.AddTournamentWon(ctx, teamID, tournamentID); err != nil {
		return mapRepoError(err)
	}
	s.logger.Info("tournament winner crowned",
		slog.Int("tournament_id", tournamentID),
		slog.Int("team_id", teamID))
	return nil
}

// oversToDecimal renders legal deliveries in cricket's mixed notation: 8
// balls is 1 complete over and 2 balls, written 1.2. The notation is taken
// at face value as the rate divisor, not converted to sixths.
func oversToDecimal(balls int) float64 {
	return float64(balls/6) + float64(balls%6)/10
}

// calcNetRunRate is runs scored per over faced minus runs conceded per over
// bowled, rounded to two decimals. A side of the difference with a zero
// denominator contributes zero.
func calcNetRunRate(runsScored, ballsFaced, runsConceded, ballsBowled int) float64 {
	var scored, conceded float64
	if ballsFaced > 0 {
		scored = float64(runsScored) / oversToDecimal(ballsFaced)
	}
	if ballsBowled > 0 {
		conceded = float64(runsConceded) / oversToDecimal(ballsBowled)
	}
	nrr := scored - conceded
	if math.IsNaN(nrr) || math.IsInf(nrr, 0) {
		return 0
	}
	return math.Round(nrr*100) / 100
}
