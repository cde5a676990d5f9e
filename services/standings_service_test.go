package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/cricket-system/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOversToDecimal(t *testing.T) {
	tests := []struct {
		balls int
		want  float64
	}{
		{0, 0},
		{6, 1.0},
		{8, 1.2},
		{50, 8.2},
		{120, 20.0},
	}
	for _, tt := range tests {
		if got := oversToDecimal(tt.balls); got != tt.want {
			t.Errorf("oversToDecimal(%d) = %v, want %v", tt.balls, got, tt.want)
		}
	}
}

func TestCalcNetRunRate(t *testing.T) {
	tests := []struct {
		name                       string
		runsScored, ballsFaced     int
		runsConceded, ballsBowled  int
		want                       float64
	}{
		{"all zeroes", 0, 0, 0, 0, 0},
		{"twenty overs each way", 200, 120, 180, 120, 1.00},
		{"never batted", 0, 0, 100, 120, -10.00},
		{"never bowled", 100, 120, 0, 0, 10.00},
		{"rounded to two decimals", 100, 120, 90, 120, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calcNetRunRate(tt.runsScored, tt.ballsFaced, tt.runsConceded, tt.ballsBowled)
			if got != tt.want {
				t.Errorf("calcNetRunRate = %v, want %v", got, tt.want)
			}
		})
	}
}

type standingsFixture struct {
	svc            *StandingsService
	matchRepo      *fakeMatchRepo
	roundRepo      *fakeRoundRepo
	tournamentRepo *fakeTournamentRepo
	teamRepo       *fakeTeamRepo
}

func newStandingsFixture() *standingsFixture {
	matchRepo := newFakeMatchRepo()
	roundRepo := newFakeRoundRepo()
	matchRepo.rounds = roundRepo
	tournamentRepo := newFakeTournamentRepo()
	teamRepo := newFakeTeamRepo()
	return &standingsFixture{
		svc:            NewStandingsService(roundRepo, matchRepo, tournamentRepo, teamRepo, discardLogger()),
		matchRepo:      matchRepo,
		roundRepo:      roundRepo,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
	}
}

func (f *standingsFixture) addCompletedMatch(t *testing.T, roundID, team1, team2 int, result models.MatchResult, innings []models.Innings) *models.Match {
	t.Helper()
	match := &models.Match{
		TournamentID: 1,
		RoundID:      roundID,
		Team1ID:      team1,
		Team2ID:      team2,
		Status:       models.MatchStatusCompleted,
		Result:       &result,
		Innings:      innings,
	}
	if err := f.matchRepo.Create(context.Background(), nil, match); err != nil {
		t.Fatalf("creating match: %v", err)
	}
	return match
}

func twoInnings(team1, runs1, balls1, team2, runs2, balls2 int) []models.Innings {
	return []models.Innings{
		{TeamID: team1, Runs: runs1, TotalBalls: balls1},
		{TeamID: team2, Runs: runs2, TotalBalls: balls2},
	}
}

func winnerOf(teamID int) models.MatchResult {
	return models.MatchResult{WinnerTeamID: &teamID}
}

func TestRecomputeRoundRobinStandings(t *testing.T) {
	f := newStandingsFixture()
	ctx := context.Background()

	round := &models.Round{
		Name:            "Group Stage",
		ScheduleType:    models.ScheduleRoundRobin,
		TournamentID:    1,
		QualifiersCount: 2,
		Groups: []models.Group{{
			Name:      "Group A",
			TeamIDs:   []int{1, 2, 3},
			Standings: zeroStandings([]int{1, 2, 3}),
		}},
	}
	if err := f.roundRepo.Create(ctx, round); err != nil {
		t.Fatalf("creating round: %v", err)
	}

	m1 := f.addCompletedMatch(t, round.ID, 1, 2, winnerOf(1), twoInnings(1, 100, 60, 2, 80, 60))
	m2 := f.addCompletedMatch(t, round.ID, 1, 3, winnerOf(3), twoInnings(1, 90, 60, 3, 91, 60))
	m3 := f.addCompletedMatch(t, round.ID, 2, 3, models.MatchResult{IsTie: true}, twoInnings(2, 85, 60, 3, 85, 60))

	round.Groups[0].MatchIDs = []int{m1.ID, m2.ID, m3.ID}
	if err := f.roundRepo.UpdateGroups(ctx, round); err != nil {
		t.Fatalf("attaching matches: %v", err)
	}

	if err := f.svc.RecomputeForMatch(ctx, m3); err != nil {
		t.Fatalf("RecomputeForMatch: %v", err)
	}

	updated, err := f.roundRepo.GetByID(ctx, round.ID)
	if err != nil {
		t.Fatalf("reloading round: %v", err)
	}
	standings := updated.Groups[0].Standings
	if len(standings) != 3 {
		t.Fatalf("got %d standings, want 3", len(standings))
	}

	// Team 3: a win and a tie, 3 points. Team 1: a win and a loss, 2 points.
	// Team 2: a loss and a tie, 1 point.
	wantOrder := []struct {
		teamID, points int
		nrr            float64
	}{
		{3, 3, 0.05},
		{1, 2, 0.95},
		{2, 1, -1.00},
	}
	for i, want := range wantOrder {
		got := standings[i]
		if got.TeamID != want.teamID || got.Points != want.points || got.NetRunRate != want.nrr {
			t.Errorf("standings[%d] = {team %d, points %d, nrr %v}, want {team %d, points %d, nrr %v}",
				i, got.TeamID, got.Points, got.NetRunRate, want.teamID, want.points, want.nrr)
		}
	}

	if !updated.Completed {
		t.Error("round not marked completed after every match finished")
	}
	wantQualified := []int{3, 1}
	if len(updated.QualifiedTeamIDs) != 2 || updated.QualifiedTeamIDs[0] != wantQualified[0] || updated.QualifiedTeamIDs[1] != wantQualified[1] {
		t.Errorf("qualified = %v, want %v", updated.QualifiedTeamIDs, wantQualified)
	}
}

func TestEqualPointsSortByNetRunRate(t *testing.T) {
	f := newStandingsFixture()
	ctx := context.Background()

	// Four teams, each with one win; A and B beat their opponents by very
	// different margins.
	round := &models.Round{
		ScheduleType:    models.ScheduleRoundRobin,
		TournamentID:    1,
		QualifiersCount: 2,
		Groups: []models.Group{{
			Name:      "Group A",
			TeamIDs:   []int{1, 2, 3, 4},
			Standings: zeroStandings([]int{1, 2, 3, 4}),
		}},
	}
	if err := f.roundRepo.Create(ctx, round); err != nil {
		t.Fatalf("creating round: %v", err)
	}

	// Team 1 wins narrowly, team 2 wins big.
	m1 := f.addCompletedMatch(t, round.ID, 1, 3, winnerOf(1), twoInnings(1, 101, 120, 3, 100, 120))
	m2 := f.addCompletedMatch(t, round.ID, 2, 4, winnerOf(2), twoInnings(2, 150, 120, 4, 100, 120))

	round.Groups[0].MatchIDs = []int{m1.ID, m2.ID}
	if err := f.roundRepo.UpdateGroups(ctx, round); err != nil {
		t.Fatalf("attaching matches: %v", err)
	}

	if err := f.svc.RecomputeForMatch(ctx, m1); err != nil {
		t.Fatalf("RecomputeForMatch: %v", err)
	}

	updated, _ := f.roundRepo.GetByID(ctx, round.ID)
	standings := updated.Groups[0].Standings
	if standings[0].TeamID != 2 || standings[1].TeamID != 1 {
		t.Errorf("top of table = [%d, %d], want [2, 1] (higher NRR first on equal points)",
			standings[0].TeamID, standings[1].TeamID)
	}
	if standings[0].Points != standings[1].Points {
		t.Fatalf("test premise broken: points differ (%d vs %d)", standings[0].Points, standings[1].Points)
	}
}

func TestStandingsNotFinalizedWhileMatchesRemain(t *testing.T) {
	f := newStandingsFixture()
	ctx := context.Background()

	round := &models.Round{
		ScheduleType:    models.ScheduleRoundRobin,
		TournamentID:    1,
		QualifiersCount: 1,
		Groups: []models.Group{{
			Name:      "Group A",
			TeamIDs:   []int{1, 2, 3},
			Standings: zeroStandings([]int{1, 2, 3}),
		}},
	}
	if err := f.roundRepo.Create(ctx, round); err != nil {
		t.Fatalf("creating round: %v", err)
	}

	m1 := f.addCompletedMatch(t, round.ID, 1, 2, winnerOf(1), twoInnings(1, 100, 60, 2, 90, 60))
	pending := &models.Match{
		TournamentID: 1, RoundID: round.ID, Team1ID: 1, Team2ID: 3,
		Status: models.MatchStatusScheduled,
	}
	if err := f.matchRepo.Create(ctx, nil, pending); err != nil {
		t.Fatalf("creating pending match: %v", err)
	}

	round.Groups[0].MatchIDs = []int{m1.ID, pending.ID}
	if err := f.roundRepo.UpdateGroups(ctx, round); err != nil {
		t.Fatalf("attaching matches: %v", err)
	}

	if err := f.svc.RecomputeForMatch(ctx, m1); err != nil {
		t.Fatalf("RecomputeForMatch: %v", err)
	}

	updated, _ := f.roundRepo.GetByID(ctx, round.ID)
	if updated.Completed {
		t.Error("round marked completed with a match still pending")
	}
	if len(updated.QualifiedTeamIDs) != 0 {
		t.Errorf("qualified teams resolved early: %v", updated.QualifiedTeamIDs)
	}
	if updated.Groups[0].Standings[0].TeamID != 1 {
		t.Errorf("partial standings leader = %d, want 1", updated.Groups[0].Standings[0].TeamID)
	}
}

func TestKnockoutQualifiersAreDistinctWinners(t *testing.T) {
	f := newStandingsFixture()
	ctx := context.Background()

	round := &models.Round{
		ScheduleType: models.ScheduleKnockout,
		TournamentID: 1,
		Groups: []models.Group{{
			Name:      "Semi Finals",
			TeamIDs:   []int{1, 2, 3, 4},
			Standings: zeroStandings([]int{1, 2, 3, 4}),
		}},
	}
	if err := f.roundRepo.Create(ctx, round); err != nil {
		t.Fatalf("creating round: %v", err)
	}

	m1 := f.addCompletedMatch(t, round.ID, 1, 2, winnerOf(1), twoInnings(1, 120, 120, 2, 110, 120))
	m2 := f.addCompletedMatch(t, round.ID, 3, 4, winnerOf(4), twoInnings(3, 90, 120, 4, 91, 118))

	round.Groups[0].MatchIDs = []int{m1.ID, m2.ID}
	if err := f.roundRepo.UpdateGroups(ctx, round); err != nil {
		t.Fatalf("attaching matches: %v", err)
	}

	if err := f.svc.RecomputeForMatch(ctx, m2); err != nil {
		t.Fatalf("RecomputeForMatch: %v", err)
	}

	updated, _ := f.roundRepo.GetByID(ctx, round.ID)
	if len(updated.QualifiedTeamIDs) != 2 {
		t.Fatalf("qualified = %v, want two winners", updated.QualifiedTeamIDs)
	}
	got := map[int]bool{updated.QualifiedTeamIDs[0]: true, updated.QualifiedTeamIDs[1]: true}
	if !got[1] || !got[4] {
		t.Errorf("qualified = %v, want winners 1 and 4", updated.QualifiedTeamIDs)
	}
}

func TestFinalRoundCrownsWinnerIdempotently(t *testing.T) {
	f := newStandingsFixture()
	ctx := context.Background()

	tournament := &models.Tournament{Name: "Premier Cup", Season: "2026"}
	if err := f.tournamentRepo.Create(ctx, tournament); err != nil {
		t.Fatalf("creating tournament: %v", err)
	}
	team1 := &models.Team{Name: "Lions"}
	team2 := &models.Team{Name: "Tigers"}
	if err := f.teamRepo.Create(ctx, team1); err != nil {
		t.Fatalf("creating team: %v", err)
	}
	if err := f.teamRepo.Create(ctx, team2); err != nil {
		t.Fatalf("creating team: %v", err)
	}

	round := &models.Round{
		ScheduleType: models.ScheduleKnockout,
		TournamentID: tournament.ID,
		IsFinalRound: true,
		Groups: []models.Group{{
			Name:      "Final",
			TeamIDs:   []int{team1.ID, team2.ID},
			Standings: zeroStandings([]int{team1.ID, team2.ID}),
		}},
	}
	if err := f.roundRepo.Create(ctx, round); err != nil {
		t.Fatalf("creating round: %v", err)
	}

	final := f.addCompletedMatch(t, round.ID, team1.ID, team2.ID, winnerOf(team1.ID),
		twoInnings(team1.ID, 150, 120, team2.ID, 140, 120))
	round.Groups[0].MatchIDs = []int{final.ID}
	if err := f.roundRepo.UpdateGroups(ctx, round); err != nil {
		t.Fatalf("attaching match: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := f.svc.RecomputeForMatch(ctx, final); err != nil {
			t.Fatalf("RecomputeForMatch run %d: %v", i+1, err)
		}
	}

	updatedTournament, _ := f.tournamentRepo.GetByID(ctx, tournament.ID)
	if updatedTournament.WinnerTeamID == nil || *updatedTournament.WinnerTeamID != team1.ID {
		t.Fatalf("tournament winner = %v, want team %d", updatedTournament.WinnerTeamID, team1.ID)
	}

	updatedTeam, _ := f.teamRepo.GetByID(ctx, team1.ID)
	if len(updatedTeam.TournamentsWon) != 1 || updatedTeam.TournamentsWon[0] != int64(tournament.ID) {
		t.Errorf("tournaments won = %v, want exactly [%d]", updatedTeam.TournamentsWon, tournament.ID)
	}
}

func TestWinnerNotCrownedWhenRoundWriteFails(t *testing.T) {
	f := newStandingsFixture()
	ctx := context.Background()

	tournament := &models.Tournament{Name: "Premier Cup", Season: "2026"}
	if err := f.tournamentRepo.Create(ctx, tournament); err != nil {
		t.Fatalf("creating tournament: %v", err)
	}
	team1 := &models.Team{Name: "Lions"}
	team2 := &models.Team{Name: "Tigers"}
	if err := f.teamRepo.Create(ctx, team1); err != nil {
		t.Fatalf("creating team: %v", err)
	}
	if err := f.teamRepo.Create(ctx, team2); err != nil {
		t.Fatalf("creating team: %v", err)
	}

	round := &models.Round{
		ScheduleType: models.ScheduleKnockout,
		TournamentID: tournament.ID,
		IsFinalRound: true,
		Groups: []models.Group{{
			Name:      "Final",
			TeamIDs:   []int{team1.ID, team2.ID},
			Standings: zeroStandings([]int{team1.ID, team2.ID}),
		}},
	}
	if err := f.roundRepo.Create(ctx, round); err != nil {
		t.Fatalf("creating round: %v", err)
	}

	final := f.addCompletedMatch(t, round.ID, team1.ID, team2.ID, winnerOf(team1.ID),
		twoInnings(team1.ID, 150, 120, team2.ID, 140, 120))
	round.Groups[0].MatchIDs = []int{final.ID}
	if err := f.roundRepo.UpdateGroups(ctx, round); err != nil {
		t.Fatalf("attaching match: %v", err)
	}

	// The round write fails: the winner must not be crowned while the round
	// is still open in storage.
	f.roundRepo.updateGroupsFailures = 1
	if err := f.svc.RecomputeForMatch(ctx, final); err == nil {
		t.Fatal("RecomputeForMatch succeeded despite the failed round write")
	}

	updatedTournament, _ := f.tournamentRepo.GetByID(ctx, tournament.ID)
	if updatedTournament.WinnerTeamID != nil {
		t.Fatalf("winner = %d crowned on an open round", *updatedTournament.WinnerTeamID)
	}
	updatedTeam, _ := f.teamRepo.GetByID(ctx, team1.ID)
	if len(updatedTeam.TournamentsWon) != 0 {
		t.Fatalf("tournaments won = %v before the round was persisted", updatedTeam.TournamentsWon)
	}

	// Storage recovered: the retry persists the round and crowns the winner.
	if err := f.svc.RecomputeForMatch(ctx, final); err != nil {
		t.Fatalf("retried RecomputeForMatch: %v", err)
	}
	updatedTournament, _ = f.tournamentRepo.GetByID(ctx, tournament.ID)
	if updatedTournament.WinnerTeamID == nil || *updatedTournament.WinnerTeamID != team1.ID {
		t.Errorf("tournament winner = %v, want team %d", updatedTournament.WinnerTeamID, team1.ID)
	}
}

func TestRecomputeFailsOnInconsistentData(t *testing.T) {
	f := newStandingsFixture()
	ctx := context.Background()

	round := &models.Round{
		ScheduleType:    models.ScheduleRoundRobin,
		TournamentID:    1,
		QualifiersCount: 1,
		Groups: []models.Group{{
			Name:      "Group A",
			TeamIDs:   []int{1, 2},
			Standings: zeroStandings([]int{1, 2}),
		}},
	}
	if err := f.roundRepo.Create(ctx, round); err != nil {
		t.Fatalf("creating round: %v", err)
	}

	// Completed but carrying no result.
	broken := &models.Match{
		TournamentID: 1, RoundID: round.ID, Team1ID: 1, Team2ID: 2,
		Status: models.MatchStatusCompleted,
	}
	if err := f.matchRepo.Create(ctx, nil, broken); err != nil {
		t.Fatalf("creating match: %v", err)
	}
	round.Groups[0].MatchIDs = []int{broken.ID}
	if err := f.roundRepo.UpdateGroups(ctx, round); err != nil {
		t.Fatalf("attaching match: %v", err)
	}

	err := f.svc.RecomputeForMatch(ctx, broken)
	if !errors.Is(err, ErrStandingsComputation) {
		t.Fatalf("error = %v, want ErrStandingsComputation", err)
	}

	// The failed recomputation must not have touched the stored round.
	updated, _ := f.roundRepo.GetByID(ctx, round.ID)
	if updated.Completed || len(updated.QualifiedTeamIDs) != 0 {
		t.Error("failed recomputation left partial state behind")
	}
}

func TestRecomputeUnknownGroup(t *testing.T) {
	f := newStandingsFixture()
	ctx := context.Background()

	round := &models.Round{
		ScheduleType: models.ScheduleRoundRobin,
		TournamentID: 1,
		Groups: []models.Group{{
			Name:    "Group A",
			TeamIDs: []int{1, 2},
		}},
	}
	if err := f.roundRepo.Create(ctx, round); err != nil {
		t.Fatalf("creating round: %v", err)
	}

	stray := &models.Match{RoundID: round.ID, Team1ID: 8, Team2ID: 9, Status: models.MatchStatusCompleted}
	if err := f.matchRepo.Create(ctx, nil, stray); err != nil {
		t.Fatalf("creating match: %v", err)
	}

	if err := f.svc.RecomputeForMatch(ctx, stray); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("error = %v, want ErrGroupNotFound", err)
	}
}
