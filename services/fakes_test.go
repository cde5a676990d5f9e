package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Dosada05/cricket-system/models"
	"github.com/Dosada05/cricket-system/repositories"
)

// In-memory repository fakes. They mirror the SQL semantics the Postgres
// implementations rely on: atomic-looking increments, duplicate-suppressing
// inserts and first-write-wins winner assignment.

type fakeMatchRepo struct {
	matches map[int]models.Match
	nextID  int

	// rounds backs ListCompletedInOpenRounds like the SQL subquery does.
	rounds *fakeRoundRepo
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]models.Match), nextID: 1}
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.nextID
	match.CreatedAt = time.Now()
	r.nextID++
	r.matches[match.ID] = *match
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := match
	return &copied, nil
}

func (r *fakeMatchRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Match, error) {
	out := make([]*models.Match, 0, len(ids))
	for _, id := range ids {
		if match, ok := r.matches[id]; ok {
			copied := match
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matches {
		if match.TournamentID != tournamentID {
			continue
		}
		if status != nil && match.Status != *status {
			continue
		}
		copied := match
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByTeam(_ context.Context, teamID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matches {
		if match.Team1ID == teamID || match.Team2ID == teamID {
			copied := match
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListPendingAggregation(_ context.Context) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matches {
		if match.Status == models.MatchStatusCompleted && (!match.PlayerStatsApplied || !match.TeamStatsApplied) {
			copied := match
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListCompletedInOpenRounds(_ context.Context) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	if r.rounds == nil {
		return out, nil
	}
	for _, match := range r.matches {
		if match.Status != models.MatchStatusCompleted {
			continue
		}
		round, ok := r.rounds.rounds[match.RoundID]
		if !ok || round.Completed {
			continue
		}
		copied := match
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	r.matches[match.ID] = *match
	return nil
}

func (r *fakeMatchRepo) MarkStatsApplied(_ context.Context, matchID int, playerStats, teamStats bool) error {
	match, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.PlayerStatsApplied = match.PlayerStatsApplied || playerStats
	match.TeamStatsApplied = match.TeamStatsApplied || teamStats
	r.matches[matchID] = match
	return nil
}

func (r *fakeMatchRepo) DeleteByIDs(_ context.Context, ids []int) error {
	for _, id := range ids {
		delete(r.matches, id)
	}
	return nil
}

type fakeRoundRepo struct {
	rounds map[int]models.Round
	nextID int

	// updateGroupsFailures makes the next n UpdateGroups calls fail, for
	// exercising transient storage errors.
	updateGroupsFailures int
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{rounds: make(map[int]models.Round), nextID: 1}
}

func (r *fakeRoundRepo) Create(_ context.Context, round *models.Round) error {
	round.ID = r.nextID
	round.CreatedAt = time.Now()
	r.nextID++
	r.rounds[round.ID] = *round
	return nil
}

func (r *fakeRoundRepo) GetByID(_ context.Context, id int) (*models.Round, error) {
	round, ok := r.rounds[id]
	if !ok {
		return nil, repositories.ErrRoundNotFound
	}
	copied := round
	return &copied, nil
}

func (r *fakeRoundRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Round, error) {
	out := make([]*models.Round, 0)
	for _, round := range r.rounds {
		if round.TournamentID == tournamentID {
			copied := round
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRoundRepo) UpdateGroups(_ context.Context, round *models.Round) error {
	if r.updateGroupsFailures > 0 {
		r.updateGroupsFailures--
		return errors.New("storage unavailable")
	}
	if _, ok := r.rounds[round.ID]; !ok {
		return repositories.ErrRoundNotFound
	}
	r.rounds[round.ID] = *round
	return nil
}

func (r *fakeRoundRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.rounds[id]; !ok {
		return repositories.ErrRoundNotFound
	}
	delete(r.rounds, id)
	return nil
}

// fakePlayerRepo is locked because the aggregator updates players from
// multiple goroutines.
type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[int]models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]models.Player), nextID: 1}
}

func (r *fakePlayerRepo) add(player models.Player) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	player.ID = r.nextID
	r.nextID++
	r.players[player.ID] = player
	return player.ID
}

func (r *fakePlayerRepo) Create(_ context.Context, player *models.Player) error {
	player.ID = r.add(*player)
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := player
	return &copied, nil
}

func (r *fakePlayerRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Player, 0, len(ids))
	for _, id := range ids {
		if player, ok := r.players[id]; ok {
			copied := player
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) IncrementMatches(_ context.Context, playerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Stats.Matches++
	r.players[playerID] = player
	return nil
}

func (r *fakePlayerRepo) ApplyBattingStats(_ context.Context, playerID int, delta repositories.BattingStatsDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Stats.BattingInnings++
	player.Stats.Runs += delta.Runs
	player.Stats.BallsFaced += delta.BallsFaced
	player.Stats.Centuries += delta.Centuries
	player.Stats.HalfCenturies += delta.HalfCenturies
	if delta.Runs > player.Stats.HighestScore {
		player.Stats.HighestScore = delta.Runs
	}
	r.players[playerID] = player
	return nil
}

func (r *fakePlayerRepo) ApplyBowlingStats(_ context.Context, playerID int, delta repositories.BowlingStatsDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Stats.BowlingInnings++
	player.Stats.RunsConceded += delta.RunsConceded
	player.Stats.Wickets += delta.Wickets
	player.Stats.FiveWickets += delta.FiveWickets
	player.Stats.TenWickets += delta.TenWickets
	player.Stats.Economy = delta.Economy
	r.players[playerID] = player
	return nil
}

// isBetterBowling mirrors the conditional best-bowling update the Postgres
// repository does in SQL: more wickets wins; equal wickets, fewer runs
// conceded wins.
func isBetterBowling(wickets, runs, bestWickets, bestRuns int) bool {
	if wickets != bestWickets {
		return wickets > bestWickets
	}
	return runs < bestRuns
}

func (r *fakePlayerRepo) UpdateBestBowling(_ context.Context, playerID, wickets, runsConceded int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	player, ok := r.players[playerID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	replace := player.Stats.BestBowlingWickets == nil ||
		isBetterBowling(wickets, runsConceded, *player.Stats.BestBowlingWickets, *player.Stats.BestBowlingRuns)
	if replace {
		w, runs := wickets, runsConceded
		player.Stats.BestBowlingWickets = &w
		player.Stats.BestBowlingRuns = &runs
		r.players[playerID] = player
	}
	return nil
}

type fakeTeamRepo struct {
	mu     sync.Mutex
	teams  map[int]models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]models.Team), nextID: 1}
}

func (r *fakeTeamRepo) add(team models.Team) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	team.ID = r.nextID
	r.nextID++
	r.teams[team.ID] = team
	return team.ID
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	team.ID = r.add(*team)
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := team
	return &copied, nil
}

func (r *fakeTeamRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		if team, ok := r.teams[id]; ok {
			copied := team
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) List(_ context.Context) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		copied := team
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTeamRepo) ApplyMatchResult(_ context.Context, teamID, wins, losses, draws int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Stats.Matches++
	team.Stats.Wins += wins
	team.Stats.Losses += losses
	team.Stats.Draws += draws
	r.teams[teamID] = team
	return nil
}

func (r *fakeTeamRepo) AddTournamentWon(_ context.Context, teamID, tournamentID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	for _, id := range team.TournamentsWon {
		if id == int64(tournamentID) {
			return nil
		}
	}
	team.TournamentsWon = append(team.TournamentsWon, int64(tournamentID))
	r.teams[teamID] = team
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[int]models.Tournament
	nextID      int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]models.Tournament), nextID: 1}
}

func (r *fakeTournamentRepo) add(tournament models.Tournament) int {
	tournament.ID = r.nextID
	r.nextID++
	r.tournaments[tournament.ID] = tournament
	return tournament.ID
}

func (r *fakeTournamentRepo) Create(_ context.Context, tournament *models.Tournament) error {
	tournament.ID = r.add(*tournament)
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	tournament, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := tournament
	return &copied, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, _ repositories.TournamentDateFilter, _ time.Time) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0, len(r.tournaments))
	for _, tournament := range r.tournaments {
		copied := tournament
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTournamentRepo) AddTeams(_ context.Context, tournamentID int, teamIDs []int) error {
	tournament, ok := r.tournaments[tournamentID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	for _, teamID := range teamIDs {
		exists := false
		for _, existing := range tournament.TeamIDs {
			if existing == int64(teamID) {
				exists = true
				break
			}
		}
		if !exists {
			tournament.TeamIDs = append(tournament.TeamIDs, int64(teamID))
		}
	}
	r.tournaments[tournamentID] = tournament
	return nil
}

func (r *fakeTournamentRepo) SetWinnerIfUnset(_ context.Context, tournamentID, teamID int) (bool, error) {
	tournament, ok := r.tournaments[tournamentID]
	if !ok {
		return false, repositories.ErrTournamentNotFound
	}
	if tournament.WinnerTeamID != nil {
		return false, nil
	}
	winner := teamID
	tournament.WinnerTeamID = &winner
	r.tournaments[tournamentID] = tournament
	return true, nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	matchEvents []string
	userEvents  []string
}

func (n *recordingNotifier) NotifyMatch(_ int, eventType string, _ interface{}) {
	n.matchEvents = append(n.matchEvents, eventType)
}

func (n *recordingNotifier) NotifyUser(_ int, eventType string, _ interface{}) {
	n.userEvents = append(n.userEvents, eventType)
}
