package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/cricket-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Match, error)
	ListPendingAggregation(ctx context.Context) ([]*models.Match, error)
	ListCompletedInOpenRounds(ctx context.Context) ([]*models.Match, error)
	// Update persists the mutable part of the match: lifecycle state, toss,
	// elevens, innings, result and aggregation flags.
	Update(ctx context.Context, match *models.Match) error
	MarkStatsApplied(ctx context.Context, matchID int, playerStats, teamStats bool) error
	DeleteByIDs(ctx context.Context, ids []int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, round_id, team1_id, team2_id, venue, overs, match_date, start_time, status,
	toss_winner_id, toss_decision, playing_11, current_innings, innings, result,
	player_stats_applied, team_stats_applied, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)

	playing11, err := marshalJSONB(match.PlayingXIs)
	if err != nil {
		return err
	}
	innings, err := marshalJSONB(match.Innings)
	if err != nil {
		return err
	}
	result, err := marshalJSONB(match.Result)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO matches
			(tournament_id, round_id, team1_id, team2_id, venue, overs, match_date, start_time, status,
			 toss_winner_id, toss_decision, playing_11, current_innings, innings, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err = executor.QueryRowContext(ctx, query,
		match.TournamentID, match.RoundID, match.Team1ID, match.Team2ID,
		match.Venue, match.Overs, match.Date, match.StartTime, match.Status,
		match.TossWinnerID, match.TossDecision, playing11, match.CurrentInnings, innings, result,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func scanMatch(scanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	var playing11, innings, result []byte

	err := scanner.Scan(
		&m.ID, &m.TournamentID, &m.RoundID, &m.Team1ID, &m.Team2ID,
		&m.Venue, &m.Overs, &m.Date, &m.StartTime, &m.Status,
		&m.TossWinnerID, &m.TossDecision, &playing11, &m.CurrentInnings, &innings, &result,
		&m.PlayerStatsApplied, &m.TeamStatsApplied, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if err := unmarshalJSONB(playing11, &m.PlayingXIs); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(innings, &m.Innings); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(result, &m.Result); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Match, error) {
	if len(ids) == 0 {
		return []*models.Match{}, nil
	}
	int64IDs := make([]int64, len(ids))
	for i, id := range ids {
		int64IDs[i] = int64(id)
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = ANY($1) ORDER BY id ASC`
	return r.listQuery(ctx, query, pq.Array(int64IDs))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	if status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(len(args)+1))
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY match_date ASC, start_time ASC, id ASC")

	return r.listQuery(ctx, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE team1_id = $1 OR team2_id = $1
		ORDER BY match_date ASC, start_time ASC, id ASC`
	return r.listQuery(ctx, query, teamID)
}

// ListPendingAggregation returns completed matches whose statistics have not
// been fully folded into player or team records yet.
func (r *postgresMatchRepository) ListPendingAggregation(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE status = $1 AND (player_stats_applied = FALSE OR team_stats_applied = FALSE)
		ORDER BY id ASC`
	return r.listQuery(ctx, query, models.MatchStatusCompleted)
}

// ListCompletedInOpenRounds returns completed matches whose round has not
// been finalized, so a failed standings write can be replayed later.
func (r *postgresMatchRepository) ListCompletedInOpenRounds(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE status = $1 AND round_id IN (SELECT id FROM rounds WHERE completed = FALSE)
		ORDER BY round_id ASC, id ASC`
	return r.listQuery(ctx, query, models.MatchStatusCompleted)
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	playing11, err := marshalJSONB(match.PlayingXIs)
	if err != nil {
		return err
	}
	innings, err := marshalJSONB(match.Innings)
	if err != nil {
		return err
	}
	result, err := marshalJSONB(match.Result)
	if err != nil {
		return err
	}

	query := `
		UPDATE matches SET
			status = $1,
			toss_winner_id = $2,
			toss_decision = $3,
			playing_11 = $4,
			current_innings = $5,
			innings = $6,
			result = $7,
			player_stats_applied = $8,
			team_stats_applied = $9
		WHERE id = $10`

	res, err := r.db.ExecContext(ctx, query,
		match.Status, match.TossWinnerID, match.TossDecision,
		playing11, match.CurrentInnings, innings, result,
		match.PlayerStatsApplied, match.TeamStatsApplied, match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(res, ErrMatchNotFound)
}

func (r *postgresMatchRepository) MarkStatsApplied(ctx context.Context, matchID int, playerStats, teamStats bool) error {
	query := `
		UPDATE matches SET
			player_stats_applied = player_stats_applied OR $1,
			team_stats_applied = team_stats_applied OR $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, playerStats, teamStats, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByIDs(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	int64IDs := make([]int64, len(ids))
	for i, id := range ids {
		int64IDs[i] = int64(id)
	}
	query := `DELETE FROM matches WHERE id = ANY($1)`
	_, err := r.db.ExecContext(ctx, query, pq.Array(int64IDs))
	return err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "matches_team1_id_fkey", "matches_team2_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
