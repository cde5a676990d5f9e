package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/cricket-system/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament with this name and season already exists")
)

// TournamentDateFilter selects tournaments relative to the current date.
type TournamentDateFilter string

const (
	TournamentsAll       TournamentDateFilter = "all"
	TournamentsUpcoming  TournamentDateFilter = "upcoming"
	TournamentsOngoing   TournamentDateFilter = "ongoing"
	TournamentsConcluded TournamentDateFilter = "concluded"
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter TournamentDateFilter, now time.Time) ([]*models.Tournament, error)
	AddTeams(ctx context.Context, tournamentID int, teamIDs []int) error
	// SetWinnerIfUnset assigns the tournament winner only when none is set
	// yet; reports whether this call performed the assignment.
	SetWinnerIfUnset(ctx context.Context, tournamentID, teamID int) (bool, error)
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `
	id, name, short_name, season, start_date, end_date, ball_type, tournament_type,
	winner_team_id, team_ids, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	if tournament.TeamIDs == nil {
		tournament.TeamIDs = []int64{}
	}
	query := `
		INSERT INTO tournaments
			(name, short_name, season, start_date, end_date, ball_type, tournament_type, team_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		tournament.Name, tournament.ShortName, tournament.Season,
		tournament.StartDate, tournament.EndDate,
		tournament.BallType, tournament.TournamentType,
		pq.Array(tournament.TeamIDs),
	).Scan(&tournament.ID, &tournament.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrTournamentNameConflict
	}
	return err
}

func scanTournament(scanner interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := scanner.Scan(
		&t.ID, &t.Name, &t.ShortName, &t.Season, &t.StartDate, &t.EndDate,
		&t.BallType, &t.TournamentType, &t.WinnerTeamID, pq.Array(&t.TeamIDs), &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return scanTournament(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter TournamentDateFilter, now time.Time) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments`
	args := []interface{}{}

	switch filter {
	case TournamentsUpcoming:
		query += ` WHERE start_date > $1`
		args = append(args, now)
	case TournamentsOngoing:
		query += ` WHERE start_date <= $1 AND end_date >= $1`
		args = append(args, now)
	case TournamentsConcluded:
		query += ` WHERE end_date < $1`
		args = append(args, now)
	}
	query += ` ORDER BY start_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) AddTeams(ctx context.Context, tournamentID int, teamIDs []int) error {
	int64IDs := make([]int64, len(teamIDs))
	for i, id := range teamIDs {
		int64IDs[i] = int64(id)
	}
	// Concatenate only ids not already present.
	query := `
		UPDATE tournaments SET team_ids = team_ids || (
			SELECT COALESCE(array_agg(v), '{}') FROM unnest($2::bigint[]) AS v
			WHERE NOT (v = ANY(team_ids))
		)
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, tournamentID, pq.Array(int64IDs))
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetWinnerIfUnset(ctx context.Context, tournamentID, teamID int) (bool, error) {
	query := `
		UPDATE tournaments SET winner_team_id = $2
		WHERE id = $1 AND winner_team_id IS NULL`
	result, err := r.db.ExecContext(ctx, query, tournamentID, teamID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
