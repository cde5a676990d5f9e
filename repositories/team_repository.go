package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/cricket-system/models"
	"github.com/lib/pq"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	// ApplyMatchResult atomically bumps the team's cumulative counters.
	ApplyMatchResult(ctx context.Context, teamID, wins, losses, draws int) error
	// AddTournamentWon appends the tournament to the team's trophy list,
	// suppressing duplicates.
	AddTournamentWon(ctx context.Context, teamID, tournamentID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, club_id, matches, wins, losses, draws, tournaments_won, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, club_id, tournaments_won)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	if team.TournamentsWon == nil {
		team.TournamentsWon = []int64{}
	}
	return r.db.QueryRowContext(ctx, query,
		team.Name,
		team.ClubID,
		pq.Array(team.TournamentsWon),
	).Scan(&team.ID, &team.CreatedAt)
}

func scanTeam(scanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	t := &models.Team{}
	err := scanner.Scan(
		&t.ID, &t.Name, &t.ClubID,
		&t.Stats.Matches, &t.Stats.Wins, &t.Stats.Losses, &t.Stats.Draws,
		pq.Array(&t.TournamentsWon), &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error) {
	if len(ids) == 0 {
		return []*models.Team{}, nil
	}
	int64IDs := make([]int64, len(ids))
	for i, id := range ids {
		int64IDs[i] = int64(id)
	}
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1) ORDER BY id ASC`
	return r.listQuery(ctx, query, pq.Array(int64IDs))
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY id ASC`
	return r.listQuery(ctx, query)
}

func (r *postgresTeamRepository) ApplyMatchResult(ctx context.Context, teamID, wins, losses, draws int) error {
	query := `
		UPDATE teams SET
			matches = matches + 1,
			wins = wins + $1,
			losses = losses + $2,
			draws = draws + $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, wins, losses, draws, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddTournamentWon(ctx context.Context, teamID, tournamentID int) error {
	// The guard in the WHERE clause makes repeated calls no-ops.
	query := `
		UPDATE teams SET tournaments_won = array_append(tournaments_won, $2)
		WHERE id = $1 AND NOT ($2 = ANY(tournaments_won))`
	_, err := r.db.ExecContext(ctx, query, teamID, int64(tournamentID))
	return err
}
