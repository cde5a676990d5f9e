package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/cricket-system/models"
	"github.com/lib/pq"
)

var (
	ErrSquadNotFound = errors.New("squad not found")
	ErrSquadConflict = errors.New("squad already exists for this team and tournament")
)

type SquadRepository interface {
	Create(ctx context.Context, squad *models.Squad) error
	GetByID(ctx context.Context, id int) (*models.Squad, error)
	GetByTournamentAndTeam(ctx context.Context, tournamentID, teamID int) (*models.Squad, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Squad, error)
	UpdateStatus(ctx context.Context, id int, status models.SquadStatus) error
	RemovePlayer(ctx context.Context, id, playerID int) error
	Delete(ctx context.Context, id int) error
}

type postgresSquadRepository struct {
	db *sql.DB
}

func NewPostgresSquadRepository(db *sql.DB) SquadRepository {
	return &postgresSquadRepository{db: db}
}

const squadColumns = `id, name, team_id, tournament_id, status, player_ids, created_at`

func (r *postgresSquadRepository) Create(ctx context.Context, squad *models.Squad) error {
	if squad.PlayerIDs == nil {
		squad.PlayerIDs = []int64{}
	}
	query := `
		INSERT INTO squads (name, team_id, tournament_id, status, player_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		squad.Name, squad.TeamID, squad.TournamentID, squad.Status, pq.Array(squad.PlayerIDs),
	).Scan(&squad.ID, &squad.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrSquadConflict
	}
	return err
}

func scanSquad(scanner interface{ Scan(...interface{}) error }) (*models.Squad, error) {
	s := &models.Squad{}
	err := scanner.Scan(
		&s.ID, &s.Name, &s.TeamID, &s.TournamentID, &s.Status, pq.Array(&s.PlayerIDs), &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSquadNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresSquadRepository) GetByID(ctx context.Context, id int) (*models.Squad, error) {
	query := `SELECT ` + squadColumns + ` FROM squads WHERE id = $1`
	return scanSquad(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSquadRepository) GetByTournamentAndTeam(ctx context.Context, tournamentID, teamID int) (*models.Squad, error) {
	query := `SELECT ` + squadColumns + ` FROM squads WHERE tournament_id = $1 AND team_id = $2`
	return scanSquad(r.db.QueryRowContext(ctx, query, tournamentID, teamID))
}

func (r *postgresSquadRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Squad, error) {
	query := `SELECT ` + squadColumns + ` FROM squads WHERE tournament_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	squads := make([]*models.Squad, 0)
	for rows.Next() {
		s, scanErr := scanSquad(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		squads = append(squads, s)
	}
	return squads, rows.Err()
}

func (r *postgresSquadRepository) UpdateStatus(ctx context.Context, id int, status models.SquadStatus) error {
	query := `UPDATE squads SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSquadNotFound)
}

func (r *postgresSquadRepository) RemovePlayer(ctx context.Context, id, playerID int) error {
	query := `UPDATE squads SET player_ids = array_remove(player_ids, $2) WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, int64(playerID))
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSquadNotFound)
}

func (r *postgresSquadRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM squads WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSquadNotFound)
}
