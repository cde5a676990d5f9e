package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/cricket-system/models"
	"github.com/lib/pq"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	GetByID(ctx context.Context, id int) (*models.Round, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Round, error)
	// UpdateGroups persists the round's owned documents (groups with their
	// standings and fixture lists) plus qualification state in one write, so
	// a failed recomputation never leaves a partially updated round behind.
	UpdateGroups(ctx context.Context, round *models.Round) error
	Delete(ctx context.Context, id int) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

const roundColumns = `
	id, name, schedule_type, tournament_id, qualifiers_count, is_final_round,
	completed, groups, qualified_team_ids, created_at`

func (r *postgresRoundRepository) Create(ctx context.Context, round *models.Round) error {
	groups, err := marshalJSONB(round.Groups)
	if err != nil {
		return err
	}
	if round.QualifiedTeamIDs == nil {
		round.QualifiedTeamIDs = []int{}
	}
	qualified := make([]int64, len(round.QualifiedTeamIDs))
	for i, id := range round.QualifiedTeamIDs {
		qualified[i] = int64(id)
	}

	query := `
		INSERT INTO rounds
			(name, schedule_type, tournament_id, qualifiers_count, is_final_round, completed, groups, qualified_team_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		round.Name, round.ScheduleType, round.TournamentID,
		round.QualifiersCount, round.IsFinalRound, round.Completed,
		groups, pq.Array(qualified),
	).Scan(&round.ID, &round.CreatedAt)
}

func scanRound(scanner interface{ Scan(...interface{}) error }) (*models.Round, error) {
	round := &models.Round{}
	var groups []byte
	var qualified []int64

	err := scanner.Scan(
		&round.ID, &round.Name, &round.ScheduleType, &round.TournamentID,
		&round.QualifiersCount, &round.IsFinalRound, &round.Completed,
		&groups, pq.Array(&qualified), &round.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	if err := unmarshalJSONB(groups, &round.Groups); err != nil {
		return nil, err
	}
	round.QualifiedTeamIDs = make([]int, len(qualified))
	for i, id := range qualified {
		round.QualifiedTeamIDs[i] = int(id)
	}
	return round, nil
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, id int) (*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`
	return scanRound(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRoundRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE tournament_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		round, scanErr := scanRound(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

func (r *postgresRoundRepository) UpdateGroups(ctx context.Context, round *models.Round) error {
	groups, err := marshalJSONB(round.Groups)
	if err != nil {
		return err
	}
	qualified := make([]int64, len(round.QualifiedTeamIDs))
	for i, id := range round.QualifiedTeamIDs {
		qualified[i] = int64(id)
	}

	query := `
		UPDATE rounds SET
			groups = $1,
			qualified_team_ids = $2,
			completed = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, groups, pq.Array(qualified), round.Completed, round.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

func (r *postgresRoundRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM rounds WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}
