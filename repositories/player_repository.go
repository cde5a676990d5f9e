package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/cricket-system/models"
	"github.com/lib/pq"
)

var ErrPlayerNotFound = errors.New("player not found")

// BattingStatsDelta is the per-innings increment applied to a player's
// cumulative batting record.
type BattingStatsDelta struct {
	Runs          int
	BallsFaced    int
	Centuries     int
	HalfCenturies int
}

// BowlingStatsDelta is the per-innings increment applied to a player's
// cumulative bowling record. Economy overwrites the stored value.
type BowlingStatsDelta struct {
	RunsConceded int
	Wickets      int
	FiveWickets  int
	TenWickets   int
	Economy      float64
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error)
	IncrementMatches(ctx context.Context, playerID int) error
	ApplyBattingStats(ctx context.Context, playerID int, delta BattingStatsDelta) error
	ApplyBowlingStats(ctx context.Context, playerID int, delta BowlingStatsDelta) error
	UpdateBestBowling(ctx context.Context, playerID, wickets, runsConceded int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `
	id, name, role, team_id,
	matches, batting_innings, runs, balls_faced, highest_score, centuries, half_centuries,
	bowling_innings, runs_conceded, wickets, five_wickets, ten_wickets, economy,
	best_bowling_wickets, best_bowling_runs, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (name, role, team_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		player.Name,
		player.Role,
		player.TeamID,
	).Scan(&player.ID, &player.CreatedAt)
}

func scanPlayer(scanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	p := &models.Player{}
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Role, &p.TeamID,
		&p.Stats.Matches, &p.Stats.BattingInnings, &p.Stats.Runs, &p.Stats.BallsFaced,
		&p.Stats.HighestScore, &p.Stats.Centuries, &p.Stats.HalfCenturies,
		&p.Stats.BowlingInnings, &p.Stats.RunsConceded, &p.Stats.Wickets,
		&p.Stats.FiveWickets, &p.Stats.TenWickets, &p.Stats.Economy,
		&p.Stats.BestBowlingWickets, &p.Stats.BestBowlingRuns, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	if len(ids) == 0 {
		return []*models.Player{}, nil
	}
	int64IDs := make([]int64, len(ids))
	for i, id := range ids {
		int64IDs[i] = int64(id)
	}

	query := `SELECT ` + playerColumns + ` FROM players WHERE id = ANY($1) ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(int64IDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0, len(ids))
	for rows.Next() {
		p, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// IncrementMatches adds one appearance. The increment runs in SQL so that
// concurrent aggregations for different matches never lose an update.
func (r *postgresPlayerRepository) IncrementMatches(ctx context.Context, playerID int) error {
	query := `UPDATE players SET matches = matches + 1 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) ApplyBattingStats(ctx context.Context, playerID int, delta BattingStatsDelta) error {
	query := `
		UPDATE players SET
			batting_innings = batting_innings + 1,
			runs = runs + $1,
			balls_faced = balls_faced + $2,
			highest_score = GREATEST(highest_score, $1),
			centuries = centuries + $3,
			half_centuries = half_centuries + $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		delta.Runs, delta.BallsFaced, delta.Centuries, delta.HalfCenturies, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) ApplyBowlingStats(ctx context.Context, playerID int, delta BowlingStatsDelta) error {
	query := `
		UPDATE players SET
			bowling_innings = bowling_innings + 1,
			runs_conceded = runs_conceded + $1,
			wickets = wickets + $2,
			five_wickets = five_wickets + $3,
			ten_wickets = ten_wickets + $4,
			economy = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		delta.RunsConceded, delta.Wickets, delta.FiveWickets, delta.TenWickets, delta.Economy, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// UpdateBestBowling replaces the stored best-bowling figure only when the
// new figure is strictly better: more wickets, or equal wickets and fewer
// runs conceded. The comparison happens in the WHERE clause so the
// read-modify-write is atomic per player row.
func (r *postgresPlayerRepository) UpdateBestBowling(ctx context.Context, playerID, wickets, runsConceded int) error {
	query := `
		UPDATE players SET
			best_bowling_wickets = $2,
			best_bowling_runs = $3
		WHERE id = $1
		  AND (best_bowling_wickets IS NULL
		       OR $2 > best_bowling_wickets
		       OR ($2 = best_bowling_wickets AND $3 < best_bowling_runs))`
	_, err := r.db.ExecContext(ctx, query, playerID, wickets, runsConceded)
	return err
}
