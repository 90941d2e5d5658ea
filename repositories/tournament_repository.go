package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `INSERT INTO tournaments (description) VALUES ($1) RETURNING id, created_at`
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, t.Description).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return wrapPQError("failed to create tournament", err)
	}
	return nil
}

func (r *postgresTournamentRepository) scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	if err := row.Scan(&t.ID, &t.Description, &t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT id, description, created_at FROM tournaments WHERE id = $1`
	t, err := r.scanTournament(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, `SELECT id, description, created_at FROM tournaments ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, err := r.scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := getExecutor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM tournaments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return count, nil
}

func (r *postgresTournamentRepository) DeleteAll(ctx context.Context) error {
	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM tournaments`); err != nil {
		return fmt.Errorf("failed to delete tournaments: %w", err)
	}
	return nil
}
