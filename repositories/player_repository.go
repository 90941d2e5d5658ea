package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

type PlayerRepository interface {
	Create(ctx context.Context, p *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `INSERT INTO players (name) VALUES ($1) RETURNING id, created_at`
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, p.Name).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return wrapPQError("failed to create player", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, name, created_at FROM players WHERE id = $1`
	p := &models.Player{}
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := getExecutor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) DeleteAll(ctx context.Context) error {
	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("failed to delete players: %w", err)
	}
	return nil
}
