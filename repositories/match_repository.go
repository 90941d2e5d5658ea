package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

type MatchRepository interface {
	// Create canonicalizes the pair before storing it. ErrDuplicateMatch is
	// returned when the unordered pair already has a match in the tournament.
	Create(ctx context.Context, m *models.Match) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// DeleteByTournament removes the matches of one tournament, or all of them
	// when tournamentID is nil.
	DeleteByTournament(ctx context.Context, tournamentID *int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	m.Canonicalize()
	if !m.Result.Valid() {
		return fmt.Errorf("%w: invalid match result %q", ErrConstraint, m.Result)
	}

	query := `
		INSERT INTO matches (tournament_id, participant1_id, participant2_id, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query,
		m.TournamentID,
		m.Participant1ID,
		m.Participant2ID,
		m.Result,
	).Scan(&m.ID, &m.CreatedAt)

	return r.handleMatchError(err, m)
}

func (r *postgresMatchRepository) handleMatchError(err error, m *models.Match) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("players %d and %d in tournament %d: %w", m.Participant1ID, m.Participant2ID, m.TournamentID, ErrDuplicateMatch)
		case pqForeignKeyViolation:
			switch pqErr.Constraint {
			case "matches_participant1_fkey", "matches_participant2_fkey":
				return ErrParticipantNotFound
			}
		}
	}
	return wrapPQError("failed to create match", err)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	query := `
		SELECT id, tournament_id, participant1_id, participant2_id, result, created_at
		FROM matches
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.TournamentID, &m.Participant1ID, &m.Participant2ID, &m.Result, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, tournamentID *int) error {
	exec := getExecutor(ctx, r.db)
	var err error
	if tournamentID == nil {
		_, err = exec.ExecContext(ctx, `DELETE FROM matches`)
	} else {
		_, err = exec.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, *tournamentID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	return nil
}
