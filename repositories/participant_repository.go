package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	Get(ctx context.Context, tournamentID, playerID int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	// AddResult increments the stored counters of one participant.
	AddResult(ctx context.Context, tournamentID, playerID, wins, ties int) error
	// SetBye flags the participant's bye; ErrAlreadyByed if it is already set.
	SetBye(ctx context.Context, tournamentID, playerID int) error
	// ResetScores zeroes wins/ties/bye in one tournament, or everywhere when
	// tournamentID is nil.
	ResetScores(ctx context.Context, tournamentID *int) error
	DeleteAll(ctx context.Context) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (tournament_id, player_id)
		VALUES ($1, $2)
		RETURNING id, wins, ties, bye, created_at`

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, p.TournamentID, p.PlayerID).
		Scan(&p.ID, &p.Wins, &p.Ties, &p.Bye, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := asPQError(err); ok {
			switch pqErr.Code {
			case pqUniqueViolation:
				if pqErr.Constraint == "participants_tournament_id_player_id_key" {
					return fmt.Errorf("player %d in tournament %d: %w", p.PlayerID, p.TournamentID, ErrDuplicateEntry)
				}
			case pqForeignKeyViolation:
				switch pqErr.Constraint {
				case "participants_tournament_id_fkey":
					return ErrTournamentNotFound
				case "participants_player_id_fkey":
					return ErrPlayerNotFound
				}
			}
		}
		return wrapPQError("failed to create participant", err)
	}
	return nil
}

const selectParticipantSQL = `
		SELECT p.id, p.tournament_id, p.player_id, p.wins, p.ties, p.bye, p.created_at, pl.name
		FROM participants p
		JOIN players pl ON pl.id = p.player_id`

func (r *postgresParticipantRepository) scanParticipant(row rowScanner) (*models.Participant, error) {
	p := &models.Participant{}
	err := row.Scan(&p.ID, &p.TournamentID, &p.PlayerID, &p.Wins, &p.Ties, &p.Bye, &p.CreatedAt, &p.Name)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) Get(ctx context.Context, tournamentID, playerID int) (*models.Participant, error) {
	query := selectParticipantSQL + ` WHERE p.tournament_id = $1 AND p.player_id = $2`
	p, err := r.scanParticipant(getExecutor(ctx, r.db).QueryRowContext(ctx, query, tournamentID, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

// ListByTournament returns participants in enrollment order.
func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	query := selectParticipantSQL + ` WHERE p.tournament_id = $1 ORDER BY p.id ASC`
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants by tournament: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p, err := r.scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM participants WHERE tournament_id = $1`
	if err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) AddResult(ctx context.Context, tournamentID, playerID, wins, ties int) error {
	query := `
		UPDATE participants SET wins = wins + $1, ties = ties + $2
		WHERE tournament_id = $3 AND player_id = $4`
	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, wins, ties, tournamentID, playerID)
	if err != nil {
		return fmt.Errorf("failed to update participant counters: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) SetBye(ctx context.Context, tournamentID, playerID int) error {
	query := `
		UPDATE participants SET bye = TRUE
		WHERE tournament_id = $1 AND player_id = $2 AND bye = FALSE`
	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, tournamentID, playerID)
	if err != nil {
		return fmt.Errorf("failed to set bye: %w", err)
	}
	if err := checkAffectedRows(result, ErrAlreadyByed); err != nil {
		if !errors.Is(err, ErrAlreadyByed) {
			return err
		}
		// Nothing updated: either the bye is already set or there is no such participant.
		if _, getErr := r.Get(ctx, tournamentID, playerID); getErr != nil {
			return getErr
		}
		return err
	}
	return nil
}

func (r *postgresParticipantRepository) ResetScores(ctx context.Context, tournamentID *int) error {
	exec := getExecutor(ctx, r.db)
	var err error
	if tournamentID == nil {
		_, err = exec.ExecContext(ctx, `UPDATE participants SET wins = 0, ties = 0, bye = FALSE`)
	} else {
		_, err = exec.ExecContext(ctx, `UPDATE participants SET wins = 0, ties = 0, bye = FALSE WHERE tournament_id = $1`, *tournamentID)
	}
	if err != nil {
		return fmt.Errorf("failed to reset participant scores: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) DeleteAll(ctx context.Context) error {
	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM participants`); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	return nil
}
