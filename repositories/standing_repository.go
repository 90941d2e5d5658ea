package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/scoring"
)

type StandingRepository interface {
	// ListByTournament aggregates the match log of a tournament into standings,
	// highest points first. Participants without matches are included with
	// zeroes; equal points keep enrollment order.
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Standing, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

// Wins and matches already include the bye; points are applied in Go so the
// point system lives in one place.
const standingsSQL = `
		SELECT
			p.player_id,
			pl.name,
			COALESCE(SUM(CASE
				WHEN m.result = 'participant1' AND m.participant1_id = p.player_id THEN 1
				WHEN m.result = 'participant2' AND m.participant2_id = p.player_id THEN 1
				ELSE 0 END), 0) + CASE WHEN p.bye THEN 1 ELSE 0 END AS wins,
			COALESCE(SUM(CASE WHEN m.result = 'tie' THEN 1 ELSE 0 END), 0) AS ties,
			COUNT(m.id) + CASE WHEN p.bye THEN 1 ELSE 0 END AS matches,
			p.bye
		FROM participants p
		JOIN players pl ON pl.id = p.player_id
		LEFT JOIN matches m
			ON m.tournament_id = p.tournament_id
			AND (m.participant1_id = p.player_id OR m.participant2_id = p.player_id)
		WHERE p.tournament_id = $1
		GROUP BY p.id, p.player_id, pl.name, p.bye
		ORDER BY p.id ASC`

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, standingsSQL, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]models.Standing, 0)
	for rows.Next() {
		var s models.Standing
		if err := rows.Scan(&s.PlayerID, &s.Name, &s.Wins, &s.Ties, &s.Matches, &s.Bye); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		s.Points = scoring.Points(s.Wins, s.Ties)
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standing rows: %w", err)
	}

	scoring.SortForDisplay(standings)
	return standings, nil
}
