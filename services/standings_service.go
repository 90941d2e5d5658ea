package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/scoring"
)

type StandingsService interface {
	// Standings returns the tournament's standings, highest points first.
	Standings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	// Verify recomputes the standings from the raw match log and checks them
	// against the participants' stored counters.
	Verify(ctx context.Context, tournamentID int) ([]models.Standing, error)
}

type standingsService struct {
	store  *repositories.Store
	logger *slog.Logger
}

func NewStandingsService(store *repositories.Store, logger *slog.Logger) StandingsService {
	return &standingsService{store: store, logger: componentLogger(logger, "standings_service")}
}

func (s *standingsService) Standings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	if _, err := s.store.Tournaments.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.store.Standings.ListByTournament(ctx, tournamentID)
}

func (s *standingsService) Verify(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	var (
		participants []*models.Participant
		matches      []*models.Match
	)
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Tournaments.GetByID(ctx, tournamentID); err != nil {
			return err
		}
		var err error
		if participants, err = s.store.Participants.ListByTournament(ctx, tournamentID); err != nil {
			return err
		}
		matches, err = s.store.Matches.ListByTournament(ctx, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	recomputed := scoring.Tally(participants, matches)

	matchRows := make(map[int]int, len(participants))
	for _, m := range matches {
		matchRows[m.Participant1ID]++
		matchRows[m.Participant2ID]++
	}
	for i, p := range participants {
		stored := scoring.FromCounters(p, matchRows[p.PlayerID])
		if stored != recomputed[i] {
			s.logger.ErrorContext(ctx, "standings diverged",
				slog.Int("tournament_id", tournamentID),
				slog.Int("player_id", p.PlayerID),
				slog.Int("stored_points", stored.Points),
				slog.Int("recomputed_points", recomputed[i].Points),
			)
			return nil, fmt.Errorf("%w: player %d has %d stored points, match log gives %d",
				ErrStandingsDiverged, p.PlayerID, stored.Points, recomputed[i].Points)
		}
	}

	scoring.SortForDisplay(recomputed)
	return recomputed, nil
}
