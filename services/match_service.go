package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// Notifier receives an event after a write to a tournament has committed.
type Notifier interface {
	Publish(tournamentID int, eventType string, payload interface{})
}

type MatchService interface {
	RecordVictory(ctx context.Context, tournamentID, winnerID, loserID int) (*models.Match, error)
	RecordTie(ctx context.Context, tournamentID, player1ID, player2ID int) (*models.Match, error)
	RecordBye(ctx context.Context, tournamentID, playerID int) error
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// ClearMatches deletes the matches of one tournament, or of every
	// tournament when tournamentID is nil, and resets the affected counters.
	ClearMatches(ctx context.Context, tournamentID *int) error
}

type matchService struct {
	store     *repositories.Store
	standings StandingsService
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewMatchService wires the recorder. notifier and m may be nil.
func NewMatchService(store *repositories.Store, standings StandingsService, notifier Notifier, m *metrics.Metrics, logger *slog.Logger) MatchService {
	return &matchService{
		store:     store,
		standings: standings,
		notifier:  notifier,
		metrics:   m,
		logger:    componentLogger(logger, "match_service"),
	}
}

func (s *matchService) RecordVictory(ctx context.Context, tournamentID, winnerID, loserID int) (*models.Match, error) {
	if winnerID == loserID {
		return nil, ErrSelfMatch
	}
	match := models.NewVictory(tournamentID, winnerID, loserID)
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireEnrolled(ctx, tournamentID, winnerID, loserID); err != nil {
			return err
		}
		if err := s.store.Matches.Create(ctx, match); err != nil {
			return err
		}
		return s.store.Participants.AddResult(ctx, tournamentID, winnerID, 1, 0)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "victory recorded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("winner_id", winnerID),
		slog.Int("loser_id", loserID),
	)
	s.metrics.MatchRecorded(match.Result)
	s.publish(ctx, tournamentID, brackets.EventMatchRecorded, match)
	return match, nil
}

func (s *matchService) RecordTie(ctx context.Context, tournamentID, player1ID, player2ID int) (*models.Match, error) {
	if player1ID == player2ID {
		return nil, ErrSelfMatch
	}
	match := models.NewTie(tournamentID, player1ID, player2ID)
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireEnrolled(ctx, tournamentID, player1ID, player2ID); err != nil {
			return err
		}
		if err := s.store.Matches.Create(ctx, match); err != nil {
			return err
		}
		if err := s.store.Participants.AddResult(ctx, tournamentID, player1ID, 0, 1); err != nil {
			return err
		}
		return s.store.Participants.AddResult(ctx, tournamentID, player2ID, 0, 1)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tie recorded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("player1_id", match.Participant1ID),
		slog.Int("player2_id", match.Participant2ID),
	)
	s.metrics.MatchRecorded(match.Result)
	s.publish(ctx, tournamentID, brackets.EventMatchRecorded, match)
	return match, nil
}

func (s *matchService) RecordBye(ctx context.Context, tournamentID, playerID int) error {
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireEnrolled(ctx, tournamentID, playerID); err != nil {
			return err
		}
		return s.store.Participants.SetBye(ctx, tournamentID, playerID)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "bye recorded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("player_id", playerID),
	)
	s.metrics.ByeRecorded()
	s.publish(ctx, tournamentID, brackets.EventByeRecorded, map[string]int{"player_id": playerID})
	return nil
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.store.Tournaments.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.store.Matches.ListByTournament(ctx, tournamentID)
}

func (s *matchService) ClearMatches(ctx context.Context, tournamentID *int) error {
	var affected []int
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		affected = affected[:0]
		if tournamentID != nil {
			if _, err := s.store.Tournaments.GetByID(ctx, *tournamentID); err != nil {
				return err
			}
			affected = append(affected, *tournamentID)
		} else {
			tournaments, err := s.store.Tournaments.List(ctx)
			if err != nil {
				return err
			}
			for _, t := range tournaments {
				affected = append(affected, t.ID)
			}
		}
		return s.store.ClearMatches(ctx, tournamentID)
	})
	if err != nil {
		return err
	}

	if tournamentID != nil {
		s.logger.InfoContext(ctx, "matches cleared", slog.Int("tournament_id", *tournamentID))
	} else {
		s.logger.InfoContext(ctx, "matches cleared in every tournament", slog.Int("tournaments", len(affected)))
	}
	for _, id := range affected {
		s.publish(ctx, id, brackets.EventMatchesCleared, nil)
	}
	return nil
}

// requireEnrolled reports the first of playerIDs that is not a participant.
func (s *matchService) requireEnrolled(ctx context.Context, tournamentID int, playerIDs ...int) error {
	if _, err := s.store.Tournaments.GetByID(ctx, tournamentID); err != nil {
		return err
	}
	for _, id := range playerIDs {
		if _, err := s.store.Participants.Get(ctx, tournamentID, id); err != nil {
			return fmt.Errorf("player %d: %w", id, err)
		}
	}
	return nil
}

type tournamentEvent struct {
	Event     interface{}       `json:"event,omitempty"`
	Standings []models.Standing `json:"standings"`
}

// publish pushes the event with fresh standings. Failures here never undo
// the committed write.
func (s *matchService) publish(ctx context.Context, tournamentID int, eventType string, event interface{}) {
	if s.notifier == nil {
		return
	}
	standings, err := s.standings.Standings(ctx, tournamentID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load standings for event",
			slog.Int("tournament_id", tournamentID),
			slog.String("event", eventType),
			slog.Any("error", err),
		)
		return
	}
	s.notifier.Publish(tournamentID, eventType, tournamentEvent{Event: event, Standings: standings})
}
