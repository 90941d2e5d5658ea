package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, description *string) (*models.Tournament, error)
	Get(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Count(ctx context.Context) (int, error)
	// Enroll adds an existing player to an existing tournament.
	Enroll(ctx context.Context, tournamentID, playerID int) (*models.Participant, error)
	ListParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	CountParticipants(ctx context.Context, tournamentID int) (int, error)
	ClearAll(ctx context.Context) error
}

type tournamentService struct {
	store  *repositories.Store
	logger *slog.Logger
}

func NewTournamentService(store *repositories.Store, logger *slog.Logger) TournamentService {
	return &tournamentService{store: store, logger: componentLogger(logger, "tournament_service")}
}

func (s *tournamentService) Create(ctx context.Context, description *string) (*models.Tournament, error) {
	t := &models.Tournament{Description: normalizeOptional(description)}
	if err := s.store.Tournaments.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "tournament created", slog.Int("tournament_id", t.ID))
	return t, nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	return s.store.Tournaments.GetByID(ctx, id)
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	return s.store.Tournaments.List(ctx)
}

func (s *tournamentService) Count(ctx context.Context) (int, error) {
	return s.store.Tournaments.Count(ctx)
}

func (s *tournamentService) Enroll(ctx context.Context, tournamentID, playerID int) (*models.Participant, error) {
	if tournamentID <= 0 || playerID <= 0 {
		return nil, fmt.Errorf("%w: tournament and player ids must be positive", ErrValidationFailed)
	}

	var participant *models.Participant
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		p := &models.Participant{TournamentID: tournamentID, PlayerID: playerID}
		if err := s.store.Participants.Create(ctx, p); err != nil {
			return err
		}
		created, err := s.store.Participants.Get(ctx, tournamentID, playerID)
		if err != nil {
			return err
		}
		participant = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "player enrolled",
		slog.Int("tournament_id", tournamentID),
		slog.Int("player_id", playerID),
	)
	return participant, nil
}

func (s *tournamentService) ListParticipants(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	if _, err := s.store.Tournaments.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.store.Participants.ListByTournament(ctx, tournamentID)
}

func (s *tournamentService) CountParticipants(ctx context.Context, tournamentID int) (int, error) {
	if _, err := s.store.Tournaments.GetByID(ctx, tournamentID); err != nil {
		return 0, err
	}
	return s.store.Participants.CountByTournament(ctx, tournamentID)
}

func (s *tournamentService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearTournaments(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "all tournaments cleared")
	return nil
}
