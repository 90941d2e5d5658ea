package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

const maxPlayerNameLength = 200

type PlayerService interface {
	Register(ctx context.Context, name string) (*models.Player, error)
	Get(ctx context.Context, id int) (*models.Player, error)
	Count(ctx context.Context) (int, error)
	// ClearAll deletes every player along with their enrollments and matches.
	ClearAll(ctx context.Context) error
}

type playerService struct {
	store  *repositories.Store
	logger *slog.Logger
}

func NewPlayerService(store *repositories.Store, logger *slog.Logger) PlayerService {
	return &playerService{store: store, logger: componentLogger(logger, "player_service")}
}

func (s *playerService) Register(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if len(name) > maxPlayerNameLength {
		return nil, fmt.Errorf("%w: player name must not exceed %d bytes", ErrValidationFailed, maxPlayerNameLength)
	}

	player := &models.Player{Name: name}
	if err := s.store.Players.Create(ctx, player); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "player registered", slog.Int("player_id", player.ID))
	return player, nil
}

func (s *playerService) Get(ctx context.Context, id int) (*models.Player, error) {
	return s.store.Players.GetByID(ctx, id)
}

func (s *playerService) Count(ctx context.Context) (int, error) {
	return s.store.Players.Count(ctx)
}

func (s *playerService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearPlayers(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "all players cleared")
	return nil
}
