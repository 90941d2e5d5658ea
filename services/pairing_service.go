package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
)

type PairingService interface {
	// PairNextRound proposes the next round from the current standings.
	// Nothing is written.
	PairNextRound(ctx context.Context, tournamentID int) (*brackets.Round, error)
	// Overview returns the standings together with the round paired from
	// exactly those standings.
	Overview(ctx context.Context, tournamentID int) ([]models.Standing, *brackets.Round, error)
}

type pairingService struct {
	standings StandingsService
	generator brackets.PairingGenerator
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewPairingService(standings StandingsService, generator brackets.PairingGenerator, m *metrics.Metrics, logger *slog.Logger) PairingService {
	if generator == nil {
		generator = brackets.NewSwissGenerator()
	}
	return &pairingService{
		standings: standings,
		generator: generator,
		metrics:   m,
		logger:    componentLogger(logger, "pairing_service"),
	}
}

func (s *pairingService) PairNextRound(ctx context.Context, tournamentID int) (*brackets.Round, error) {
	_, round, err := s.Overview(ctx, tournamentID)
	return round, err
}

func (s *pairingService) Overview(ctx context.Context, tournamentID int) ([]models.Standing, *brackets.Round, error) {
	standings, err := s.standings.Standings(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}

	round, err := s.pair(ctx, tournamentID, standings)
	if err != nil {
		return nil, nil, err
	}
	return standings, round, nil
}

func (s *pairingService) pair(ctx context.Context, tournamentID int, standings []models.Standing) (*brackets.Round, error) {
	round, err := s.generator.Pair(ctx, standings)
	if err != nil {
		return nil, err
	}

	for _, u := range round.Unpaired {
		s.logger.WarnContext(ctx, "odd number of participants, player left unpaired",
			slog.Int("tournament_id", tournamentID),
			slog.Int("player_id", u.PlayerID),
			slog.String("generator", s.generator.GetName()),
		)
	}
	s.metrics.PairingsGenerated(len(round.Unpaired))
	s.logger.DebugContext(ctx, "pairings generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("pairings", len(round.Pairings)),
	)
	return round, nil
}
