package repositories

import (
	"context"
	"database/sql"
)

// Store bundles the repositories of one backend together with the
// transaction manager they share.
type Store struct {
	Players      PlayerRepository
	Tournaments  TournamentRepository
	Participants ParticipantRepository
	Matches      MatchRepository
	Standings    StandingRepository
	Tx           TxManager
}

func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Players:      NewPostgresPlayerRepository(db),
		Tournaments:  NewPostgresTournamentRepository(db),
		Participants: NewPostgresParticipantRepository(db),
		Matches:      NewPostgresMatchRepository(db),
		Standings:    NewPostgresStandingRepository(db),
		Tx:           NewPostgresTxManager(db),
	}
}

// ClearMatches deletes the matches of one tournament (all tournaments when
// tournamentID is nil) and resets the affected participants' wins, ties and
// bye in the same transaction.
func (s *Store) ClearMatches(ctx context.Context, tournamentID *int) error {
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Matches.DeleteByTournament(ctx, tournamentID); err != nil {
			return err
		}
		return s.Participants.ResetScores(ctx, tournamentID)
	})
}

// ClearPlayers deletes every player together with their enrollments and matches.
func (s *Store) ClearPlayers(ctx context.Context) error {
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Matches.DeleteByTournament(ctx, nil); err != nil {
			return err
		}
		if err := s.Participants.DeleteAll(ctx); err != nil {
			return err
		}
		return s.Players.DeleteAll(ctx)
	})
}

// ClearTournaments deletes every tournament together with its enrollments and matches.
func (s *Store) ClearTournaments(ctx context.Context) error {
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Matches.DeleteByTournament(ctx, nil); err != nil {
			return err
		}
		if err := s.Participants.DeleteAll(ctx); err != nil {
			return err
		}
		return s.Tournaments.DeleteAll(ctx)
	})
}
