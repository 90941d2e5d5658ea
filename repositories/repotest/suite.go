// Package repotest holds the behavioral test suite every store backend must pass.
package repotest

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/suite"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// StoreSuite runs against the store returned by NewStore, which must be empty.
type StoreSuite struct {
	suite.Suite

	NewStore func(t *testing.T) *repositories.Store

	store *repositories.Store
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore(s.T())
}

func (s *StoreSuite) player() *models.Player {
	p := &models.Player{Name: gofakeit.Name()}
	s.Require().NoError(s.store.Players.Create(s.ctx, p))
	return p
}

func (s *StoreSuite) tournament() *models.Tournament {
	desc := gofakeit.Company() + " Open"
	t := &models.Tournament{Description: &desc}
	s.Require().NoError(s.store.Tournaments.Create(s.ctx, t))
	return t
}

func (s *StoreSuite) enroll(t *models.Tournament, players ...*models.Player) {
	for _, p := range players {
		s.Require().NoError(s.store.Participants.Create(s.ctx, &models.Participant{TournamentID: t.ID, PlayerID: p.ID}))
	}
}

func (s *StoreSuite) victory(t *models.Tournament, winner, loser *models.Player) {
	s.Require().NoError(s.store.Tx.WithinTx(s.ctx, func(ctx context.Context) error {
		if err := s.store.Matches.Create(ctx, models.NewVictory(t.ID, winner.ID, loser.ID)); err != nil {
			return err
		}
		return s.store.Participants.AddResult(ctx, t.ID, winner.ID, 1, 0)
	}))
}

func (s *StoreSuite) standing(standings []models.Standing, playerID int) models.Standing {
	for _, st := range standings {
		if st.PlayerID == playerID {
			return st
		}
	}
	s.FailNow("no standing for player", "player %d", playerID)
	return models.Standing{}
}

func (s *StoreSuite) TestCreatePlayerAssignsDistinctIDs() {
	a := &models.Player{Name: "Twin"}
	b := &models.Player{Name: "Twin"}
	s.Require().NoError(s.store.Players.Create(s.ctx, a))
	s.Require().NoError(s.store.Players.Create(s.ctx, b))

	s.NotZero(a.ID)
	s.NotEqual(a.ID, b.ID)

	got, err := s.store.Players.GetByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal("Twin", got.Name)

	n, err := s.store.Players.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *StoreSuite) TestGetMissingPlayer() {
	_, err := s.store.Players.GetByID(s.ctx, 4242)
	s.ErrorIs(err, repositories.ErrNotFound)
	s.ErrorIs(err, repositories.ErrPlayerNotFound)
}

func (s *StoreSuite) TestTournamentsListedInCreationOrder() {
	first := s.tournament()
	untitled := &models.Tournament{}
	s.Require().NoError(s.store.Tournaments.Create(s.ctx, untitled))

	list, err := s.store.Tournaments.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(first.ID, list[0].ID)
	s.Equal(*first.Description, *list[0].Description)
	s.Nil(list[1].Description)

	n, err := s.store.Tournaments.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *StoreSuite) TestEnrollRejectsDuplicate() {
	t := s.tournament()
	p := s.player()
	s.enroll(t, p)

	err := s.store.Participants.Create(s.ctx, &models.Participant{TournamentID: t.ID, PlayerID: p.ID})
	s.ErrorIs(err, repositories.ErrDuplicateEntry)

	n, err := s.store.Participants.CountByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *StoreSuite) TestEnrollUnknownReferences() {
	t := s.tournament()
	p := s.player()

	err := s.store.Participants.Create(s.ctx, &models.Participant{TournamentID: t.ID, PlayerID: p.ID + 100})
	s.ErrorIs(err, repositories.ErrPlayerNotFound)

	err = s.store.Participants.Create(s.ctx, &models.Participant{TournamentID: t.ID + 100, PlayerID: p.ID})
	s.ErrorIs(err, repositories.ErrTournamentNotFound)
}

func (s *StoreSuite) TestCountParticipantsIsPerTournament() {
	t1, t2 := s.tournament(), s.tournament()
	a, b, c := s.player(), s.player(), s.player()
	s.enroll(t1, a, b, c)
	s.enroll(t2, a)

	n, err := s.store.Participants.CountByTournament(s.ctx, t1.ID)
	s.Require().NoError(err)
	s.Equal(3, n)

	n, err = s.store.Participants.CountByTournament(s.ctx, t2.ID)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *StoreSuite) TestParticipantCarriesPlayerName() {
	t := s.tournament()
	p := s.player()
	s.enroll(t, p)

	got, err := s.store.Participants.Get(s.ctx, t.ID, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Name, got.Name)
	s.Zero(got.Wins)
	s.False(got.Bye)

	_, err = s.store.Participants.Get(s.ctx, t.ID, p.ID+1)
	s.ErrorIs(err, repositories.ErrParticipantNotFound)
}

func (s *StoreSuite) TestMatchIsStoredCanonically() {
	t := s.tournament()
	low, high := s.player(), s.player()
	s.enroll(t, low, high)

	m := models.NewVictory(t.ID, high.ID, low.ID)
	s.Require().NoError(s.store.Matches.Create(s.ctx, m))

	matches, err := s.store.Matches.ListByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(low.ID, matches[0].Participant1ID)
	s.Equal(high.ID, matches[0].Participant2ID)
	s.Equal(models.ResultParticipant2, matches[0].Result)
	s.Equal(high.ID, matches[0].WinnerID())
}

func (s *StoreSuite) TestDuplicateMatchInEitherOrder() {
	t := s.tournament()
	a, b := s.player(), s.player()
	s.enroll(t, a, b)
	s.Require().NoError(s.store.Matches.Create(s.ctx, models.NewVictory(t.ID, a.ID, b.ID)))

	err := s.store.Matches.Create(s.ctx, models.NewVictory(t.ID, b.ID, a.ID))
	s.ErrorIs(err, repositories.ErrDuplicateMatch)
	err = s.store.Matches.Create(s.ctx, models.NewTie(t.ID, a.ID, b.ID))
	s.ErrorIs(err, repositories.ErrDuplicateMatch)
}

func (s *StoreSuite) TestSamePairInAnotherTournament() {
	t1, t2 := s.tournament(), s.tournament()
	a, b := s.player(), s.player()
	s.enroll(t1, a, b)
	s.enroll(t2, a, b)

	s.Require().NoError(s.store.Matches.Create(s.ctx, models.NewTie(t1.ID, a.ID, b.ID)))
	s.NoError(s.store.Matches.Create(s.ctx, models.NewTie(t2.ID, a.ID, b.ID)))
}

func (s *StoreSuite) TestMatchRequiresEnrollment() {
	t := s.tournament()
	a, outsider := s.player(), s.player()
	s.enroll(t, a)

	err := s.store.Matches.Create(s.ctx, models.NewVictory(t.ID, a.ID, outsider.ID))
	s.ErrorIs(err, repositories.ErrParticipantNotFound)
}

func (s *StoreSuite) TestMatchAgainstSelfViolatesConstraint() {
	t := s.tournament()
	a := s.player()
	s.enroll(t, a)

	err := s.store.Matches.Create(s.ctx, models.NewTie(t.ID, a.ID, a.ID))
	s.ErrorIs(err, repositories.ErrConstraint)
}

func (s *StoreSuite) TestStandingsBeforeAnyMatch() {
	t := s.tournament()
	a, b := s.player(), s.player()
	s.enroll(t, a, b)

	standings, err := s.store.Standings.ListByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Require().Len(standings, 2)
	for _, st := range standings {
		s.Zero(st.Wins)
		s.Zero(st.Matches)
		s.Zero(st.Points)
	}
	s.Equal(a.ID, standings[0].PlayerID)
	s.Equal(a.Name, standings[0].Name)
}

func (s *StoreSuite) TestStandingsAggregateMatchesAndBye() {
	t := s.tournament()
	a, b, c, d := s.player(), s.player(), s.player(), s.player()
	s.enroll(t, a, b, c, d)

	s.victory(t, a, b)
	s.Require().NoError(s.store.Matches.Create(s.ctx, models.NewTie(t.ID, c.ID, d.ID)))
	s.Require().NoError(s.store.Participants.SetBye(s.ctx, t.ID, d.ID))

	standings, err := s.store.Standings.ListByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Require().Len(standings, 4)

	// a: 1 win = 3; d: bye + tie = 4; c: tie = 1; b: 0.
	s.Equal([]int{d.ID, a.ID, c.ID, b.ID}, []int{standings[0].PlayerID, standings[1].PlayerID, standings[2].PlayerID, standings[3].PlayerID})

	sd := s.standing(standings, d.ID)
	s.Equal(1, sd.Wins)
	s.Equal(1, sd.Ties)
	s.Equal(2, sd.Matches)
	s.Equal(4, sd.Points)
	s.True(sd.Bye)

	sb := s.standing(standings, b.ID)
	s.Equal(1, sb.Matches)
	s.Equal(1, sb.Losses())

	for _, st := range standings {
		s.Equal(st.Matches, st.Wins+st.Ties+st.Losses())
	}
}

func (s *StoreSuite) TestStandingsKeepEnrollmentOrderOnEqualPoints() {
	t := s.tournament()
	players := []*models.Player{s.player(), s.player(), s.player()}
	s.enroll(t, players[2], players[0], players[1])

	standings, err := s.store.Standings.ListByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal([]int{players[2].ID, players[0].ID, players[1].ID},
		[]int{standings[0].PlayerID, standings[1].PlayerID, standings[2].PlayerID})
}

func (s *StoreSuite) TestSecondByeRejected() {
	t := s.tournament()
	a := s.player()
	s.enroll(t, a)

	s.Require().NoError(s.store.Participants.SetBye(s.ctx, t.ID, a.ID))
	s.ErrorIs(s.store.Participants.SetBye(s.ctx, t.ID, a.ID), repositories.ErrAlreadyByed)
	s.ErrorIs(s.store.Participants.SetBye(s.ctx, t.ID, a.ID+7), repositories.ErrParticipantNotFound)
}

func (s *StoreSuite) TestClearMatchesScopedToTournament() {
	t1, t2 := s.tournament(), s.tournament()
	a, b := s.player(), s.player()
	s.enroll(t1, a, b)
	s.enroll(t2, a, b)
	s.victory(t1, a, b)
	s.victory(t2, b, a)
	s.Require().NoError(s.store.Participants.SetBye(s.ctx, t1.ID, b.ID))

	s.Require().NoError(s.store.ClearMatches(s.ctx, &t1.ID))

	m1, err := s.store.Matches.ListByTournament(s.ctx, t1.ID)
	s.Require().NoError(err)
	s.Empty(m1)
	m2, err := s.store.Matches.ListByTournament(s.ctx, t2.ID)
	s.Require().NoError(err)
	s.Len(m2, 1)

	pa, err := s.store.Participants.Get(s.ctx, t1.ID, a.ID)
	s.Require().NoError(err)
	s.Zero(pa.Wins)
	pb, err := s.store.Participants.Get(s.ctx, t1.ID, b.ID)
	s.Require().NoError(err)
	s.False(pb.Bye)

	other, err := s.store.Participants.Get(s.ctx, t2.ID, b.ID)
	s.Require().NoError(err)
	s.Equal(1, other.Wins)
}

func (s *StoreSuite) TestClearAllMatches() {
	t1, t2 := s.tournament(), s.tournament()
	a, b := s.player(), s.player()
	s.enroll(t1, a, b)
	s.enroll(t2, a, b)
	s.victory(t1, a, b)
	s.victory(t2, a, b)

	s.Require().NoError(s.store.ClearMatches(s.ctx, nil))

	for _, t := range []*models.Tournament{t1, t2} {
		matches, err := s.store.Matches.ListByTournament(s.ctx, t.ID)
		s.Require().NoError(err)
		s.Empty(matches)
		standings, err := s.store.Standings.ListByTournament(s.ctx, t.ID)
		s.Require().NoError(err)
		s.Len(standings, 2)
		for _, st := range standings {
			s.Zero(st.Points)
		}
	}
}

func (s *StoreSuite) TestClearPlayersCascades() {
	t := s.tournament()
	a, b := s.player(), s.player()
	s.enroll(t, a, b)
	s.victory(t, a, b)

	s.Require().NoError(s.store.ClearPlayers(s.ctx))

	n, err := s.store.Players.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
	n, err = s.store.Participants.CountByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Zero(n)
	matches, err := s.store.Matches.ListByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Empty(matches)

	n, err = s.store.Tournaments.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *StoreSuite) TestClearTournamentsCascades() {
	t := s.tournament()
	a, b := s.player(), s.player()
	s.enroll(t, a, b)
	s.victory(t, a, b)

	s.Require().NoError(s.store.ClearTournaments(s.ctx))

	n, err := s.store.Tournaments.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
	n, err = s.store.Participants.CountByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Zero(n)
	n, err = s.store.Players.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *StoreSuite) TestFailedTransactionLeavesNoTrace() {
	t := s.tournament()
	a, b := s.player(), s.player()
	s.enroll(t, a, b)
	boom := errors.New("boom")

	err := s.store.Tx.WithinTx(s.ctx, func(ctx context.Context) error {
		if err := s.store.Matches.Create(ctx, models.NewVictory(t.ID, a.ID, b.ID)); err != nil {
			return err
		}
		if err := s.store.Participants.AddResult(ctx, t.ID, a.ID, 1, 0); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	matches, err := s.store.Matches.ListByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Empty(matches)
	p, err := s.store.Participants.Get(s.ctx, t.ID, a.ID)
	s.Require().NoError(err)
	s.Zero(p.Wins)
}

func (s *StoreSuite) TestNestedTransactionJoinsOuter() {
	t := s.tournament()
	a, b := s.player(), s.player()
	s.enroll(t, a, b)
	boom := errors.New("outer failed")

	err := s.store.Tx.WithinTx(s.ctx, func(ctx context.Context) error {
		if err := s.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
			return s.store.Matches.Create(ctx, models.NewTie(t.ID, a.ID, b.ID))
		}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	matches, err := s.store.Matches.ListByTournament(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Empty(matches)
}
