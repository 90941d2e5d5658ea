package services

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

func newMatchService(f *fixture, notifier Notifier) (MatchService, StandingsService) {
	standings := NewStandingsService(f.store, discardLogger())
	return NewMatchService(f.store, standings, notifier, metrics.New(prometheus.NewRegistry()), discardLogger()), standings
}

func TestRecordVictoryUpdatesStandings(t *testing.T) {
	f := newFixture(t, 2)
	notifier := &recordingNotifier{}
	svc, standings := newMatchService(f, notifier)

	match, err := svc.RecordVictory(f.ctx, f.tournament.ID, f.id(1), f.id(0))
	require.NoError(t, err)
	assert.Equal(t, f.id(0), match.Participant1ID)
	assert.Equal(t, models.ResultParticipant2, match.Result)

	got, err := standings.Standings(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, f.id(1), got[0].PlayerID)
	assert.Equal(t, 3, got[0].Points)
	assert.Equal(t, 1, got[0].Matches)
	assert.Equal(t, 0, got[1].Points)
	assert.Equal(t, 1, got[1].Matches)

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, brackets.EventMatchRecorded, events[0].eventType)
	assert.Equal(t, f.tournament.ID, events[0].tournamentID)
}

func TestRecordTieGivesBothAPoint(t *testing.T) {
	f := newFixture(t, 2)
	svc, standings := newMatchService(f, nil)

	_, err := svc.RecordTie(f.ctx, f.tournament.ID, f.id(0), f.id(1))
	require.NoError(t, err)

	got, err := standings.Standings(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	for _, st := range got {
		assert.Equal(t, 1, st.Points)
		assert.Equal(t, 1, st.Ties)
		assert.Equal(t, 1, st.Matches)
	}

	p, err := f.store.Participants.Get(f.ctx, f.tournament.ID, f.id(0))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Ties)
}

func TestRecordMatchRejectsSelfPlay(t *testing.T) {
	f := newFixture(t, 1)
	svc, _ := newMatchService(f, nil)

	_, err := svc.RecordVictory(f.ctx, f.tournament.ID, f.id(0), f.id(0))
	assert.ErrorIs(t, err, ErrSelfMatch)
	_, err = svc.RecordTie(f.ctx, f.tournament.ID, f.id(0), f.id(0))
	assert.ErrorIs(t, err, ErrSelfMatch)
}

func TestDuplicateMatchHasNoPartialEffect(t *testing.T) {
	f := newFixture(t, 2)
	notifier := &recordingNotifier{}
	svc, standings := newMatchService(f, notifier)

	_, err := svc.RecordVictory(f.ctx, f.tournament.ID, f.id(0), f.id(1))
	require.NoError(t, err)

	_, err = svc.RecordVictory(f.ctx, f.tournament.ID, f.id(1), f.id(0))
	assert.ErrorIs(t, err, repositories.ErrDuplicateMatch)
	_, err = svc.RecordTie(f.ctx, f.tournament.ID, f.id(1), f.id(0))
	assert.ErrorIs(t, err, repositories.ErrDuplicateMatch)

	got, err := standings.Standings(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got[0].Points)
	assert.Equal(t, 0, got[1].Points)
	assert.Equal(t, 0, got[1].Ties)

	p, err := f.store.Participants.Get(f.ctx, f.tournament.ID, f.id(1))
	require.NoError(t, err)
	assert.Zero(t, p.Wins)
	assert.Zero(t, p.Ties)

	assert.Len(t, notifier.all(), 1)
}

func TestRecordMatchRequiresEnrollment(t *testing.T) {
	f := newFixture(t, 1)
	svc, _ := newMatchService(f, nil)

	outsider := &models.Player{Name: "Outsider"}
	require.NoError(t, f.store.Players.Create(f.ctx, outsider))

	_, err := svc.RecordVictory(f.ctx, f.tournament.ID, f.id(0), outsider.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, err, repositories.ErrParticipantNotFound)

	_, err = svc.RecordVictory(f.ctx, f.tournament.ID+1, f.id(0), outsider.ID)
	assert.ErrorIs(t, err, repositories.ErrTournamentNotFound)

	matches, err := svc.ListMatches(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRecordByeOncePerParticipant(t *testing.T) {
	f := newFixture(t, 3)
	notifier := &recordingNotifier{}
	svc, standings := newMatchService(f, notifier)

	require.NoError(t, svc.RecordBye(f.ctx, f.tournament.ID, f.id(2)))
	assert.ErrorIs(t, svc.RecordBye(f.ctx, f.tournament.ID, f.id(2)), repositories.ErrAlreadyByed)

	got, err := standings.Standings(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, f.id(2), got[0].PlayerID)
	assert.Equal(t, 3, got[0].Points)
	assert.Equal(t, 1, got[0].Wins)
	assert.Equal(t, 1, got[0].Matches)
	assert.True(t, got[0].Bye)

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, brackets.EventByeRecorded, events[0].eventType)
}

func TestClearMatchesScoped(t *testing.T) {
	f := newFixture(t, 2)
	notifier := &recordingNotifier{}
	svc, standings := newMatchService(f, notifier)

	other := &models.Tournament{}
	require.NoError(t, f.store.Tournaments.Create(f.ctx, other))
	for _, p := range f.players {
		require.NoError(t, f.store.Participants.Create(f.ctx, &models.Participant{TournamentID: other.ID, PlayerID: p.ID}))
	}

	_, err := svc.RecordVictory(f.ctx, f.tournament.ID, f.id(0), f.id(1))
	require.NoError(t, err)
	_, err = svc.RecordVictory(f.ctx, other.ID, f.id(0), f.id(1))
	require.NoError(t, err)

	require.NoError(t, svc.ClearMatches(f.ctx, &f.tournament.ID))

	cleared, err := standings.Standings(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	for _, st := range cleared {
		assert.Zero(t, st.Points)
	}
	kept, err := standings.Standings(f.ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, kept[0].Points)

	events := notifier.all()
	assert.Equal(t, brackets.EventMatchesCleared, events[len(events)-1].eventType)
	assert.Equal(t, f.tournament.ID, events[len(events)-1].tournamentID)

	missing := other.ID + 10
	assert.ErrorIs(t, svc.ClearMatches(f.ctx, &missing), repositories.ErrTournamentNotFound)
}

func TestClearAllMatchesNotifiesEveryTournament(t *testing.T) {
	f := newFixture(t, 2)
	notifier := &recordingNotifier{}
	svc, _ := newMatchService(f, notifier)

	other := &models.Tournament{}
	require.NoError(t, f.store.Tournaments.Create(f.ctx, other))

	require.NoError(t, svc.ClearMatches(f.ctx, nil))

	var rooms []int
	for _, e := range notifier.all() {
		if e.eventType == brackets.EventMatchesCleared {
			rooms = append(rooms, e.tournamentID)
		}
	}
	assert.ElementsMatch(t, []int{f.tournament.ID, other.ID}, rooms)
}

func TestWinsTiesLossesAddUp(t *testing.T) {
	f := newFixture(t, 5)
	svc, standings := newMatchService(f, nil)

	_, err := svc.RecordVictory(f.ctx, f.tournament.ID, f.id(0), f.id(1))
	require.NoError(t, err)
	_, err = svc.RecordTie(f.ctx, f.tournament.ID, f.id(2), f.id(3))
	require.NoError(t, err)
	_, err = svc.RecordVictory(f.ctx, f.tournament.ID, f.id(3), f.id(0))
	require.NoError(t, err)
	require.NoError(t, svc.RecordBye(f.ctx, f.tournament.ID, f.id(4)))

	got, err := standings.Standings(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	for _, st := range got {
		assert.Equal(t, st.Matches, st.Wins+st.Ties+st.Losses(), "player %d", st.PlayerID)
		assert.GreaterOrEqual(t, st.Losses(), 0)
	}

	verified, err := standings.Verify(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, got, verified)
}
