package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

func TestCreateTournamentNormalizesDescription(t *testing.T) {
	f := newFixture(t, 0)
	svc := NewTournamentService(f.store, discardLogger())

	blank := "   "
	untitled, err := svc.Create(f.ctx, &blank)
	require.NoError(t, err)
	assert.Nil(t, untitled.Description)

	desc := " Autumn Cup "
	titled, err := svc.Create(f.ctx, &desc)
	require.NoError(t, err)
	require.NotNil(t, titled.Description)
	assert.Equal(t, "Autumn Cup", *titled.Description)

	list, err := svc.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestEnroll(t *testing.T) {
	f := newFixture(t, 0)
	svc := NewTournamentService(f.store, discardLogger())

	p := &models.Player{Name: "Judit"}
	require.NoError(t, f.store.Players.Create(f.ctx, p))

	participant, err := svc.Enroll(f.ctx, f.tournament.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Judit", participant.Name)
	assert.Zero(t, participant.Wins)

	_, err = svc.Enroll(f.ctx, f.tournament.ID, p.ID)
	assert.ErrorIs(t, err, repositories.ErrDuplicateEntry)

	_, err = svc.Enroll(f.ctx, f.tournament.ID, p.ID+1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = svc.Enroll(f.ctx, f.tournament.ID+1, p.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = svc.Enroll(f.ctx, 0, p.ID)
	assert.ErrorIs(t, err, ErrValidationFailed)

	n, err := svc.CountParticipants(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestParticipantsOfUnknownTournament(t *testing.T) {
	f := newFixture(t, 0)
	svc := NewTournamentService(f.store, discardLogger())

	_, err := svc.ListParticipants(f.ctx, f.tournament.ID+1)
	assert.ErrorIs(t, err, repositories.ErrTournamentNotFound)
	_, err = svc.CountParticipants(f.ctx, f.tournament.ID+1)
	assert.ErrorIs(t, err, repositories.ErrTournamentNotFound)
}

func TestClearTournaments(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewTournamentService(f.store, discardLogger())

	require.NoError(t, svc.ClearAll(f.ctx))

	n, err := svc.Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	players, err := f.store.Players.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, players)
}
