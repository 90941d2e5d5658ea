package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

func TestStandingsUnknownTournament(t *testing.T) {
	f := newFixture(t, 0)
	svc := NewStandingsService(f.store, discardLogger())

	_, err := svc.Standings(f.ctx, f.tournament.ID+1)
	assert.ErrorIs(t, err, repositories.ErrTournamentNotFound)
	_, err = svc.Verify(f.ctx, f.tournament.ID+1)
	assert.ErrorIs(t, err, repositories.ErrTournamentNotFound)
}

func TestStandingsEmptyTournament(t *testing.T) {
	f := newFixture(t, 0)
	svc := NewStandingsService(f.store, discardLogger())

	got, err := svc.Standings(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestVerifyDetectsDivergedCounters(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewStandingsService(f.store, discardLogger())

	// A match written without its counter update.
	require.NoError(t, f.store.Matches.Create(f.ctx, models.NewVictory(f.tournament.ID, f.id(0), f.id(1))))

	_, err := svc.Verify(f.ctx, f.tournament.ID)
	assert.ErrorIs(t, err, ErrStandingsDiverged)
}
