package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/repositories"
)

func TestRegisterPlayer(t *testing.T) {
	f := newFixture(t, 0)
	svc := NewPlayerService(f.store, discardLogger())

	p, err := svc.Register(f.ctx, "  Magnus  ")
	require.NoError(t, err)
	assert.Equal(t, "Magnus", p.Name)

	again, err := svc.Register(f.ctx, "Magnus")
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, again.ID)

	n, err := svc.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRegisterPlayerValidation(t *testing.T) {
	f := newFixture(t, 0)
	svc := NewPlayerService(f.store, discardLogger())

	_, err := svc.Register(f.ctx, "   ")
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = svc.Register(f.ctx, strings.Repeat("x", maxPlayerNameLength+1))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestClearPlayersEmptiesTournaments(t *testing.T) {
	f := newFixture(t, 3)
	players := NewPlayerService(f.store, discardLogger())
	tournaments := NewTournamentService(f.store, discardLogger())

	require.NoError(t, players.ClearAll(f.ctx))

	n, err := players.Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = tournaments.CountParticipants(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = players.Get(f.ctx, f.id(0))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
