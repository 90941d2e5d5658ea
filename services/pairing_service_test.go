package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

func TestPairNextRoundAfterFirstRound(t *testing.T) {
	f := newFixture(t, 4)
	matches, standings := newMatchService(f, nil)
	pairing := NewPairingService(standings, nil, metrics.New(prometheus.NewRegistry()), discardLogger())

	// A beats B, C beats D: A and C lead with 3 points.
	_, err := matches.RecordVictory(f.ctx, f.tournament.ID, f.id(0), f.id(1))
	require.NoError(t, err)
	_, err = matches.RecordVictory(f.ctx, f.tournament.ID, f.id(2), f.id(3))
	require.NoError(t, err)

	round, err := pairing.PairNextRound(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	require.Len(t, round.Pairings, 2)
	assert.Empty(t, round.Unpaired)

	assert.Equal(t, f.id(1), round.Pairings[0].Player1ID)
	assert.Equal(t, f.id(3), round.Pairings[0].Player2ID)
	assert.Equal(t, f.id(0), round.Pairings[1].Player1ID)
	assert.Equal(t, f.id(2), round.Pairings[1].Player2ID)
	assert.Equal(t, f.players[0].Name, round.Pairings[1].Player1Name)
}

func TestPairNextRoundEveryPlayerOnce(t *testing.T) {
	f := newFixture(t, 8)
	_, standings := newMatchService(f, nil)
	pairing := NewPairingService(standings, nil, nil, discardLogger())

	round, err := pairing.PairNextRound(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	require.Len(t, round.Pairings, 4)

	seen := map[int]int{}
	for _, p := range round.Pairings {
		assert.NotEqual(t, p.Player1ID, p.Player2ID)
		seen[p.Player1ID]++
		seen[p.Player2ID]++
	}
	assert.Len(t, seen, 8)
	for id, n := range seen {
		assert.Equal(t, 1, n, "player %d", id)
	}
}

func TestPairNextRoundOddFieldReportsUnpaired(t *testing.T) {
	f := newFixture(t, 5)
	_, standings := newMatchService(f, nil)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	pairing := NewPairingService(standings, nil, nil, logger)

	round, err := pairing.PairNextRound(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	require.Len(t, round.Pairings, 2)
	require.Len(t, round.Unpaired, 1)
	assert.Equal(t, f.id(4), round.Unpaired[0].PlayerID)

	var warnings []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &record), line)
		if record["level"] == slog.LevelWarn.String() {
			warnings = append(warnings, record)
		}
	}
	require.Len(t, warnings, 1)
	assert.EqualValues(t, f.id(4), warnings[0]["player_id"])
	assert.EqualValues(t, f.tournament.ID, warnings[0]["tournament_id"])
}

func TestPairNextRoundEvenFieldLogsNoWarning(t *testing.T) {
	f := newFixture(t, 4)
	_, standings := newMatchService(f, nil)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	pairing := NewPairingService(standings, nil, nil, logger)

	_, err := pairing.PairNextRound(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

// shiftingStandings returns a different table on every call.
type shiftingStandings struct {
	StandingsService
	calls int
}

func (s *shiftingStandings) Standings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	s.calls++
	table := []models.Standing{
		{PlayerID: 1, Points: 3},
		{PlayerID: 2, Points: 3},
		{PlayerID: 3},
		{PlayerID: 4},
	}
	if s.calls > 1 {
		table[0].Points, table[2].Points = 0, 6
	}
	return table, nil
}

func TestOverviewPairsTheReturnedStandings(t *testing.T) {
	source := &shiftingStandings{}
	pairing := NewPairingService(source, nil, nil, discardLogger())

	standings, round, err := pairing.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	want, err := brackets.NewSwissGenerator().Pair(context.Background(), standings)
	require.NoError(t, err)
	assert.Equal(t, want, round)
	assert.Equal(t, []models.Pairing{
		{Player1ID: 3, Player2ID: 4},
		{Player1ID: 1, Player2ID: 2},
	}, round.Pairings)
}

func TestPairNextRoundUnknownTournament(t *testing.T) {
	f := newFixture(t, 2)
	_, standings := newMatchService(f, nil)
	pairing := NewPairingService(standings, nil, nil, discardLogger())

	_, err := pairing.PairNextRound(f.ctx, f.tournament.ID+1)
	assert.ErrorIs(t, err, repositories.ErrTournamentNotFound)
}

func TestPairNextRoundEmptyTournament(t *testing.T) {
	f := newFixture(t, 0)
	_, standings := newMatchService(f, nil)
	pairing := NewPairingService(standings, nil, nil, discardLogger())

	round, err := pairing.PairNextRound(f.ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, round.Pairings)
	assert.Equal(t, []models.Standing{}, round.Unpaired)
}
