package brackets

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/scoring"
)

// SwissGenerator pairs each participant with its neighbour in the standings.
// It never looks at who already played whom and uses no tie-break beyond the
// point total.
type SwissGenerator struct{}

func NewSwissGenerator() PairingGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// Pair orders the standings by points ascending (equal points keep input
// order) and pairs positions 2k and 2k+1, starting from the bottom of the
// table. With an odd count the last participant is reported in Unpaired.
// The input slice is not modified.
func (g *SwissGenerator) Pair(ctx context.Context, standings []models.Standing) (*Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ordered := make([]models.Standing, len(standings))
	copy(ordered, standings)
	scoring.SortForPairing(ordered)

	round := &Round{
		Pairings: make([]models.Pairing, 0, len(ordered)/2),
		Unpaired: []models.Standing{},
	}
	for i := 0; i+1 < len(ordered); i += 2 {
		a, b := ordered[i], ordered[i+1]
		round.Pairings = append(round.Pairings, models.Pairing{
			Player1ID:   a.PlayerID,
			Player1Name: a.Name,
			Player2ID:   b.PlayerID,
			Player2Name: b.Name,
		})
	}
	if len(ordered)%2 == 1 {
		round.Unpaired = append(round.Unpaired, ordered[len(ordered)-1])
	}
	return round, nil
}
