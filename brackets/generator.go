package brackets

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
)

// Round is the outcome of pairing one round. Unpaired holds participants
// that could not be given an opponent; callers decide what to do with them
// (usually a bye).
type Round struct {
	Pairings []models.Pairing  `json:"pairings"`
	Unpaired []models.Standing `json:"unpaired"`
}

type PairingGenerator interface {
	Pair(ctx context.Context, standings []models.Standing) (*Round, error)

	GetName() string
}
