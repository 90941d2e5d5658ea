package repositories

import (
	"errors"
	"fmt"
)

// Storage-level errors. Services and handlers match them with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrDuplicateMatch = errors.New("match between these players already recorded in this tournament")
	ErrAlreadyByed    = errors.New("participant already received a bye in this tournament")
	ErrConstraint     = errors.New("storage constraint violation")

	ErrPlayerNotFound      = fmt.Errorf("player %w", ErrNotFound)
	ErrTournamentNotFound  = fmt.Errorf("tournament %w", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("participant %w", ErrNotFound)
)
