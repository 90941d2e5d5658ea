// Package memory is an in-process implementation of the repositories. It
// backs the "memory" store driver and the unit tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

type participantKey struct {
	tournamentID int
	playerID     int
}

type matchKey struct {
	tournamentID   int
	participant1ID int
	participant2ID int
}

type state struct {
	lastPlayerID      int
	lastTournamentID  int
	lastParticipantID int
	lastMatchID       int

	players      map[int]models.Player
	tournaments  map[int]models.Tournament
	participants map[participantKey]models.Participant
	matches      map[matchKey]models.Match
}

func newState() *state {
	return &state{
		players:      make(map[int]models.Player),
		tournaments:  make(map[int]models.Tournament),
		participants: make(map[participantKey]models.Participant),
		matches:      make(map[matchKey]models.Match),
	}
}

func (s *state) clone() *state {
	c := &state{
		lastPlayerID:      s.lastPlayerID,
		lastTournamentID:  s.lastTournamentID,
		lastParticipantID: s.lastParticipantID,
		lastMatchID:       s.lastMatchID,
		players:           make(map[int]models.Player, len(s.players)),
		tournaments:       make(map[int]models.Tournament, len(s.tournaments)),
		participants:      make(map[participantKey]models.Participant, len(s.participants)),
		matches:           make(map[matchKey]models.Match, len(s.matches)),
	}
	for k, v := range s.players {
		c.players[k] = v
	}
	for k, v := range s.tournaments {
		c.tournaments[k] = v
	}
	for k, v := range s.participants {
		c.participants[k] = v
	}
	for k, v := range s.matches {
		c.matches[k] = v
	}
	return c
}

// DB holds the whole data set behind one lock. Calls made with a context
// handed out by WithinTx run under the lock already held by the transaction.
type DB struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

func New() *DB {
	return &DB{st: newState(), now: time.Now}
}

type txKey struct{}

func (d *DB) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*DB)
	return owner == d
}

func (d *DB) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !d.inTx(ctx) {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	return fn(d.st)
}

func (d *DB) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !d.inTx(ctx) {
		d.mu.Lock()
		defer d.mu.Unlock()
	}
	return fn(d.st)
}

// WithinTx serializes fn against every other reader and writer. When fn
// fails (or panics) the data set is restored to what it was before fn ran.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if d.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	snapshot := d.st.clone()
	defer func() {
		if p := recover(); p != nil {
			d.st = snapshot
			panic(p)
		}
		if err != nil {
			d.st = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, d))
}

var _ repositories.TxManager = (*DB)(nil)

// NewStore wires every repository to a fresh in-memory data set.
func NewStore() *repositories.Store {
	return NewStoreWithDB(New())
}

func NewStoreWithDB(d *DB) *repositories.Store {
	return &repositories.Store{
		Players:      &playerRepository{db: d},
		Tournaments:  &tournamentRepository{db: d},
		Participants: &participantRepository{db: d},
		Matches:      &matchRepository{db: d},
		Standings:    &standingRepository{db: d},
		Tx:           d,
	}
}
