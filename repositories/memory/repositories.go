package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/scoring"
)

type playerRepository struct {
	db *DB
}

func (r *playerRepository) Create(ctx context.Context, p *models.Player) error {
	return r.db.write(ctx, func(st *state) error {
		st.lastPlayerID++
		p.ID = st.lastPlayerID
		p.CreatedAt = r.db.now()
		st.players[p.ID] = *p
		return nil
	})
}

func (r *playerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	var out *models.Player
	err := r.db.read(ctx, func(st *state) error {
		p, ok := st.players[id]
		if !ok {
			return repositories.ErrPlayerNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *playerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.read(ctx, func(st *state) error {
		n = len(st.players)
		return nil
	})
	return n, err
}

// DeleteAll cascades to participants and matches like the SQL foreign keys do.
func (r *playerRepository) DeleteAll(ctx context.Context) error {
	return r.db.write(ctx, func(st *state) error {
		st.players = make(map[int]models.Player)
		st.participants = make(map[participantKey]models.Participant)
		st.matches = make(map[matchKey]models.Match)
		return nil
	})
}

type tournamentRepository struct {
	db *DB
}

func (r *tournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	return r.db.write(ctx, func(st *state) error {
		st.lastTournamentID++
		t.ID = st.lastTournamentID
		t.CreatedAt = r.db.now()
		stored := *t
		if t.Description != nil {
			d := *t.Description
			stored.Description = &d
		}
		st.tournaments[t.ID] = stored
		return nil
	})
}

func (r *tournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	var out *models.Tournament
	err := r.db.read(ctx, func(st *state) error {
		t, ok := st.tournaments[id]
		if !ok {
			return repositories.ErrTournamentNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *tournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0)
	err := r.db.read(ctx, func(st *state) error {
		for _, t := range st.tournaments {
			t := t
			out = append(out, &t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *tournamentRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.read(ctx, func(st *state) error {
		n = len(st.tournaments)
		return nil
	})
	return n, err
}

func (r *tournamentRepository) DeleteAll(ctx context.Context) error {
	return r.db.write(ctx, func(st *state) error {
		st.tournaments = make(map[int]models.Tournament)
		st.participants = make(map[participantKey]models.Participant)
		st.matches = make(map[matchKey]models.Match)
		return nil
	})
}

type participantRepository struct {
	db *DB
}

func (r *participantRepository) Create(ctx context.Context, p *models.Participant) error {
	return r.db.write(ctx, func(st *state) error {
		key := participantKey{tournamentID: p.TournamentID, playerID: p.PlayerID}
		if _, ok := st.participants[key]; ok {
			return fmt.Errorf("player %d in tournament %d: %w", p.PlayerID, p.TournamentID, repositories.ErrDuplicateEntry)
		}
		if _, ok := st.tournaments[p.TournamentID]; !ok {
			return repositories.ErrTournamentNotFound
		}
		if _, ok := st.players[p.PlayerID]; !ok {
			return repositories.ErrPlayerNotFound
		}

		st.lastParticipantID++
		p.ID = st.lastParticipantID
		p.Wins, p.Ties, p.Bye = 0, 0, false
		p.CreatedAt = r.db.now()
		p.Name = ""
		st.participants[key] = *p
		return nil
	})
}

func withName(st *state, p models.Participant) *models.Participant {
	p.Name = st.players[p.PlayerID].Name
	return &p
}

func (r *participantRepository) Get(ctx context.Context, tournamentID, playerID int) (*models.Participant, error) {
	var out *models.Participant
	err := r.db.read(ctx, func(st *state) error {
		p, ok := st.participants[participantKey{tournamentID: tournamentID, playerID: playerID}]
		if !ok {
			return repositories.ErrParticipantNotFound
		}
		out = withName(st, p)
		return nil
	})
	return out, err
}

func (r *participantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0)
	err := r.db.read(ctx, func(st *state) error {
		for key, p := range st.participants {
			if key.tournamentID == tournamentID {
				out = append(out, withName(st, p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *participantRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var n int
	err := r.db.read(ctx, func(st *state) error {
		for key := range st.participants {
			if key.tournamentID == tournamentID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *participantRepository) AddResult(ctx context.Context, tournamentID, playerID, wins, ties int) error {
	return r.db.write(ctx, func(st *state) error {
		key := participantKey{tournamentID: tournamentID, playerID: playerID}
		p, ok := st.participants[key]
		if !ok {
			return repositories.ErrParticipantNotFound
		}
		p.Wins += wins
		p.Ties += ties
		st.participants[key] = p
		return nil
	})
}

func (r *participantRepository) SetBye(ctx context.Context, tournamentID, playerID int) error {
	return r.db.write(ctx, func(st *state) error {
		key := participantKey{tournamentID: tournamentID, playerID: playerID}
		p, ok := st.participants[key]
		if !ok {
			return repositories.ErrParticipantNotFound
		}
		if p.Bye {
			return repositories.ErrAlreadyByed
		}
		p.Bye = true
		st.participants[key] = p
		return nil
	})
}

func (r *participantRepository) ResetScores(ctx context.Context, tournamentID *int) error {
	return r.db.write(ctx, func(st *state) error {
		for key, p := range st.participants {
			if tournamentID != nil && key.tournamentID != *tournamentID {
				continue
			}
			p.Wins, p.Ties, p.Bye = 0, 0, false
			st.participants[key] = p
		}
		return nil
	})
}

func (r *participantRepository) DeleteAll(ctx context.Context) error {
	return r.db.write(ctx, func(st *state) error {
		st.participants = make(map[participantKey]models.Participant)
		st.matches = make(map[matchKey]models.Match)
		return nil
	})
}

type matchRepository struct {
	db *DB
}

func (r *matchRepository) Create(ctx context.Context, m *models.Match) error {
	m.Canonicalize()
	if !m.Result.Valid() {
		return fmt.Errorf("%w: invalid match result %q", repositories.ErrConstraint, m.Result)
	}
	if m.Participant1ID == m.Participant2ID {
		return fmt.Errorf("%w: participants of a match must differ", repositories.ErrConstraint)
	}

	return r.db.write(ctx, func(st *state) error {
		key := matchKey{tournamentID: m.TournamentID, participant1ID: m.Participant1ID, participant2ID: m.Participant2ID}
		if _, ok := st.matches[key]; ok {
			return fmt.Errorf("players %d and %d in tournament %d: %w", m.Participant1ID, m.Participant2ID, m.TournamentID, repositories.ErrDuplicateMatch)
		}
		for _, playerID := range []int{m.Participant1ID, m.Participant2ID} {
			if _, ok := st.participants[participantKey{tournamentID: m.TournamentID, playerID: playerID}]; !ok {
				return repositories.ErrParticipantNotFound
			}
		}

		st.lastMatchID++
		m.ID = st.lastMatchID
		m.CreatedAt = r.db.now()
		st.matches[key] = *m
		return nil
	})
}

func (r *matchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	err := r.db.read(ctx, func(st *state) error {
		for key, m := range st.matches {
			if key.tournamentID == tournamentID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *matchRepository) DeleteByTournament(ctx context.Context, tournamentID *int) error {
	return r.db.write(ctx, func(st *state) error {
		for key := range st.matches {
			if tournamentID == nil || key.tournamentID == *tournamentID {
				delete(st.matches, key)
			}
		}
		return nil
	})
}

type standingRepository struct {
	db *DB
}

// ListByTournament aggregates the match log the same way the SQL query does.
func (r *standingRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	var standings []models.Standing
	err := r.db.read(ctx, func(st *state) error {
		participants := make([]*models.Participant, 0)
		for key, p := range st.participants {
			if key.tournamentID == tournamentID {
				participants = append(participants, withName(st, p))
			}
		}
		sort.Slice(participants, func(i, j int) bool { return participants[i].ID < participants[j].ID })

		matches := make([]*models.Match, 0)
		for key, m := range st.matches {
			if key.tournamentID == tournamentID {
				m := m
				matches = append(matches, &m)
			}
		}

		standings = scoring.Tally(participants, matches)
		return nil
	})
	if err != nil {
		return nil, err
	}
	scoring.SortForDisplay(standings)
	return standings, nil
}
