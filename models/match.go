package models

import "time"

type MatchResult string

const (
	ResultParticipant1 MatchResult = "participant1" // lower player id won
	ResultParticipant2 MatchResult = "participant2" // higher player id won
	ResultTie          MatchResult = "tie"
)

func (r MatchResult) Valid() bool {
	switch r {
	case ResultParticipant1, ResultParticipant2, ResultTie:
		return true
	}
	return false
}

// Match is a recorded game between two participants of one tournament.
// Participant1ID is always the lower player id.
type Match struct {
	ID             int         `json:"id" db:"id"`
	TournamentID   int         `json:"tournament_id" db:"tournament_id"`
	Participant1ID int         `json:"participant1_id" db:"participant1_id"`
	Participant2ID int         `json:"participant2_id" db:"participant2_id"`
	Result         MatchResult `json:"result" db:"result"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// NewVictory builds a canonical match in which winnerID beat loserID.
func NewVictory(tournamentID, winnerID, loserID int) *Match {
	m := &Match{TournamentID: tournamentID, Participant1ID: winnerID, Participant2ID: loserID, Result: ResultParticipant1}
	m.Canonicalize()
	return m
}

// NewTie builds a canonical drawn match.
func NewTie(tournamentID, p1, p2 int) *Match {
	m := &Match{TournamentID: tournamentID, Participant1ID: p1, Participant2ID: p2, Result: ResultTie}
	m.Canonicalize()
	return m
}

// Canonicalize orders the pair so that Participant1ID < Participant2ID,
// flipping a decisive result along with it.
func (m *Match) Canonicalize() {
	if m.Participant1ID <= m.Participant2ID {
		return
	}
	m.Participant1ID, m.Participant2ID = m.Participant2ID, m.Participant1ID
	switch m.Result {
	case ResultParticipant1:
		m.Result = ResultParticipant2
	case ResultParticipant2:
		m.Result = ResultParticipant1
	}
}

// WinnerID returns the winning player id, or 0 for a tie.
func (m Match) WinnerID() int {
	switch m.Result {
	case ResultParticipant1:
		return m.Participant1ID
	case ResultParticipant2:
		return m.Participant2ID
	}
	return 0
}
