package models

import "time"

// Participant is the enrollment of a player in a tournament. Wins, Ties and Bye
// are counters maintained together with every match and bye write.
type Participant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	Wins         int       `json:"wins" db:"wins"`
	Ties         int       `json:"ties" db:"ties"`
	Bye          bool      `json:"bye" db:"bye"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Joined from players, not stored in participants.
	Name string `json:"name" db:"-"`
}
