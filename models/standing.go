package models

// Standing is a participant's aggregated record within one tournament.
// A bye is counted in Wins and Matches.
type Standing struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Wins     int    `json:"wins"`
	Ties     int    `json:"ties"`
	Matches  int    `json:"matches"`
	Points   int    `json:"points"`
	Bye      bool   `json:"bye"`
}

// Losses is derived: every played match that is neither a win nor a tie.
func (s Standing) Losses() int {
	return s.Matches - s.Wins - s.Ties
}

// Pairing is one game of the next round.
type Pairing struct {
	Player1ID   int    `json:"player1_id"`
	Player1Name string `json:"player1_name"`
	Player2ID   int    `json:"player2_id"`
	Player2Name string `json:"player2_name"`
}
