// Package scoring defines the point system and computes standings from the
// match log.
package scoring

import (
	"sort"

	"github.com/Dosada05/swiss-tournament/models"
)

const (
	WinPoints = 3
	TiePoints = 1
	// ByePoints is what an uncontested round is worth: the same as a win.
	ByePoints = WinPoints
)

// Points applies the point system. wins must already include a bye.
func Points(wins, ties int) int {
	return WinPoints*wins + TiePoints*ties
}

// Tally recomputes standings for the given participants from the raw match
// log. Only the participants' Bye flags are read; their Wins/Ties counters are
// ignored. The result keeps the participants' order.
func Tally(participants []*models.Participant, matches []*models.Match) []models.Standing {
	standings := make([]models.Standing, 0, len(participants))
	index := make(map[int]int, len(participants))
	for _, p := range participants {
		if p == nil {
			continue
		}
		index[p.PlayerID] = len(standings)
		s := models.Standing{PlayerID: p.PlayerID, Name: p.Name, Bye: p.Bye}
		if p.Bye {
			s.Wins++
			s.Matches++
		}
		standings = append(standings, s)
	}

	for _, m := range matches {
		if m == nil {
			continue
		}
		i1, ok1 := index[m.Participant1ID]
		i2, ok2 := index[m.Participant2ID]
		if ok1 {
			standings[i1].Matches++
		}
		if ok2 {
			standings[i2].Matches++
		}
		switch m.Result {
		case models.ResultParticipant1:
			if ok1 {
				standings[i1].Wins++
			}
		case models.ResultParticipant2:
			if ok2 {
				standings[i2].Wins++
			}
		case models.ResultTie:
			if ok1 {
				standings[i1].Ties++
			}
			if ok2 {
				standings[i2].Ties++
			}
		}
	}

	for i := range standings {
		standings[i].Points = Points(standings[i].Wins, standings[i].Ties)
	}
	return standings
}

// FromCounters builds a standing from a participant's stored counters and
// the number of match rows referencing it.
func FromCounters(p *models.Participant, matchRows int) models.Standing {
	s := models.Standing{
		PlayerID: p.PlayerID,
		Name:     p.Name,
		Wins:     p.Wins,
		Ties:     p.Ties,
		Matches:  matchRows,
		Bye:      p.Bye,
	}
	if p.Bye {
		s.Wins++
		s.Matches++
	}
	s.Points = Points(s.Wins, s.Ties)
	return s
}

// SortForDisplay orders standings by points, highest first. Equal points keep
// their input order.
func SortForDisplay(standings []models.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})
}

// SortForPairing orders standings by points, lowest first. Equal points keep
// their input order.
func SortForPairing(standings []models.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points < standings[j].Points
	})
}
