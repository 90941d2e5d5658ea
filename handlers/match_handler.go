package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// recordMatchInput is either {"winner_id", "loser_id"} or
// {"player1_id", "player2_id", "tie": true}.
type recordMatchInput struct {
	WinnerID  int  `json:"winner_id"`
	LoserID   int  `json:"loser_id"`
	Player1ID int  `json:"player1_id"`
	Player2ID int  `json:"player2_id"`
	Tie       bool `json:"tie"`
}

func (in recordMatchInput) validate() error {
	if in.Tie {
		if in.WinnerID != 0 || in.LoserID != 0 {
			return errors.New("a tie takes player1_id and player2_id, not winner_id/loser_id")
		}
		if in.Player1ID <= 0 || in.Player2ID <= 0 {
			return errors.New("player1_id and player2_id are required for a tie")
		}
		return nil
	}
	if in.Player1ID != 0 || in.Player2ID != 0 {
		return errors.New("a victory takes winner_id and loser_id; set tie to record a draw")
	}
	if in.WinnerID <= 0 || in.LoserID <= 0 {
		return errors.New("winner_id and loser_id are required")
	}
	return nil
}

// Record godoc
// @Summary Record a match result
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body recordMatchInput true "Victory or tie"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid body or self match"
// @Failure 404 {object} map[string]string "Player not enrolled"
// @Failure 409 {object} map[string]string "Pair already played"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches [post]
func (h *MatchHandler) Record(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := input.validate(); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var match *models.Match
	if input.Tie {
		match, err = h.matchService.RecordTie(r.Context(), tournamentID, input.Player1ID, input.Player2ID)
	} else {
		match, err = h.matchService.RecordVictory(r.Context(), tournamentID, input.WinnerID, input.LoserID)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type recordByeInput struct {
	PlayerID int `json:"player_id"`
}

// RecordBye godoc
// @Summary Grant a bye
// @Tags matches
// @Accept json
// @Param tournamentID path int true "Tournament ID"
// @Param body body recordByeInput true "Player receiving the bye"
// @Success 204
// @Failure 409 {object} map[string]string "Bye already granted"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/byes [post]
func (h *MatchHandler) RecordBye(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordByeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PlayerID <= 0 {
		badRequestResponse(w, r, errors.New("player_id is required"))
		return
	}

	if err := h.matchService.RecordBye(r.Context(), tournamentID, input.PlayerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ClearTournament removes the matches of one tournament and resets its standings.
func (h *MatchHandler) ClearTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.ClearMatches(r.Context(), &tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.matchService.ClearMatches(r.Context(), nil); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
