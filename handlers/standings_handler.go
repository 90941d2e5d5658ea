package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
	pairingService   services.PairingService
	exportService    services.ExportService
}

func NewStandingsHandler(ss services.StandingsService, ps services.PairingService, es services.ExportService) *StandingsHandler {
	return &StandingsHandler{
		standingsService: ss,
		pairingService:   ps,
		exportService:    es,
	}
}

// Standings godoc
// @Summary Current standings, highest points first
// @Tags standings
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/standings [get]
func (h *StandingsHandler) Standings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.Standings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.Verify(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"consistent": true, "standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Pairings godoc
// @Summary Proposed pairings for the next round
// @Tags standings
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments/{tournamentID}/pairings [get]
func (h *StandingsHandler) Pairings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.pairingService.PairNextRound(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"pairings": round.Pairings, "unpaired": round.Unpaired}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Overview returns the standings and the pairings built from that same read,
// so the two always agree.
func (h *StandingsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, round, err := h.pairingService.Overview(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"standings": standings,
		"pairings":  round.Pairings,
		"unpaired":  round.Unpaired,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Export godoc
// @Summary Export standings as an XLSX workbook
// @Tags standings
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 201 {object} map[string]interface{}
// @Failure 503 {object} map[string]string "Export storage not configured"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/exports [post]
func (h *StandingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.exportService.ExportStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"export": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
