package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

type tokenInput struct {
	Password string `json:"password"`
}

// Token godoc
// @Summary Exchange the organizer password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body tokenInput true "Organizer password"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string "Token issuing disabled"
// @Router /auth/token [post]
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var input tokenInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	token, err := h.authService.Login(r.Context(), input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
