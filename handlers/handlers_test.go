package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/repositories/memory"
	"github.com/Dosada05/swiss-tournament/routes"
	"github.com/Dosada05/swiss-tournament/services"
)

const testSecret = "handler-test-secret"

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	hub := brackets.NewHub(logger)
	go hub.Run(t.Context())

	standings := services.NewStandingsService(store, logger)
	tournaments := services.NewTournamentService(store, logger)
	auth := services.NewAuthService(testSecret, "")

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Auth:       handlers.NewAuthHandler(auth),
		Player:     handlers.NewPlayerHandler(services.NewPlayerService(store, logger)),
		Tournament: handlers.NewTournamentHandler(tournaments),
		Match:      handlers.NewMatchHandler(services.NewMatchService(store, standings, hub, nil, logger)),
		Standings: handlers.NewStandingsHandler(standings,
			services.NewPairingService(standings, nil, nil, logger),
			services.NewExportService(store, standings, nil, nil, logger)),
		WebSocket: handlers.NewWebSocketHandler(hub, tournaments, []string{"*"}, logger),
		Health:    handlers.NewHealthHandler(nil),
	}, routes.Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}, Logger: logger})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	token, err := auth.IssueToken("organizer")
	require.NoError(t, err)
	return &apiClient{t: t, server: server, token: token}
}

// do sends body as JSON and decodes the response into a generic map.
func (c *apiClient) do(method, path string, body interface{}, authed bool) (int, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(c.t.Context(), method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (c *apiClient) createPlayer(name string) int {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/players", map[string]string{"name": name}, true)
	require.Equal(c.t, http.StatusCreated, status, body)
	return int(body["player"].(map[string]interface{})["id"].(float64))
}

func (c *apiClient) createTournament() int {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/tournaments", map[string]interface{}{}, true)
	require.Equal(c.t, http.StatusCreated, status, body)
	return int(body["tournament"].(map[string]interface{})["id"].(float64))
}

func (c *apiClient) enroll(tournamentID, playerID int) {
	c.t.Helper()
	status, body := c.do(http.MethodPost, pathf("/tournaments/%d/participants", tournamentID),
		map[string]int{"player_id": playerID}, true)
	require.Equal(c.t, http.StatusCreated, status, body)
}

func standingIDs(t *testing.T, body map[string]interface{}) []int {
	t.Helper()
	list, ok := body["standings"].([]interface{})
	require.True(t, ok, body)
	ids := make([]int, 0, len(list))
	for _, s := range list {
		ids = append(ids, int(s.(map[string]interface{})["player_id"].(float64)))
	}
	return ids
}
