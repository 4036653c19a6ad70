package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/WTMsoft/PremScout/internal/catalog"
	"github.com/WTMsoft/PremScout/internal/config"
	"github.com/WTMsoft/PremScout/internal/logging"
	"github.com/WTMsoft/PremScout/internal/metrics"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		MCPPath:    "/mcp",
		AuthHeader: "X-API-Key",
		PageSize:   20,
	}
}

func testServer(t *testing.T, cfg config.Config, holder *catalog.Holder) (*server, *metrics.Recorder) {
	t.Helper()
	rec := metrics.NewRecorder()
	return newServer(cfg, holder, logging.Discard(), rec), rec
}

func get(t *testing.T, h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAPIPlayers(t *testing.T) {
	srv, rec := testServer(t, testConfig(), catalog.Ready(testCatalog(t)))
	h := srv.routes()

	w := get(t, h, "/api/players?team=Chelsea&sort=predicted_points&max_price=10.5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var out ListPlayersOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, 1, out.TotalItems)
	require.Equal(t, "Levi Colwill", out.Players[0].Name)
	require.Equal(t, 105.0, out.Filter.MaxPrice)

	require.Equal(t, 1, rec.HTTPRequests("/api/players"))

	w = get(t, h, "/api/players?page=-2&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, 1, out.CurrentPage)
	require.Equal(t, 3, out.TotalPages)
}

func TestAPIPlayer(t *testing.T) {
	srv, _ := testServer(t, testConfig(), catalog.Ready(testCatalog(t)))
	h := srv.routes()

	w := get(t, h, "/api/players/"+url.PathEscape("Cole Palmer"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var card PlayerCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	require.Equal(t, "Chelsea", card.Team)

	w = get(t, h, "/api/players/nobody", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body.Error, "player not found")
}

func TestAPIBadRequest(t *testing.T) {
	srv, _ := testServer(t, testConfig(), catalog.Ready(testCatalog(t)))
	h := srv.routes()

	for _, target := range []string{
		"/api/players?page=two",
		"/api/players?min_price=abc",
		"/api/players?desc=maybe",
		"/api/players?sort=height",
		"/api/players?position=WING",
	} {
		t.Run(target, func(t *testing.T) {
			w := get(t, h, target, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAPILineupAndTeams(t *testing.T) {
	srv, _ := testServer(t, testConfig(), catalog.Ready(testCatalog(t)))
	h := srv.routes()

	w := get(t, h, "/api/lineup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lineup LineupOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lineup))
	require.Equal(t, "1-4-3-3", lineup.Formation)

	w = get(t, h, "/api/teams", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var teams TeamsOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &teams))
	require.Equal(t, 3, teams.Count)
}

func TestAPIUnavailable(t *testing.T) {
	srv, _ := testServer(t, testConfig(), catalog.NewHolder())
	h := srv.routes()

	w := get(t, h, "/api/players", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = get(t, h, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"loading"}`, w.Body.String())

	failed := catalog.NewHolder()
	failed.Set(nil, errors.New("boom"))
	srv, _ = testServer(t, testConfig(), failed)
	h = srv.routes()

	w = get(t, h, "/api/lineup", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = get(t, h, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = get(t, h, "/api/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "boom")
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "secret"
	srv, _ := testServer(t, cfg, catalog.Ready(testCatalog(t)))
	h := srv.routes()

	w := get(t, h, "/api/teams", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())

	w = get(t, h, "/api/teams", http.Header{"X-Api-Key": {"wrong"}})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(t, h, "/api/teams", http.Header{"X-Api-Key": {"secret"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = get(t, h, "/tools", http.Header{"Authorization": {"Bearer secret"}})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestToolsRegistry(t *testing.T) {
	srv, _ := testServer(t, testConfig(), catalog.Ready(testCatalog(t)))

	w := get(t, srv.routes(), "/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tools []toolInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tools))
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	require.Equal(t, []string{"list_players", "team_of_the_week", "player_card", "list_teams", "dataset_status"}, names)
}

func TestCallTool(t *testing.T) {
	srv, rec := testServer(t, testConfig(), catalog.Ready(testCatalog(t)))

	res, _, err := srv.callTool("list_teams", func(cat *catalog.Catalog) (any, error) {
		return buildTeams(cat), nil
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, 1, rec.ToolCalls("list_teams"))

	res, _, err = srv.callTool("player_card", func(cat *catalog.Catalog) (any, error) {
		return buildPlayerCard(cat, PlayerCardArgs{Name: "nobody"})
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, statusFor(errInvalidArgs))
	require.Equal(t, http.StatusNotFound, statusFor(errPlayerNotFound))
	require.Equal(t, http.StatusServiceUnavailable, statusFor(catalog.ErrLoading))
	require.Equal(t, http.StatusServiceUnavailable, statusFor(errors.Join(catalog.ErrNoData, errors.New("x"))))
	require.Equal(t, http.StatusInternalServerError, statusFor(errors.New("other")))
}
