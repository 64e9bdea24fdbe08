package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfan7230/EmpowHer-sub001/internal/apps"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/assistant"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/community"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/sos"
	"github.com/irfan7230/EmpowHer-sub001/internal/archive"
	"github.com/irfan7230/EmpowHer-sub001/internal/clock"
	"github.com/irfan7230/EmpowHer-sub001/internal/database"
	"github.com/irfan7230/EmpowHer-sub001/internal/handlers"
	"github.com/irfan7230/EmpowHer-sub001/internal/metrics"
	"github.com/irfan7230/EmpowHer-sub001/internal/middleware"
	"github.com/irfan7230/EmpowHer-sub001/internal/session"
)

type testServer struct {
	app       *fiber.App
	clock     *clock.Manual
	sessions  *session.Registry
	community *community.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.Open(database.MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, archive.Models()...))
	t.Cleanup(func() { _ = database.Close(db) })
	repo := archive.NewRepository(db)

	clk := clock.NewManual(time.Date(2025, 3, 8, 22, 0, 0, 0, time.UTC))
	recorder := metrics.NewRecorder()
	shared := community.NewStore(community.WithClock(clk))
	recorder.ObserveCommunity(shared)

	registry := session.NewRegistry(time.Hour, time.Hour, func(id string) *session.Session {
		return &session.Session{
			SOS: sos.NewStore(
				sos.WithOwner(id),
				sos.WithClock(clk),
				sos.WithLocationProvider(sos.FixedLocation{Latitude: 19.07, Longitude: 72.87}),
				sos.WithArchiver(repo),
			),
			Assistant: assistant.NewStore(assistant.WithClock(clk)),
		}
	})
	t.Cleanup(registry.Close)

	app := fiber.New()
	app.Use(middleware.SessionMiddleware(registry))
	Setup(app, recorder,
		handlers.NewHealthHandler(repo, registry),
		handlers.NewSessionHandler(registry),
		handlers.NewDashboardHandler(shared, 2),
		[]apps.Plugin{
			sos.NewPlugin(session.SOSStore, repo),
			community.NewPlugin(shared),
			assistant.NewPlugin(session.AssistantStore),
		},
	)
	return &testServer{app: app, clock: clk, sessions: registry, community: shared}
}

func (s *testServer) do(t *testing.T, method, path, sessionID, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(session.Header, sessionID)
	}
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	var created struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/sessions", "", "", &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestSessionRequired(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, srv.do(t, http.MethodGet, "/api/sos", "", "", nil))
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/sos", "nope", "", nil))
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/health", "", "", nil))
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/community/alerts", "", "", nil))
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	a, b := srv.newSession(t), srv.newSession(t)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/sos/activate", a, "", nil))

	var st sos.State
	srv.do(t, http.MethodGet, "/api/sos", a, "", &st)
	assert.True(t, st.Status.IsActive)
	require.NotNil(t, st.Status.Location)
	assert.InDelta(t, 19.07, st.Status.Location.Latitude, 1e-9)

	srv.do(t, http.MethodGet, "/api/sos", b, "", &st)
	assert.False(t, st.Status.IsActive)
}

func TestDeactivationArchivesIncident(t *testing.T) {
	srv := newTestServer(t)
	id := srv.newSession(t)

	srv.do(t, http.MethodPost, "/api/sos/activate", id, "", nil)
	srv.clock.Advance(10 * time.Minute)
	srv.do(t, http.MethodPost, "/api/sos/deactivate", id, "", nil)

	var list sos.IncidentListResponse
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/sos/incidents", id, "", &list))
	require.Len(t, list.Incidents, 1)
	inc := list.Incidents[0]
	assert.Equal(t, id, inc.OwnerID)
	assert.Equal(t, 10*time.Minute, inc.EndedAt.Sub(inc.StartedAt))
	assert.True(t, inc.AlertsSent.Trustees)

	other := srv.newSession(t)
	srv.do(t, http.MethodGet, "/api/sos/incidents", other, "", &list)
	assert.Empty(t, list.Incidents)
}

func TestDashboardShowsNearbyAlerts(t *testing.T) {
	srv := newTestServer(t)
	id := srv.newSession(t)

	_, err := srv.community.AddCommunityAlert(community.NewAlert{UserID: "u1", Distance: 0.8})
	require.NoError(t, err)
	_, err = srv.community.AddCommunityAlert(community.NewAlert{UserID: "u2", Distance: 3})
	require.NoError(t, err)
	srv.do(t, http.MethodPost, "/api/assistant/messages", id, `{"text": "hi"}`, nil)

	var dash handlers.DashboardResponse
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/dashboard", id, "", &dash))
	require.Len(t, dash.NearbyAlerts, 1)
	assert.Equal(t, "u1", dash.NearbyAlerts[0].UserID)
	assert.False(t, dash.Status.IsActive)
	assert.True(t, dash.IsAITyping)
}

func TestEndSessionCancelsPendingReplies(t *testing.T) {
	srv := newTestServer(t)
	id := srv.newSession(t)

	srv.do(t, http.MethodPost, "/api/assistant/messages", id, `{"text": "scared"}`, nil)
	s, ok := srv.sessions.Get(id)
	require.True(t, ok)
	require.Equal(t, 1, s.Assistant.PendingReplies())

	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, "/api/sessions/current", id, "", nil))
	assert.Zero(t, s.Assistant.PendingReplies())
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/assistant/messages", id, "", nil))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	_, err := srv.community.AddCommunityAlert(community.NewAlert{UserID: "u1"})
	require.NoError(t, err)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `empowher_store_operations_total{op="add_alert",store="community"} 1`)
}
