package sos

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIncidents struct {
	owner string
	limit int
	out   []Incident
	err   error
}

func (s *staticIncidents) ListIncidents(ownerID string, limit int) ([]Incident, error) {
	s.owner, s.limit = ownerID, limit
	return s.out, s.err
}

func newTestApp(t *testing.T, store *Store, incidents IncidentLister) *fiber.App {
	t.Helper()
	app := fiber.New()
	resolve := func(c *fiber.Ctx) (*Store, error) {
		if c.Get("X-Session-ID") == "" {
			return nil, errors.New("no session")
		}
		return store, nil
	}
	NewPlugin(resolve, incidents).RegisterRoutes(app.Group("/api"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Session-ID", "session-1")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func status(out map[string]any) map[string]any {
	return out["sos_status"].(map[string]any)
}

func TestHandlerActivateAndDeactivate(t *testing.T) {
	store, _ := newTestStore(t)
	app := newTestApp(t, store, nil)

	code, out := do(t, app, http.MethodPost, "/api/sos/activate", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, status(out)["is_active"])
	assert.Equal(t, true, out["is_location_sharing"])
	assert.NotContains(t, out, "warning")

	code, out = do(t, app, http.MethodGet, "/api/sos", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, DefaultScenario, status(out)["active_scenario"])

	code, out = do(t, app, http.MethodPost, "/api/sos/deactivate", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, status(out)["is_active"])
	assert.NotContains(t, status(out), "location")
}

func TestHandlerActivateWithoutLocationWarns(t *testing.T) {
	store, _ := newTestStore(t, WithLocationProvider(brokenGPS{}))
	app := newTestApp(t, store, nil)

	code, out := do(t, app, http.MethodPost, "/api/sos/activate", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, status(out)["is_active"])
	assert.Contains(t, out["warning"], "no fix")
}

func TestHandlerUpdateLocation(t *testing.T) {
	store, _ := newTestStore(t)
	app := newTestApp(t, store, nil)

	code, _ := do(t, app, http.MethodPut, "/api/sos/location", `{"latitude": 12.97}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPut, "/api/sos/location", `{"latitude": 95, "longitude": 0}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, out := do(t, app, http.MethodPut, "/api/sos/location", `{"latitude": 12.97, "longitude": 77.59, "address": "MG Road"}`)
	assert.Equal(t, http.StatusOK, code)
	loc := status(out)["location"].(map[string]any)
	assert.InDelta(t, 12.97, loc["latitude"], 1e-9)
	assert.Equal(t, "MG Road", loc["address"])
}

func TestHandlerEvidenceRequiresActivation(t *testing.T) {
	store, _ := newTestStore(t)
	app := newTestApp(t, store, nil)

	code, out := do(t, app, http.MethodPatch, "/api/sos/evidence", `{"photos": ["a.jpg"]}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, true, out["error"])
	assert.Equal(t, "invalid_state", out["kind"])

	_, err := store.ActivateSOS()
	require.NoError(t, err)
	code, out = do(t, app, http.MethodPatch, "/api/sos/evidence", `{"photos": ["a.jpg"], "audio_recording": false}`)
	assert.Equal(t, http.StatusOK, code)
	ev := status(out)["evidence_collected"].(map[string]any)
	assert.Equal(t, []any{"a.jpg"}, ev["photos"])
	assert.Equal(t, false, ev["audio_recording"])
	assert.Equal(t, true, ev["video_recording"])
}

func TestHandlerToggleSharing(t *testing.T) {
	store, _ := newTestStore(t)
	app := newTestApp(t, store, nil)

	_, out := do(t, app, http.MethodPost, "/api/sos/location-sharing/toggle", "")
	assert.Equal(t, true, out["is_location_sharing"])
	_, out = do(t, app, http.MethodPost, "/api/sos/location-sharing/toggle", "")
	assert.Equal(t, false, out["is_location_sharing"])
}

func TestHandlerListIncidents(t *testing.T) {
	store, _ := newTestStore(t)
	lister := &staticIncidents{out: []Incident{{OwnerID: "session-1", Scenario: DefaultScenario}}}
	app := newTestApp(t, store, lister)

	code, out := do(t, app, http.MethodGet, "/api/sos/incidents?limit=500", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "session-1", lister.owner)
	assert.Equal(t, 20, lister.limit)
	assert.Len(t, out["incidents"], 1)

	empty := newTestApp(t, store, nil)
	_, out = do(t, empty, http.MethodGet, "/api/sos/incidents", "")
	assert.Equal(t, []any{}, out["incidents"])
}

func TestHandlerRequiresSession(t *testing.T) {
	store, _ := newTestStore(t)
	app := newTestApp(t, store, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sos", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
