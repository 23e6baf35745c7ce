package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/aretw0/framepilot/internal/adapters/http"
	"github.com/aretw0/framepilot/pkg/domain"
	"github.com/aretw0/framepilot/pkg/observability"
	"github.com/aretw0/framepilot/pkg/registry"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(httpadapter.NewHandler(registry.New()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestPutSessionCreatesAtInactive(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/sessions/s1", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "s1", body["sessionId"])
	assert.Equal(t, "Inactive", body["currentState"])
	assert.Equal(t, "EMPTY_FRAME", body["currentFrame"])
}

func TestPostSessionGeneratesID(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sessions", map[string]any{})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["sessionId"])
}

func TestPostEventDrivesMachine(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/sessions/s1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/events", map[string]any{
		"type":    "LADE_NEUE_LISTE",
		"list":    []string{"E1", "E2"},
		"context": "ENTITAET",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "WorkMode/Entity", body["currentState"])
	assert.Equal(t, "E1", body["currentFrame"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/events", map[string]any{
		"type": "NAECHSTER_FRAME",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "E2", body["currentFrame"])
}

func TestPostEventValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/sessions/s1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/events", map[string]any{
		"type": "EXPLODIEREN",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "error")

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/sessions/ghost/events", map[string]any{
		"type": "NAECHSTER_FRAME",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSession(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/sessions/s1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/sessions/s1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Inactive", body["currentState"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/sessions/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteSessionReportsRemoval(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/sessions/s1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodDelete, srv.URL+"/sessions/s1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["removed"])

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/sessions/s1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["removed"])
}

func TestListSessions(t *testing.T) {
	srv := newTestServer(t)

	for _, id := range []string{"a", "b"} {
		resp, _ := doJSON(t, http.MethodPut, srv.URL+"/sessions/"+id, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snaps []domain.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snaps))
	assert.Len(t, snaps, 2)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	promReg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promReg)
	reg := registry.New(registry.WithHooks(metrics.Hooks()))

	srv := httptest.NewServer(httpadapter.NewHandler(reg, httpadapter.WithGatherer(promReg)))
	t.Cleanup(srv.Close)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/sessions/s1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	mresp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	assert.Equal(t, http.StatusOK, mresp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(mresp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "framepilot_sessions_active 1")
}

func TestOpenAPIDocumentIsValid(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	// The served document must describe the routes the router mounts.
	for _, path := range []string{"/sessions", "/sessions/{sessionId}", "/sessions/{sessionId}/events"} {
		assert.NotNil(t, doc.Paths.Find(path), "missing path %s", path)
	}
}
