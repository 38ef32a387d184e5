package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizbuzz/quizbuzz/internal/api"
	"github.com/quizbuzz/quizbuzz/internal/factory"
	"github.com/quizbuzz/quizbuzz/internal/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *factory.TestApp) {
	t.Helper()
	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:  testutil.NopLogger(),
		Gateway: app.Gateway,
		Store:   app.Store,
	})
	return router, app
}

func TestHealthzReportsSessionCount(t *testing.T) {
	router, app := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Zero(t, body.Sessions)

	app.MockRandom.QueueString("ABC234")
	_, err := app.Controller.CreateSession(context.Background(), "gm-pass")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Sessions)
}

func TestWsEndpointRejectsPlainRequests(t *testing.T) {
	router, _ := newTestRouter(t)

	// No upgrade headers; the gorilla upgrader refuses the handshake
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
