package router_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/catalog"
	"notifier/internal/config"
	"notifier/internal/domain/delivery"
	"notifier/internal/router"
	"notifier/pkg/dispatch"
	"notifier/pkg/engine/liquid"
)

type nopEnqueuer struct{}

func (nopEnqueuer) EnqueueDelivery(*delivery.SendRequest, string) error { return nil }

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Auth:   config.AuthConfig{APIKeys: []string{"secret"}},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	n := dispatch.New(liquid.NewEngine(), dispatch.WithLogger(logger))
	n.Freeze()

	svc := delivery.NewService(catalog.Default(), n, nopEnqueuer{}, nil, nil)
	return router.New(cfg, logger, n, delivery.NewHandler(svc))
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Status   string   `json:"status"`
			Channels []string `json:"channels"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Data.Status)
	assert.Empty(t, body.Data.Channels)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAPIRequiresKey(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/send", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deliveries", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
