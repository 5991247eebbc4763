package main

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/mercabot/mercabot-go/internal/backend"
	"github.com/mercabot/mercabot-go/internal/bot"
	"github.com/mercabot/mercabot-go/internal/config"
	"github.com/mercabot/mercabot-go/internal/logger"
	"github.com/mercabot/mercabot-go/internal/metrics"
	"github.com/mercabot/mercabot-go/internal/webhook"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, cfg *config.Config, backendURL string) *gin.Engine {
	t.Helper()

	log := logger.NewWithWriter("error", io.Discard)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	botRegistry, err := bot.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	client := backend.NewClient(backendURL, 2*time.Second)
	webhookHandler := webhook.NewHandler(botRegistry, m, log, 5*time.Second)

	router := gin.New()
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	setupRoutes(router, webhookHandler, client, registry, cfg)
	return router
}

func get(router *gin.Engine, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthzEndpoint(t *testing.T) {
	router := newTestRouter(t, &config.Config{}, "http://localhost:1")

	w := get(router, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRootEndpoint(t *testing.T) {
	router := newTestRouter(t, &config.Config{}, "http://localhost:1")

	w := get(router, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mercabot-action-server")
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("backend reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		router := newTestRouter(t, &config.Config{}, srv.URL)

		w := get(router, "/ready", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ready"`)
	})

	t.Run("backend unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // Nothing listens at srv.URL anymore

		router := newTestRouter(t, &config.Config{}, srv.URL)

		w := get(router, "/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "not ready")
	})
}

func TestMetricsEndpointWithoutAuth(t *testing.T) {
	// No password configured, endpoint is open
	router := newTestRouter(t, &config.Config{}, "http://localhost:1")

	w := get(router, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpointBasicAuth(t *testing.T) {
	cfg := &config.Config{
		MetricsUsername: "prometheus",
		MetricsPassword: "secret123",
	}
	router := newTestRouter(t, cfg, "http://localhost:1")

	t.Run("missing credentials", func(t *testing.T) {
		w := get(router, "/metrics", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		header := http.Header{}
		header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("prometheus:wrong")))
		w := get(router, "/metrics", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid credentials", func(t *testing.T) {
		header := http.Header{}
		header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("prometheus:secret123")))
		w := get(router, "/metrics", header)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	router := newTestRouter(t, &config.Config{}, "http://localhost:1")

	w := get(router, "/healthz", nil)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t, &config.Config{}, "http://localhost:1")

	t.Run("generated when absent", func(t *testing.T) {
		w := get(router, "/healthz", nil)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("caller id preserved", func(t *testing.T) {
		header := http.Header{}
		header.Set("X-Request-ID", "req-abc")
		w := get(router, "/healthz", header)
		assert.Equal(t, "req-abc", w.Header().Get("X-Request-ID"))
	})
}
