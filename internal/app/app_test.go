package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/config"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/logger"
)

// setupTestApp initializes a full application without starting the server
func setupTestApp(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{
		Port:             "5055",
		LogLevel:         "error",
		ShutdownTimeout:  time.Second,
		MetricsUsername:  "prometheus",
		MetricsPassword:  "secret",
		SentrySampleRate: 1,
		Audio:            config.AudioConfig{URLTTL: time.Hour},
	}
	app, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)
	return app
}

func serve(app *Application, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.server.Handler.ServeHTTP(w, req)
	return w
}

func TestProbes(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		path string
		want string
	}{
		{"/health", "ok"},
		{"/livez", "alive"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(app, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["status"])
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestRequestID(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := serve(app, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-Id"))

	w = serve(app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get("X-Request-Id"), 36, "a uuid is generated when none is sent")
}

func TestActionsRoute(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/actions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var listed []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 23)
	assert.Equal(t, "action_ask_for_missing_info", listed[0].Name)
	for i := 1; i < len(listed); i++ {
		assert.Less(t, listed[i-1].Name, listed[i].Name)
	}
}

func TestWebhookRoute_FallbackPricing(t *testing.T) {
	app := setupTestApp(t)

	body := `{"next_action": "action_default_fallback", "sender_id": "u1",
		"tracker": {"sender_id": "u1", "latest_message": {"text": "¿Cuánto cuesta una sesión?"}}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(app, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"events": [{"event": "action", "timestamp": null, "name": "action_fetch_packages", "policy": null, "confidence": null}],
		"responses": [{"response": "utter_ask_packages"}]
	}`, w.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("prometheus", "secret")
	w = serve(app, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
	assert.Contains(t, w.Body.String(), "actions_log_records_dropped_total 0")
}

func TestBuildRegistry(t *testing.T) {
	docs, err := content.Default()
	require.NoError(t, err)

	registry, err := BuildRegistry(ModuleDeps{
		Content:  docs,
		Logger:   logger.NewWithWriter("error", io.Discard),
		Resolver: config.NewResolver(config.MapLookup(nil)),
	})
	require.NoError(t, err)

	for _, name := range []string{
		"action_default_fallback",
		"action_fetch_packages",
		"action_fetch_package_details",
		"action_text_to_speech",
		"action_validate_booking",
		"action_handle_name_provision",
		"action_get_teachers_info",
	} {
		_, ok := registry.Get(name)
		assert.True(t, ok, name)
	}
}
