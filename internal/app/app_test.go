package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"habitTracker/internal/app"
	"habitTracker/internal/config"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			RequestTimeout:  time.Second,
			ShutdownTimeout: time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
		Auth: config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		},
		Schedule: config.ScheduleConfig{Timezone: "UTC"},
	}
}

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *client) call(method, path string, body any) (int, map[string]any) {
	c.t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(c.t, err)
	}

	req, err := http.NewRequest(method, c.server.URL+path, bytes.NewReader(payload))
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp.StatusCode, decoded
}

func TestApp_EndToEnd(t *testing.T) {
	application, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)

	server := httptest.NewServer(application.Router())
	defer server.Close()

	c := &client{t: t, server: server}

	status, body := c.call(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "inmemory", body["storage"])

	status, body = c.call(http.MethodGet, "/tasks", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["tasks"])

	status, body = c.call(http.MethodPost, "/tasks", map[string]string{"name": "Read", "goal_type": "daily"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTH_REQUIRED", body["error"])

	status, body = c.call(http.MethodPost, "/auth/signup", map[string]string{"email": "user@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, status)
	c.token = body["token"].(string)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + c.token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// регистрация соединения в хабе идёт сразу после рукопожатия
	time.Sleep(50 * time.Millisecond)

	status, body = c.call(http.MethodPost, "/tasks", map[string]string{"name": "Run", "goal_type": "weekly", "week_day": "friday"})
	require.Equal(t, http.StatusCreated, status)
	created := body["task"].(map[string]any)
	assert.Equal(t, "friday", created["week_day"])

	sawNotification := false
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for !sawNotification {
		var evt map[string]any
		require.NoError(t, conn.ReadJSON(&evt))
		if evt["type"] == "notification" {
			n := evt["notification"].(map[string]any)
			assert.Equal(t, "Task added!", n["title"])
			sawNotification = true
		}
	}

	status, body = c.call(http.MethodGet, "/tasks?goal_type=weekly", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["tasks"], 1)

	status, _ = c.call(http.MethodPatch, "/tasks/"+created["id"].(string)+"/status", map[string]string{"status": "complete"})
	assert.Equal(t, http.StatusOK, status)

	status, body = c.call(http.MethodPost, "/blogs", map[string]string{"title": "Day one", "content": "Started a new habit today."})
	assert.Equal(t, http.StatusCreated, status)

	status, body = c.call(http.MethodGet, "/blogs/"+body["blog"].(map[string]any)["id"].(string), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Day one", body["blog"].(map[string]any)["title"])

	status, _ = c.call(http.MethodPost, "/auth/signout", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = c.call(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["error"])
}

func TestApp_InitRejectsUnreachableRedis(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.RedisURL = "redis://127.0.0.1:1/0"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := app.New(cfg).Init(ctx)
	assert.Error(t, err)
}

func TestApp_SignOutIsIdempotent(t *testing.T) {
	application, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)

	server := httptest.NewServer(application.Router())
	defer server.Close()

	c := &client{t: t, server: server}
	status, body := c.call(http.MethodPost, "/auth/signup", map[string]string{"email": "twice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, status)
	c.token = body["token"].(string)

	status, _ = c.call(http.MethodPost, "/auth/signout", nil)
	assert.Equal(t, http.StatusNoContent, status, "первый выход")

	status, _ = c.call(http.MethodPost, "/auth/signout", nil)
	assert.Equal(t, http.StatusNoContent, status, "повторный выход с отозванным токеном")

	c.token = "garbage"
	status, _ = c.call(http.MethodPost, "/auth/signout", nil)
	assert.Equal(t, http.StatusNoContent, status, "выход с мусорным токеном")

	status, body = c.call(http.MethodGet, "/tasks", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["error"])
}
