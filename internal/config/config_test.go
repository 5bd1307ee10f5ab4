package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"habitTracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: "9090"
  request_timeout: 3s
  allowed_origins: ["https://habits.example.com"]
database:
  url: "postgres://u:p@localhost:5432/habits"
  max_connections: 20
repository:
  type: "postgres"
auth:
  jwt_secret: "file-secret"
  token_ttl: 2h
schedule:
  timezone: "Europe/Moscow"
logging:
  development: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.GetServerAddr())
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"https://habits.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int32(20), cfg.Database.MaxConnections)
	assert.Equal(t, int32(2), cfg.Database.MinConnections)
	assert.Equal(t, config.RepositoryPostgres, cfg.Repository.Type)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Logging.Development)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
repository:
  type: "inmemory"
auth:
  jwt_secret: "file-secret"
`)
	t.Setenv("HABIT_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("HABIT_SERVER_PORT", "7070")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HABIT_AUTH_JWT_SECRET", "secret")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, config.RepositoryInMemory, cfg.Repository.Type)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
			Auth:       config.AuthConfig{JWTSecret: "s", TokenTTL: time.Hour},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "postgres without url", mutate: func(c *config.Config) { c.Repository.Type = config.RepositoryPostgres }, errMsg: "database.url"},
		{name: "unknown repository", mutate: func(c *config.Config) { c.Repository.Type = "mongo" }, errMsg: "неизвестный тип репозитория"},
		{name: "no secret", mutate: func(c *config.Config) { c.Auth.JWTSecret = "" }, errMsg: "jwt_secret"},
		{name: "bad ttl", mutate: func(c *config.Config) { c.Auth.TokenTTL = 0 }, errMsg: "token_ttl"},
		{name: "bad timezone", mutate: func(c *config.Config) { c.Schedule.Timezone = "Mars/Olympus" }, errMsg: "часовой пояс"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}
