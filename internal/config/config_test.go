package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENROUTER_API_KEY", "AI_MODEL", "DEBATE_LISTEN_ADDR", "DEBATE_WORKER_URL", "DEBATE_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestDefaultRoster(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	roster := cfg.Roster()
	require.Len(t, roster, 5)
	for i, p := range roster[:4] {
		assert.Equal(t, models.RoleDebater, p.Role)
		assert.Equal(t, "Agent_"+string(rune('1'+i)), p.Name)
	}
	assert.Equal(t, "VERA_Agent", roster[4].Name)
	assert.True(t, roster[4].IsVerifier())
	assert.Equal(t, 2, cfg.Session.MaxRounds)
	assert.Equal(t, DefaultWorkerURL, cfg.WorkerURL)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "debate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
worker_url: http://worker:9000
request_timeout: 45s
log_format: json
participants:
  - name: Bull
    role: debater
  - name: Bear
    role: debater
  - name: Judge
    role: verifier
session:
  initial_claim: Gold will outperform bonds this quarter.
  context: ""
  max_rounds: 3
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://worker:9000", cfg.WorkerURL)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, []ParticipantConfig{
		{Name: "Bull", Role: models.RoleDebater},
		{Name: "Bear", Role: models.RoleDebater},
		{Name: "Judge", Role: models.RoleVerifier},
	}, cfg.Participants)
	assert.Equal(t, "Gold will outperform bonds this quarter.", cfg.Session.InitialClaim)
	assert.Empty(t, cfg.Session.Context)
	assert.Equal(t, 3, cfg.Session.MaxRounds)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "key")
	t.Setenv("AI_MODEL", "some/model")
	t.Setenv("DEBATE_WORKER_URL", "http://elsewhere:7001")
	t.Setenv("DEBATE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.OpenRouterAPIKey)
	assert.Equal(t, "some/model", cfg.AIModel)
	assert.Equal(t, "http://elsewhere:7001", cfg.WorkerURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("participants:\n  - name: A\n    role: judge\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no participants", func(c *Config) { c.Participants = nil }},
		{"blank name", func(c *Config) { c.Participants[0].Name = " " }},
		{"duplicate name", func(c *Config) { c.Participants[1].Name = c.Participants[0].Name }},
		{"invalid role", func(c *Config) { c.Participants[0].Role = models.RoleInvalid }},
		{"no verifier", func(c *Config) { c.Participants[4].Role = models.RoleDebater }},
		{"two verifiers", func(c *Config) { c.Participants[0].Role = models.RoleVerifier }},
		{"negative rounds", func(c *Config) { c.Session.MaxRounds = -1 }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	var nilConfig *Config
	assert.Error(t, nilConfig.Validate())

	zeroRounds := Default()
	zeroRounds.Session.MaxRounds = 0
	assert.NoError(t, zeroRounds.Validate())
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	log, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}
