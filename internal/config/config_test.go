package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadParsesSimulation(t *testing.T) {
	path := writeConfig(t, `
app:
  name: ratingsim
  environment: development
  log_level: debug
simulation:
  num_teams: 8
  num_games: 250
  seed: 11
  intercept: 24.5
  home_advantage: 2.0
  noise_std: 6.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Simulation.NumTeams)
	assert.Equal(t, 250, cfg.Simulation.NumGames)
	assert.Equal(t, int64(11), cfg.Simulation.Seed)
	assert.Equal(t, 2.0, cfg.Simulation.HomeAdvantage)
	require.NoError(t, Validate(cfg))
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("RATINGSIM_TEST_DB_PASSWORD", "hunter2")
	path := writeConfig(t, `
app:
  name: ratingsim
  environment: development
  log_level: info
simulation:
  num_teams: 4
  num_games: 100
database:
  enabled: true
  host: localhost
  port: 5432
  name: ratingsim
  user: ratingsim
  password: ${RATINGSIM_TEST_DB_PASSWORD}
  ssl_mode: disable
  max_connections: 10
  max_idle_connections: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestLoadWithDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 4, cfg.Simulation.NumTeams)
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
	require.NoError(t, Validate(cfg))
}

func TestValidateRejectsSingleTeam(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Simulation.NumTeams = 1
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.App.Environment = "sandbox"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsIdleOverMax(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Database.Enabled = true
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Name = "ratingsim"
	cfg.Database.User = "ratingsim"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxConnections = 2
	cfg.Database.MaxIdleConnections = 5
	assert.Error(t, Validate(cfg))
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db.internal", Port: 5432, Name: "ratingsim",
		User: "app", Password: "pw", SSLMode: "require",
	}}
	assert.Equal(t, "postgres://app:pw@db.internal:5432/ratingsim?sslmode=require", cfg.GetDatabaseDSN())
}
