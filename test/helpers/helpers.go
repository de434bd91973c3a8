// Package helpers provides shared setup for integration and end-to-end tests.
package helpers

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sethah/ratingsim/internal/config"
	"github.com/sethah/ratingsim/internal/store"
)

// SetupTestDB connects to the test database and ensures the experiment
// schema exists. The test is skipped when TEST_DB_HOST is not set, so the
// suite stays runnable without a database.
func SetupTestDB(t *testing.T) *store.DB {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("skipping: TEST_DB_HOST not set")
	}

	cfg := &config.DatabaseConfig{
		Enabled:        true,
		Host:           host,
		Port:           getEnvInt("TEST_DB_PORT", 5432),
		Name:           GetEnvOrDefault("TEST_DB_NAME", "ratingsim_test"),
		User:           GetEnvOrDefault("TEST_DB_USER", "test"),
		Password:       GetEnvOrDefault("TEST_DB_PASSWORD", "test"),
		SSLMode:        GetEnvOrDefault("TEST_DB_SSLMODE", "disable"),
		MaxConnections: 4,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.NewDB(ctx, cfg)
	require.NoError(t, err, "failed to connect to test database")

	err = db.EnsureSchema(ctx)
	require.NoError(t, err, "failed to ensure schema")

	return db
}

// TeardownTestDB removes test data and closes the connection pool.
func TeardownTestDB(t *testing.T, db *store.DB) {
	t.Helper()

	CleanupDatabase(t, db)
	db.Close()
}

// CleanupDatabase truncates the experiment tables.
func CleanupDatabase(t *testing.T, db *store.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		"team_estimates",
		"experiment_games",
		"experiment_runs",
	}
	for _, table := range tables {
		if _, err := db.GetPool().Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			t.Logf("Warning: failed to truncate table %s: %v", table, err)
		}
	}
}

// CreateTestContext creates a context with a timeout tied to the test
// lifetime.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// WaitForCondition waits for a condition to become true or times out.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	require.Fail(t, "condition not met within timeout", message)
}

// GetEnvOrDefault returns an environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// SkipIfShort skips the test when running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
