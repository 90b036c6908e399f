package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Host)
	require.Equal(t, 5433, cfg.Database.Port)
	require.Equal(t, "workforce", cfg.Database.User)
	require.Equal(t, "workforce_prod", cfg.Database.Name)
	require.Equal(t, "require", cfg.Database.Options["sslmode"])

	require.Equal(t, "file-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "workforce-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.False(t, cfg.Maintenance.Enabled)
	require.Equal(t, "@hourly", cfg.Maintenance.ContractSweepSchedule)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/workforce.sqlite", cfg.Database.Path)
	require.Equal(t, "workforce", cfg.Auth.JWT.Issuer)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.True(t, cfg.Maintenance.Enabled)
	require.Equal(t, "0 2 * * *", cfg.Maintenance.ContractSweepSchedule)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("WORKFORCE_SERVER_PORT", "7070")
	t.Setenv("WORKFORCE_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("WORKFORCE_AUTH_JWT_ACCESS_TOKEN_TTL", "45m")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 45*time.Minute, cfg.Auth.JWT.TTL)
}

func TestDatabaseConnConfig(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{
		Driver:  "mysql",
		Host:    "localhost",
		Port:    3306,
		Name:    "workforce",
		Options: map[string]string{"parseTime": "true"},
	}}

	conn := cfg.DatabaseConnConfig()
	require.Equal(t, "mysql", conn.Driver)
	require.Equal(t, "localhost", conn.Host)
	require.Equal(t, 3306, conn.Port)
	require.Equal(t, "true", conn.Options["parseTime"])
}
