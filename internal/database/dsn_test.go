package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSNDefaults(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User: "workforce",
		Name: "workforce",
	})
	require.NoError(t, err)
	require.Equal(t, "host=localhost port=5432 user=workforce dbname=workforce sslmode=disable", dsn)
}

func TestBuildPostgresDSNWithOptions(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		Host:     "db.internal",
		Port:     6543,
		User:     "user",
		Password: "secret",
		Name:     "app",
		Options: map[string]string{
			"sslmode":         "require",
			"connect_timeout": "5",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "host=db.internal port=6543 user=user dbname=app password=secret connect_timeout=5 sslmode=require", dsn)
}

func TestBuildPostgresDSNRequiresUserAndName(t *testing.T) {
	_, err := buildPostgresDSN(Config{User: "only-user"})
	require.Error(t, err)
}

func TestBuildMySQLDSNDefaults(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User: "workforce",
		Name: "workforce",
	})
	require.NoError(t, err)
	require.Equal(t, "workforce@tcp(127.0.0.1:3306)/workforce?charset=utf8mb4&loc=UTC&parseTime=True", dsn)
}

func TestBuildMySQLDSNWithPasswordAndOptions(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		Host:     "db",
		Port:     3307,
		User:     "user",
		Password: "secret",
		Name:     "app",
		Options: map[string]string{
			"tls": "true",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "user:secret@tcp(db:3307)/app?charset=utf8mb4&loc=UTC&parseTime=True&tls=true", dsn)
}

func TestDSNOverrideWins(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{DSN: "postgres://override"})
	require.NoError(t, err)
	require.Equal(t, "postgres://override", dsn)
}
