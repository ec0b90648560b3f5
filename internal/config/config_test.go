package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamsync-api/internal/repository"
)

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STEAM_API_KEY", "")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("STEAM_API_KEY")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsEmptySecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STEAM_API_KEY", "test-key")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STEAM_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "test-key", cfg.Steam.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Steam.Timeout)
	assert.Equal(t, 20, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	pg := DatabaseConfig{Type: "postgres", User: "u", Password: "p", Host: "db", Port: 5432, Name: "steamsync", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/steamsync?sslmode=disable", pg.DSN())

	my := DatabaseConfig{Type: "mysql", User: "u", Password: "p", Host: "db", Port: 3306, Name: "steamsync"}
	assert.Equal(t, "u:p@tcp(db:3306)/steamsync?parseTime=true&loc=UTC&clientFoundRows=true", my.DSN())

	lite := DatabaseConfig{Type: "sqlite", Path: "/tmp/x.db"}
	assert.Contains(t, lite.DSN(), "/tmp/x.db?")
}

func TestDatabaseConfig_DialectAliases(t *testing.T) {
	tests := []struct {
		dbType    string
		dialect   repository.Dialect
		dsnPrefix string
	}{
		{"", repository.DialectSQLite, "/tmp/x.db?"},
		{"sqlite", repository.DialectSQLite, "/tmp/x.db?"},
		{"sqlite3", repository.DialectSQLite, "/tmp/x.db?"},
		{"SQLite", repository.DialectSQLite, "/tmp/x.db?"},
		{"postgres", repository.DialectPostgres, "postgres://"},
		{"postgresql", repository.DialectPostgres, "postgres://"},
		{"Postgres", repository.DialectPostgres, "postgres://"},
		{"mysql", repository.DialectMySQL, "u:p@tcp("},
		{"MySQL", repository.DialectMySQL, "u:p@tcp("},
		{"mariadb", repository.DialectMySQL, "u:p@tcp("},
		{" MariaDB ", repository.DialectMySQL, "u:p@tcp("},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			d := DatabaseConfig{Type: tt.dbType, Path: "/tmp/x.db", User: "u", Password: "p", Host: "db", Port: 1, Name: "n"}

			got, err := d.Dialect()
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, got)
			assert.True(t, strings.HasPrefix(d.DSN(), tt.dsnPrefix), d.DSN())
		})
	}
}

func TestLoad_RejectsUnknownDatabaseType(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STEAM_API_KEY", "test-key")
	t.Setenv("DB_TYPE", "mongodb")

	_, err := Load()
	require.Error(t, err)
}
