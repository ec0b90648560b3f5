package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect selects the SQL flavour and driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// ParseDialect maps a DB_TYPE value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", s)
	}
}

func (d Dialect) driverName() string {
	return string(d)
}

// rebind rewrites ? placeholders to $n for postgres.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// isUniqueViolation reports whether err is a uniqueness or primary key violation.
func (d Dialect) isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}

	return false
}

func (d Dialect) schema() []string {
	switch d {
	case DialectPostgres:
		return postgresSchema
	case DialectMySQL:
		return mysqlSchema
	default:
		return sqliteSchema
	}
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		steam_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		avatar TEXT NOT NULL DEFAULT '',
		profile_url TEXT NOT NULL DEFAULT '',
		visibility INTEGER NOT NULL DEFAULT 0,
		persona_state INTEGER NOT NULL DEFAULT 0,
		country TEXT,
		game_id TEXT,
		current_game TEXT,
		steam_created_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	`CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		app_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		short_description TEXT NOT NULL DEFAULT '',
		header_image TEXT NOT NULL DEFAULT '',
		screenshots TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_games (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, game_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventories (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id TEXT PRIMARY KEY,
		inventory_id TEXT NOT NULL REFERENCES inventories(id) ON DELETE CASCADE,
		app_id TEXT NOT NULL,
		class_id TEXT NOT NULL,
		icon_url TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		name_color TEXT NOT NULL DEFAULT '',
		item_type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		UNIQUE (inventory_id, class_id)
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		steam_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL,
		avatar TEXT NOT NULL DEFAULT '',
		profile_url TEXT NOT NULL DEFAULT '',
		visibility INTEGER NOT NULL DEFAULT 0,
		persona_state INTEGER NOT NULL DEFAULT 0,
		country TEXT,
		game_id TEXT,
		current_game TEXT,
		steam_created_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	`CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		app_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		short_description TEXT NOT NULL DEFAULT '',
		header_image TEXT NOT NULL DEFAULT '',
		screenshots TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_games (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, game_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventories (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id TEXT PRIMARY KEY,
		inventory_id TEXT NOT NULL REFERENCES inventories(id) ON DELETE CASCADE,
		app_id TEXT NOT NULL,
		class_id TEXT NOT NULL,
		icon_url TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		name_color TEXT NOT NULL DEFAULT '',
		item_type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (inventory_id, class_id)
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// MySQL cannot index unbounded TEXT, so keyed columns are VARCHAR.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		steam_id VARCHAR(32) NOT NULL UNIQUE,
		username VARCHAR(255) NOT NULL,
		avatar TEXT NOT NULL,
		profile_url TEXT NOT NULL,
		visibility INT NOT NULL DEFAULT 0,
		persona_state INT NOT NULL DEFAULT 0,
		country VARCHAR(8) NULL,
		game_id VARCHAR(32) NULL,
		current_game VARCHAR(255) NULL,
		steam_created_at DATETIME(6) NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		INDEX idx_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS games (
		id VARCHAR(36) PRIMARY KEY,
		app_id VARCHAR(32) NOT NULL UNIQUE,
		name VARCHAR(512) NOT NULL,
		short_description TEXT NOT NULL,
		header_image TEXT NOT NULL,
		screenshots MEDIUMTEXT NOT NULL,
		created_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS user_games (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL,
		game_id VARCHAR(36) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_user_games (user_id, game_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS inventories (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL UNIQUE,
		created_at DATETIME(6) NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id VARCHAR(36) PRIMARY KEY,
		inventory_id VARCHAR(36) NOT NULL,
		app_id VARCHAR(32) NOT NULL,
		class_id VARCHAR(32) NOT NULL,
		icon_url TEXT NOT NULL,
		name VARCHAR(512) NOT NULL,
		name_color VARCHAR(16) NOT NULL,
		item_type VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_inventory_items (inventory_id, class_id),
		FOREIGN KEY (inventory_id) REFERENCES inventories(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS admins (
		id VARCHAR(36) PRIMARY KEY,
		username VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
