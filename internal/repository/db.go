package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config holds what Open needs to reach a database.
type Config struct {
	Type            string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB is a *sql.DB bound to a dialect. All repositories share one.
type DB struct {
	sql     *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// Open connects, pings and bootstraps the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialect, err := ParseDialect(cfg.Type)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(dialect.driverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// SQLite only supports one writer.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", dialect, err)
	}

	db := &DB{sql: sqlDB, dialect: dialect, logger: logger}
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info("database ready", "dialect", string(dialect))
	return db, nil
}

func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range db.dialect.schema() {
		if _, err := db.sql.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks connectivity, used by the readiness check.
func (db *DB) Ping(ctx context.Context) error {
	return db.sql.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.sql.Close()
}

// Stats returns per-table row counts and pool statistics.
func (db *DB) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})
	for _, table := range []string{"users", "games", "user_games", "inventories", "inventory_items", "admins"} {
		var count int64
		if err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = count
	}

	pool := db.sql.Stats()
	stats["dialect"] = string(db.dialect)
	stats["open_connections"] = pool.OpenConnections
	stats["in_use"] = pool.InUse
	stats["wait_count"] = pool.WaitCount
	return stats, nil
}

func (db *DB) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.sql.ExecContext(ctx, db.dialect.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.sql.QueryRowContext(ctx, db.dialect.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.sql.QueryContext(ctx, db.dialect.rebind(query), args...)
}

// insert runs an INSERT and maps unique violations to ErrConflict.
func (db *DB) insert(ctx context.Context, query string, args ...interface{}) error {
	if _, err := db.exec(ctx, query, args...); err != nil {
		if db.dialect.isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// now returns the current time at the precision every dialect can store.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// nullTime stores the zero time as NULL.
func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

// nullString stores a nil pointer as NULL.
func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// nullInt stores a nil pointer as NULL.
func nullInt(n *int) interface{} {
	if n == nil {
		return nil
	}
	return int64(*n)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// scanTime accepts the different ways drivers hand back timestamps.
type scanTime struct {
	dst *time.Time
}

func (s scanTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s.dst = time.Time{}
	case time.Time:
		*s.dst = v.UTC()
	case int64:
		*s.dst = time.Unix(v, 0).UTC()
	case []byte:
		return s.parse(string(v))
	case string:
		return s.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
	return nil
}

func (s scanTime) parse(v string) error {
	v = strings.TrimSpace(v)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time", v)
}

// likePattern builds a case-insensitive substring pattern escaped with '!'.
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}
