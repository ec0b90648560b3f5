package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"steamsync-api/internal/model"
)

// SQLAdminRepository stores operator accounts.
type SQLAdminRepository struct {
	db *DB
}

var _ AdminRepository = (*SQLAdminRepository)(nil)

// NewAdminRepository creates an admin repository.
func NewAdminRepository(db *DB) *SQLAdminRepository {
	return &SQLAdminRepository{db: db}
}

// GetByUsername returns ErrNotFound when absent.
func (r *SQLAdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := r.db.queryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admins WHERE username = ?`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, scanTime{&a.CreatedAt}, scanTime{&a.UpdatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}

// Insert stores an admin. Returns ErrConflict on duplicate username.
func (r *SQLAdminRepository) Insert(ctx context.Context, a *model.Admin) error {
	ts := now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = ts
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	err := r.db.insert(ctx, `
		INSERT INTO admins (id, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.PasswordHash, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return err
}
