package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"steamsync-api/internal/model"
)

// SQLGameRepository stores games and identity-game bindings.
type SQLGameRepository struct {
	db *DB
}

var (
	_ GameRepository    = (*SQLGameRepository)(nil)
	_ BindingRepository = (*SQLGameRepository)(nil)
)

// NewGameRepository creates a game repository.
func NewGameRepository(db *DB) *SQLGameRepository {
	return &SQLGameRepository{db: db}
}

func scanGame(row rowScanner) (*model.Game, error) {
	var (
		g           model.Game
		screenshots string
	)
	if err := row.Scan(&g.ID, &g.AppID, &g.Name, &g.ShortDescription, &g.HeaderImage, &screenshots, scanTime{&g.CreatedAt}); err != nil {
		return nil, err
	}
	g.Screenshots = []string{}
	if screenshots != "" {
		if err := json.Unmarshal([]byte(screenshots), &g.Screenshots); err != nil {
			return nil, fmt.Errorf("decode screenshots: %w", err)
		}
	}
	return &g, nil
}

// GetByAppID returns ErrNotFound when the game is not mirrored yet.
func (r *SQLGameRepository) GetByAppID(ctx context.Context, appID string) (*model.Game, error) {
	g, err := scanGame(r.db.queryRow(ctx, `
		SELECT id, app_id, name, short_description, header_image, screenshots, created_at
		FROM games WHERE app_id = ?`, appID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

// InsertGame stores a new game. Returns ErrConflict if app_id exists.
func (r *SQLGameRepository) InsertGame(ctx context.Context, g *model.Game) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now()
	}
	if g.Screenshots == nil {
		g.Screenshots = []string{}
	}
	screenshots, err := json.Marshal(g.Screenshots)
	if err != nil {
		return fmt.Errorf("encode screenshots: %w", err)
	}

	err = r.db.insert(ctx, `
		INSERT INTO games (id, app_id, name, short_description, header_image, screenshots, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.AppID, g.Name, g.ShortDescription, g.HeaderImage, string(screenshots), g.CreatedAt,
	)
	if err != nil && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return err
}

// ListByIdentity returns the games bound to an identity, oldest binding first.
func (r *SQLGameRepository) ListByIdentity(ctx context.Context, identityID string) ([]model.Game, error) {
	rows, err := r.db.query(ctx, `
		SELECT g.id, g.app_id, g.name, g.short_description, g.header_image, g.screenshots, g.created_at
		FROM games g
		JOIN user_games ug ON ug.game_id = g.id
		WHERE ug.user_id = ?
		ORDER BY ug.created_at, g.app_id`, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	out := []model.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// GetBinding returns ErrNotFound when the pair is not bound.
func (r *SQLGameRepository) GetBinding(ctx context.Context, identityID, gameID string) (*model.Binding, error) {
	var b model.Binding
	err := r.db.queryRow(ctx, `
		SELECT id, user_id, game_id, created_at
		FROM user_games WHERE user_id = ? AND game_id = ?`, identityID, gameID,
	).Scan(&b.ID, &b.IdentityID, &b.GameID, scanTime{&b.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get binding: %w", err)
	}
	return &b, nil
}

// InsertBinding stores a new binding. Returns ErrConflict if the pair exists.
func (r *SQLGameRepository) InsertBinding(ctx context.Context, b *model.Binding) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now()
	}
	err := r.db.insert(ctx, `
		INSERT INTO user_games (id, user_id, game_id, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.IdentityID, b.GameID, b.CreatedAt,
	)
	if err != nil && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("failed to insert binding: %w", err)
	}
	return err
}
