package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"steamsync-api/internal/model"
)

const identityColumns = `id, steam_id, username, avatar, profile_url, visibility, persona_state,
	country, game_id, current_game, steam_created_at, created_at, updated_at`

// SQLIdentityRepository stores identities in the users table.
type SQLIdentityRepository struct {
	db *DB
}

var _ IdentityRepository = (*SQLIdentityRepository)(nil)

// NewIdentityRepository creates an identity repository.
func NewIdentityRepository(db *DB) *SQLIdentityRepository {
	return &SQLIdentityRepository{db: db}
}

func scanIdentity(row rowScanner) (*model.Identity, error) {
	var (
		u                            model.Identity
		country, gameID, currentGame sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.SteamID, &u.Username, &u.AvatarURL, &u.ProfileURL, &u.Visibility, &u.PersonaState,
		&country, &gameID, &currentGame,
		scanTime{&u.SteamCreatedAt}, scanTime{&u.CreatedAt}, scanTime{&u.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	u.Country = stringPtr(country)
	u.GameID = stringPtr(gameID)
	u.CurrentGame = stringPtr(currentGame)
	return &u, nil
}

// Exists reports whether an identity with steamID is stored.
func (r *SQLIdentityRepository) Exists(ctx context.Context, steamID string) (bool, error) {
	var n int
	err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM users WHERE steam_id = ?`, steamID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check identity: %w", err)
	}
	return n > 0, nil
}

// GetBySteamID returns ErrNotFound when absent.
func (r *SQLIdentityRepository) GetBySteamID(ctx context.Context, steamID string) (*model.Identity, error) {
	u, err := scanIdentity(r.db.queryRow(ctx, `SELECT `+identityColumns+` FROM users WHERE steam_id = ?`, steamID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	return u, nil
}

// Insert stores a new identity. Timestamps are filled when zero.
func (r *SQLIdentityRepository) Insert(ctx context.Context, u *model.Identity) error {
	ts := now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = ts
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	err := r.db.insert(ctx, `
		INSERT INTO users (`+identityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.SteamID, u.Username, u.AvatarURL, u.ProfileURL, u.Visibility, u.PersonaState,
		nullString(u.Country), nullString(u.GameID), nullString(u.CurrentGame),
		nullTime(u.SteamCreatedAt), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to insert identity: %w", err)
	}
	return nil
}

// Overwrite replaces every mirrored field of the identity keyed by u.SteamID.
// Nil optional fields are stored as NULL.
func (r *SQLIdentityRepository) Overwrite(ctx context.Context, u *model.Identity) error {
	u.UpdatedAt = now()

	res, err := r.db.exec(ctx, `
		UPDATE users SET
			username = ?, avatar = ?, profile_url = ?, visibility = ?, persona_state = ?,
			country = ?, game_id = ?, current_game = ?, steam_created_at = ?, updated_at = ?
		WHERE steam_id = ?`,
		u.Username, u.AvatarURL, u.ProfileURL, u.Visibility, u.PersonaState,
		nullString(u.Country), nullString(u.GameID), nullString(u.CurrentGame),
		nullTime(u.SteamCreatedAt), u.UpdatedAt,
		u.SteamID,
	)
	if err != nil {
		return fmt.Errorf("failed to overwrite identity: %w", err)
	}
	return requireAffected(res)
}

// Patch applies the non-nil fields of p and returns the stored result.
func (r *SQLIdentityRepository) Patch(ctx context.Context, steamID string, p model.IdentityPatch) (*model.Identity, error) {
	res, err := r.db.exec(ctx, `
		UPDATE users SET
			username = COALESCE(?, username),
			avatar = COALESCE(?, avatar),
			profile_url = COALESCE(?, profile_url),
			persona_state = COALESCE(?, persona_state),
			visibility = COALESCE(?, visibility),
			current_game = COALESCE(?, current_game),
			country = COALESCE(?, country),
			game_id = COALESCE(?, game_id),
			updated_at = ?
		WHERE steam_id = ?`,
		nullString(p.Username), nullString(p.AvatarURL), nullString(p.ProfileURL),
		nullInt(p.PersonaState), nullInt(p.Visibility),
		nullString(p.CurrentGame), nullString(p.Country), nullString(p.GameID),
		now(), steamID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to patch identity: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.GetBySteamID(ctx, steamID)
}

// Delete removes the identity and returns the affected row count.
func (r *SQLIdentityRepository) Delete(ctx context.Context, steamID string) (int64, error) {
	res, err := r.db.exec(ctx, `DELETE FROM users WHERE steam_id = ?`, steamID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete identity: %w", err)
	}
	return res.RowsAffected()
}

// List returns one page of identities ordered by username then steam id.
func (r *SQLIdentityRepository) List(ctx context.Context, f model.IdentityFilter) ([]model.IdentitySummary, error) {
	where, args := usernameFilter(f.Username)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.query(ctx, `
		SELECT steam_id, username, avatar, profile_url, current_game
		FROM users`+where+`
		ORDER BY username, steam_id
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer rows.Close()

	out := make([]model.IdentitySummary, 0, f.Limit)
	for rows.Next() {
		var (
			s           model.IdentitySummary
			currentGame sql.NullString
		)
		if err := rows.Scan(&s.SteamID, &s.Username, &s.AvatarURL, &s.ProfileURL, &currentGame); err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		s.CurrentGame = stringPtr(currentGame)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count returns the number of identities matching the username filter.
func (r *SQLIdentityRepository) Count(ctx context.Context, username string) (int64, error) {
	where, args := usernameFilter(username)

	var n int64
	if err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count identities: %w", err)
	}
	return n, nil
}

func usernameFilter(username string) (string, []interface{}) {
	if username == "" {
		return "", nil
	}
	return ` WHERE LOWER(username) LIKE ? ESCAPE '!'`, []interface{}{likePattern(username)}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
