package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"steamsync-api/internal/model"
)

// SQLInventoryRepository stores inventory containers and their items.
type SQLInventoryRepository struct {
	db *DB
}

var _ InventoryRepository = (*SQLInventoryRepository)(nil)

// NewInventoryRepository creates an inventory repository.
func NewInventoryRepository(db *DB) *SQLInventoryRepository {
	return &SQLInventoryRepository{db: db}
}

// GetContainerBySteamID returns ErrNotFound when the identity has no container.
func (r *SQLInventoryRepository) GetContainerBySteamID(ctx context.Context, steamID string) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.queryRow(ctx, `
		SELECT i.id, i.user_id, u.steam_id, i.created_at
		FROM inventories i
		JOIN users u ON u.id = i.user_id
		WHERE u.steam_id = ?`, steamID,
	).Scan(&inv.ID, &inv.IdentityID, &inv.SteamID, scanTime{&inv.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return &inv, nil
}

// InsertContainer stores a container. Returns ErrConflict if the identity already has one.
func (r *SQLInventoryRepository) InsertContainer(ctx context.Context, inv *model.Inventory) error {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now()
	}
	err := r.db.insert(ctx, `INSERT INTO inventories (id, user_id, created_at) VALUES (?, ?, ?)`,
		inv.ID, inv.IdentityID, inv.CreatedAt)
	if err != nil && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("failed to insert inventory: %w", err)
	}
	return err
}

// ItemExists reports whether classID is already stored in the container.
func (r *SQLInventoryRepository) ItemExists(ctx context.Context, inventoryID, classID string) (bool, error) {
	var n int
	err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM inventory_items WHERE inventory_id = ? AND class_id = ?`,
		inventoryID, classID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check item: %w", err)
	}
	return n > 0, nil
}

// InsertItem stores an item. Returns ErrConflict if the class is already stored.
func (r *SQLInventoryRepository) InsertItem(ctx context.Context, item *model.InventoryItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now()
	}
	err := r.db.insert(ctx, `
		INSERT INTO inventory_items
			(id, inventory_id, app_id, class_id, icon_url, name, name_color, item_type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.InventoryID, item.AppID, item.ClassID, item.IconURL, item.Name,
		item.NameColor, item.ItemType, item.Description, item.CreatedAt,
	)
	if err != nil && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return err
}

// ListItems returns the items of a container in insertion order.
func (r *SQLInventoryRepository) ListItems(ctx context.Context, inventoryID string) ([]model.InventoryItem, error) {
	rows, err := r.db.query(ctx, `
		SELECT id, inventory_id, app_id, class_id, icon_url, name, name_color, item_type, description, created_at
		FROM inventory_items
		WHERE inventory_id = ?
		ORDER BY created_at, class_id`, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	out := []model.InventoryItem{}
	for rows.Next() {
		var it model.InventoryItem
		if err := rows.Scan(&it.ID, &it.InventoryID, &it.AppID, &it.ClassID, &it.IconURL, &it.Name,
			&it.NameColor, &it.ItemType, &it.Description, scanTime{&it.CreatedAt}); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
