package repository

import (
	"context"

	"steamsync-api/internal/model"
)

// IdentityRepository defines identity data access methods.
type IdentityRepository interface {
	Exists(ctx context.Context, steamID string) (bool, error)
	// GetBySteamID returns ErrNotFound when absent.
	GetBySteamID(ctx context.Context, steamID string) (*model.Identity, error)
	// Insert returns ErrConflict when steam_id is taken.
	Insert(ctx context.Context, u *model.Identity) error
	// Overwrite replaces every mirrored field. Returns ErrNotFound when absent.
	Overwrite(ctx context.Context, u *model.Identity) error
	// Patch keeps stored values for nil fields. Returns ErrNotFound when absent.
	Patch(ctx context.Context, steamID string, p model.IdentityPatch) (*model.Identity, error)
	Delete(ctx context.Context, steamID string) (int64, error)
	List(ctx context.Context, f model.IdentityFilter) ([]model.IdentitySummary, error)
	Count(ctx context.Context, username string) (int64, error)
}

// GameRepository defines game data access methods.
type GameRepository interface {
	// GetByAppID returns ErrNotFound when absent.
	GetByAppID(ctx context.Context, appID string) (*model.Game, error)
	// InsertGame returns ErrConflict when app_id is taken.
	InsertGame(ctx context.Context, g *model.Game) error
	ListByIdentity(ctx context.Context, identityID string) ([]model.Game, error)
}

// BindingRepository defines identity-game binding data access methods.
type BindingRepository interface {
	// GetBinding returns ErrNotFound when the pair is not bound.
	GetBinding(ctx context.Context, identityID, gameID string) (*model.Binding, error)
	// InsertBinding returns ErrConflict when the pair is already bound.
	InsertBinding(ctx context.Context, b *model.Binding) error
}

// InventoryRepository defines inventory data access methods.
type InventoryRepository interface {
	// GetContainerBySteamID returns ErrNotFound when there is no container.
	GetContainerBySteamID(ctx context.Context, steamID string) (*model.Inventory, error)
	// InsertContainer returns ErrConflict when the identity already has one.
	InsertContainer(ctx context.Context, inv *model.Inventory) error
	ItemExists(ctx context.Context, inventoryID, classID string) (bool, error)
	// InsertItem returns ErrConflict when the class is already stored.
	InsertItem(ctx context.Context, item *model.InventoryItem) error
	ListItems(ctx context.Context, inventoryID string) ([]model.InventoryItem, error)
}

// AdminRepository defines admin account data access methods.
type AdminRepository interface {
	// GetByUsername returns ErrNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	// Insert returns ErrConflict when the username is taken.
	Insert(ctx context.Context, a *model.Admin) error
}

// StatsRepository exposes storage statistics for the admin dashboard.
type StatsRepository interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
	Ping(ctx context.Context) error
}

var _ StatsRepository = (*DB)(nil)
