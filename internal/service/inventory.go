package service

import (
	"context"
	"errors"
	"fmt"

	"steamsync-api/internal/model"
	"steamsync-api/internal/repository"
	"steamsync-api/internal/steam"
	"steamsync-api/pkg/uid"
)

// InventoryService provisions inventory containers and ingests items into them.
type InventoryService struct {
	users       repository.IdentityRepository
	inventories repository.InventoryRepository
	steam       SteamClient
	opts        options
}

// NewInventoryService creates an inventory service.
func NewInventoryService(
	users repository.IdentityRepository,
	inventories repository.InventoryRepository,
	steamClient SteamClient,
	opts ...Option,
) *InventoryService {
	return &InventoryService{
		users:       users,
		inventories: inventories,
		steam:       steamClient,
		opts:        buildOptions(opts),
	}
}

// CreateContainer provisions the inventory container of an identity.
func (s *InventoryService) CreateContainer(ctx context.Context, steamID string) (*model.Inventory, error) {
	u, err := s.users.GetBySteamID(ctx, steamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	inv := &model.Inventory{ID: uid.New(), IdentityID: u.ID, SteamID: u.SteamID}
	if err := s.inventories.InsertContainer(ctx, inv); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert inventory: %w", err)
	}
	return inv, nil
}

// Sync ingests the Steam inventory of an identity for one app and returns the
// items that were newly stored. Repeated syncs of an unchanged inventory store nothing.
func (s *InventoryService) Sync(ctx context.Context, steamID, appID string) ([]model.InventoryItem, error) {
	if !steam.ValidID(appID) {
		return nil, invalid("app_id must be numeric")
	}

	container, err := s.inventories.GetContainerBySteamID(ctx, steamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrContainerMissing
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}

	snap, err := s.steam.FetchInventory(ctx, steamID, appID)
	if err != nil {
		return nil, mapUpstream(err)
	}

	for _, rej := range snap.Rejected {
		s.opts.logger.WarnContext(ctx, "skipping malformed inventory description",
			"steam_id", steamID, "app_id", appID, "index", rej.Index, "error", rej.Err)
	}
	s.opts.metrics.AddItemsRejected(len(snap.Rejected))

	inserted := []model.InventoryItem{}
	seen := make(map[string]struct{}, len(snap.Items))

	for _, it := range snap.Items {
		if _, dup := seen[it.ClassID]; dup {
			continue
		}
		seen[it.ClassID] = struct{}{}

		exists, err := s.inventories.ItemExists(ctx, container.ID, it.ClassID)
		if err != nil {
			return nil, fmt.Errorf("check item: %w", err)
		}
		if exists {
			continue
		}

		item := model.InventoryItem{
			ID:          uid.New(),
			InventoryID: container.ID,
			AppID:       it.AppID,
			ClassID:     it.ClassID,
			IconURL:     it.IconURL,
			Name:        it.Name,
			NameColor:   it.NameColor,
			ItemType:    it.Type,
			Description: primaryDescription(it.Fragments),
		}
		if err := s.inventories.InsertItem(ctx, &item); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				continue
			}
			return nil, fmt.Errorf("insert item: %w", err)
		}
		inserted = append(inserted, item)
	}

	s.opts.metrics.AddItemsIngested(len(inserted))
	s.opts.logger.InfoContext(ctx, "inventory synced",
		"steam_id", steamID, "app_id", appID,
		"received", len(snap.Items), "inserted", len(inserted), "rejected", len(snap.Rejected))

	return inserted, nil
}

// ListItems returns the stored items of an identity.
func (s *InventoryService) ListItems(ctx context.Context, steamID string) ([]model.InventoryItem, error) {
	container, err := s.inventories.GetContainerBySteamID(ctx, steamID)
	if errors.Is(err, repository.ErrNotFound) {
		exists, err := s.users.Exists(ctx, steamID)
		if err != nil {
			return nil, fmt.Errorf("check identity: %w", err)
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrContainerMissing
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}

	items, err := s.inventories.ListItems(ctx, container.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// primaryDescription picks the html fragment named "description".
func primaryDescription(fragments []steam.DescriptionFragment) string {
	for _, f := range fragments {
		if f.Type == "html" && f.Name == "description" {
			return f.Value
		}
	}
	return ""
}
