package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks SteamClient

import (
	"context"

	"steamsync-api/internal/steam"
)

// SteamClient is the upstream profile, game and inventory source.
type SteamClient interface {
	FetchProfile(ctx context.Context, steamID string) (*steam.ProfileSnapshot, error)
	FetchGame(ctx context.Context, appID string) (*steam.GameSnapshot, error)
	FetchInventory(ctx context.Context, steamID, appID string) (*steam.InventorySnapshot, error)
}

var _ SteamClient = (*steam.Client)(nil)
