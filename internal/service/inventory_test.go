package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"steamsync-api/internal/steam"
)

func inventorySnapshot() *steam.InventorySnapshot {
	return &steam.InventorySnapshot{
		SteamID:    "7",
		AppID:      "440",
		ContextID:  2,
		TotalCount: 3,
		Items: []steam.InventoryItem{
			{
				AppID: "440", ClassID: "101", Name: "Mann Co. Key", NameColor: "7D6D00", Type: "Tool",
				Fragments: []steam.DescriptionFragment{
					{Type: "html", Name: "attribute", Value: "Used to open crates"},
					{Type: "html", Name: "description", Value: "A key."},
				},
			},
			{AppID: "440", ClassID: "102", Name: "Refined Metal", Type: "Craft Item"},
			{AppID: "440", ClassID: "101", Name: "Mann Co. Key", Type: "Tool"},
		},
		Rejected: []steam.RejectedItem{{Index: 3, Err: errors.New("classid: not an id")}},
	}
}

func TestInventoryService_Sync(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.steam.EXPECT().FetchProfile(gomock.Any(), "7").Return(profile("7", "Sam", nil), nil)
	_, err := f.identitySvc.Create(ctx, "7")
	require.NoError(t, err)

	inv, err := f.inventorySvc.CreateContainer(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", inv.SteamID)

	f.steam.EXPECT().FetchInventory(gomock.Any(), "7", "440").Return(inventorySnapshot(), nil).Times(2)

	inserted, err := f.inventorySvc.Sync(ctx, "7", "440")
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	assert.Equal(t, "101", inserted[0].ClassID)
	assert.Equal(t, "A key.", inserted[0].Description)
	assert.Equal(t, "", inserted[1].Description)

	again, err := f.inventorySvc.Sync(ctx, "7", "440")
	require.NoError(t, err)
	assert.Empty(t, again)

	items, err := f.inventorySvc.ListItems(ctx, "7")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestInventoryService_ContainerRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.inventorySvc.CreateContainer(ctx, "7")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.inventorySvc.ListItems(ctx, "7")
	assert.ErrorIs(t, err, ErrNotFound)

	f.steam.EXPECT().FetchProfile(gomock.Any(), "7").Return(profile("7", "Sam", nil), nil)
	_, err = f.identitySvc.Create(ctx, "7")
	require.NoError(t, err)

	_, err = f.inventorySvc.Sync(ctx, "7", "440")
	assert.ErrorIs(t, err, ErrContainerMissing)
	_, err = f.inventorySvc.ListItems(ctx, "7")
	assert.ErrorIs(t, err, ErrContainerMissing)

	_, err = f.inventorySvc.CreateContainer(ctx, "7")
	require.NoError(t, err)
	_, err = f.inventorySvc.CreateContainer(ctx, "7")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = f.inventorySvc.Sync(ctx, "7", "tf2")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInventoryService_SyncUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.steam.EXPECT().FetchProfile(gomock.Any(), "7").Return(profile("7", "Sam", nil), nil)
	_, err := f.identitySvc.Create(ctx, "7")
	require.NoError(t, err)
	_, err = f.inventorySvc.CreateContainer(ctx, "7")
	require.NoError(t, err)

	f.steam.EXPECT().FetchInventory(gomock.Any(), "7", "730").Return(nil, steam.ErrInventoryUnavailable)

	_, err = f.inventorySvc.Sync(ctx, "7", "730")
	assert.ErrorIs(t, err, ErrInventoryUnavailable)
}
