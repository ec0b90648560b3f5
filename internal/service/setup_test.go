package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"steamsync-api/internal/repository"
	"steamsync-api/internal/service/mocks"
	"steamsync-api/internal/steam"
)

type fixture struct {
	db          *repository.DB
	users       *repository.SQLIdentityRepository
	games       *repository.SQLGameRepository
	inventories *repository.SQLInventoryRepository
	admins      *repository.SQLAdminRepository
	steam       *mocks.MockSteamClient

	gameSvc      *GameService
	identitySvc  *IdentityService
	inventorySvc *InventoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "service.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := repository.Open(context.Background(), repository.Config{Type: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		db:          db,
		users:       repository.NewIdentityRepository(db),
		games:       repository.NewGameRepository(db),
		inventories: repository.NewInventoryRepository(db),
		admins:      repository.NewAdminRepository(db),
		steam:       mocks.NewMockSteamClient(gomock.NewController(t)),
	}
	f.gameSvc = NewGameService(f.games, f.games, f.users, f.steam)
	f.identitySvc = NewIdentityService(f.users, f.gameSvc, f.steam, WithEnrichTimeout(5*time.Second))
	f.inventorySvc = NewInventoryService(f.users, f.inventories, f.steam)
	return f
}

func profile(steamID, name string, gameID *string) *steam.ProfileSnapshot {
	p := &steam.ProfileSnapshot{
		SteamID:      steamID,
		Username:     name,
		ProfileURL:   "https://steamcommunity.com/profiles/" + steamID,
		AvatarURL:    "https://avatars.example/" + steamID + ".jpg",
		PersonaState: 1,
		Visibility:   3,
		CreatedAt:    time.Unix(1063407589, 0).UTC(),
		GameID:       gameID,
	}
	if gameID != nil {
		p.GameName = strPtr("Team Fortress 2")
	}
	return p
}

func tf2() *steam.GameSnapshot {
	return &steam.GameSnapshot{
		AppID:            "440",
		Name:             "Team Fortress 2",
		ShortDescription: "Nine distinct classes.",
		HeaderImage:      "https://cdn.example/440/header.jpg",
		Screenshots:      []string{"https://cdn.example/440/1.jpg"},
	}
}

func strPtr(s string) *string { return &s }

func drain(t *testing.T, s *IdentityService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Drain(ctx))
}
