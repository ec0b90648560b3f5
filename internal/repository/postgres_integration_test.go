//go:build integration

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"steamsync-api/internal/model"
	"steamsync-api/internal/repository"
	"steamsync-api/internal/testutil/containers"
	"steamsync-api/pkg/uid"
)

type PostgresSuite struct {
	suite.Suite

	db          *repository.DB
	users       *repository.SQLIdentityRepository
	games       *repository.SQLGameRepository
	inventories *repository.SQLInventoryRepository
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	pg := containers.NewPostgresContainer(s.T())

	db, err := repository.Open(context.Background(), repository.Config{Type: "postgres", DSN: pg.DSN}, nil)
	s.Require().NoError(err)
	s.db = db
	s.users = repository.NewIdentityRepository(db)
	s.games = repository.NewGameRepository(db)
	s.inventories = repository.NewInventoryRepository(db)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *PostgresSuite) identity(steamID string) *model.Identity {
	country := "SE"
	return &model.Identity{
		ID:             uid.New(),
		SteamID:        steamID,
		Username:       "player" + steamID,
		ProfileURL:     "https://steamcommunity.com/profiles/" + steamID,
		Visibility:     3,
		Country:        &country,
		SteamCreatedAt: time.Unix(1063407589, 0).UTC(),
	}
}

func (s *PostgresSuite) TestIdentityConflictAndPatch() {
	ctx := context.Background()
	u := s.identity("100")
	s.Require().NoError(s.users.Insert(ctx, u))

	err := s.users.Insert(ctx, s.identity("100"))
	s.ErrorIs(err, repository.ErrConflict)

	name := "renamed"
	got, err := s.users.Patch(ctx, "100", model.IdentityPatch{Username: &name})
	s.Require().NoError(err)
	s.Equal("renamed", got.Username)
	s.Require().NotNil(got.Country)
	s.Equal("SE", *got.Country)
	s.True(u.SteamCreatedAt.Equal(got.SteamCreatedAt))
}

func (s *PostgresSuite) TestConcurrentBindings() {
	ctx := context.Background()
	u := s.identity("200")
	s.Require().NoError(s.users.Insert(ctx, u))
	g := &model.Game{ID: uid.New(), AppID: "200", Screenshots: []string{}}
	s.Require().NoError(s.games.InsertGame(ctx, g))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.games.InsertBinding(ctx, &model.Binding{ID: uid.New(), IdentityID: u.ID, GameID: g.ID}); err != nil {
				s.ErrorIs(err, repository.ErrConflict)
				mu.Lock()
				conflicts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(7, conflicts)
	bound, err := s.games.ListByIdentity(ctx, u.ID)
	s.Require().NoError(err)
	s.Len(bound, 1)
}

func (s *PostgresSuite) TestInventoryCascade() {
	ctx := context.Background()
	u := s.identity("300")
	s.Require().NoError(s.users.Insert(ctx, u))

	inv := &model.Inventory{ID: uid.New(), IdentityID: u.ID, SteamID: u.SteamID}
	s.Require().NoError(s.inventories.InsertContainer(ctx, inv))
	s.Require().NoError(s.inventories.InsertItem(ctx, &model.InventoryItem{
		ID: uid.New(), InventoryID: inv.ID, AppID: "440", ClassID: "1", Name: "Key",
	}))
	err := s.inventories.InsertItem(ctx, &model.InventoryItem{
		ID: uid.New(), InventoryID: inv.ID, AppID: "440", ClassID: "1", Name: "Key",
	})
	s.ErrorIs(err, repository.ErrConflict)

	n, err := s.users.Delete(ctx, "300")
	s.Require().NoError(err)
	s.EqualValues(1, n)

	_, err = s.inventories.GetContainerBySteamID(ctx, "300")
	s.ErrorIs(err, repository.ErrNotFound)
}
