package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"steamsync-api/internal/model"
	"steamsync-api/internal/repository"
	"steamsync-api/internal/steam"
	"steamsync-api/pkg/uid"
)

// GameService mirrors store apps and binds them to identities.
type GameService struct {
	games    repository.GameRepository
	bindings repository.BindingRepository
	users    repository.IdentityRepository
	steam    SteamClient
	opts     options

	// one upstream fetch per app id at a time
	flight singleflight.Group
}

// NewGameService creates a game service.
func NewGameService(
	games repository.GameRepository,
	bindings repository.BindingRepository,
	users repository.IdentityRepository,
	steamClient SteamClient,
	opts ...Option,
) *GameService {
	return &GameService{
		games:    games,
		bindings: bindings,
		users:    users,
		steam:    steamClient,
		opts:     buildOptions(opts),
	}
}

// Ensure returns the stored game, fetching and inserting it on first use.
func (s *GameService) Ensure(ctx context.Context, appID string) (*model.Game, error) {
	if !steam.ValidID(appID) {
		return nil, invalid("app_id must be numeric")
	}

	g, err := s.games.GetByAppID(ctx, appID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get game: %w", err)
	}

	// Peers share the result, so one caller's cancellation must not fail the rest.
	fctx := context.WithoutCancel(ctx)
	v, err, _ := s.flight.Do(appID, func() (interface{}, error) {
		return s.create(fctx, appID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Game), nil
}

func (s *GameService) create(ctx context.Context, appID string) (*model.Game, error) {
	if g, err := s.games.GetByAppID(ctx, appID); err == nil {
		return g, nil
	}

	snap, err := s.steam.FetchGame(ctx, appID)
	if err != nil {
		return nil, mapUpstream(err)
	}

	g := &model.Game{
		ID:               uid.New(),
		AppID:            appID,
		Name:             snap.Name,
		ShortDescription: snap.ShortDescription,
		HeaderImage:      snap.HeaderImage,
		Screenshots:      snap.Screenshots,
	}
	if g.Screenshots == nil {
		g.Screenshots = []string{}
	}

	if err := s.games.InsertGame(ctx, g); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return s.games.GetByAppID(ctx, appID)
		}
		return nil, fmt.Errorf("insert game: %w", err)
	}

	s.opts.logger.InfoContext(ctx, "game mirrored", "app_id", appID, "name", g.Name)
	return g, nil
}

// Get returns a stored game without contacting Steam.
func (s *GameService) Get(ctx context.Context, appID string) (*model.Game, error) {
	g, err := s.games.GetByAppID(ctx, appID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

// Bind records that the identity plays the game. Binding an existing pair
// returns the stored binding.
func (s *GameService) Bind(ctx context.Context, steamID, appID string) (*model.Binding, error) {
	u, err := s.users.GetBySteamID(ctx, steamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	g, err := s.games.GetByAppID(ctx, appID)
	switch {
	case err == nil:
		if b, err := s.bindings.GetBinding(ctx, u.ID, g.ID); err == nil {
			return b, nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("get binding: %w", err)
		}
	case errors.Is(err, repository.ErrNotFound):
		if g, err = s.Ensure(ctx, appID); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("get game: %w", err)
	}

	b := &model.Binding{ID: uid.New(), IdentityID: u.ID, GameID: g.ID}
	if err := s.bindings.InsertBinding(ctx, b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return s.bindings.GetBinding(ctx, u.ID, g.ID)
		}
		return nil, fmt.Errorf("insert binding: %w", err)
	}
	return b, nil
}

// ListForIdentity returns the games bound to an identity.
func (s *GameService) ListForIdentity(ctx context.Context, steamID string) ([]model.Game, error) {
	u, err := s.users.GetBySteamID(ctx, steamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	games, err := s.games.ListByIdentity(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}
