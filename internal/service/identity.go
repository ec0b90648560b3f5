package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"steamsync-api/internal/model"
	"steamsync-api/internal/repository"
	"steamsync-api/internal/steam"
	"steamsync-api/pkg/pagination"
	"steamsync-api/pkg/uid"
)

// IdentityService mirrors Steam profiles into local identities.
type IdentityService struct {
	users repository.IdentityRepository
	games *GameService
	steam SteamClient
	opts  options

	// tracks best-effort enrichment goroutines
	wg sync.WaitGroup
}

// NewIdentityService creates an identity service. games may be nil to
// disable game enrichment.
func NewIdentityService(users repository.IdentityRepository, games *GameService, steamClient SteamClient, opts ...Option) *IdentityService {
	return &IdentityService{
		users: users,
		games: games,
		steam: steamClient,
		opts:  buildOptions(opts),
	}
}

// Create registers a new identity from its Steam profile.
// The existence check runs before any upstream call.
func (s *IdentityService) Create(ctx context.Context, steamID string) (*model.Identity, error) {
	if !steam.ValidID(steamID) {
		return nil, invalid("steam_id must be numeric")
	}

	exists, err := s.users.Exists(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("check identity: %w", err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	snap, err := s.steam.FetchProfile(ctx, steamID)
	if err != nil {
		return nil, mapUpstream(err)
	}

	u := identityFromSnapshot(steamID, snap)
	u.ID = uid.New()

	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	s.opts.metrics.IncIdentityCreated()
	s.opts.logger.InfoContext(ctx, "identity created", "steam_id", steamID)

	s.enrich(ctx, steamID, u.GameID)
	return u, nil
}

// Get returns the stored identity.
func (s *IdentityService) Get(ctx context.Context, steamID string) (*model.Identity, error) {
	exists, err := s.users.Exists(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("check identity: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	u, err := s.users.GetBySteamID(ctx, steamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	return u, nil
}

// Refresh re-fetches the profile and overwrites every mirrored field.
// Upstream failures leave the stored record untouched.
func (s *IdentityService) Refresh(ctx context.Context, steamID string) (*model.Identity, error) {
	current, err := s.Get(ctx, steamID)
	if err != nil {
		return nil, err
	}

	snap, err := s.steam.FetchProfile(ctx, steamID)
	if err != nil {
		return nil, mapUpstream(err)
	}

	u := identityFromSnapshot(steamID, snap)
	u.ID = current.ID
	u.CreatedAt = current.CreatedAt

	if err := s.users.Overwrite(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("overwrite identity: %w", err)
	}

	s.opts.metrics.IncIdentityRefreshed()
	s.enrich(ctx, steamID, u.GameID)
	return u, nil
}

// Update applies a user-supplied partial update. Absent fields keep their values.
func (s *IdentityService) Update(ctx context.Context, steamID string, patch model.IdentityPatch) (*model.Identity, error) {
	if patch.IsEmpty() {
		return nil, invalid("no fields to update")
	}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		return nil, invalid("username must not be empty")
	}

	u, err := s.users.Patch(ctx, steamID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patch identity: %w", err)
	}
	return u, nil
}

// Delete removes the identity and everything it owns.
func (s *IdentityService) Delete(ctx context.Context, steamID string) error {
	n, err := s.users.Delete(ctx, steamID)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.opts.logger.InfoContext(ctx, "identity deleted", "steam_id", steamID)
	return nil
}

// List returns one page of identities and the total matching count.
func (s *IdentityService) List(ctx context.Context, plan pagination.Plan, username string) ([]model.IdentitySummary, int64, error) {
	username = strings.TrimSpace(username)

	total, err := s.users.Count(ctx, username)
	if err != nil {
		return nil, 0, fmt.Errorf("count identities: %w", err)
	}

	items, err := s.users.List(ctx, model.IdentityFilter{
		Username: username,
		Limit:    plan.Limit,
		Offset:   plan.Offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list identities: %w", err)
	}
	return items, total, nil
}

// Drain waits for in-flight enrichment tasks or for ctx to end.
func (s *IdentityService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enrich ensures the current game is mirrored. It runs detached from the
// request with its own timeout and only ever logs its failures.
func (s *IdentityService) enrich(ctx context.Context, steamID string, gameID *string) {
	if s.games == nil || gameID == nil || *gameID == "" {
		return
	}
	appID := *gameID

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.enrichTimeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		if _, err := s.games.Ensure(bg, appID); err != nil {
			s.opts.metrics.IncEnrichmentFailure()
			s.opts.logger.WarnContext(bg, "game enrichment failed",
				"steam_id", steamID, "app_id", appID, "error", err)
		}
	}()
}

func identityFromSnapshot(steamID string, snap *steam.ProfileSnapshot) *model.Identity {
	return &model.Identity{
		SteamID:        steamID,
		Username:       snap.Username,
		AvatarURL:      snap.AvatarURL,
		ProfileURL:     snap.ProfileURL,
		Visibility:     snap.Visibility,
		PersonaState:   snap.PersonaState,
		Country:        snap.Country,
		GameID:         snap.GameID,
		CurrentGame:    snap.GameName,
		SteamCreatedAt: snap.CreatedAt,
	}
}
