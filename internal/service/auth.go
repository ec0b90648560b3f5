package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"steamsync-api/internal/model"
	"steamsync-api/internal/repository"
	"steamsync-api/internal/token"
	"steamsync-api/pkg/password"
	"steamsync-api/pkg/uid"
)

const minPasswordLength = 8

// LoginRequest is the body of POST /login. Exactly one credential kind is used,
// checked in this order: refresh token, steam id, username and password.
type LoginRequest struct {
	SteamID      string `json:"steam_id"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Refresh      bool   `json:"refresh"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult carries the issued tokens and the authenticated principal.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Subject      string
	Role         token.Role
	Identity     *model.Identity
	Admin        *model.Admin
}

// PasswordHasher hashes and verifies admin passwords.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(pw, encoded string) (bool, error)
}

var _ PasswordHasher = (*password.Hasher)(nil)

// AuthService issues tokens for identities and admins.
type AuthService struct {
	users  repository.IdentityRepository
	admins repository.AdminRepository
	codec  *token.Codec
	hasher PasswordHasher
	opts   options

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates an auth service.
func NewAuthService(
	users repository.IdentityRepository,
	admins repository.AdminRepository,
	codec *token.Codec,
	hasher PasswordHasher,
	opts ...Option,
) *AuthService {
	return &AuthService{
		users:  users,
		admins: admins,
		codec:  codec,
		hasher: hasher,
		opts:   buildOptions(opts),
	}
}

// Login authenticates a request and issues tokens.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	switch {
	case req.RefreshToken != "":
		return s.exchange(req.RefreshToken)
	case req.SteamID != "":
		return s.loginIdentity(ctx, req.SteamID, req.Refresh)
	case req.Username != "" || req.Password != "":
		return s.loginAdmin(ctx, req.Username, req.Password, req.Refresh)
	default:
		return nil, invalid("steam_id, username and password, or refresh_token is required")
	}
}

// exchange trades a refresh token for a new access token. The refresh token is never renewed.
func (s *AuthService) exchange(refreshToken string) (*LoginResult, error) {
	claims, err := s.codec.Verify(refreshToken, token.ClassRefresh)
	if err != nil {
		return nil, err
	}

	role := claims.Role
	if role == "" {
		role = token.RoleUser
	}
	access, err := s.issue(claims.Subject, role, token.ClassAccess)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, Subject: claims.Subject, Role: role}, nil
}

func (s *AuthService) loginIdentity(ctx context.Context, steamID string, wantRefresh bool) (*LoginResult, error) {
	u, err := s.users.GetBySteamID(ctx, steamID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	res, err := s.pair(u.SteamID, token.RoleUser, wantRefresh)
	if err != nil {
		return nil, err
	}
	res.Identity = u
	return res, nil
}

func (s *AuthService) loginAdmin(ctx context.Context, username, pw string, wantRefresh bool) (*LoginResult, error) {
	a, err := s.admins.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		// unknown usernames still pay one Verify
		_, _ = s.hasher.Verify(pw, s.unknownAdminHash())
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}

	ok, err := s.hasher.Verify(pw, a.PasswordHash)
	if err != nil {
		s.opts.logger.ErrorContext(ctx, "stored admin hash is unreadable", "username", username, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	res, err := s.pair(a.Username, token.RoleAdmin, wantRefresh)
	if err != nil {
		return nil, err
	}
	res.Admin = a
	return res, nil
}

func (s *AuthService) unknownAdminHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("steamsync-unknown-admin")
		if err != nil {
			s.opts.logger.Error("failed to hash placeholder admin password", "error", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *AuthService) pair(subject string, role token.Role, wantRefresh bool) (*LoginResult, error) {
	res := &LoginResult{Subject: subject, Role: role}

	var err error
	if res.AccessToken, err = s.issue(subject, role, token.ClassAccess); err != nil {
		return nil, err
	}
	if wantRefresh {
		if res.RefreshToken, err = s.issue(subject, role, token.ClassRefresh); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *AuthService) issue(subject string, role token.Role, class token.Class) (string, error) {
	tok, err := s.codec.Issue(subject, role, class)
	if err != nil {
		return "", fmt.Errorf("issue %s token: %w", class, err)
	}
	s.opts.metrics.IncTokenIssued(string(class))
	return tok, nil
}

// CreateAdmin provisions an operator account.
func (s *AuthService) CreateAdmin(ctx context.Context, username, pw string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username is required")
	}
	if len(pw) < minPasswordLength {
		return nil, invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &model.Admin{ID: uid.New(), Username: username, PasswordHash: hash}
	if err := s.admins.Insert(ctx, a); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert admin: %w", err)
	}

	s.opts.logger.InfoContext(ctx, "admin created", "username", username)
	return a, nil
}

// EnsureBootstrapAdmin creates the configured admin unless it already exists.
// Empty credentials disable the bootstrap.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, username, pw string) error {
	if username == "" || pw == "" {
		return nil
	}

	_, err := s.admins.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("get admin: %w", err)
	}

	if _, err := s.CreateAdmin(ctx, username, pw); err != nil && !errors.Is(err, ErrAlreadyExists) {
		return err
	}
	return nil
}
