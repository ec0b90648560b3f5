package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"steamsync-api/internal/token"
	"steamsync-api/pkg/apierror"
	"steamsync-api/pkg/response"
)

// ClaimsKey is the key for storing verified token claims in request context.
const ClaimsKey contextKey = "claims"

// TokenVerifier checks a bearer token against an expected class.
type TokenVerifier interface {
	Verify(tokenString string, expected token.Class) (*token.Claims, error)
}

var _ TokenVerifier = (*token.Codec)(nil)

// NewAuthMiddleware requires a valid access token in the Authorization header.
// Refresh tokens are rejected here; they are only accepted by /login.
func NewAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				response.Error(w, apierror.Unauthorized("Authorization: Bearer <token> required"))
				return
			}

			claims, err := verifier.Verify(raw, token.ClassAccess)
			if err != nil {
				msg := "Invalid or expired token"
				if errors.Is(err, token.ErrWrongTokenClass) {
					msg = "Access token required"
				}
				response.Error(w, apierror.Unauthorized(msg))
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// It must run after the auth middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			response.Error(w, apierror.Forbidden("Admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext returns the verified claims, or nil on public routes.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	if c, ok := ctx.Value(ClaimsKey).(*token.Claims); ok {
		return c
	}
	return nil
}

// IsAdmin reports whether the caller is authenticated as an admin.
func IsAdmin(ctx context.Context) bool {
	c := ClaimsFromContext(ctx)
	return c != nil && c.Role == token.RoleAdmin
}

// IsOwnerOrAdmin reports whether the caller is the identity itself or an admin.
func IsOwnerOrAdmin(ctx context.Context, steamID string) bool {
	c := ClaimsFromContext(ctx)
	if c == nil {
		return false
	}
	if c.Role == token.RoleAdmin {
		return true
	}
	return c.Role == token.RoleUser && c.Subject == steamID
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, raw, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
