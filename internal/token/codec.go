// Package token issues and verifies the stateless access and refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Class tags what a token may be used for.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
)

// Role is the authorization level carried by a token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	AccessTTL  = 24 * time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

var (
	// ErrExpiredOrMalformed covers bad signatures, bad encodings and lapsed tokens.
	ErrExpiredOrMalformed = errors.New("token expired or malformed")
	// ErrWrongTokenClass is returned when a valid token is presented for the wrong purpose.
	ErrWrongTokenClass = errors.New("wrong token class")
)

// Claims are the JWT claims carried by every token.
type Claims struct {
	Role      Role  `json:"role"`
	TokenType Class `json:"token_type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with one process-wide secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec creates a codec. An empty secret is rejected.
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	c := &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime of a token class.
func TTL(class Class) time.Duration {
	if class == ClassRefresh {
		return RefreshTTL
	}
	return AccessTTL
}

// Issue mints a signed token for subject.
func (c *Codec) Issue(subject string, role Role, class Class) (string, error) {
	if class != ClassAccess && class != ClassRefresh {
		return "", fmt.Errorf("unknown token class %q", class)
	}

	now := c.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:      role,
		TokenType: class,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL(class))),
			ID:        uuid.NewString(),
		},
	})

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and class. A token is valid while now < exp.
func (c *Codec) Verify(tokenString string, expected Class) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: expired", ErrExpiredOrMalformed)
		}
		return nil, ErrExpiredOrMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrExpiredOrMalformed
	}

	if claims.TokenType != expected {
		return nil, ErrWrongTokenClass
	}

	return claims, nil
}
