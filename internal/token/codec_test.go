package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestCodec(t *testing.T) (*Codec, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c, err := NewCodec("test-secret", WithClock(clock.Now))
	require.NoError(t, err)
	return c, clock
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec("")
	require.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	c, _ := newTestCodec(t)

	subjects := []string{"76561197960287930", "admin", "x", "ünïcode-subject"}
	for _, subject := range subjects {
		for _, class := range []Class{ClassAccess, ClassRefresh} {
			tok, err := c.Issue(subject, RoleUser, class)
			require.NoError(t, err)

			claims, err := c.Verify(tok, class)
			require.NoError(t, err)
			assert.Equal(t, subject, claims.Subject)
			assert.Equal(t, class, claims.TokenType)
			assert.Equal(t, RoleUser, claims.Role)
			assert.NotEmpty(t, claims.ID)
		}
	}
}

func TestVerify_WrongClass(t *testing.T) {
	c, _ := newTestCodec(t)

	access, err := c.Issue("76561197960287930", RoleUser, ClassAccess)
	require.NoError(t, err)
	_, err = c.Verify(access, ClassRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenClass)

	refresh, err := c.Issue("76561197960287930", RoleUser, ClassRefresh)
	require.NoError(t, err)
	_, err = c.Verify(refresh, ClassAccess)
	assert.ErrorIs(t, err, ErrWrongTokenClass)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		class Class
		ttl   time.Duration
	}{
		{ClassAccess, 24 * time.Hour},
		{ClassRefresh, 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			c, clock := newTestCodec(t)
			issuedAt := clock.t

			tok, err := c.Issue("76561197960287930", RoleUser, tt.class)
			require.NoError(t, err)

			clock.t = issuedAt.Add(tt.ttl - time.Second)
			_, err = c.Verify(tok, tt.class)
			require.NoError(t, err)

			clock.t = issuedAt.Add(tt.ttl)
			_, err = c.Verify(tok, tt.class)
			assert.ErrorIs(t, err, ErrExpiredOrMalformed)

			clock.t = issuedAt.Add(tt.ttl + time.Hour)
			_, err = c.Verify(tok, tt.class)
			assert.ErrorIs(t, err, ErrExpiredOrMalformed)
		})
	}
}

func TestVerify_Malformed(t *testing.T) {
	c, _ := newTestCodec(t)

	tok, err := c.Issue("76561197960287930", RoleAdmin, ClassAccess)
	require.NoError(t, err)

	other, err := NewCodec("another-secret")
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"truncated":    tok[:len(tok)-4],
		"tampered":     tok[:strings.LastIndex(tok, ".")] + ".AAAA",
		"none alg":     unsignedToken(t),
		"other secret": mustIssue(t, other),
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Verify(input, ClassAccess)
			assert.ErrorIs(t, err, ErrExpiredOrMalformed)
		})
	}
}

func TestIssue_UnknownClass(t *testing.T) {
	c, _ := newTestCodec(t)
	_, err := c.Issue("76561197960287930", RoleUser, Class("session"))
	require.Error(t, err)
}

func mustIssue(t *testing.T, c *Codec) string {
	t.Helper()
	tok, err := c.Issue("76561197960287930", RoleUser, ClassAccess)
	require.NoError(t, err)
	return tok
}

func unsignedToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		TokenType: ClassAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "76561197960287930",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return s
}
