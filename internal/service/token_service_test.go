package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/model"
)

func newTestTokenService(t *testing.T, secret string) *TokenService {
	t.Helper()

	tokens, err := NewTokenService(secret, "HS256", time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestTokenService_IssueVerifyRoundtrip(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, "secret")
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens.SetClock(func() time.Time { return issuedAt })

	token, err := tokens.Issue(model.User{ID: 42, Username: "alice", Role: model.RoleAdmin})
	require.NoError(t, err)

	tokens.SetClock(func() time.Time { return issuedAt.Add(59 * time.Minute) })
	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, model.RoleAdmin, claims.Role)
	require.True(t, claims.IssuedAt.Equal(issuedAt))
	require.True(t, claims.ExpiresAt.Equal(issuedAt.Add(time.Hour)))
}

func TestTokenService_ExpiredAfterTTL(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, "secret")
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens.SetClock(func() time.Time { return issuedAt })

	token, err := tokens.Issue(model.User{ID: 1, Username: "bob", Role: model.RoleUser})
	require.NoError(t, err)

	tokens.SetClock(func() time.Time { return issuedAt.Add(time.Hour + time.Second) })
	_, err = tokens.Verify(token)
	require.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	t.Parallel()

	ours := newTestTokenService(t, "secret")
	theirs := newTestTokenService(t, "other-secret")

	token, err := theirs.Issue(model.User{ID: 1, Username: "mallory", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = ours.Verify(token)
	require.ErrorIs(t, err, model.ErrTokenSignature)
}

func TestTokenService_RejectsUnexpectedAlgorithm(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, "secret")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := forged.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	require.ErrorIs(t, err, model.ErrTokenSignature)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, "secret")

	for _, raw := range []string{"", "abc", "a.b.c", "Bearer xyz"} {
		_, err := tokens.Verify(raw)
		require.ErrorIs(t, err, model.ErrTokenMalformed, raw)
	}
}

func TestTokenService_RequiresExpiryAndSubject(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, "secret")

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tokens.Verify(noExpiry)
	require.ErrorIs(t, err, model.ErrTokenMalformed)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-number",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tokens.Verify(badSubject)
	require.ErrorIs(t, err, model.ErrTokenMalformed)
}

func TestNewTokenService_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("", "HS256", time.Hour)
	require.Error(t, err)

	_, err = NewTokenService("secret", "RS256", time.Hour)
	require.Error(t, err)

	tokens, err := NewTokenService("secret", "", 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTokenTTL, tokens.TTL())
}
