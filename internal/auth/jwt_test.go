package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tawseel/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	token, err := NewIssuer("secret", "tawseel-identity", time.Hour).
		Issue(Identity{UserID: "driver-1", Role: domain.RoleDriver})
	require.NoError(t, err)

	id, err := NewVerifier("secret", "tawseel-identity").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "driver-1", Role: domain.RoleDriver}, id)
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	valid := func(secret, issuer string, ttl time.Duration) string {
		token, err := NewIssuer(secret, issuer, ttl).Issue(Identity{UserID: "p1", Role: domain.RolePassenger})
		require.NoError(t, err)
		return token
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "p1",
		Role:   domain.RolePassenger,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tawseel-identity",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "p1",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tawseel-identity",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	testCases := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not-a-token", wantErr: ErrInvalidToken},
		{name: "wrong secret", token: valid("other", "tawseel-identity", time.Hour), wantErr: ErrInvalidToken},
		{name: "wrong issuer", token: valid("secret", "someone-else", time.Hour), wantErr: ErrInvalidToken},
		{name: "expired", token: valid("secret", "tawseel-identity", -time.Minute), wantErr: ErrInvalidToken},
		{name: "alg none", token: noneToken, wantErr: ErrInvalidToken},
		{name: "unknown role", token: badRole, wantErr: ErrInvalidRole},
	}

	verifier := NewVerifier("secret", "tawseel-identity")
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := verifier.Verify(tc.token)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestIssue_UnknownRole(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer("secret", "", time.Hour).Issue(Identity{UserID: "x", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}
