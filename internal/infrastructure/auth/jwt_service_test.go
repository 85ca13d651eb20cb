package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "storefront-gateway", time.Hour)

	token, err := svc.GenerateSessionToken("sess-1", 42, domain.RoleStaff)
	require.NoError(t, err)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, domain.RoleStaff, claims.Role)
	assert.Equal(t, time.Hour, svc.TTL())
	assert.InDelta(t, time.Hour.Seconds(), float64(claims.ExpiresAt-claims.IssuedAt), 1)
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	svc := NewJWTService("test-secret", "storefront-gateway", time.Hour)

	a, err := svc.GenerateSessionToken("sess-1", 1, domain.RoleCustomer)
	require.NoError(t, err)
	b, err := svc.GenerateSessionToken("sess-1", 1, domain.RoleCustomer)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTService_Rejections(t *testing.T) {
	svc := NewJWTService("test-secret", "storefront-gateway", time.Hour)

	sign := func(secret string, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	now := time.Now()
	valid := func() jwt.MapClaims {
		return jwt.MapClaims{
			"session_id": "s", "user_id": 1, "role": "admin",
			"iss": "storefront-gateway", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
		}
	}

	expired := valid()
	expired["exp"] = now.Add(-time.Minute).Unix()
	noSession := valid()
	delete(noSession, "session_id")
	otherIssuer := valid()
	otherIssuer["iss"] = "someone-else"

	tests := []struct {
		name     string
		token    string
		expected error
	}{
		{"garbage", "not-a-jwt", domain.ErrTokenInvalid},
		{"wrong secret", sign("other", valid()), domain.ErrTokenInvalid},
		{"expired", sign("test-secret", expired), domain.ErrTokenExpired},
		{"missing session", sign("test-secret", noSession), domain.ErrTokenMalformed},
		{"wrong issuer", sign("test-secret", otherIssuer), domain.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateSessionToken(tt.token)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
