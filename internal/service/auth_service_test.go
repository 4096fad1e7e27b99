package service

import (
	"testing"

	"github.com/CelDarley/membro-api/internal/config"
	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthService(secret string) *authService {
	return &authService{cfg: &config.Config{JWTSecret: secret, JWTExpiry: 1}}
}

func TestTokenRoundtrip(t *testing.T) {
	s := testAuthService("test-secret")

	token, err := s.generateToken(&repository.User{ID: 42, Role: "admin", Name: "Ana"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IsAdmin())
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := testAuthService("secret-a").generateToken(&repository.User{ID: 1, Role: "user"})
	require.NoError(t, err)

	_, err = testAuthService("secret-b").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	s := testAuthService("test-secret")

	_, err := s.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsIsAdmin(t *testing.T) {
	assert.True(t, Claims{Role: "admin"}.IsAdmin())
	assert.False(t, Claims{Role: "user"}.IsAdmin())
	assert.False(t, Claims{}.IsAdmin())
}
