package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateAccessToken(42, "doctor.house")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "doctor.house", claims.Username)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpireAt, time.Minute)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-one", time.Hour).GenerateAccessToken(1, "a")
	require.NoError(t, err)

	_, err = NewJWTService("secret-two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Hour)

	token, err := svc.GenerateAccessToken(1, "a")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIDsAreUnique(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	t1, err := svc.GenerateAccessToken(1, "a")
	require.NoError(t, err)
	t2, err := svc.GenerateAccessToken(1, "a")
	require.NoError(t, err)

	c1, err := svc.ValidateToken(t1)
	require.NoError(t, err)
	c2, err := svc.ValidateToken(t2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.TokenID, c2.TokenID)
}
