package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	m := NewJWTManager("s3cret", time.Hour)

	token, err := m.GenerateToken("frontdesk", RoleReceptionist)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "frontdesk", claims.Subject)
	assert.Equal(t, RoleReceptionist, claims.Role)
}

func TestJWTManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewJWTManager("other-secret", time.Hour)
	token, err := issuer.GenerateToken("mallory", RoleOwner)
	require.NoError(t, err)

	_, err = NewJWTManager("s3cret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTManager("s3cret", -time.Minute)
	token, err = expired.GenerateToken("frontdesk", RoleReceptionist)
	require.NoError(t, err)

	_, err = expired.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Enabled(t *testing.T) {
	assert.False(t, NewJWTManager("", time.Hour).Enabled())
	assert.True(t, NewJWTManager("x", time.Hour).Enabled())
}
