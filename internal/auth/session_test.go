package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	require.NoError(t, Init(0))

	token, err := CreateJWT("alice.testnet")
	require.NoError(t, err)

	sub, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "alice.testnet", sub)

	_, err = CreateJWT("")
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	require.NoError(t, Init(time.Hour))
	claims := jwt.MapClaims{"sub": "bob", "exp": time.Now().Add(-time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(privateKey)
	require.NoError(t, err)

	_, err = AuthenticateJWT(token)
	assert.Error(t, err)
}

func TestTokenFromOtherKeyRejected(t *testing.T) {
	require.NoError(t, Init(0))
	token, err := CreateJWT("carol")
	require.NoError(t, err)

	require.NoError(t, Init(0))
	_, err = AuthenticateJWT(token)
	assert.Error(t, err)
}
