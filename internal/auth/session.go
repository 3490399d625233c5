// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// privateKey and publicKey are used for signing and verifying JWT tokens.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// tokenExpire is how long a session token lives; zero means it never expires.
	tokenExpire time.Duration
)

// Init generates a fresh ed25519 key pair at runtime and sets the token lifetime.
func Init(expire time.Duration) error {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	tokenExpire = expire
	return nil
}

// CreateJWT creates a signed JWT token with "sub" = accountID. Without a
// configured lifetime the token carries no exp claim.
func CreateJWT(accountID string) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("empty account id")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
	}
	if tokenExpire > 0 {
		claims["exp"] = now.Add(tokenExpire).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a JWT string, returns the "sub" field if valid, else an error.
func AuthenticateJWT(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}

	sub, err := t.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("missing sub in jwt")
	}
	return sub, nil
}
