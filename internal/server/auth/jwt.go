// Package auth signs the profile-selection cookie and guards mutations with
// the shared secret.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the selected profile. It is not a login: anyone may select
// any profile.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// GenerateToken signs a selection token for userID. A zero
// validityDuration produces a token that never expires, like the browser's
// persisted store.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	rc := jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)}
	if validityDuration != 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(validityDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: rc, UserID: userID})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", err
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
