// Package auth validates the access tokens the service receives. Tokens are
// issued by an external identity provider; the service only consumes the
// subject and the admin flag.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	IsAdmin bool
}

type tokenClaims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"isAdmin"`
}

func ValidateToken(tokenString string, secret string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: %w", err)
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("ValidateToken: invalid token claims")
	}
	if tc.Subject == "" {
		return nil, fmt.Errorf("ValidateToken: missing subject")
	}

	return &Principal{
		Subject: tc.Subject,
		IsAdmin: tc.IsAdmin,
	}, nil
}
