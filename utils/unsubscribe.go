package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Unsubscribe tokens stay valid for 90 days, matching the longest gap the
// drip campaign can leave between two emails to the same user.
const unsubscribeTokenLifetime = 90 * 24 * time.Hour

type UnsubscribeClaims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateUnsubscribeToken signs a token identifying the user so every
// engagement email can carry a one-click unsubscribe link.
func GenerateUnsubscribeToken(userID uint, email, secret string) (string, error) {
	claims := UnsubscribeClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(unsubscribeTokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseUnsubscribeToken validates a token from an unsubscribe link.
func ParseUnsubscribeToken(tokenString, secret string) (*UnsubscribeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UnsubscribeClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UnsubscribeClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid unsubscribe token")
	}
	return claims, nil
}
