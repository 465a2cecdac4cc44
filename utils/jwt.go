package utils

import (
	"errors"
	"fmt"
	"time"

	"tableorder/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the custom JWT claims carried by staff session tokens.
type Claims struct {
	StaffID  uint        `json:"id"`
	Username string      `json:"username"`
	Role     entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for the staff member valid for ttl.
func GenerateToken(s *entity.Staff, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		StaffID:  s.ID,
		Username: s.Username,
		Role:     s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(s.ID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, exp, err
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
