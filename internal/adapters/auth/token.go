package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"evently/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// JWTCodec signs and verifies HS256 JWTs carrying the principal's email and
// roles. It implements both domain.TokenIssuer and domain.TokenVerifier.
type JWTCodec struct {
	secret []byte
}

// NewJWTCodec returns a codec using the given signing secret.
func NewJWTCodec(secret string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret)}
}

var (
	_ domain.TokenIssuer   = (*JWTCodec)(nil)
	_ domain.TokenVerifier = (*JWTCodec)(nil)
)

func (c *JWTCodec) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
		Roles: roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (c *JWTCodec) Verify(token string) (string, []string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", nil, fmt.Errorf("invalid token claims")
	}
	return claims.Subject, claims.Roles, nil
}
