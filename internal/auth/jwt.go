package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"counseld/internal/access"
	"counseld/internal/models"
)

// Claims is the bearer identity carried by access tokens.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 access tokens.
type JWT struct {
	key []byte
	ttl time.Duration
}

// NewJWT builds a signer with the given secret and token lifetime.
func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{key: []byte(secret), ttl: ttl}
}

// Issue signs an access token for the user.
func (j *JWT) Issue(u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.key)
}

// Verify parses a token string and returns the actor it identifies.
func (j *JWT) Verify(tokenStr string) (access.Actor, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.key, nil
	})
	if err != nil {
		return access.Actor{}, err
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return access.Actor{}, errors.New("invalid token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return access.Actor{}, errors.New("invalid token subject")
	}
	return access.Actor{UserID: userID, Role: claims.Role}, nil
}
