// Package auth covers account registration, login, and the JWT identity the
// rest of the API trusts.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"counseld/internal/apperr"
	"counseld/internal/models"
)

const bcryptCost = 10

// Store is the persistence surface the auth service needs.
type Store interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

// Service handles register and login.
type Service struct {
	store Store
	jwt   *JWT
}

// NewService wires the auth service.
func NewService(store Store, jwt *JWT) *Service {
	return &Service{store: store, jwt: jwt}
}

// TokenResult carries a freshly issued access token.
type TokenResult struct {
	AccessToken string `json:"access_token"`
}

// Register creates an account and returns an access token. Role defaults to
// COUNSELOR when empty.
func (s *Service) Register(ctx context.Context, email, password string, role models.Role) (*TokenResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.InvalidInput, "email and password are required")
	}
	if role == "" {
		role = models.RoleCounselor
	}
	if !role.Valid() {
		return nil, apperr.New(apperr.InvalidInput, "role must be COUNSELOR or ADMIN")
	}

	_, err := s.store.UserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.New(apperr.Conflict, "email is already in use")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwt.Issue(user)
	if err != nil {
		return nil, err
	}
	return &TokenResult{AccessToken: token}, nil
}

// Login verifies credentials and returns an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	user, err := s.store.UserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.Unauthorized, "invalid email or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid email or password")
	}

	token, err := s.jwt.Issue(user)
	if err != nil {
		return nil, err
	}
	return &TokenResult{AccessToken: token}, nil
}

// HashPassword is exposed for the bootstrap admin seed.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hash), err
}
