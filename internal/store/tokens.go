package store

import (
	"context"

	"counseld/internal/models"
)

// CreateToken persists a new reservation token. Only the hash is ever stored.
func (s *Store) CreateToken(ctx context.Context, t *models.ReservationToken) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// TokenByHash fetches a token by its unique sha256 digest.
func (s *Store) TokenByHash(ctx context.Context, hash string) (*models.ReservationToken, error) {
	var t models.ReservationToken
	if err := s.db.WithContext(ctx).First(&t, "token_hash = ?", hash).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
