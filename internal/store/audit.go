package store

import (
	"context"

	"counseld/internal/models"
)

// AppendAudit records an administrative event. Callers treat failures as
// best-effort; audit writes never abort the operation they describe.
func (s *Store) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
