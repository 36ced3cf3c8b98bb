// Package access holds the ownership predicate shared by slot, token, and
// session operations.
package access

import (
	"github.com/google/uuid"

	"counseld/internal/models"
)

// Actor is the authenticated identity attached to a request by the JWT
// middleware. The services trust it implicitly.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

// CanAccess reports whether actor may operate on a resource owned by ownerID.
// Admins may touch anything; counselors only their own resources.
func CanAccess(actor Actor, ownerID uuid.UUID) bool {
	return actor.Role == models.RoleAdmin || actor.UserID == ownerID
}
