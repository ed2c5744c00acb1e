// Package shared holds types common to every application service.
package shared

import (
	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/identity"
	"github.com/rentwise/backend/internal/domain/shared"
)

// Actor is the authenticated caller of a use case, taken from the access token
type Actor struct {
	AgencyID uuid.UUID
	UserID   uuid.UUID
	Role     identity.Role
}

// Is reports whether the actor plays role
func (a Actor) Is(role identity.Role) bool {
	return a.Role == role
}

// Require fails with FORBIDDEN unless the actor plays one of roles
func (a Actor) Require(roles ...identity.Role) error {
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return shared.NewDomainError("FORBIDDEN", "This operation is not allowed for role "+string(a.Role))
}

// ErrForbidden is returned when an actor touches a resource it is not a party to
var ErrForbidden = shared.NewDomainError("FORBIDDEN", "You do not have access to this resource")
