package authz

import (
	"slices"

	"github.com/google/uuid"

	"github.com/dkravets/shopcore/internal/apperrors"
)

// Check is a single required capability: an action on a subject type, or on a
// concrete instance when Instance is set. Routes declare their checks as
// plain values and hand them to Authorize.
type Check struct {
	Action  Action
	Subject SubjectType

	// Instance, when set, switches the check to instance-level condition
	// matching. The caller must have fetched the object already: this layer
	// performs no data lookups.
	Instance Subject
}

// Authorize evaluates every check against the ability derived from the user's
// role and id. All checks must pass. Denial is always the same generic
// apperrors.ErrForbidden, regardless of which check failed.
func Authorize(userID uuid.UUID, role Role, checks ...Check) error {
	ability := NewAbility(userID, role)

	for _, c := range checks {
		allowed := false
		if c.Instance != nil {
			allowed = ability.CanSubject(c.Action, c.Instance)
		} else {
			allowed = ability.Can(c.Action, c.Subject)
		}
		if !allowed {
			return apperrors.ErrForbidden
		}
	}

	return nil
}

// RoleAllowed is the coarse role check used by the role middleware.
// ADMIN passes any required set; everyone else must be listed literally.
// It is intentionally independent from Authorize and the two may be used
// separately or together.
func RoleAllowed(role Role, required ...Role) bool {
	if role == RoleAdmin {
		return true
	}
	return slices.Contains(required, role)
}
