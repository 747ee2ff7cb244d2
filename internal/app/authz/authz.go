// Package authz holds the single ownership check used by every mutating
// operation. Ownership is assigned at creation time and never transfers,
// so the check needs no locking against the mutation it guards.
package authz

import (
	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
)

// Authorize allows the mutation iff the acting user owns the resource.
func Authorize(actingUserID, resourceOwnerID int64) error {
	if actingUserID != resourceOwnerID {
		return customErrors.ErrForbidden
	}
	return nil
}
