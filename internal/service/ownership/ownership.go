// Package ownership holds the authorization predicate shared by every
// doctor-owned resource (meetings, visits).
package ownership

// CanModify reports whether the caller owns the resource.
func CanModify(ownerID, callerID int64) bool {
	return ownerID == callerID
}

// CanModifyNullable is CanModify for resources whose owner link may have
// been nulled out (a meeting whose organizer was deleted).
func CanModifyNullable(ownerID *int64, callerID int64) bool {
	return ownerID != nil && *ownerID == callerID
}
