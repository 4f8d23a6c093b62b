package service

import "github.com/google/uuid"

// Decision is the outcome of an authorization check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Allowed reports whether the decision permits the operation.
func (d Decision) Allowed() bool {
	return d == Allow
}

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}

	return "deny"
}

// OwnershipAuthorizer decides whether a requester may mutate a resource.
// It never returns an error; callers map Deny onto their own error.
type OwnershipAuthorizer interface {
	Authorize(ownerID, requesterID uuid.UUID) Decision
}

type ownerOnlyAuthorizer struct{}

// NewOwnershipAuthorizer returns the authorizer that allows only the owner.
func NewOwnershipAuthorizer() OwnershipAuthorizer {
	return ownerOnlyAuthorizer{}
}

// Authorize allows when the requester is the owner. The nil UUID never owns anything.
func (ownerOnlyAuthorizer) Authorize(ownerID, requesterID uuid.UUID) Decision {
	if ownerID == uuid.Nil || requesterID == uuid.Nil {
		return Deny
	}
	if ownerID != requesterID {
		return Deny
	}

	return Allow
}
