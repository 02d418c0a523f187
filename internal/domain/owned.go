package domain

import "github.com/google/uuid"

// Owned is satisfied by every user-scoped resource. Services apply the same
// ownership check before acting on any resource kind.
type Owned interface {
	OwnedBy(userID uuid.UUID) bool
}
