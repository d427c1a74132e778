package sec

import "github.com/onwaystudy/onwaystudy/internal/storage/db"

// IsOwner reports whether the authenticated user owns the record with the
// given owner ID. It is a pure identity check; an anonymous (zero) user owns
// nothing.
func IsOwner(user db.User, ownerID uint64) bool {
	return user.ID != 0 && user.ID == ownerID
}
