package domain

import (
	"slices"
	"time"
)

// Bookmark is the persisted mapping between one place and the set of users
// who saved it.
//
// A Bookmark is uniquely identified by its PlaceID. A record never exists
// with an empty member set: the last member leaving deletes it.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the surrogate key assigned by the store.
	ID int64

	// PlaceID is the map provider's identifier for the place.
	// Example: "8134728"
	PlaceID string

	// PlaceName is captured when the record is created and never updated.
	PlaceName string

	// ─────────────────────────────
	// Membership
	// ─────────────────────────────

	// UserIDs are internal user ids, in insertion order, without duplicates.
	UserIDs []int64

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is the first time any user bookmarked the place.
	CreatedAt time.Time

	// UpdatedAt changes on every membership mutation.
	UpdatedAt time.Time
}

// HasMember reports whether userID is in the member set.
func (b *Bookmark) HasMember(userID int64) bool {
	return slices.Contains(b.UserIDs, userID)
}

// Clone returns a deep copy so callers can't mutate store-owned slices.
func (b *Bookmark) Clone() *Bookmark {
	cp := *b
	cp.UserIDs = slices.Clone(b.UserIDs)
	return &cp
}
