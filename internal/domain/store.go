package domain

import "context"

// BookmarkStore owns place → members records.
//
// AddMember and RemoveMember are atomic per place: concurrent mutations on
// the same place never lose updates.
type BookmarkStore interface {
	// AddMember creates the record with [userID] when absent, appends userID
	// otherwise. Returns ErrDuplicateBookmark when userID is already a member.
	AddMember(ctx context.Context, placeID, placeName string, userID int64) (*Bookmark, error)

	// RemoveMember is a no-op when the record or membership doesn't exist.
	// The record is deleted when its last member leaves.
	RemoveMember(ctx context.Context, placeID string, userID int64) error

	// ListForUser returns records containing userID ordered by UpdatedAt, then ID.
	ListForUser(ctx context.Context, userID int64) ([]*Bookmark, error)

	IsMember(ctx context.Context, placeID string, userID int64) (bool, error)

	// DeleteOrphans removes records with an empty member set and returns how many.
	DeleteOrphans(ctx context.Context) (int, error)
}

type UserStore interface {
	// GetByAuth returns ErrUserNotFound when nobody is linked to the identity.
	GetByAuth(ctx context.Context, provider, providerID string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)

	// Upsert creates the user or touches UpdatedAt (and nickname when non-empty).
	// created is true when a new row was inserted.
	Upsert(ctx context.Context, provider, providerID, nickname string) (u *User, created bool, err error)
}

type FeedbackStore interface {
	Create(ctx context.Context, f *Feedback) (*Feedback, error)
}

type AccessibilityStore interface {
	// UpsertMany inserts or replaces reports keyed by PlaceID.
	UpsertMany(ctx context.Context, reports []*AccessibilityReport) error

	// Get returns ErrReportNotFound when no report exists for placeID.
	Get(ctx context.Context, placeID string) (*AccessibilityReport, error)
	Count(ctx context.Context) (int, error)
}
