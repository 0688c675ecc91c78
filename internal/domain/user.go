package domain

import "time"

const DefaultAuthProvider = "kakao"

// User is an internal account linked to exactly one external identity.
type User struct {
	ID             int64
	Nickname       string
	AuthProvider   string // "kakao" by default
	AuthProviderID string // provider-scoped id, unique
	CreatedAt      time.Time
	UpdatedAt      time.Time // touched on every login
}

// Subject is a verified identity as reported by an identity provider.
type Subject struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	Nickname string `json:"nickname,omitempty"`

	// ExpiresAt is when the credential stops being valid, zero when the
	// provider does not say.
	ExpiresAt time.Time `json:"expiresAt"`
}
