// Package identity turns bearer credentials into verified subjects and
// internal user ids.
package identity

import (
	"context"

	"github.com/ablemap/ablemap/internal/domain"
)

// Provider verifies a credential against an identity authority.
//
// Implementations return domain.ErrAuthentication for credentials the
// authority rejects and domain.ErrIdentityUnavailable when the authority
// cannot answer.
type Provider interface {
	Name() string
	Verify(ctx context.Context, credential string) (domain.Subject, error)
}
