package ports

import (
	"context"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

// VerifiedIdentity is the outcome of a successful credential check.
type VerifiedIdentity struct {
	Identity domain.Identity
	Role     domain.Role
	// Demo is true when the static credential table handled the pair.
	Demo bool
}

// CredentialVerifier checks one credential pair. Implementations are
// tried in a fixed order: a nil result with a nil error means "not
// handled here, try the next verifier". A non-nil error aborts the
// chain (infrastructure failure, not a bad credential).
type CredentialVerifier interface {
	Verify(ctx context.Context, handle, secret string) (*VerifiedIdentity, error)
}

// IdentityProvider is the remote account authority: credential-based
// sign-in, sign-up and sign-out.
type IdentityProvider interface {
	// Authenticate returns the account matching handle+secret, or nil
	// when the handle is unknown or the secret does not match.
	Authenticate(ctx context.Context, handle, secret string) (*domain.User, error)
	// CreateUser registers a new account and returns its subject id.
	// Returns domain.ErrUserExists on a duplicate handle.
	CreateUser(ctx context.Context, handle, secret, name string) (string, error)
	// SignOut invalidates provider-side state for the subject.
	SignOut(ctx context.Context, subject string) error
}

// SessionService is the use-case surface the transport layer consumes:
// establish, terminate and register. Login returns the session and its
// signed token.
type SessionService interface {
	Login(ctx context.Context, handle, secret string) (*domain.Session, string, error)
	Register(ctx context.Context, handle, secret, name string, role domain.Role) (*domain.Identity, error)
	Logout(ctx context.Context, sessionID string) error
}

// RoleDirectory maps provider subject ids to role-assignment documents.
// A missing or unreadable document is not an error to callers; the
// verifier falls back to domain.RoleUser.
type RoleDirectory interface {
	RoleFor(ctx context.Context, subject string) (domain.Role, error)
	Assign(ctx context.Context, subject string, role domain.Role) error
}
