package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
	"github.com/lumenpaints/erp-backend/internal/core/ports"
)

// ProviderVerifier authenticates against the remote identity provider
// and resolves the role from the role-assignment directory. A missing
// or unreadable role document is not a failure: the session falls back
// to domain.RoleUser.
type ProviderVerifier struct {
	provider ports.IdentityProvider
	roles    ports.RoleDirectory
	log      zerolog.Logger
}

func NewProviderVerifier(provider ports.IdentityProvider, roles ports.RoleDirectory, log zerolog.Logger) *ProviderVerifier {
	return &ProviderVerifier{provider: provider, roles: roles, log: log}
}

func (v *ProviderVerifier) Verify(ctx context.Context, handle, secret string) (*ports.VerifiedIdentity, error) {
	user, err := v.provider.Authenticate(ctx, handle, secret)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	role, err := v.roles.RoleFor(ctx, user.Subject)
	if err != nil {
		v.log.Warn().Err(err).Str("subject", user.Subject).Msg("role lookup failed, defaulting to user")
		role = domain.RoleUser
	}

	return &ports.VerifiedIdentity{
		Identity: domain.Identity{
			Subject: user.Subject,
			Handle:  user.Email,
			Name:    user.Name,
		},
		Role: role,
	}, nil
}
