package service

import (
	"context"
	"strings"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
	"github.com/lumenpaints/erp-backend/internal/core/ports"
)

// DemoUser is one entry of the static credential table. Sessions built
// from it never touch the identity provider.
type DemoUser struct {
	Handle string
	Secret string
	Name   string
	Role   domain.Role
}

// StaticVerifier authenticates against a fixed in-process credential
// table. It only handles exact matches: an unknown handle, or a known
// handle with the wrong secret, falls through to the next verifier.
// An empty table disables the bypass entirely.
type StaticVerifier struct {
	users map[string]DemoUser
}

func NewStaticVerifier(users []DemoUser) *StaticVerifier {
	table := make(map[string]DemoUser, len(users))
	for _, u := range users {
		table[strings.ToLower(u.Handle)] = u
	}
	return &StaticVerifier{users: table}
}

func (v *StaticVerifier) Verify(_ context.Context, handle, secret string) (*ports.VerifiedIdentity, error) {
	u, ok := v.users[strings.ToLower(handle)]
	if !ok || u.Secret != secret {
		return nil, nil
	}
	return &ports.VerifiedIdentity{
		Identity: domain.Identity{
			Subject: "demo:" + strings.ToLower(u.Handle),
			Handle:  u.Handle,
			Name:    u.Name,
		},
		Role: u.Role,
		Demo: true,
	}, nil
}

// ParseDemoUsers decodes the DEMO_USERS environment value. Entries are
// comma-separated, fields colon-separated: handle:secret:role:name.
// Malformed entries are skipped.
func ParseDemoUsers(raw string) []DemoUser {
	var users []DemoUser
	for _, entry := range strings.Split(raw, ",") {
		fields := strings.SplitN(strings.TrimSpace(entry), ":", 4)
		if len(fields) < 3 || fields[0] == "" || fields[1] == "" {
			continue
		}
		role, ok := domain.ParseRole(fields[2])
		if !ok {
			continue
		}
		u := DemoUser{Handle: fields[0], Secret: fields[1], Role: role}
		if len(fields) == 4 {
			u.Name = fields[3]
		}
		users = append(users, u)
	}
	return users
}
