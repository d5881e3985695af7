package service

import (
	"context"
	"testing"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

func TestStaticVerifier_Match(t *testing.T) {
	v := NewStaticVerifier([]DemoUser{
		{Handle: "Demo", Secret: "demo123", Name: "Demo Admin", Role: domain.RoleAdmin},
	})

	verified, err := v.Verify(context.Background(), "demo", "demo123")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified == nil {
		t.Fatalf("expected a match")
	}
	if !verified.Demo {
		t.Fatalf("expected a demo identity")
	}
	if verified.Role != domain.RoleAdmin {
		t.Fatalf("role = %v", verified.Role)
	}
	if verified.Identity.Subject != "demo:demo" {
		t.Fatalf("subject = %q", verified.Identity.Subject)
	}
}

func TestStaticVerifier_WrongSecretFallsThrough(t *testing.T) {
	v := NewStaticVerifier([]DemoUser{
		{Handle: "demo", Secret: "demo123", Role: domain.RoleUser},
	})

	// A known handle with the wrong secret is not handled here; the
	// chain moves on to the provider.
	verified, err := v.Verify(context.Background(), "demo", "wrong")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified != nil {
		t.Fatalf("wrong secret should fall through, got %+v", verified)
	}
}

func TestStaticVerifier_UnknownHandleFallsThrough(t *testing.T) {
	v := NewStaticVerifier([]DemoUser{
		{Handle: "demo", Secret: "demo123", Role: domain.RoleUser},
	})

	verified, err := v.Verify(context.Background(), "someone", "demo123")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified != nil {
		t.Fatalf("unknown handle should fall through")
	}
}

func TestParseDemoUsers(t *testing.T) {
	users := ParseDemoUsers("demo:demo123:admin:Demo Admin, viewer:view1:user, broken, bad:pw:czar")
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d: %+v", len(users), users)
	}
	if users[0].Handle != "demo" || users[0].Role != domain.RoleAdmin || users[0].Name != "Demo Admin" {
		t.Fatalf("first entry = %+v", users[0])
	}
	if users[1].Handle != "viewer" || users[1].Role != domain.RoleUser || users[1].Name != "" {
		t.Fatalf("second entry = %+v", users[1])
	}
}

func TestParseDemoUsers_Empty(t *testing.T) {
	if users := ParseDemoUsers(""); len(users) != 0 {
		t.Fatalf("expected no users, got %+v", users)
	}
}
