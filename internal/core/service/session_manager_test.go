package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
	"github.com/lumenpaints/erp-backend/internal/core/ports"
)

// stubProvider is an in-memory identity provider that records calls.
type stubProvider struct {
	users         map[string]*domain.User
	authCalls     int
	createCalls   int
	signOutCalls  int
	signOutErr    error
	createErr     error
	lastSecret    string
	lastSignedOut string
}

func (p *stubProvider) Authenticate(_ context.Context, handle, secret string) (*domain.User, error) {
	p.authCalls++
	u, ok := p.users[handle]
	if !ok {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(secret)) != nil {
		return nil, nil
	}
	return u, nil
}

func (p *stubProvider) CreateUser(_ context.Context, handle, secretHash, name string) (string, error) {
	p.createCalls++
	p.lastSecret = secretHash
	if p.createErr != nil {
		return "", p.createErr
	}
	if _, exists := p.users[handle]; exists {
		return "", domain.ErrUserExists
	}
	subject := "sub-" + handle
	if p.users == nil {
		p.users = make(map[string]*domain.User)
	}
	p.users[handle] = &domain.User{Subject: subject, Email: handle, Name: name, PasswordHash: secretHash}
	return subject, nil
}

func (p *stubProvider) SignOut(_ context.Context, subject string) error {
	p.signOutCalls++
	p.lastSignedOut = subject
	return p.signOutErr
}

// stubRoles maps subjects to roles, optionally failing every lookup.
type stubRoles struct {
	roles     map[string]domain.Role
	lookupErr error
	assigned  map[string]domain.Role
}

func (r *stubRoles) RoleFor(_ context.Context, subject string) (domain.Role, error) {
	if r.lookupErr != nil {
		return 0, r.lookupErr
	}
	role, ok := r.roles[subject]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return role, nil
}

func (r *stubRoles) Assign(_ context.Context, subject string, role domain.Role) error {
	if r.assigned == nil {
		r.assigned = make(map[string]domain.Role)
	}
	r.assigned[subject] = role
	return nil
}

func hashSecret(t *testing.T, secret string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash secret: %v", err)
	}
	return string(hash)
}

func newTestManager(t *testing.T, provider *stubProvider, roles *stubRoles, demo []DemoUser) *SessionManager {
	t.Helper()
	verifiers := []ports.CredentialVerifier{}
	if len(demo) > 0 {
		verifiers = append(verifiers, NewStaticVerifier(demo))
	}
	verifiers = append(verifiers, NewProviderVerifier(provider, roles, zerolog.Nop()))
	return NewSessionManager(verifiers, provider, roles, "test-secret", time.Hour, zerolog.Nop())
}

func TestLogin_DemoBypassNeverReachesProvider(t *testing.T) {
	provider := &stubProvider{}
	m := newTestManager(t, provider, &stubRoles{}, []DemoUser{
		{Handle: "demo", Secret: "demo123", Name: "Demo", Role: domain.RoleAdmin},
	})

	sess, token, err := m.Login(context.Background(), "demo", "demo123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a signed token")
	}
	if !sess.Demo {
		t.Fatalf("expected a demo session")
	}
	if sess.Role != domain.RoleAdmin {
		t.Fatalf("role = %v", sess.Role)
	}
	if provider.authCalls != 0 {
		t.Fatalf("demo login must not contact the provider, got %d calls", provider.authCalls)
	}
	if m.Count() != 1 {
		t.Fatalf("expected one active session, got %d", m.Count())
	}
}

func TestLogin_WrongDemoSecretFallsThroughToProvider(t *testing.T) {
	provider := &stubProvider{
		users: map[string]*domain.User{
			"demo": {Subject: "sub-demo", Email: "demo", Name: "Real Demo", PasswordHash: hashSecret(t, "provider-pw")},
		},
	}
	roles := &stubRoles{roles: map[string]domain.Role{"sub-demo": domain.RoleSales}}
	m := newTestManager(t, provider, roles, []DemoUser{
		{Handle: "demo", Secret: "demo123", Role: domain.RoleAdmin},
	})

	sess, _, err := m.Login(context.Background(), "demo", "provider-pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if provider.authCalls != 1 {
		t.Fatalf("provider not consulted")
	}
	if sess.Demo {
		t.Fatalf("session should not be demo")
	}
	if sess.Role != domain.RoleSales {
		t.Fatalf("role = %v", sess.Role)
	}
}

func TestLogin_RoleLookupFailureDefaultsToUser(t *testing.T) {
	provider := &stubProvider{
		users: map[string]*domain.User{
			"alice@lumen.test": {Subject: "sub-alice", Email: "alice@lumen.test", PasswordHash: hashSecret(t, "pw")},
		},
	}
	roles := &stubRoles{lookupErr: errors.New("directory down")}
	m := newTestManager(t, provider, roles, nil)

	sess, _, err := m.Login(context.Background(), "alice@lumen.test", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Role != domain.RoleUser {
		t.Fatalf("expected fallback to user role, got %v", sess.Role)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	provider := &stubProvider{
		users: map[string]*domain.User{
			"alice@lumen.test": {Subject: "sub-alice", Email: "alice@lumen.test", PasswordHash: hashSecret(t, "pw")},
		},
	}
	m := newTestManager(t, provider, &stubRoles{}, nil)

	if _, _, err := m.Login(context.Background(), "alice@lumen.test", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := m.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty handle: expected ErrInvalidCredentials, got %v", err)
	}
	if m.Count() != 0 {
		t.Fatalf("failed logins must not leave sessions behind")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	provider := &stubProvider{
		users: map[string]*domain.User{
			"alice@lumen.test": {Subject: "sub-alice", Email: "alice@lumen.test", PasswordHash: hashSecret(t, "pw")},
		},
	}
	roles := &stubRoles{roles: map[string]domain.Role{"sub-alice": domain.RoleUser}}
	m := newTestManager(t, provider, roles, nil)

	sess, _, err := m.Login(context.Background(), "alice@lumen.test", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := m.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if provider.signOutCalls != 1 || provider.lastSignedOut != "sub-alice" {
		t.Fatalf("provider sign-out not invoked correctly: %d calls", provider.signOutCalls)
	}

	// Second logout of the same session is a silent no-op.
	if err := m.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("repeat logout: %v", err)
	}
	if provider.signOutCalls != 1 {
		t.Fatalf("repeat logout must not hit the provider again")
	}
	if m.Count() != 0 {
		t.Fatalf("session still registered")
	}
}

func TestLogout_DemoSessionStaysLocal(t *testing.T) {
	provider := &stubProvider{}
	m := newTestManager(t, provider, &stubRoles{}, []DemoUser{
		{Handle: "demo", Secret: "demo123", Role: domain.RoleUser},
	})

	sess, _, err := m.Login(context.Background(), "demo", "demo123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := m.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if provider.signOutCalls != 0 {
		t.Fatalf("demo logout must not contact the provider")
	}
}

func TestLogout_ProviderFailureStillTerminates(t *testing.T) {
	provider := &stubProvider{
		users: map[string]*domain.User{
			"alice@lumen.test": {Subject: "sub-alice", Email: "alice@lumen.test", PasswordHash: hashSecret(t, "pw")},
		},
		signOutErr: errors.New("provider down"),
	}
	roles := &stubRoles{roles: map[string]domain.Role{"sub-alice": domain.RoleUser}}
	m := newTestManager(t, provider, roles, nil)

	sess, _, err := m.Login(context.Background(), "alice@lumen.test", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := m.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("logout should swallow provider errors, got %v", err)
	}
	if m.Count() != 0 {
		t.Fatalf("local session must be gone regardless of provider failure")
	}
}

func TestHasPermission(t *testing.T) {
	m := newTestManager(t, &stubProvider{}, &stubRoles{}, []DemoUser{
		{Handle: "demo", Secret: "demo123", Role: domain.RoleSupervisor},
	})

	sess, _, err := m.Login(context.Background(), "demo", "demo123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if !m.HasPermission(sess.ID, domain.RoleSales) {
		t.Fatalf("supervisor should meet sales")
	}
	if m.HasPermission(sess.ID, domain.RoleAdmin) {
		t.Fatalf("supervisor should not meet admin")
	}
	if m.HasPermission("no-such-session", domain.RoleUser) {
		t.Fatalf("unknown session must yield false, not panic or error")
	}
}

func TestRegister(t *testing.T) {
	provider := &stubProvider{}
	roles := &stubRoles{}
	m := newTestManager(t, provider, roles, nil)

	identity, err := m.Register(context.Background(), "bob@lumen.test", "secret1", "Bob", domain.RoleSales)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if identity.Subject != "sub-bob@lumen.test" {
		t.Fatalf("subject = %q", identity.Subject)
	}
	if roles.assigned[identity.Subject] != domain.RoleSales {
		t.Fatalf("role not assigned")
	}
	// The provider receives a bcrypt hash, never the raw secret.
	if provider.lastSecret == "secret1" {
		t.Fatalf("raw secret sent to provider")
	}
	if bcrypt.CompareHashAndPassword([]byte(provider.lastSecret), []byte("secret1")) != nil {
		t.Fatalf("stored hash does not verify")
	}
	if m.Count() != 0 {
		t.Fatalf("registration must not establish a session")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	provider := &stubProvider{}
	m := newTestManager(t, provider, &stubRoles{}, nil)

	if _, err := m.Register(context.Background(), "bob@lumen.test", "secret1", "Bob", domain.RoleUser); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := m.Register(context.Background(), "bob@lumen.test", "other", "Bob", domain.RoleUser); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_Rejected(t *testing.T) {
	m := newTestManager(t, &stubProvider{}, &stubRoles{}, nil)

	if _, err := m.Register(context.Background(), "", "pw", "", domain.RoleUser); !errors.Is(err, domain.ErrRegistrationRejected) {
		t.Fatalf("empty handle: expected ErrRegistrationRejected, got %v", err)
	}
	if _, err := m.Register(context.Background(), "x@y.z", "pw", "", domain.Role(42)); !errors.Is(err, domain.ErrRegistrationRejected) {
		t.Fatalf("invalid role: expected ErrRegistrationRejected, got %v", err)
	}
}

func TestSweep_ExpiresIdleSessions(t *testing.T) {
	provider := &stubProvider{}
	m := newTestManager(t, provider, &stubRoles{}, []DemoUser{
		{Handle: "demo", Secret: "demo123", Role: domain.RoleUser},
	})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	current := base
	m.now = func() time.Time { return current }
	m.SetIdleTimeout(30)

	var expired []domain.Session
	m.OnExpire(func(s domain.Session) { expired = append(expired, s) })

	idle, _, err := m.Login(context.Background(), "demo", "demo123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Second session keeps itself alive with activity.
	active, _, err := m.Login(context.Background(), "demo", "demo123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	current = base.Add(29 * time.Minute)
	if !m.Touch(active.ID) {
		t.Fatalf("touch failed")
	}

	current = base.Add(45 * time.Minute)
	m.sweep(context.Background())

	if m.Count() != 1 {
		t.Fatalf("expected one surviving session, got %d", m.Count())
	}
	if _, ok := m.Current(idle.ID); ok {
		t.Fatalf("idle session should be gone")
	}
	if _, ok := m.Current(active.ID); !ok {
		t.Fatalf("active session should survive")
	}
	if len(expired) != 1 || expired[0].ID != idle.ID {
		t.Fatalf("expire hook not fired for the idle session: %+v", expired)
	}
}

func TestSweep_ZeroThresholdDisablesMonitor(t *testing.T) {
	m := newTestManager(t, &stubProvider{}, &stubRoles{}, []DemoUser{
		{Handle: "demo", Secret: "demo123", Role: domain.RoleUser},
	})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	current := base
	m.now = func() time.Time { return current }
	m.SetIdleTimeout(0)

	if _, _, err := m.Login(context.Background(), "demo", "demo123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	current = base.Add(24 * time.Hour)
	m.sweep(context.Background())

	if m.Count() != 1 {
		t.Fatalf("sessions must never expire with a zero threshold")
	}
}

func TestTouch_UnknownSession(t *testing.T) {
	m := newTestManager(t, &stubProvider{}, &stubRoles{}, nil)
	if m.Touch("ghost") {
		t.Fatalf("touching an unknown session must report false")
	}
}
