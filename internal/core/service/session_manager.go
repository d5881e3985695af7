package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
	"github.com/lumenpaints/erp-backend/internal/core/ports"
	"github.com/lumenpaints/erp-backend/internal/metrics"
)

// sweepInterval is how often the inactivity monitor wakes up.
const sweepInterval = time.Minute

// SessionManager owns the session registry: it authenticates credential
// pairs through an ordered verifier chain, answers permission queries,
// and expires idle sessions.
type SessionManager struct {
	verifiers []ports.CredentialVerifier
	provider  ports.IdentityProvider
	roles     ports.RoleDirectory
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time

	// onExpire fires after the inactivity monitor logs a session out.
	onExpire func(domain.Session)

	mu          sync.Mutex
	sessions    map[string]*domain.Session
	idleMinutes int
}

// NewSessionManager builds a manager with verifiers tried in order.
// The static demo verifier, when configured, must come first so a demo
// match never reaches the provider.
func NewSessionManager(
	verifiers []ports.CredentialVerifier,
	provider ports.IdentityProvider,
	roles ports.RoleDirectory,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *SessionManager {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionManager{
		verifiers: verifiers,
		provider:  provider,
		roles:     roles,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
		sessions:  make(map[string]*domain.Session),
	}
}

// SetIdleTimeout sets the inactivity threshold in minutes. Zero
// disables the monitor.
func (m *SessionManager) SetIdleTimeout(minutes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if minutes < 0 {
		minutes = 0
	}
	m.idleMinutes = minutes
}

// OnExpire registers a hook invoked after an inactivity logout, for
// user-visible notification. Must be set before Run.
func (m *SessionManager) OnExpire(fn func(domain.Session)) {
	m.onExpire = fn
}

// Login authenticates handle+secret through the verifier chain and, on
// success, establishes a session and returns it with a signed token.
// No session is ever partially established: any failure leaves the
// registry untouched.
func (m *SessionManager) Login(ctx context.Context, handle, secret string) (*domain.Session, string, error) {
	if handle == "" || secret == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	for _, v := range m.verifiers {
		verified, err := v.Verify(ctx, handle, secret)
		if err != nil {
			return nil, "", err
		}
		if verified == nil {
			continue
		}

		now := m.now().UTC()
		sess := &domain.Session{
			ID:           uuid.NewString(),
			Identity:     verified.Identity,
			Role:         verified.Role,
			Demo:         verified.Demo,
			IssuedAt:     now,
			LastActivity: now,
		}

		token, err := m.signToken(sess)
		if err != nil {
			return nil, "", err
		}

		m.mu.Lock()
		m.sessions[sess.ID] = sess
		metrics.SessionsActive.Set(float64(len(m.sessions)))
		m.mu.Unlock()

		m.log.Info().
			Str("handle", sess.Identity.Handle).
			Str("role", sess.Role.String()).
			Bool("demo", sess.Demo).
			Msg("session established")

		established := *sess
		return &established, token, nil
	}

	return nil, "", domain.ErrInvalidCredentials
}

// Register creates a provider identity and its role-assignment
// document. It never establishes a session for the registrar.
func (m *SessionManager) Register(ctx context.Context, handle, secret, name string, role domain.Role) (*domain.Identity, error) {
	if handle == "" || secret == "" || !role.Valid() {
		return nil, domain.ErrRegistrationRejected
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	subject, err := m.provider.CreateUser(ctx, handle, string(hash), name)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, errors.Join(domain.ErrRegistrationRejected, err)
	}

	if err := m.roles.Assign(ctx, subject, role); err != nil {
		return nil, errors.Join(domain.ErrRegistrationRejected, err)
	}

	m.log.Info().Str("handle", handle).Str("role", role.String()).Msg("identity registered")
	return &domain.Identity{Subject: subject, Handle: handle, Name: name}, nil
}

// Logout terminates the session. Demo sessions only clear local state;
// provider sessions invoke the remote sign-out first. Unknown session
// ids are a no-op, so the call is idempotent.
func (m *SessionManager) Logout(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	if !sess.Demo {
		if err := m.provider.SignOut(ctx, sess.Identity.Subject); err != nil {
			m.log.Warn().Err(err).Str("handle", sess.Identity.Handle).Msg("provider sign-out failed")
		}
	}

	m.mu.Lock()
	delete(m.sessions, sessionID)
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	m.log.Info().Str("handle", sess.Identity.Handle).Msg("session terminated")
	return nil
}

// HasPermission reports whether the session meets the required role
// rank. Absent sessions yield false, never an error.
func (m *SessionManager) HasPermission(sessionID string, required domain.Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	return sess.Role.Meets(required)
}

// Touch refreshes the session's last-activity timestamp. Returns false
// when the session no longer exists (expired or logged out).
func (m *SessionManager) Touch(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	sess.LastActivity = m.now().UTC()
	return true
}

// Current returns a copy of the session, if it exists.
func (m *SessionManager) Current(sessionID string) (*domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	snapshot := *sess
	return &snapshot, true
}

// Count returns the number of active sessions.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run drives the inactivity monitor until ctx is cancelled.
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

// sweep logs out every session idle past the threshold. A threshold of
// zero disables the check.
func (m *SessionManager) sweep(ctx context.Context) {
	m.mu.Lock()
	threshold := time.Duration(m.idleMinutes) * time.Minute
	if threshold == 0 {
		m.mu.Unlock()
		return
	}
	cutoff := m.now().UTC().Add(-threshold)
	var expired []domain.Session
	for _, sess := range m.sessions {
		if sess.LastActivity.Before(cutoff) {
			expired = append(expired, *sess)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		if err := m.Logout(ctx, sess.ID); err != nil {
			m.log.Warn().Err(err).Str("handle", sess.Identity.Handle).Msg("inactivity logout failed")
			continue
		}
		m.log.Info().
			Str("handle", sess.Identity.Handle).
			Time("last_activity", sess.LastActivity).
			Msg("session expired for inactivity")
		if m.onExpire != nil {
			m.onExpire(sess)
		}
	}
}

func (m *SessionManager) signToken(sess *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":    sess.ID,
		"handle": sess.Identity.Handle,
		"name":   sess.Identity.Name,
		"role":   sess.Role.String(),
		"exp":    m.now().Add(m.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(m.jwtSecret))
}
