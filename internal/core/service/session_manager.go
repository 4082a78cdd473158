package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/arenaplay/wallet-core/internal/api/metrics"
	"github.com/arenaplay/wallet-core/internal/core/domain"
	"github.com/arenaplay/wallet-core/internal/core/ports"
)

// Persisted mirror keys. Written in the order user, role, token — token last,
// so an interrupted write sequence can only restore as "not logged in", never
// as a token without a user.
const (
	keyToken = "token"
	keyUser  = "user"
	keyRole  = "userRole"
)

// SessionManager owns the Session and its persisted mirror. All remote calls
// are single-attempt; the caller decides whether the user may retry.
type SessionManager struct {
	auth  ports.AuthAPI
	store ports.KeyValueStore
	log   zerolog.Logger

	mu       sync.RWMutex
	session  domain.Session
	restored bool

	updates *notifier[domain.Session]
}

func NewSessionManager(auth ports.AuthAPI, store ports.KeyValueStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		auth:    auth,
		store:   store,
		log:     log,
		session: domain.Session{Loading: true},
		updates: newNotifier[domain.Session](),
	}
}

// Restore loads the persisted session. It runs at most once per process
// lifetime; later calls are no-ops. Every failure path leaves the session
// unauthenticated with Loading cleared — this method never fails.
func (m *SessionManager) Restore(ctx context.Context) {
	m.mu.Lock()
	if m.restored {
		m.mu.Unlock()
		return
	}
	m.restored = true
	m.mu.Unlock()

	token, tokenErr := m.store.Get(ctx, keyToken)
	rawUser, userErr := m.store.Get(ctx, keyUser)
	storedRole, roleErr := m.store.Get(ctx, keyRole)

	if tokenErr != nil || userErr != nil || token == "" || rawUser == "" {
		if tokenErr != nil && !errors.Is(tokenErr, domain.ErrKeyNotFound) {
			m.log.Warn().Err(tokenErr).Msg("session restore: token read failed")
		}
		if userErr != nil && !errors.Is(userErr, domain.ErrKeyNotFound) {
			m.log.Warn().Err(userErr).Msg("session restore: user read failed")
		}
		metrics.SessionRestoresTotal.WithLabelValues("empty").Inc()
		m.finishRestore(domain.Session{})
		return
	}

	var user domain.Profile
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		m.log.Warn().Err(err).Msg("session restore: persisted user record unparseable")
		metrics.SessionRestoresTotal.WithLabelValues("corrupt").Inc()
		m.finishRestore(domain.Session{})
		return
	}

	role := storedRole
	if roleErr != nil || role == "" {
		role = user.Role
	}
	if role == "" {
		role = domain.RoleUser
	}

	metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
	m.log.Info().Str("username", user.Username).Str("role", role).Msg("session restored")
	m.finishRestore(domain.Session{
		Authenticated: true,
		User:          &user,
		Token:         token,
		Role:          role,
	})
}

func (m *SessionManager) finishRestore(s domain.Session) {
	s.Loading = false
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
	m.updates.publish(s)
}

// Login authenticates against the platform. On a rejected attempt the error
// carries the server's message and the session is left unchanged. Persistence
// failures after a successful login are logged but do not roll back the
// in-memory session.
func (m *SessionManager) Login(ctx context.Context, identifier, secret string) (*domain.Profile, error) {
	res, err := m.auth.Login(ctx, ports.Credentials{Identifier: identifier, Secret: secret})
	if err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, fmt.Errorf("login: malformed response: missing user record")
	}

	user := *res.User
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}

	m.persistSession(ctx, res.Token, &user, role)
	m.setSession(domain.Session{
		Authenticated: true,
		User:          &user,
		Token:         res.Token,
		Role:          role,
	})

	m.log.Info().Str("username", user.Username).Str("role", role).Msg("logged in")
	return &user, nil
}

// Register creates an account. Unlike Login, no role is defaulted or
// persisted; the role stays unset until a subsequent login or restore.
func (m *SessionManager) Register(ctx context.Context, name, identifier, secret, confirm string) (*domain.Profile, error) {
	res, err := m.auth.Register(ctx, ports.Registration{
		Name:          name,
		Identifier:    identifier,
		Secret:        secret,
		ConfirmSecret: confirm,
	})
	if err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, fmt.Errorf("register: malformed response: missing user record")
	}

	user := *res.User
	m.persistSession(ctx, res.Token, &user, "")
	m.setSession(domain.Session{
		Authenticated: true,
		User:          &user,
		Token:         res.Token,
	})

	m.log.Info().Str("username", user.Username).Msg("registered")
	return &user, nil
}

// persistSession mirrors the session to storage. Write order is user, role,
// token. Failures are logged only — a user that just authenticated stays
// authenticated for this process even when storage is unavailable.
func (m *SessionManager) persistSession(ctx context.Context, token string, user *domain.Profile, role string) {
	raw, err := json.Marshal(user)
	if err != nil {
		m.log.Error().Err(err).Msg("persist session: marshal user")
		return
	}
	if err := m.store.Set(ctx, keyUser, string(raw)); err != nil {
		m.log.Error().Err(err).Msg("persist session: user write failed")
	}
	if role != "" {
		if err := m.store.Set(ctx, keyRole, role); err != nil {
			m.log.Error().Err(err).Msg("persist session: role write failed")
		}
	}
	if err := m.store.Set(ctx, keyToken, token); err != nil {
		m.log.Error().Err(err).Msg("persist session: token write failed")
	}
}

// UpdateUser shallow-merges update onto the current profile. The merged
// record is persisted first; when that write fails the in-memory profile is
// left untouched and the error is returned.
func (m *SessionManager) UpdateUser(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	m.mu.RLock()
	if !m.session.Authenticated || m.session.User == nil {
		m.mu.RUnlock()
		return nil, domain.ErrNotAuthenticated
	}
	merged := m.session.User.Merge(update)
	m.mu.RUnlock()

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("update profile: marshal: %w", err)
	}
	if err := m.store.Set(ctx, keyUser, string(raw)); err != nil {
		m.log.Error().Err(err).Msg("update profile: persist failed, in-memory state unchanged")
		return nil, fmt.Errorf("update profile: persist: %w", err)
	}

	m.mu.Lock()
	m.session.User = &merged
	s := m.session
	m.mu.Unlock()
	m.updates.publish(s)

	return &merged, nil
}

// Logout clears the in-memory session unconditionally, then removes the
// persisted mirror. Removal errors are logged, not surfaced: the user leaves
// authenticated screens even when storage is unavailable.
func (m *SessionManager) Logout(ctx context.Context) {
	m.setSession(domain.Session{})

	for _, key := range []string{keyToken, keyUser, keyRole} {
		if err := m.store.Delete(ctx, key); err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("logout: persisted key removal failed")
		}
	}
	m.log.Info().Msg("logged out")
}

func (m *SessionManager) setSession(s domain.Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
	m.updates.publish(s)
}

// Current returns a copy of the session.
func (m *SessionManager) Current() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.session
	if s.User != nil {
		user := *s.User
		s.User = &user
	}
	return s
}

// AuthToken returns the current bearer token, empty when unauthenticated.
func (m *SessionManager) AuthToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

// IsAdmin reports whether the current role is admin.
func (m *SessionManager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Role == domain.RoleAdmin
}

// TokenExpiresAt extracts the exp claim from the current bearer token without
// verifying its signature — the client holds no signing key and only needs
// the expiry to prompt a re-login. Returns false when there is no token, the
// token is not a JWT, or it carries no exp claim.
func (m *SessionManager) TokenExpiresAt() (time.Time, bool) {
	token := m.AuthToken()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subscribe registers an observer for session changes.
func (m *SessionManager) Subscribe(fn func(domain.Session)) (cancel func()) {
	return m.updates.subscribe(fn)
}
