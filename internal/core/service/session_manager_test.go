package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/arenaplay/wallet-core/internal/core/domain"
	"github.com/arenaplay/wallet-core/internal/core/ports"
)

type stubStore struct {
	data    map[string]string
	setErr  map[string]error
	delErr  error
	deletes []string
}

func newStubStore() *stubStore {
	return &stubStore{data: make(map[string]string), setErr: make(map[string]error)}
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *stubStore) Set(_ context.Context, key, value string) error {
	if err := s.setErr[key]; err != nil {
		return err
	}
	s.data[key] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.data, key)
	return nil
}

func (s *stubStore) Ping(context.Context) error { return nil }

type stubAuthAPI struct {
	loginResult    *ports.AuthResult
	loginErr       error
	loginCalls     int
	registerResult *ports.AuthResult
	registerErr    error
}

func (a *stubAuthAPI) Login(context.Context, ports.Credentials) (*ports.AuthResult, error) {
	a.loginCalls++
	return a.loginResult, a.loginErr
}

func (a *stubAuthAPI) Register(context.Context, ports.Registration) (*ports.AuthResult, error) {
	return a.registerResult, a.registerErr
}

func newTestSessionManager(auth ports.AuthAPI, store ports.KeyValueStore) *SessionManager {
	return NewSessionManager(auth, store, zerolog.Nop())
}

func TestSessionManager_Restore_RoundTrip(t *testing.T) {
	store := newStubStore()
	store.data[keyToken] = "abc"
	store.data[keyUser] = `{"username":"sam"}`

	m := newTestSessionManager(&stubAuthAPI{}, store)
	if !m.Current().Loading {
		t.Fatalf("session must start in loading state")
	}

	m.Restore(context.Background())

	s := m.Current()
	if !s.Authenticated {
		t.Fatalf("expected authenticated session")
	}
	if s.Role != domain.RoleUser {
		t.Fatalf("expected default role %q, got %q", domain.RoleUser, s.Role)
	}
	if s.User == nil || s.User.Username != "sam" {
		t.Fatalf("unexpected user: %+v", s.User)
	}
	if s.Loading {
		t.Fatalf("loading must be cleared after restore")
	}
	if m.AuthToken() != "abc" {
		t.Fatalf("expected token abc, got %q", m.AuthToken())
	}
}

func TestSessionManager_Restore_RolePrecedence(t *testing.T) {
	store := newStubStore()
	store.data[keyToken] = "abc"
	store.data[keyUser] = `{"username":"sam","role":"user"}`
	store.data[keyRole] = domain.RoleAdmin

	m := newTestSessionManager(&stubAuthAPI{}, store)
	m.Restore(context.Background())

	if got := m.Current().Role; got != domain.RoleAdmin {
		t.Fatalf("stored role must win over the profile role, got %q", got)
	}
	if !m.IsAdmin() {
		t.Fatalf("expected IsAdmin for stored admin role")
	}

	// Without a stored role the profile role applies.
	store2 := newStubStore()
	store2.data[keyToken] = "abc"
	store2.data[keyUser] = `{"username":"sam","role":"admin"}`

	m2 := newTestSessionManager(&stubAuthAPI{}, store2)
	m2.Restore(context.Background())
	if got := m2.Current().Role; got != domain.RoleAdmin {
		t.Fatalf("expected profile role fallback, got %q", got)
	}
}

func TestSessionManager_Restore_MissingState(t *testing.T) {
	m := newTestSessionManager(&stubAuthAPI{}, newStubStore())
	m.Restore(context.Background())

	s := m.Current()
	if s.Authenticated || s.User != nil || s.Token != "" {
		t.Fatalf("expected unauthenticated session, got %+v", s)
	}
	if s.Loading {
		t.Fatalf("loading must be cleared even when nothing is persisted")
	}
}

func TestSessionManager_Restore_CorruptUser(t *testing.T) {
	store := newStubStore()
	store.data[keyToken] = "abc"
	store.data[keyUser] = `{"username":`

	m := newTestSessionManager(&stubAuthAPI{}, store)
	m.Restore(context.Background())

	s := m.Current()
	if s.Authenticated {
		t.Fatalf("corrupt persisted user must read as not logged in")
	}
	if s.Loading {
		t.Fatalf("loading must be cleared on the corrupt path")
	}
}

func TestSessionManager_Restore_RunsOnce(t *testing.T) {
	store := newStubStore()
	auth := &stubAuthAPI{loginResult: &ports.AuthResult{
		Token: "t1",
		User:  &domain.Profile{Username: "sam"},
	}}

	m := newTestSessionManager(auth, store)
	m.Restore(context.Background())

	if _, err := m.Login(context.Background(), "sam@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A stray second restore must not clobber the logged-in session.
	m.Restore(context.Background())
	if !m.Current().Authenticated {
		t.Fatalf("second restore clobbered the session")
	}
}

func TestSessionManager_Login_Success(t *testing.T) {
	store := newStubStore()
	auth := &stubAuthAPI{loginResult: &ports.AuthResult{
		Token: "jwt-token",
		User:  &domain.Profile{ID: "u_1", Username: "sam"},
	}}

	m := newTestSessionManager(auth, store)
	user, err := m.Login(context.Background(), "sam@example.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Username != "sam" {
		t.Fatalf("unexpected user: %+v", user)
	}

	s := m.Current()
	if !s.Authenticated || s.Token != "jwt-token" || s.Role != domain.RoleUser {
		t.Fatalf("unexpected session: %+v", s)
	}

	if store.data[keyToken] != "jwt-token" {
		t.Fatalf("token not persisted")
	}
	if store.data[keyRole] != domain.RoleUser {
		t.Fatalf("role not persisted")
	}
	if store.data[keyUser] == "" {
		t.Fatalf("user not persisted")
	}
}

func TestSessionManager_Login_Rejected(t *testing.T) {
	auth := &stubAuthAPI{loginErr: &domain.RemoteError{Message: "Invalid email or password"}}
	m := newTestSessionManager(auth, newStubStore())

	_, err := m.Login(context.Background(), "sam@example.com", "wrong")
	if err == nil {
		t.Fatalf("expected error")
	}
	var remote *domain.RemoteError
	if !errors.As(err, &remote) || remote.Message != "Invalid email or password" {
		t.Fatalf("server message must surface verbatim, got %v", err)
	}
	if m.Current().Authenticated {
		t.Fatalf("session must be unchanged on rejected login")
	}
}

func TestSessionManager_Login_MissingUserRecord(t *testing.T) {
	// A success envelope without a user object decodes to a nil User.
	auth := &stubAuthAPI{loginResult: &ports.AuthResult{Token: "t1"}}
	m := newTestSessionManager(auth, newStubStore())

	_, err := m.Login(context.Background(), "sam@example.com", "secret")
	if err == nil {
		t.Fatalf("expected error for response without a user record")
	}
	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		t.Fatalf("malformed response must read as a parse failure, not a rejection: %v", err)
	}
	if m.Current().Authenticated {
		t.Fatalf("session must be unchanged on malformed login response")
	}
}

func TestSessionManager_Register_MissingUserRecord(t *testing.T) {
	auth := &stubAuthAPI{registerResult: &ports.AuthResult{Token: "t2"}}
	m := newTestSessionManager(auth, newStubStore())

	if _, err := m.Register(context.Background(), "New User", "new@example.com", "secret", "secret"); err == nil {
		t.Fatalf("expected error for response without a user record")
	}
	if m.Current().Authenticated {
		t.Fatalf("session must be unchanged on malformed register response")
	}
}

func TestSessionManager_Login_PersistFailureKeepsSession(t *testing.T) {
	store := newStubStore()
	store.setErr[keyToken] = errors.New("disk full")
	auth := &stubAuthAPI{loginResult: &ports.AuthResult{
		Token: "t1",
		User:  &domain.Profile{Username: "sam"},
	}}

	m := newTestSessionManager(auth, store)
	if _, err := m.Login(context.Background(), "sam@example.com", "secret"); err != nil {
		t.Fatalf("persistence failure must not fail the login: %v", err)
	}
	if !m.Current().Authenticated {
		t.Fatalf("in-memory session must be set despite persistence failure")
	}
}

func TestSessionManager_Register_NoRole(t *testing.T) {
	store := newStubStore()
	auth := &stubAuthAPI{registerResult: &ports.AuthResult{
		Token: "t2",
		User:  &domain.Profile{Username: "new"},
	}}

	m := newTestSessionManager(auth, store)
	if _, err := m.Register(context.Background(), "New User", "new@example.com", "secret", "secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	s := m.Current()
	if !s.Authenticated || s.Role != "" {
		t.Fatalf("register must not default a role, got %+v", s)
	}
	if _, ok := store.data[keyRole]; ok {
		t.Fatalf("register must not persist a role")
	}
	if m.IsAdmin() {
		t.Fatalf("unset role must not read as admin")
	}
}

func TestSessionManager_UpdateUser(t *testing.T) {
	store := newStubStore()
	store.data[keyToken] = "abc"
	store.data[keyUser] = `{"username":"sam","email":"sam@example.com"}`

	m := newTestSessionManager(&stubAuthAPI{}, store)
	m.Restore(context.Background())

	phone := "555-0100"
	updated, err := m.UpdateUser(context.Background(), domain.ProfileUpdate{Phone: &phone})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Phone != phone || updated.Username != "sam" {
		t.Fatalf("unexpected merged profile: %+v", updated)
	}
	if got := m.Current().User.Phone; got != phone {
		t.Fatalf("in-memory profile not updated, got %q", got)
	}
}

func TestSessionManager_UpdateUser_PersistFailureRollsBack(t *testing.T) {
	store := newStubStore()
	store.data[keyToken] = "abc"
	store.data[keyUser] = `{"username":"sam"}`

	m := newTestSessionManager(&stubAuthAPI{}, store)
	m.Restore(context.Background())

	store.setErr[keyUser] = errors.New("disk full")
	phone := "555-0100"
	if _, err := m.UpdateUser(context.Background(), domain.ProfileUpdate{Phone: &phone}); err == nil {
		t.Fatalf("expected error on persistence failure")
	}
	if got := m.Current().User.Phone; got != "" {
		t.Fatalf("in-memory profile must stay untouched, got %q", got)
	}
}

func TestSessionManager_UpdateUser_Unauthenticated(t *testing.T) {
	m := newTestSessionManager(&stubAuthAPI{}, newStubStore())
	m.Restore(context.Background())

	name := "x"
	if _, err := m.UpdateUser(context.Background(), domain.ProfileUpdate{Username: &name}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSessionManager_Logout_AlwaysClears(t *testing.T) {
	store := newStubStore()
	store.data[keyToken] = "abc"
	store.data[keyUser] = `{"username":"sam"}`
	store.data[keyRole] = domain.RoleAdmin
	store.delErr = errors.New("storage unavailable")

	m := newTestSessionManager(&stubAuthAPI{}, store)
	m.Restore(context.Background())
	m.Logout(context.Background())

	s := m.Current()
	if s.Authenticated || s.Token != "" || s.User != nil || s.Role != "" {
		t.Fatalf("logout must clear in-memory state regardless of storage, got %+v", s)
	}
	if len(store.deletes) != 3 {
		t.Fatalf("expected all three persisted keys attempted, got %v", store.deletes)
	}
}

func TestSessionManager_TokenExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	signed, err := tkn.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	store := newStubStore()
	store.data[keyToken] = signed
	store.data[keyUser] = `{"username":"sam"}`

	m := newTestSessionManager(&stubAuthAPI{}, store)
	m.Restore(context.Background())

	got, ok := m.TokenExpiresAt()
	if !ok {
		t.Fatalf("expected an expiry")
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %v, got %v", exp, got)
	}

	// Opaque tokens carry no expiry but must not error.
	m.setSession(domain.Session{Authenticated: true, Token: "opaque", User: &domain.Profile{}})
	if _, ok := m.TokenExpiresAt(); ok {
		t.Fatalf("opaque token must report no expiry")
	}
}

func TestSessionManager_Subscribe(t *testing.T) {
	store := newStubStore()
	auth := &stubAuthAPI{loginResult: &ports.AuthResult{
		Token: "t1",
		User:  &domain.Profile{Username: "sam"},
	}}

	m := newTestSessionManager(auth, store)
	m.Restore(context.Background())

	seen := make(chan domain.Session, 4)
	cancel := m.Subscribe(func(s domain.Session) { seen <- s })
	defer cancel()

	if _, err := m.Login(context.Background(), "sam@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	select {
	case s := <-seen:
		if !s.Authenticated {
			t.Fatalf("observer saw unexpected session: %+v", s)
		}
	case <-time.After(time.Second):
		t.Fatalf("observer was not notified")
	}
}
