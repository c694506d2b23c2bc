// Package session owns the client's authentication state: who is signed in
// and the tokens that authorize calls to the analysis service.
//
// Manager is the only writer of that state. The access token and the
// Identity are always set and cleared together, both in memory and in the
// credential store, so IsAuthenticated (derived from the Identity) never
// disagrees with the presence of a token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumefit/internal/client/client"
	"github.com/dmitrijs2005/resumefit/internal/client/models"
	"github.com/dmitrijs2005/resumefit/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/resumefit/internal/client/ui"
	"github.com/dmitrijs2005/resumefit/internal/logging"
)

const (
	defaultLoginFailure  = "Login failed"
	defaultSignupFailure = "Signup failed"
)

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	Identity  *models.Identity
	Loading   bool
	ExpiresAt time.Time
}

func (s Snapshot) IsAuthenticated() bool { return s.Identity != nil }

type Manager struct {
	auth      client.Authenticator
	store     credentials.Repository
	notifier  ui.Notifier
	navigator ui.Navigator
	log       logging.Logger

	// opMu serializes the commit steps of Bootstrap, Login and Logout so the
	// store and the in-memory pair are always changed as one unit.
	opMu sync.Mutex

	mu           sync.RWMutex
	identity     *models.Identity
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	bootstrapped bool
	inflight     int
	subs         map[int]func(Snapshot)
	nextSub      int

	ready     chan struct{}
	readyOnce sync.Once
}

func NewManager(auth client.Authenticator, store credentials.Repository, notifier ui.Notifier, navigator ui.Navigator, log logging.Logger) *Manager {
	return &Manager{
		auth:      auth,
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		log:       log.With("component", "session"),
		subs:      make(map[int]func(Snapshot)),
		ready:     make(chan struct{}),
	}
}

// Bootstrap restores a persisted session. It must run once at start-up;
// Loading reports true and Ready stays open until it returns.
func (m *Manager) Bootstrap(ctx context.Context) {
	defer m.markReady()

	m.opMu.Lock()
	defer m.opMu.Unlock()

	creds, err := m.store.Load(ctx)
	if err != nil {
		m.log.Error(ctx, "failed to read persisted session", "error", err)
		return
	}
	if creds.AccessToken == "" || len(creds.User) == 0 {
		m.log.Debug(ctx, "no persisted session")
		return
	}

	identity, err := decodeIdentity(creds.User)
	if err != nil {
		m.log.Warn(ctx, "persisted profile is corrupt, discarding session", "error", err)
		if err := m.store.Clear(ctx); err != nil {
			m.log.Error(ctx, "failed to clear persisted session", "error", err)
		}
		return
	}

	m.setSession(identity, creds.AccessToken, creds.RefreshToken)
	m.log.Info(ctx, "session restored", "user_id", identity.ID)
}

func (m *Manager) markReady() {
	m.mu.Lock()
	m.bootstrapped = true
	m.mu.Unlock()

	m.readyOnce.Do(func() { close(m.ready) })
	m.publish()
}

// Login exchanges credentials for a session. A nil error means the user is
// now signed in; on failure the session is left untouched. Either way the
// outcome is also reported through the Notifier.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.beginCall()
	defer m.endCall()

	res, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.log.Warn(ctx, "login rejected", "error", err)
		m.notifyFailure(ctx, "Login failed", failureReason(err, defaultLoginFailure))
		return fmt.Errorf("login: %w", err)
	}

	user, err := json.Marshal(res.User)
	if err != nil {
		m.log.Error(ctx, "failed to encode profile", "error", err)
		m.notifyFailure(ctx, "Login failed", defaultLoginFailure)
		return fmt.Errorf("login: %w", err)
	}

	identity := res.User

	m.opMu.Lock()
	err = m.store.Save(ctx, credentials.Credentials{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         user,
	})
	if err == nil {
		m.setSession(&identity, res.AccessToken, res.RefreshToken)
	}
	m.opMu.Unlock()

	if err != nil {
		m.log.Error(ctx, "failed to persist session", "error", err)
		m.notifyFailure(ctx, "Login failed", defaultLoginFailure)
		return fmt.Errorf("login: %w", err)
	}

	m.log.Info(ctx, "login succeeded", "user_id", identity.ID)
	m.publish()
	m.notifier.Notify(ctx, ui.Notification{
		Kind:    ui.KindSuccess,
		Title:   "Login successful",
		Message: fmt.Sprintf("Welcome back, %s!", identity.Name),
	})
	return nil
}

// Signup registers a new account. It never signs the user in; the service
// requires a separate Login.
func (m *Manager) Signup(ctx context.Context, name, email, password string) error {
	m.beginCall()
	defer m.endCall()

	if err := m.auth.Signup(ctx, name, email, password); err != nil {
		m.log.Warn(ctx, "signup rejected", "error", err)
		m.notifyFailure(ctx, "Registration failed", failureReason(err, defaultSignupFailure))
		return fmt.Errorf("signup: %w", err)
	}

	m.log.Info(ctx, "signup succeeded")
	m.notifier.Notify(ctx, ui.Notification{
		Kind:    ui.KindSuccess,
		Title:   "Registration successful",
		Message: "Your account has been created. You can now log in.",
	})
	return nil
}

// Logout forgets the session in memory and in the store, then sends the user
// to the sign-in screen. It is safe to call when nobody is signed in.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear persisted session", "error", err)
	}
	m.setSession(nil, "", "")
	m.opMu.Unlock()

	m.log.Info(ctx, "logged out")
	m.publish()
	m.navigator.Navigate(ctx, ui.RouteSignIn)
	m.notifier.Notify(ctx, ui.Notification{
		Kind:    ui.KindInfo,
		Title:   "Logged out",
		Message: "You have been successfully logged out.",
	})
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil
}

// Identity returns a copy of the signed-in user's profile, or nil.
func (m *Manager) Identity() *models.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyIdentity(m.identity)
}

// AccessToken returns the bearer token of the current session.
func (m *Manager) AccessToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return "", false
	}
	return m.accessToken, true
}

// Loading reports whether bootstrap or a credential call is still pending.
// Auth-gated decisions should wait until it is false.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadingLocked()
}

// Ready is closed once Bootstrap has finished.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Subscribe registers fn to receive a Snapshot after every change. The
// returned function removes the subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) setSession(identity *models.Identity, access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.identity = identity
	m.accessToken = access
	m.refreshToken = refresh
	m.expiresAt = tokenExpiry(access)
}

func (m *Manager) beginCall() {
	m.mu.Lock()
	m.inflight++
	m.mu.Unlock()
	m.publish()
}

func (m *Manager) endCall() {
	m.mu.Lock()
	m.inflight--
	m.mu.Unlock()
	m.publish()
}

func (m *Manager) loadingLocked() bool {
	return !m.bootstrapped || m.inflight > 0
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Identity:  copyIdentity(m.identity),
		Loading:   m.loadingLocked(),
		ExpiresAt: m.expiresAt,
	}
}

func (m *Manager) publish() {
	m.mu.RLock()
	snap := m.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (m *Manager) notifyFailure(ctx context.Context, title, reason string) {
	m.notifier.Notify(ctx, ui.Notification{Kind: ui.KindError, Title: title, Message: reason})
}

// failureReason prefers the server-supplied message; transport and decoding
// failures fall back to the generic text.
func failureReason(err error, fallback string) string {
	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	return fallback
}

var errEmptyProfile = errors.New("empty profile")

func decodeIdentity(b []byte) (*models.Identity, error) {
	var identity *models.Identity
	if err := json.Unmarshal(b, &identity); err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, errEmptyProfile
	}
	return identity, nil
}

func copyIdentity(id *models.Identity) *models.Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
