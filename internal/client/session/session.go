// internal/client/session/session.go
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/infrastructure/storage"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

// GenericResetMessage is shown for every password reset request so the
// response never reveals whether an account exists
const GenericResetMessage = "If an account exists for this email, a password reset link has been sent."

// Session is the authenticated identity. The zero value is the
// unauthenticated state; Token is set exactly when UserID is set.
type Session struct {
	UserID      api.ID
	Token       string
	DisplayName string
}

// Authenticated reports whether the session holds a credential
func (s Session) Authenticated() bool {
	return s.Token != "" && !s.UserID.IsZero()
}

// persisted is written as one value so token and user id never diverge
type persisted struct {
	Token  string `json:"token"`
	UserID api.ID `json:"userId"`
}

func (p persisted) complete() bool {
	return p.Token != "" && !p.UserID.IsZero()
}

// Manager owns the session lifecycle and authorizes API calls
type Manager struct {
	mu         sync.RWMutex
	session    Session
	profile    *api.User
	store      storage.Store
	client     *api.Client
	revalidate bool
	log        logrus.FieldLogger
}

var _ api.Authorizer = (*Manager)(nil)

// NewManager creates a session manager. The given client is rebound so every
// call it makes carries this manager's credential.
func NewManager(client *api.Client, store storage.Store, cfg config.ClientConfig, log logrus.FieldLogger) *Manager {
	m := &Manager{
		store:      store,
		revalidate: cfg.RevalidateSession,
		log:        log.WithField("component", "session"),
	}
	m.client = client.WithAuthorizer(m)
	return m
}

// Client returns the API client authorized by this manager
func (m *Manager) Client() *api.Client {
	return m.client
}

// Current returns a copy of the session
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Profile returns a copy of the cached user profile, or nil
func (m *Manager) Profile() *api.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return nil
	}
	p := *m.profile
	return &p
}

// AuthorizationHeader returns the bearer header when a session exists
func (m *Manager) AuthorizationHeader() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.session.Authenticated() {
		return "", false
	}
	return bearer(m.session.Token), true
}

// Unauthorized tears the session down when the backend rejects the current
// token. Rejections of a token this manager no longer holds are ignored.
func (m *Manager) Unauthorized(ctx context.Context, header string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.session.Authenticated() || bearer(m.session.Token) != header {
		return
	}
	m.log.WithField("user_id", m.session.UserID).Warn("session rejected by server, logging out")
	if err := m.clearLocked(ctx); err != nil {
		m.log.WithError(err).Warn("failed to remove persisted session")
	}
}

// RestoreSession loads the persisted session and optionally revalidates it.
// It never fails; the returned session is the resulting state.
func (m *Manager) RestoreSession(ctx context.Context) Session {
	var stored persisted
	found, err := m.store.Get(ctx, storage.KeySession, &stored)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		m.log.WithError(err).Warn("persisted session is corrupt, discarding")
		m.discardPersisted(ctx)
		return m.setSession(Session{}, nil)
	case err != nil:
		m.log.WithError(err).Warn("failed to read persisted session")
		return m.setSession(Session{}, nil)
	case !found:
		return m.setSession(Session{}, nil)
	case !stored.complete():
		m.log.Warn("persisted session is incomplete, discarding")
		m.discardPersisted(ctx)
		return m.setSession(Session{}, nil)
	}

	var cached api.User
	var profile *api.User
	if ok, err := m.store.Get(ctx, storage.KeyUser, &cached); err != nil {
		m.log.WithError(err).Warn("cached profile unreadable")
	} else if ok && cached.ID == stored.UserID {
		profile = &cached
	}

	if !m.revalidate {
		return m.setSession(newSession(stored, profile), profile)
	}

	fresh, err := m.client.WithAuthorizer(api.StaticToken(stored.Token)).GetUser(ctx, stored.UserID)
	if err != nil {
		if rejected(err) {
			m.log.WithField("user_id", stored.UserID).Info("persisted session rejected, clearing")
			m.discardPersisted(ctx)
		} else {
			m.log.WithError(err).Warn("could not revalidate session, continuing unauthenticated")
		}
		return m.setSession(Session{}, nil)
	}

	if err := m.store.Set(ctx, storage.KeyUser, fresh); err != nil {
		m.log.WithError(err).Warn("failed to cache profile")
	}
	return m.setSession(newSession(stored, fresh), fresh)
}

// Login authenticates and resolves the profile. Either both steps succeed and
// the new session is committed, or the existing session is left untouched.
// A PersistenceError is returned with the profile when only the durable write failed.
func (m *Manager) Login(ctx context.Context, email, password string) (*api.User, error) {
	req := api.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := m.client.Login(ctx, req)
	if err != nil {
		return nil, loginError(err)
	}

	profile, err := m.client.WithAuthorizer(api.StaticToken(resp.Token)).GetUser(ctx, resp.UserID)
	if err != nil {
		return nil, loginError(err)
	}

	stored := persisted{Token: resp.Token, UserID: resp.UserID}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = newSession(stored, profile)
	m.profile = profile

	m.log.WithField("user_id", resp.UserID).Info("logged in")

	if err := m.store.Set(ctx, storage.KeySession, stored); err != nil {
		return copyUser(profile), &apperrors.PersistenceError{Op: "write", Key: storage.KeySession, Err: err}
	}
	if err := m.store.Set(ctx, storage.KeyUser, profile); err != nil {
		return copyUser(profile), &apperrors.PersistenceError{Op: "write", Key: storage.KeyUser, Err: err}
	}
	return copyUser(profile), nil
}

// Logout clears the session from memory and storage. It is idempotent and
// leaves the cart alone.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Authenticated() {
		m.log.WithField("user_id", m.session.UserID).Info("logged out")
	}
	return m.clearLocked(ctx)
}

// Signup creates an account without logging in
func (m *Manager) Signup(ctx context.Context, req api.SignupRequest) (*api.User, error) {
	return m.client.Signup(ctx, req)
}

// RequestPasswordReset asks for a reset email. Success and unknown-account
// answers both yield GenericResetMessage.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	_, err := m.client.ForgotPassword(ctx, email)
	if code, ok := api.StatusCode(err); ok && code == http.StatusNotFound {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return GenericResetMessage, nil
}

// ResetPassword sets a new password with a token from the reset email
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := m.client.ResetPassword(ctx, api.ResetPasswordRequest{Token: token, NewPassword: newPassword})
	return err
}

// UpdateProfile updates the signed-in user and refreshes the cached profile
func (m *Manager) UpdateProfile(ctx context.Context, req api.UpdateUserRequest) (*api.User, error) {
	current := m.Current()
	if !current.Authenticated() {
		return nil, &apperrors.AuthenticationError{Reason: apperrors.ReasonNotAuthenticated, Message: "update profile: not authenticated"}
	}

	if err := m.client.UpdateUser(ctx, current.UserID, req); err != nil {
		return nil, err
	}
	fresh, err := m.client.GetUser(ctx, current.UserID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.UserID != current.UserID {
		// Logged out or switched users while the update was in flight
		return copyUser(fresh), nil
	}
	m.profile = fresh
	m.session.DisplayName = fresh.DisplayName()
	if err := m.store.Set(ctx, storage.KeyUser, fresh); err != nil {
		return copyUser(fresh), &apperrors.PersistenceError{Op: "write", Key: storage.KeyUser, Err: err}
	}
	return copyUser(fresh), nil
}

func (m *Manager) setSession(s Session, profile *api.User) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.profile = profile
	return s
}

func (m *Manager) clearLocked(ctx context.Context) error {
	m.session = Session{}
	m.profile = nil

	if err := m.store.Delete(ctx, storage.KeySession); err != nil {
		return &apperrors.PersistenceError{Op: "delete", Key: storage.KeySession, Err: err}
	}
	if err := m.store.Delete(ctx, storage.KeyUser); err != nil {
		return &apperrors.PersistenceError{Op: "delete", Key: storage.KeyUser, Err: err}
	}
	return nil
}

func (m *Manager) discardPersisted(ctx context.Context) {
	if err := m.store.Delete(ctx, storage.KeySession); err != nil {
		m.log.WithError(err).Warn("failed to remove persisted session")
	}
	if err := m.store.Delete(ctx, storage.KeyUser); err != nil {
		m.log.WithError(err).Warn("failed to remove cached profile")
	}
}

func newSession(p persisted, profile *api.User) Session {
	s := Session{UserID: p.UserID, Token: p.Token}
	if profile != nil {
		s.DisplayName = profile.DisplayName()
	}
	return s
}

func bearer(token string) string {
	return "Bearer " + token
}

func copyUser(u *api.User) *api.User {
	c := *u
	return &c
}

// rejected reports a definitive refusal of a stored credential
func rejected(err error) bool {
	var authErr *apperrors.AuthenticationError
	if errors.As(err, &authErr) && authErr.Reason == apperrors.ReasonSessionExpired {
		return true
	}
	code, ok := api.StatusCode(err)
	return ok && (code == http.StatusUnauthorized || code == http.StatusForbidden || code == http.StatusNotFound)
}

// loginError maps a failed login step onto the two user-facing outcomes
func loginError(err error) error {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return err
	}

	reason := apperrors.ReasonUnavailable
	var authErr *apperrors.AuthenticationError
	if errors.As(err, &authErr) {
		reason = apperrors.ReasonInvalidCredentials
	} else if code, ok := api.StatusCode(err); ok && code >= 400 && code < 500 {
		reason = apperrors.ReasonInvalidCredentials
	}
	return &apperrors.AuthenticationError{Reason: reason, Message: "login failed", Err: err}
}
