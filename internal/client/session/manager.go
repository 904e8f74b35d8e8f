package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/authsession/internal/client/client"
	"github.com/dmitrijs2005/authsession/internal/client/models"
	"github.com/dmitrijs2005/authsession/internal/client/tokencodec"
	"github.com/dmitrijs2005/authsession/internal/client/tokenstore"
	"github.com/dmitrijs2005/authsession/internal/logging"
)

var (
	// ErrNoToken is returned when a successful login carried no token.
	ErrNoToken = errors.New("login response carries no access token")

	// ErrSessionCleared is returned by RefreshProfile when the session was
	// cleared while the profile was in flight; the profile is discarded.
	ErrSessionCleared = errors.New("session cleared during profile refresh")
)

type Manager struct {
	api   client.Client
	store tokenstore.Store
	state *Observable[State]
	log   logging.Logger
	now   func() time.Time

	wg sync.WaitGroup
}

type Option func(*Manager)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(api client.Client, store tokenstore.Store, opts ...Option) *Manager {
	m := &Manager{
		api:   api,
		store: store,
		state: NewObservable(cleared(), State.Equal),
		log:   logging.Discard(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// State returns the current session state.
func (m *Manager) State() State {
	return m.state.Get()
}

// Subscribe calls fn with the current state and then with every published
// state until ctx is done or the returned function is called.
func (m *Manager) Subscribe(ctx context.Context, fn func(State)) (unsubscribe func()) {
	return m.state.Subscribe(ctx, fn)
}

// Wait blocks until background profile refreshes have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) background(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		fn(ctx)
	}()
}

// tokenExpiry reads the stored token and decodes its expiry. ok is false
// when no token is stored.
func (m *Manager) tokenExpiry(ctx context.Context) (exp time.Time, ok bool, err error) {
	tok, err := m.store.Read(ctx)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read token: %w", err)
	}
	if tok == "" {
		return time.Time{}, false, nil
	}
	exp, err = tokencodec.DecodeExpiry(tok)
	return exp, true, err
}

// Bootstrap derives the initial state from the stored token. A usable token
// makes the session authenticated at once and loads the profile in the
// background; if that load fails for any reason the session is cleared.
func (m *Manager) Bootstrap(ctx context.Context) error {
	exp, ok, err := m.tokenExpiry(ctx)
	switch {
	case !ok && err != nil:
		m.state.Set(cleared())
		return err
	case !ok:
		m.log.Debug(ctx, "no stored token")
		m.state.Set(cleared())
		return nil
	case err != nil:
		m.log.Info(ctx, "stored token is unreadable, clearing session", "error", err)
		return m.reset(ctx)
	case !exp.After(m.now()):
		m.log.Info(ctx, "stored token has expired, clearing session", "expired_at", exp)
		return m.reset(ctx)
	}

	m.state.Set(authenticated(nil))
	m.background(ctx, func(ctx context.Context) {
		if _, err := m.RefreshProfile(ctx); err != nil {
			m.log.Warn(ctx, "profile refresh after restore failed", "error", err)
			m.HandleUnauthorized(ctx)
		}
	})
	return nil
}

// reset removes the token and publishes the cleared state even when it is
// already current, so a fresh process always announces where it stands.
func (m *Manager) reset(ctx context.Context) error {
	err := m.store.Remove(ctx)
	m.state.Set(cleared())
	if err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Login exchanges creds for a token. On success the token is stored, the
// session becomes authenticated and the profile is loaded in the background.
// On failure the session is left as it was.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, client.NewValidationError(err)
	}

	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		m.log.Debug(ctx, "login rejected", "email", creds.Email, "error", err)
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrNoToken
	}

	ctx = context.WithoutCancel(ctx)
	if err := m.store.Save(ctx, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	m.log.Info(ctx, "logged in", "email", creds.Email, "token", logging.Redact(resp.AccessToken))

	m.state.Set(authenticated(nil))
	m.background(ctx, func(ctx context.Context) {
		if _, err := m.RefreshProfile(ctx); err != nil {
			m.log.Warn(ctx, "profile refresh after login failed", "error", err)
		}
	})
	return resp, nil
}

// Register creates an account. It never touches the session.
func (m *Manager) Register(ctx context.Context, data models.RegistrationData) (*models.UserSummary, error) {
	if err := data.Validate(); err != nil {
		return nil, client.NewValidationError(err)
	}

	u, err := m.api.Register(ctx, data)
	if err != nil {
		return nil, err
	}
	m.log.Info(ctx, "registered", "username", u.Username)
	return u, nil
}

// RefreshProfile loads the profile and publishes it, unless the session was
// cleared while the request was in flight. A 401 clears the session before
// the error is returned.
func (m *Manager) RefreshProfile(ctx context.Context) (*models.Profile, error) {
	p, err := m.api.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			m.HandleUnauthorized(ctx)
		}
		return nil, err
	}
	if !p.Role.Valid() {
		m.log.Warn(ctx, "profile has an unknown role", "user_id", p.UserID, "role", p.Role)
	}

	tok, err := m.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if tok == "" {
		m.log.Debug(ctx, "discarding profile, session was cleared meanwhile", "user_id", p.UserID)
		return nil, ErrSessionCleared
	}

	published := m.state.Update(func(cur State) (State, bool) {
		return authenticated(p), cur.IsAuthenticated
	})
	if !published {
		m.log.Debug(ctx, "discarding profile, session was cleared meanwhile", "user_id", p.UserID)
		return nil, ErrSessionCleared
	}
	return p, nil
}

// Logout tells the server and clears the session whatever the server says.
// The server's error, if any, is returned.
func (m *Manager) Logout(ctx context.Context) (*models.LogoutResponse, error) {
	resp, err := m.api.Logout(ctx)
	if err != nil {
		m.log.Warn(ctx, "server logout failed, clearing locally", "error", err)
	}
	if cerr := m.ClearSession(context.WithoutCancel(ctx)); cerr != nil && err == nil {
		return resp, cerr
	}
	return resp, err
}

// LogoutLocal clears the session without contacting the server.
func (m *Manager) LogoutLocal(ctx context.Context) error {
	return m.ClearSession(ctx)
}

// IsAuthenticated checks the stored token right now. An unreadable or
// expired token is purged on the spot.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	exp, ok, err := m.tokenExpiry(ctx)
	if !ok {
		if err != nil {
			m.log.Warn(ctx, "token check failed", "error", err)
		}
		return false
	}
	if err != nil || !exp.After(m.now()) {
		if cerr := m.ClearSession(ctx); cerr != nil {
			m.log.Warn(ctx, "clear session failed", "error", cerr)
		}
		return false
	}
	return true
}

// HandleUnauthorized is the reaction to the server rejecting the token.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	if err := m.ClearSession(ctx); err != nil {
		m.log.Error(ctx, "clear session after 401 failed", "error", err)
	}
}

// ClearSession removes the token and publishes the cleared state. It is
// idempotent: concurrent callers publish the transition once.
func (m *Manager) ClearSession(ctx context.Context) error {
	err := m.store.Remove(ctx)
	if m.state.Transition(cleared()) {
		m.log.Info(ctx, "session cleared")
	}
	if err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// CurrentUser returns a copy of the loaded profile, or nil.
func (m *Manager) CurrentUser() *models.Profile {
	p := m.state.Get().CurrentUser
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// HasRole reports whether the loaded profile has role.
func (m *Manager) HasRole(role models.Role) bool {
	p := m.state.Get().CurrentUser
	return p != nil && p.Role == role
}

func (m *Manager) IsAdmin() bool {
	return m.HasRole(models.RoleAdmin)
}

// Token returns the stored token, "" when there is none.
func (m *Manager) Token(ctx context.Context) (string, error) {
	return m.store.Read(ctx)
}

// AdminData fetches the admin-only resource. Authorization failures are
// handled by the request authorizer like any other call.
func (m *Manager) AdminData(ctx context.Context) (*models.AdminResponse, error) {
	return m.api.Admin(ctx)
}
