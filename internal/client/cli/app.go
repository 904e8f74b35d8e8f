package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/authsession/internal/client/client"
	"github.com/dmitrijs2005/authsession/internal/client/config"
	"github.com/dmitrijs2005/authsession/internal/client/models"
	"github.com/dmitrijs2005/authsession/internal/client/session"
	"github.com/dmitrijs2005/authsession/internal/client/tokenstore"
	"github.com/dmitrijs2005/authsession/internal/client/transport"
	"github.com/dmitrijs2005/authsession/internal/logging"
)

// sessionService is the part of session.Manager the CLI drives.
type sessionService interface {
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Register(ctx context.Context, data models.RegistrationData) (*models.UserSummary, error)
	Logout(ctx context.Context) (*models.LogoutResponse, error)
	RefreshProfile(ctx context.Context) (*models.Profile, error)
	AdminData(ctx context.Context) (*models.AdminResponse, error)
	IsAuthenticated(ctx context.Context) bool
	Token(ctx context.Context) (string, error)
	State() session.State
	Subscribe(ctx context.Context, fn func(session.State)) func()
	Wait()
}

// savedAtReader is implemented by stores that know when the token was written.
type savedAtReader interface {
	SavedAt(ctx context.Context) (time.Time, bool, error)
}

type App struct {
	config  *config.Config
	session sessionService
	store   tokenstore.Store
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	closeStore func() error

	mu       sync.Mutex
	lastSeen session.State
}

// NewApp wires the client. A token store that cannot be opened degrades to
// tokenstore.Unavailable: the session then lives only as long as the process.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) *App {
	store, closeStore, err := tokenstore.Open(ctx, c.StoreOptions())
	if err != nil {
		log.Warn(ctx, "token store unavailable, session will not be persisted", "backend", c.StoreBackend, "error", err)
		store, closeStore = tokenstore.Unavailable{}, func() error { return nil }
	}

	authz := transport.NewAuthorizer(store, log, c.BaseURL)
	rt := transport.Chain(http.DefaultTransport, transport.RequestID(), authz.Wrap)
	api := client.NewHTTPClient(c.BaseURL, rt, c.RequestTimeout)

	mgr := session.NewManager(api, store, session.WithLogger(log))
	authz.OnUnauthorized(mgr)

	return &App{
		config:     c,
		session:    mgr,
		store:      store,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		closeStore: closeStore,
	}
}

// Run restores the previous session, then serves the REPL until the user
// leaves or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	unsubscribe := a.session.Subscribe(ctx, a.onStateChange)
	defer unsubscribe()

	if err := a.session.Bootstrap(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	}

	printlnFn("Welcome to the session CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close(ctx context.Context) {
	a.session.Wait()
	if a.closeStore == nil {
		return
	}
	if err := a.closeStore(); err != nil {
		a.log.Warn(ctx, "closing token store", "error", err)
	}
}

// onStateChange reports sign-in and sign-out, whatever caused them.
func (a *App) onStateChange(s session.State) {
	a.mu.Lock()
	prev := a.lastSeen
	a.lastSeen = s
	a.mu.Unlock()

	switch {
	case s.CurrentUser != nil && !prev.Equal(s):
		printlnFn(fmt.Sprintf("Signed in as %s (%s)", s.CurrentUser.Username, s.CurrentUser.Role))
	case prev.IsAuthenticated && !s.IsAuthenticated:
		printlnFn("Signed out")
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated
}

func (a *App) getStatus() string {
	st := a.session.State()
	switch {
	case st.CurrentUser != nil:
		return fmt.Sprintf("(%s %s)", st.CurrentUser.Username, st.CurrentUser.Role)
	case st.IsAuthenticated:
		return "(signed in)"
	default:
		return ""
	}
}
