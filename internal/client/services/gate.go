package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/chyrp/internal/client/client"
	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/client/views"
	"github.com/dmitrijs2005/chyrp/internal/logging"
)

// GateState is the session lifecycle as seen by this process.
type GateState int

const (
	Anonymous GateState = iota
	Authenticating
	Authenticated
	Expired
)

func (s GateState) String() string {
	switch s {
	case Anonymous:
		return "ANONYMOUS"
	case Authenticating:
		return "AUTHENTICATING"
	case Authenticated:
		return "AUTHENTICATED"
	case Expired:
		return "EXPIRED"
	default:
		return fmt.Sprintf("GateState(%d)", int(s))
	}
}

var ErrLoginInProgress = errors.New("login already in progress")

// Outcome says whether a protected view may be shown.
type Outcome int

const (
	Render Outcome = iota
	Redirect
)

// Decision is the answer to Enter. Session is a private copy and is nil on
// Redirect.
type Decision struct {
	Outcome Outcome
	Session *models.Session
}

// Gate decides access to protected views and owns every session transition.
// It is safe for concurrent use; upload goroutines may report authorization
// failures while the user navigates.
type Gate struct {
	client client.Client
	store  SessionStore
	log    logging.Logger

	mu             sync.Mutex
	state          GateState
	profileFetched bool
	onRedirect     func()
}

var _ ExpiryChecker = (*Gate)(nil)

func NewGate(c client.Client, store SessionStore, log logging.Logger) *Gate {
	return &Gate{
		client: c,
		store:  store,
		log:    log.With("module", "gate"),
		state:  Anonymous,
	}
}

// OnRedirect registers fn to run whenever the session expires. fn runs
// synchronously on the goroutine that detected the expiry.
func (g *Gate) OnRedirect(fn func()) {
	g.mu.Lock()
	g.onRedirect = fn
	g.mu.Unlock()
}

func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Login exchanges credentials, fetches the profile with the new token and
// persists both. Nothing is saved unless every step succeeds; on failure the
// gate is back to Anonymous and err carries the server's detail.
func (g *Gate) Login(ctx context.Context, username, password string) (*models.Session, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	g.mu.Lock()
	if g.state == Authenticating {
		g.mu.Unlock()
		return nil, ErrLoginInProgress
	}
	g.state = Authenticating
	g.profileFetched = false
	g.mu.Unlock()

	sess, err := g.login(ctx, username, password)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = Anonymous
		g.log.Info(ctx, "login failed", "username", username, "error", err)
		return nil, err
	}
	g.state = Authenticated
	g.profileFetched = true
	g.log.Info(ctx, "logged in", "username", sess.Profile.Username)
	return sess.Clone(), nil
}

func (g *Gate) login(ctx context.Context, username, password string) (*models.Session, error) {
	tokens, err := g.client.Token(ctx, username, password)
	if err != nil {
		return nil, err
	}

	profile, err := g.client.Me(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Profile:      &profile,
	}
	if err := g.store.Save(ctx, *sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Enter decides whether view may render. Without a stored credential it
// redirects without any network call. The first entry in a process fetches
// the profile once; a failed fetch expires the session.
func (g *Gate) Enter(ctx context.Context, view views.State) (Decision, error) {
	sess, err := g.store.Current(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("load session: %w", err)
	}

	if !sess.Authenticated() {
		g.mu.Lock()
		g.state = Anonymous
		g.profileFetched = false
		g.mu.Unlock()
		g.log.Debug(ctx, "redirect", "view", view, "reason", "no session")
		return Decision{Outcome: Redirect}, nil
	}

	g.mu.Lock()
	fetched := g.profileFetched
	g.mu.Unlock()

	if !fetched {
		profile, err := g.client.Me(ctx, sess.AccessToken)
		if err != nil {
			g.log.Warn(ctx, "profile fetch failed", "view", view, "error", err)
			g.Expire(ctx)
			return Decision{Outcome: Redirect}, nil
		}
		if err := g.store.UpdateProfile(ctx, profile); err != nil {
			return Decision{}, fmt.Errorf("cache profile: %w", err)
		}
		sess.Profile = &profile

		g.mu.Lock()
		g.profileFetched = true
		g.mu.Unlock()
	}

	g.mu.Lock()
	g.state = Authenticated
	g.mu.Unlock()

	return Decision{Outcome: Render, Session: sess.Clone()}, nil
}

// Check expires the session when err is an authorization failure and
// returns err unchanged either way.
func (g *Gate) Check(ctx context.Context, err error) error {
	if err != nil && errors.Is(err, client.ErrUnauthorized) {
		g.Expire(ctx)
	}
	return err
}

// Expire runs EXPIRED -> ANONYMOUS: the stored session is cleared and the
// redirect callback fires before Expire returns.
func (g *Gate) Expire(ctx context.Context) {
	g.mu.Lock()
	g.state = Expired
	g.profileFetched = false

	if err := g.store.Clear(ctx); err != nil {
		g.log.Error(ctx, "clear expired session", "error", err)
	}

	g.state = Anonymous
	redirect := g.onRedirect
	g.mu.Unlock()

	g.log.Info(ctx, "session expired")
	if redirect != nil {
		redirect()
	}
}

// Logout tells the server to revoke the credential and always clears the
// local session. A remote failure is only logged.
func (g *Gate) Logout(ctx context.Context) error {
	sess, err := g.store.Current(ctx)
	if err != nil {
		g.log.Warn(ctx, "load session on logout", "error", err)
	}

	if sess.Authenticated() {
		if err := g.client.Logout(ctx, sess.AccessToken); err != nil {
			g.log.Warn(ctx, "remote logout failed", "error", err)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Anonymous
	g.profileFetched = false

	if err := g.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Register validates the form locally and creates the account.
func (g *Gate) Register(ctx context.Context, u models.NewUser) (models.Profile, error) {
	if err := ValidateNewUser(u); err != nil {
		return models.Profile{}, err
	}

	p, err := g.client.CreateUser(ctx, u)
	if err != nil {
		return models.Profile{}, err
	}
	g.log.Info(ctx, "registered", "username", p.Username)
	return p, nil
}
