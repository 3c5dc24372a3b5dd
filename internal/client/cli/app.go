package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/chyrp/internal/client/client"
	"github.com/dmitrijs2005/chyrp/internal/client/config"
	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/client/services"
	"github.com/dmitrijs2005/chyrp/internal/client/session"
	"github.com/dmitrijs2005/chyrp/internal/client/views"
	"github.com/dmitrijs2005/chyrp/internal/filex"
	"github.com/dmitrijs2005/chyrp/internal/logging"
)

type App struct {
	config *config.Config
	db     *sql.DB
	log    logging.Logger

	gate      *services.Gate
	publisher *services.Publisher
	profiles  *services.ProfileService
	posts     *services.PostService

	views   *views.Machine
	draft   *models.Draft
	form    *views.ProfileForm
	expired bool

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the session database and connects the services to the
// server named in c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	path, err := filex.EnsureParentDir(c.SessionDBPath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("init session database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, log, client.WithUploadTimeout(c.UploadTimeout))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(c, db, api, log, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, db *sql.DB, api client.Client, log logging.Logger, in io.Reader, out io.Writer) *App {
	store := session.NewStore(db)
	gate := services.NewGate(api, store, log)

	var opts []services.UploadOption
	if c.CancelSiblingUploads {
		opts = append(opts, services.WithSiblingCancellation())
	}
	orch := services.NewOrchestrator(api, log, opts...)

	a := &App{
		config:    c,
		db:        db,
		log:       log.With("module", "cli"),
		gate:      gate,
		publisher: services.NewPublisher(orch, api, store, gate, log),
		profiles:  services.NewProfileService(api, store, gate, log),
		posts:     services.NewPostService(api, store, gate, log),
		views:     views.NewMachine(),
		reader:    bufio.NewReader(in),
		out:       out,
	}
	gate.OnRedirect(a.onExpired)
	return a
}

func (a *App) onExpired() {
	a.views.Reset()
	a.draft = nil
	a.form = nil
	a.expired = true
	a.println("Your session has expired. Please log in again.")
}

// Run resumes a stored session if there is one and serves commands until
// the input ends or the user exits. The caller closes the App afterwards.
func (a *App) Run(ctx context.Context) {
	a.println("Chyrp client (type 'help' for commands)")
	if d, err := a.gate.Enter(ctx, views.Dashboard); err == nil && d.Outcome == services.Render {
		a.views.Reset()
		a.printf("Welcome back, %s.\n", displayName(d.Session))
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.gate.State() == services.Authenticated
}

func (a *App) view() views.State {
	return a.views.State()
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "signed out"
	}
	return a.views.State().String()
}

// enter asks the gate whether view may be shown. It returns nil when the
// user has to log in first.
func (a *App) enter(ctx context.Context, view views.State) *models.Session {
	d, err := a.gate.Enter(ctx, view)
	if err != nil {
		a.fail(err)
		return nil
	}
	if d.Outcome == services.Redirect {
		a.views.Reset()
		if !a.expired {
			a.println("Please log in first.")
		}
		a.expired = false
		return nil
	}
	return d.Session
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail reports err to the user and returns it. Authorization failures
// were already announced by the expiry callback.
func (a *App) fail(err error) error {
	if a.expired {
		a.expired = false
		return err
	}
	a.println("Error:", userMessage(err))
	return err
}

func displayName(s *models.Session) string {
	if s == nil || s.Profile == nil {
		return "stranger"
	}
	if s.Profile.Name != "" {
		return s.Profile.Name
	}
	return s.Profile.Username
}
