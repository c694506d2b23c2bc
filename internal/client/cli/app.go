package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumefit/internal/client/analysis"
	"github.com/dmitrijs2005/resumefit/internal/client/client"
	"github.com/dmitrijs2005/resumefit/internal/client/config"
	"github.com/dmitrijs2005/resumefit/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/resumefit/internal/client/session"
	"github.com/dmitrijs2005/resumefit/internal/client/ui"
	"github.com/dmitrijs2005/resumefit/internal/filex"
	"github.com/dmitrijs2005/resumefit/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config   *config.Config
	log      logging.Logger
	api      client.Client
	db       *sql.DB
	session  *session.Manager
	workflow *analysis.Workflow
	reader   *bufio.Reader

	// outMu serializes writes from the REPL, the notifier and the watcher.
	outMu sync.Mutex
	out   io.Writer

	mu     sync.Mutex
	mode   Mode
	screen ui.Route
}

// NewApp wires the HTTP client, the credential store and both state machines
// for an interactive session on stdin/stdout.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	api, err := client.NewHTTPClient(c.ServerBaseURL, &http.Client{Timeout: c.RequestTimeout})
	if err != nil {
		return nil, err
	}

	store, db, err := openStore(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	a := newApp(c, log, api, store, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, api client.Client, store credentials.Repository, in io.Reader, out io.Writer) *App {
	a := &App{
		config: c,
		log:    log,
		api:    api,
		reader: bufio.NewReader(in),
		out:    out,
	}
	a.session = session.NewManager(api, store, a, a, log)
	a.workflow = analysis.NewWorkflow(api, a.session, a, log, analysis.ProgressConfig{
		Interval: c.ProgressInterval,
		Step:     c.ProgressStep,
		Cap:      c.ProgressCap,
	})
	return a
}

// openStore returns the SQLite-backed credential store, or an in-memory one
// when path is empty.
func openStore(ctx context.Context, path string) (credentials.Repository, *sql.DB, error) {
	if path == "" {
		return credentials.NewMemoryRepository(), nil, nil
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, nil, err
	}
	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return credentials.NewSQLiteRepository(db), db, nil
}

// Run restores any persisted session, starts the connectivity watcher and
// serves the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Welcome to resumefit CLI (type 'help' for commands)")

	go a.session.Bootstrap(ctx)
	select {
	case <-a.session.Ready():
	case <-ctx.Done():
		return
	}

	if a.session.IsAuthenticated() {
		a.Navigate(ctx, ui.RouteDashboard)
	} else {
		a.Navigate(ctx, ui.RouteSignIn)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	a.workflow.Reset()
	if err := a.api.Close(); err != nil {
		a.log.Warn(context.Background(), "error closing api client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "error closing database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) Screen() ui.Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.println(fmt.Sprintf("Switched to %s mode", mode))
	}
}

// StartOnlineStatusWatcher pings the service every interval and flips the
// mode between online and offline. It blocks until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(pingCtx)
	cancel()

	if err != nil {
		a.log.Debug(ctx, "health check failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// getStatus renders the prompt decoration, e.g. "(Ann online)".
func (a *App) getStatus() string {
	s := ""
	if id := a.session.Identity(); id != nil {
		s = id.Name + " "
	}
	if m := a.Mode(); m != ModeUnknown {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Notify prints a notification; App is the ui.Notifier of both state machines.
func (a *App) Notify(_ context.Context, n ui.Notification) {
	a.println(fmt.Sprintf("[%s] %s: %s", n.Kind, n.Title, n.Message))
}

// Navigate records the current screen; App is the session's ui.Navigator.
func (a *App) Navigate(_ context.Context, to ui.Route) {
	a.mu.Lock()
	changed := a.screen != to
	a.screen = to
	a.mu.Unlock()

	if !changed {
		return
	}
	switch to {
	case ui.RouteSignIn:
		a.println("Please sign in: use 'login', or 'register' to create an account")
	case ui.RouteDashboard:
		a.println("Dashboard: use 'analyze' to check a resume against a job")
	}
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}
