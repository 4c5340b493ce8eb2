package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/multisession/internal/client/accounts"
	"github.com/dmitrijs2005/multisession/internal/client/client"
	"github.com/dmitrijs2005/multisession/internal/client/config"
	"github.com/dmitrijs2005/multisession/internal/client/guard"
	"github.com/dmitrijs2005/multisession/internal/client/services"
	"github.com/dmitrijs2005/multisession/internal/client/storage"
	"github.com/dmitrijs2005/multisession/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	store   storage.Backend
	client  client.Client
	session *services.SessionService
	guard   *guard.Guard

	reader *bufio.Reader
	out    io.Writer

	// route and path describe the page the user is on. path keeps the query
	// string so a pending login redirect survives until login.
	route guard.Route
	path  string

	unsubscribe func()
}

// NewApp opens storage and the API client described by c and wires the
// session service and guard on top of them.
func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	logger := logging.New(c.LogLevel, os.Stderr)

	store, err := storage.Open(ctx, c.StorageBackend, c.StoragePath)
	if err != nil {
		logger.Error(ctx, "error opening storage", "backend", c.StorageBackend, "path", c.StoragePath, "err", err)
		return nil, err
	}

	apiClient, err := newAPIClient(c)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return newApp(c, logger, store, apiClient, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newAPIClient(c *config.Config) (client.Client, error) {
	if c.Transport == config.TransportGRPC {
		gc, err := client.NewGRPCClient(c.GRPCAddr, c.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("grpc client: %w", err)
		}
		return gc, nil
	}
	return client.NewHTTPClient(c.ServerURL, c.RequestTimeout), nil
}

func newApp(c *config.Config, l logging.Logger, store storage.Backend, api client.Client, r *bufio.Reader, w io.Writer) *App {
	// With debug logging, notifications also go to the log next to the
	// registry events.
	var notifier services.Notifier = consoleNotifier()
	if logging.ParseLevel(c.LogLevel) <= slog.LevelDebug {
		notifier = services.Notifiers{notifier, services.NewLogNotifier(l)}
	}

	reg := accounts.NewRegistry(store, l)
	session := services.NewSessionService(api, reg, notifier, l)

	a := &App{
		config:  c,
		log:     l.With("component", "cli"),
		store:   store,
		client:  api,
		session: session,
		guard:   guard.New(guard.DefaultConfig(), guard.DefaultRoutes(), session),
		reader:  r,
		out:     w,
	}
	a.unsubscribe = session.Subscribe(func(ev accounts.Event) {
		a.log.Debug(context.Background(), "accounts changed", "kind", ev.Kind, "account", ev.AccountID, "current", ev.CurrentID)
	})
	return a
}

// consoleNotifier prints user-facing notifications on the terminal.
func consoleNotifier() services.Notifier {
	return services.NotifierFunc(func(level services.Level, message string) {
		switch level {
		case services.LevelError:
			printlnFn("Error:", message)
		case services.LevelWarning:
			printlnFn("Warning:", message)
		default:
			printlnFn(message)
		}
	})
}

// Run restores saved accounts, opens the start page and runs the REPL until
// the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.session.RestoreAuth(ctx)
	printlnFn("Multisession CLI (type 'help' for commands)")
	if n := len(a.session.Accounts()); n > 0 {
		printlnFn(fmt.Sprintf("%d saved account(s), current: %s", n, a.session.CurrentAccountID()))
	}
	_ = a.Goto(ctx, a.guard.Config().UserHome)

	runREPL(ctx, a, a.getStatus, lineScanner(a.reader))
}

// Close releases the API client and storage.
func (a *App) Close() {
	ctx := context.Background()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if err := a.client.Close(); err != nil {
		a.log.Warn(ctx, "close api client", "err", err)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn(ctx, "close storage", "err", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

func (a *App) getStatus() string {
	s := ""
	if p, ok := a.session.Profile(); ok {
		s = p.Username
		if p.Role != "" {
			s += "@" + string(p.Role)
		}
		s += " "
	}
	if a.path != "" {
		s += a.path
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
