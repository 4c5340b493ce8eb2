// Package server runs the development auth server: the same in-memory user
// service exposed over the JSON HTTP API and over gRPC.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/multisession/internal/common"
	"github.com/dmitrijs2005/multisession/internal/logging"
	"github.com/dmitrijs2005/multisession/internal/server/config"
	"github.com/dmitrijs2005/multisession/internal/server/httpapi"
	"github.com/dmitrijs2005/multisession/internal/server/users"

	gs "github.com/dmitrijs2005/multisession/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
}

// NewApp builds the user service. An empty secret key is replaced by a random
// one, so tokens do not survive a restart.
func NewApp(c *config.Config) *App {
	logger := logging.New(c.LogLevel, os.Stdout)

	secret := c.SecretKey
	if secret == "" {
		var err error
		secret, err = common.MakeRandHexString(32)
		if err != nil {
			panic(err)
		}
		logger.Warn(context.Background(), "no secret key configured, using an ephemeral one")
	}

	us := users.NewService(users.NewMemoryRepository(), secret, c.AccessTokenValidityDuration)
	return &App{config: c, logger: logger, userService: us}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "err", err)
		cancelFunc()
	}
}

// Run serves both APIs until ctx is cancelled, a signal arrives, or either
// server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	servers := map[string]runner{
		"http": httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService),
		"grpc": gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService),
	}

	var wg sync.WaitGroup
	for name, r := range servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.start(ctx, cancelFunc, name, r)
		}()
	}

	wg.Wait()

}
