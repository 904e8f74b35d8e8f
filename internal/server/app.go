// Package server wires and runs the development auth server: in-memory user
// and revocation repositories, the token manager, the user service and the
// HTTP API on top of them.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authsession/internal/logging"
	"github.com/dmitrijs2005/authsession/internal/server/auth"
	"github.com/dmitrijs2005/authsession/internal/server/config"
	"github.com/dmitrijs2005/authsession/internal/server/httpapi"
	"github.com/dmitrijs2005/authsession/internal/server/revocations"
	"github.com/dmitrijs2005/authsession/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      *logging.ZapLogger
	userService *users.Service
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.NewZapJSON(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	us := users.NewService(users.NewMemoryRepository(), revocations.NewMemoryRepository(), tokens, c)

	return &App{config: c, logger: logger, userService: us}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.Addr, app.logger, app.userService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.Addr, "admins", len(app.config.AdminEmails))

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	_ = app.logger.Sync()
}
