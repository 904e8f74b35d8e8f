package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authsession/internal/client/cli"
	"github.com/dmitrijs2005/authsession/internal/client/config"
	"github.com/dmitrijs2005/authsession/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	cli.NewApp(ctx, cfg, logger).Run(ctx)

}
