package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/chyrp/internal/logging"
	"github.com/dmitrijs2005/chyrp/internal/server"
	"github.com/dmitrijs2005/chyrp/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
