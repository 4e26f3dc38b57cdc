package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server"
	"github.com/dmitrijs2005/photoalbum/internal/server/config"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		logger.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}

}
