package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/photoalbum/internal/admincli"
	"github.com/dmitrijs2005/photoalbum/internal/dbx"
	"github.com/dmitrijs2005/photoalbum/internal/flagx"
	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server/config"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/repomanager"
)

func main() {

	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "-h" {
		fmt.Fprintln(os.Stderr, "Usage: cli <reconcile|useradd|upload> [-env NAME] [-c FILE] [flags]")
		os.Exit(2)
	}
	name, args := os.Args[1], os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(flagx.FilterArgs(args, config.FlagNames()), os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)
	m := repomanager.NewPostgresRepositoryManager()

	db, err := admincli.Connect(ctx, cfg, m)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	app := admincli.NewApp(cfg, dbx.Static{DB: db}, m, logger, os.Stdin, os.Stdout)
	if err := app.Run(ctx, name, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		db.Close()
		os.Exit(1)
	}

}
