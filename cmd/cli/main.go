package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/cli"
	"github.com/dmitrijs2005/penaltybox/internal/client/config"
	"github.com/dmitrijs2005/penaltybox/internal/client/session"
	"github.com/dmitrijs2005/penaltybox/internal/client/storage"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewConsoleLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	db, err := storage.Open(ctx, cfg.StatePath)
	if err != nil {
		log.Fatalf("open state %s: %v", cfg.StatePath, err)
	}
	defer db.Close()

	store := session.NewSQLiteStore(db)
	client := api.NewHTTPClient(cfg.APIBaseURL, store,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
	sess := session.New(store, client, logger)
	client.OnUnauthorized(sess.HandleUnauthorized)

	logger.Debug(ctx, "starting", "api", cfg.APIBaseURL, "state", cfg.StatePath)

	app := cli.NewApp(sess, client, logger, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
