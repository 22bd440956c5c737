package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"bookoracle/internal/cli"
	"bookoracle/internal/config"
	"bookoracle/internal/util"
	"bookoracle/pkg/api"
	"bookoracle/pkg/explore"
	"bookoracle/pkg/saved"
	"bookoracle/pkg/session"
)

func main() {
	path := os.Getenv("BOOKORACLE_CONFIG")
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		log.Fatalf("failed to parse request timeout: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	if err := os.MkdirAll(filepath.Dir(cfg.SessionPath), 0o700); err != nil {
		log.Fatalf("failed to prepare session directory: %v", err)
	}
	sessions, err := session.OpenSQLite(cfg.SessionPath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer sessions.Close()

	client := api.New(api.Config{
		BaseURL:  cfg.APIBaseURL,
		Sessions: sessions,
		Timeout:  timeout,
		Logger:   logger,
	})

	app := cli.NewApp(cli.Config{
		Client:   client,
		Sessions: sessions,
		Explore:  explore.NewController(client, explore.DefaultPageSize),
		Saved:    saved.NewMutator(client, sessions, logger),
	})
	app.Run(context.Background())
}
