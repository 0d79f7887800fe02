package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/repository"
	"github.com/zenops/zen-ops-console/internal/session"
	"github.com/zenops/zen-ops-console/pkg/apiclient"
	"github.com/zenops/zen-ops-console/pkg/config"
	"github.com/zenops/zen-ops-console/pkg/logger"
	"github.com/zenops/zen-ops-console/pkg/storage"
)

// app is the per-invocation wiring: one file-backed session and one API client.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *session.KVStore
	api    *apiclient.Client
	out    outputFormat
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}
	if opts.SessionDir != "" {
		cfg.Session.Dir = opts.SessionDir
	}
	if opts.Timeout > 0 {
		cfg.API.Timeout = opts.Timeout
	}
	out, err := parseOutput(opts.Output)
	if err != nil {
		return nil, err
	}

	log := logger.NewCLI(opts.Verbose)
	local, err := storage.NewLocalStorage(cfg.Session.Dir)
	if err != nil {
		return nil, err
	}
	store := session.NewKVStore(local, log)

	api := apiclient.New(apiclient.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		SlashPaths: cfg.API.SlashPaths,
		Logger:     log,
	}, session.ContextSource{})

	return &app{cfg: cfg, logger: log, store: store, api: api, out: out}, nil
}

// context binds the CLI session so services resolve the actor the same way the gateway does.
func (a *app) context(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return session.WithStore(parent, a.store)
}

func (a *app) authRepo() *repository.AuthRepository {
	return repository.NewAuthRepository(a.api)
}

func (a *app) close() {
	_ = a.logger.Sync()
}
