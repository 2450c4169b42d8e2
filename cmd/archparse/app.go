package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dusk-indust/archparse/internal/batch"
	"github.com/dusk-indust/archparse/internal/config"
	"github.com/dusk-indust/archparse/internal/engine"
	"github.com/dusk-indust/archparse/internal/grammar"
	"github.com/dusk-indust/archparse/internal/logging"
	"github.com/dusk-indust/archparse/internal/registry"
	"github.com/dusk-indust/archparse/internal/service"
	"github.com/dusk-indust/archparse/internal/walk"
)

// app is the wired parser stack shared by the subcommands.
type app struct {
	cfg *config.Config
	log *zap.Logger
	svc *service.Service
}

// newApp loads configuration and builds the service. onProgress may be nil.
func newApp(flags *globalFlags, onProgress func(batch.ProgressEvent)) (*app, error) {
	cfg, err := config.Load(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(grammar.Builtin(grammar.Options{TextLimit: cfg.TextLimit})...)
	if err != nil {
		return nil, err
	}
	eng := engine.New(reg, engine.Options{StrictSyntax: cfg.StrictSyntax})
	orch := batch.New(eng, batch.Options{
		Workers:    cfg.Workers,
		QueueSize:  cfg.QueueSize,
		OnProgress: onProgress,
	}, log)

	return &app{
		cfg: cfg,
		log: log,
		svc: service.New(eng, orch, log),
	}, nil
}

// walkOptions are the configured directory filters.
func (a *app) walkOptions() walk.Options {
	return walk.Options{ExcludeDirs: a.cfg.ExcludeDirs}
}

func (a *app) close() {
	_ = a.log.Sync()
}
