package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/arrshelf/internal/config"
	"github.com/vmunix/arrshelf/internal/importer"
	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/internal/logging"
	"github.com/vmunix/arrshelf/internal/metadata"
	"github.com/vmunix/arrshelf/internal/sidecar"
	"github.com/vmunix/arrshelf/internal/tmdb"
	"github.com/vmunix/arrshelf/pkg/tvdb"
)

type commandContext struct {
	configFlag *string
	debugFlag  *bool
}

func newCommandContext(configFlag *string, debugFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, debugFlag: debugFlag}
}

// configPath returns the --config flag or the discovered config file.
func (c *commandContext) configPath() (string, error) {
	if c.configFlag != nil {
		if p := strings.TrimSpace(*c.configFlag); p != "" {
			return p, nil
		}
	}
	return config.Discover()
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	path, err := c.configPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// app holds everything a command needs, built from the config.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	db        *sql.DB
	store     *library.Store
	resolver  *metadata.Resolver
	processor *importer.Processor
	logCloser io.Closer
}

// open loads the config, applies overrides and wires the stores, providers
// and processor. The caller must Close the app.
func (c *commandContext) open(overrides ...func(*config.Config)) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}

	debug := c.debugFlag != nil && *c.debugFlag
	log, logCloser, err := logging.NewFromConfig(cfg.Log, debug)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := library.Open(cfg.Database.Path)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	format, err := sidecar.Lookup(cfg.Library.Format)
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}

	store := library.NewStore(db)
	resolver := metadata.NewResolver(store, metadata.NewCache(db), tvProvider(cfg, log), movieProvider(cfg, log), log)
	history := importer.NewHistoryStore(db)

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		store:     store,
		resolver:  resolver,
		processor: importer.New(cfg.Importer(), store, resolver, history, format, log),
		logCloser: logCloser,
	}, nil
}

func (a *app) Close() error {
	err := a.db.Close()
	_ = a.logCloser.Close()
	return err
}

func tvProvider(cfg *config.Config, log *slog.Logger) metadata.TVProvider {
	if cfg.TVDB.APIKey == "" {
		return nil
	}
	opts := []tvdb.Option{tvdb.WithLogger(log)}
	if cfg.TVDB.BaseURL != "" {
		opts = append(opts, tvdb.WithBaseURL(cfg.TVDB.BaseURL))
	}
	return metadata.NewTVDB(tvdb.New(cfg.TVDB.APIKey, opts...), log)
}

func movieProvider(cfg *config.Config, log *slog.Logger) metadata.MovieProvider {
	if cfg.TMDB.APIKey == "" {
		return nil
	}
	opts := []tmdb.Option{tmdb.WithLogger(log), tmdb.WithCacheTTL(cfg.TMDB.CacheTTL.Duration)}
	if cfg.TMDB.BaseURL != "" {
		opts = append(opts, tmdb.WithBaseURL(cfg.TMDB.BaseURL))
	}
	return metadata.NewTMDB(tmdb.NewClient(cfg.TMDB.APIKey, opts...))
}
