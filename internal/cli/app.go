package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/amterp/trellis/internal/config"
	"github.com/amterp/trellis/internal/editor"
	"github.com/amterp/trellis/internal/logger"
	"github.com/amterp/trellis/internal/prompt"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/transport"
)

// App holds all the dependencies for the CLI.
type App struct {
	ConfigStore config.Store
	Config      *config.Config
	Session     *session.Session
	Prompter    prompt.Prompter
	Editor      *editor.Editor
	Log         zerolog.Logger
	Out         io.Writer
}

// NewApp loads the config and builds a session. The session is attached
// only when credentials are configured.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(interactive bool) (*App, error) {
	store := config.NewFileStore(config.ConfigPath())
	cfg, err := loadConfig(store)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Output: cfg.Log.Output})
	if err != nil {
		return nil, err
	}

	sess, err := newSession(cfg, log)
	if err != nil {
		return nil, err
	}

	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	return &App{
		ConfigStore: store,
		Config:      cfg,
		Session:     sess,
		Prompter:    prompter,
		Editor:      editor.NewEditor(cfg.Editor),
		Log:         log,
		Out:         os.Stdout,
	}, nil
}

func loadConfig(store config.Store) (*config.Config, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(config.DotenvPaths(store.Path())...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSession(cfg *config.Config, log zerolog.Logger) (*session.Session, error) {
	freshness, err := cfg.FreshnessDuration()
	if err != nil {
		return nil, err
	}
	policy, err := session.ParseStalePolicy(cfg.Cache.StalePolicy)
	if err != nil {
		return nil, err
	}

	opts := session.Options{
		Freshness: freshness,
		Policy:    policy,
		Logger:    log,
	}
	if cfg.HasCredentials() {
		opts.Transport = newTransport(cfg, log)
	}
	return session.New(opts), nil
}

func newTransport(cfg *config.Config, log zerolog.Logger) transport.Transport {
	return transport.NewHTTP(transport.HTTPConfig{
		BaseURL: cfg.Service.BaseURL,
		Key:     cfg.Service.Key,
		Token:   cfg.Service.Token,
	}, log)
}

// RequireCredentials ensures a key and token are configured.
func (a *App) RequireCredentials() error {
	return a.Config.RequireCredentials(a.ConfigStore.Path())
}

// Reload re-reads the config and re-attaches the session with the current
// credentials. Entities already handed out keep working against the new
// transport. Cache settings only take effect on restart.
func (a *App) Reload() error {
	cfg, err := loadConfig(a.ConfigStore)
	if err != nil {
		return err
	}
	a.Config = cfg
	if !cfg.HasCredentials() {
		a.Session.Detach()
		return nil
	}
	a.Session.Attach(newTransport(cfg, a.Log))
	return nil
}

// Fatal prints an error and exits.
func Fatal(err error) {
	PrintError("%v", err)
	os.Exit(1)
}

// mustApp builds an App or exits.
func mustApp(interactive bool) *App {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(fmt.Errorf("loading config: %w", err))
	}
	return app
}
