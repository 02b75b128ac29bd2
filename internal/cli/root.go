// Package cli wires trialscope together behind a cobra command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trialscope/internal/config"
	"trialscope/internal/eventbus"
	"trialscope/internal/fakebackend"
	"trialscope/internal/logging"
	"trialscope/internal/trials"
)

type options struct {
	backendURL string
	configPath string
	logFile    string
	logLevel   string
	demo       bool
}

// NewRootCommand builds the trialscope command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "trialscope",
		Short: "Search and browse clinical trials in the terminal",
		Long: `trialscope searches a clinical-trials backend and shows the results in a
tabbed terminal view: a dashboard summary, the trials table and the
interventions found.

The backend is taken from --backend-url, then $VITE_BACKEND_URL, then the
config file, then http://localhost:8000.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.backendURL, "backend-url", "", "backend base URL (overrides $"+config.BackendURLEnv+" and the config file)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default $"+config.ConfigPathEnv+" or <user config dir>/trialscope/config.toml)")
	flags.StringVar(&opts.logFile, "log-file", logging.DefaultFile, "log file; empty disables logging")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.demo, "demo", false, "serve built-in sample trials on a loopback port and search those")

	root.AddCommand(newFetchCommand(opts))
	return root
}

// Execute runs the root command until it finishes or the process is signalled
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// app holds the services shared by the commands
type app struct {
	logger  *zap.Logger
	bus     eventbus.EventBus
	cfgSvc  config.ConfigService
	cfg     *config.Config
	client  *trials.Client
	baseURL string
	closers []func()
}

// setup builds the logger, bus, config and trials client for opts
func setup(opts *options, getenv func(string) string) (*app, error) {
	logger, closeLog, err := logging.New(opts.logFile, opts.logLevel)
	if err != nil {
		return nil, err
	}
	a := &app{logger: logger}
	a.closers = append(a.closers, func() { _ = closeLog() })

	a.bus = eventbus.New(logger)
	a.closers = append(a.closers, a.bus.Close)

	a.bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ConfigSavedEvent); ok {
			logger.Debug("config saved", zap.String("path", event.Path))
		}
	})

	a.cfgSvc = config.NewConfigServiceWithBus(opts.configPath, a.bus)
	a.cfg, err = a.cfgSvc.Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", zap.String("path", a.cfgSvc.Path()), zap.Error(err))
		a.cfg = config.DefaultConfig()
	}

	a.baseURL = a.cfg.ResolveBackendURL(opts.backendURL, getenv)
	if opts.demo {
		srv := fakebackend.New(nil)
		url, shutdown, err := srv.Start("127.0.0.1:0")
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to start demo backend: %w", err)
		}
		a.closers = append(a.closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		})
		a.baseURL = url
		logger.Info("demo backend started", zap.String("url", url))
	}

	a.client, err = trials.New(trials.Options{
		BaseURL:         a.baseURL,
		Timeout:         a.cfg.RequestTimeout(),
		DetailCacheSize: a.cfg.Backend.DetailCacheSize,
		Logger:          logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("trialscope starting", zap.String("backend", a.client.BaseURL()), zap.String("config", a.cfgSvc.Path()))
	return a, nil
}

// Close releases everything setup created, last first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
