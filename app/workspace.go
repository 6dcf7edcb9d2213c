package app

import (
	"context"
	"log/slog"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/dayplan/connectivity"
	"github.com/ayoisaiah/dayplan/internal/config"
	"github.com/ayoisaiah/dayplan/internal/logger"
	"github.com/ayoisaiah/dayplan/internal/pathutil"
	"github.com/ayoisaiah/dayplan/internal/session"
	"github.com/ayoisaiah/dayplan/planner"
	"github.com/ayoisaiah/dayplan/reconcile"
	"github.com/ayoisaiah/dayplan/remote"
	"github.com/ayoisaiah/dayplan/report"
	"github.com/ayoisaiah/dayplan/store"
)

// workspace wires the stores, connectivity signal, and reconciler for one
// invocation.
type workspace struct {
	cfg     *config.Config
	log     *slog.Logger
	cache   *store.Client
	sess    *session.Session
	signal  connectivity.Signal
	probe   *connectivity.Probe
	rec     *reconcile.Reconciler
	closers []func() error
}

// loadConfig reads the config file, running the first-run prompt if needed,
// and applies command-line flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if err := pathutil.Initialize(); err != nil {
		return nil, err
	}

	configPath := pathutil.ConfigFilePath()

	return config.New(
		config.WithSystemPaths(config.SystemConfig{
			ConfigPath:   configPath,
			DBPath:       pathutil.DBFilePath(),
			ServerDBPath: pathutil.ServerDBFilePath(),
			LogPath:      pathutil.LogFilePath(),
		}),
		config.WithPromptConfig(configPath),
		config.WithViperConfig(configPath),
		config.WithCLIConfig(ctx),
	)
}

// openLogger sets the default logger to the rotating log file.
func openLogger(cfg *config.Config) (*slog.Logger, func() error, error) {
	log, closeFn, err := logger.Open(logger.Options{
		Path:       cfg.System.LogPath,
		Level:      cfg.Log.Level,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.SetDefault(log)

	return log, closeFn, nil
}

func newRuntime(ctx *cli.Context) (*workspace, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	report.Notifications = cfg.Sync.Notify

	log, closeLog, err := openLogger(cfg)
	if err != nil {
		return nil, err
	}

	rt := &workspace{
		cfg:     cfg,
		log:     log,
		closers: []func() error{closeLog},
	}

	rt.cache, err = store.NewClient(cfg.System.DBPath, log)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	rt.closers = append(rt.closers, rt.cache.Close)

	rt.sess = session.New(cfg.User.ID, cfg.User.Token, report.SessionExpired)

	var rem reconcile.Remote

	if cfg.CLI.Offline {
		rt.signal = connectivity.NewSwitch(false)
	} else {
		rt.probe = connectivity.NewProbe(cfg.Remote.BaseURL, cfg.Remote.Timeout, log)
		rt.probe.Check(ctx.Context)
		rt.signal = rt.probe
		rem = remote.NewClient(cfg.Remote.BaseURL, rt.sess, cfg.Remote.Timeout)
	}

	opts := []reconcile.Option{
		reconcile.WithLogger(log),
		reconcile.WithDeferredResult(func(date string, status reconcile.Status, err error) {
			if cfg.CLI.JSON {
				return
			}

			pterm.Info.Printfln("Deferred save for %s finished", date)
			report.SaveOutcome(status, err)
		}),
	}

	if cfg.Sync.Cmd != "" {
		opts = append(opts, reconcile.WithSyncHook(syncCmdHook(cfg.Sync.Cmd, log)))
	}

	rt.rec = reconcile.New(rt.cache, rem, rt.sess, rt.signal, opts...)

	log.Debug(
		"runtime ready",
		slog.String("user", rt.sess.Key()),
		slog.String("date", cfg.CLI.Date),
		slog.Bool("online", rt.signal.Online()),
	)

	return rt, nil
}

// open loads the planner for the selected date.
func (rt *workspace) open(ctx context.Context) *planner.Planner {
	return planner.Open(ctx, rt.rec, rt.cfg.CLI.Date)
}

// Close releases resources in reverse order of acquisition.
func (rt *workspace) Close() error {
	if rt.rec != nil {
		rt.rec.Close()
	}

	var firstErr error

	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
