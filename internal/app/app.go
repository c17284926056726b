package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/routewatch/internal/config"
	"github.com/five82/routewatch/internal/filter"
	"github.com/five82/routewatch/internal/flags"
	"github.com/five82/routewatch/internal/fleet"
	"github.com/five82/routewatch/internal/logging"
	"github.com/five82/routewatch/internal/poll"
	"github.com/five82/routewatch/internal/prefs"
	"github.com/five82/routewatch/internal/route"
	"github.com/five82/routewatch/internal/selection"
	"github.com/five82/routewatch/internal/state"
	"github.com/five82/routewatch/internal/ui"
)

// Options configure the routewatch application.
type Options struct {
	ConfigPath string
	Version    string
}

// Run boots the console until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// stdout belongs to the console, so logs go to the file.
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	kv := openPrefs(ctx, cfg.Prefs, logger)
	defer func() { _ = kv.Close() }()

	client, err := newClient(cfg, opts.Version, logger)
	if err != nil {
		return err
	}

	routes := state.NewRoutesStore()
	list := newListScheduler(client, routes, cfg, logger, 0)
	defer list.Stop(false)

	details := func(slug string) (ui.Poller, *state.Store[route.Route]) {
		store := state.NewRouteStore()
		return newRouteScheduler(client, slug, store, cfg, logger, 0), store
	}

	logger.Info("console starting", zap.String("api_url", cfg.APIURL), zap.String("prefs", cfg.Prefs.Backend))
	err = ui.Run(ui.Options{
		Context:   ctx,
		Routes:    routes,
		List:      list,
		Details:   details,
		Filters:   filter.New(ctx, kv, logger),
		Flags:     &flags.Store{},
		Selection: &selection.Tracker{},
		Prefs:     kv,
		Logger:    logger,
		APIURL:    cfg.APIURL,
		LogFile:   cfg.LogFile,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// openPrefs opens the configured backend. A backend that cannot be opened
// is logged and replaced by an in-memory store so the console still starts.
func openPrefs(ctx context.Context, opts prefs.Options, logger *zap.Logger) prefs.Store {
	kv, err := prefs.Open(ctx, opts)
	if err != nil {
		logger.Warn("prefs unavailable, using memory", zap.String("backend", opts.Backend), zap.Error(err))
		return prefs.NewMemory()
	}
	return kv
}

func newClient(cfg config.Config, version string, logger *zap.Logger) (*fleet.Client, error) {
	if version == "" {
		version = "dev"
	}
	client, err := fleet.NewClient(cfg.APIURL, fleet.Options{
		Token:     cfg.APIToken,
		UserAgent: "routewatch/" + version,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init fleet client: %w", err)
	}
	return client, nil
}

// newListScheduler polls the route collection. A positive interval
// replaces both configured intervals.
func newListScheduler(f fleet.Fetcher, sink poll.Sink[[]route.Route], cfg config.Config, logger *zap.Logger, interval time.Duration) *poll.Scheduler[[]route.Route] {
	focus, blur := intervals(cfg, interval)
	return poll.New[[]route.Route](f.FetchRoutes, sink, poll.Options[[]route.Route]{
		Name:          "routes",
		FocusInterval: focus,
		BlurInterval:  blur,
		Logger:        logger.Named("poll"),
	})
}

// newRouteScheduler polls one route and halts once it reaches a terminal
// status.
func newRouteScheduler(f fleet.Fetcher, slug string, sink poll.Sink[route.Route], cfg config.Config, logger *zap.Logger, interval time.Duration) *poll.Scheduler[route.Route] {
	focus, blur := intervals(cfg, interval)
	fetch := func(ctx context.Context) (route.Route, error) {
		return f.FetchRoute(ctx, slug)
	}
	return poll.New[route.Route](fetch, sink, poll.Options[route.Route]{
		Name:          "route",
		FocusInterval: focus,
		BlurInterval:  blur,
		Terminal:      func(r route.Route) bool { return r.Status.Terminal() },
		Logger:        logger.Named("poll").With(zap.String("slug", slug)),
	})
}

func intervals(cfg config.Config, override time.Duration) (time.Duration, time.Duration) {
	if override > 0 {
		return override, override
	}
	return cfg.FocusInterval, cfg.BlurInterval
}
