package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/routewatch/internal/config"
	"github.com/five82/routewatch/internal/fleet"
	"github.com/five82/routewatch/internal/logging"
	"github.com/five82/routewatch/internal/route"
	"github.com/five82/routewatch/internal/state"
)

// WatchOptions configure the headless watchers.
type WatchOptions struct {
	ConfigPath string
	// Interval replaces both configured poll intervals when positive.
	Interval time.Duration
	// Route, when set, is also polled on its own until it reaches a
	// terminal status.
	Route   string
	Version string
}

// Watch prints the sorted route list every time a new snapshot is
// published, until ctx is cancelled. With opts.Route set the route is
// watched alongside the list.
func Watch(ctx context.Context, opts WatchOptions, out io.Writer) error {
	w, cleanup, err := newWatcher(opts, out)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.Route == "" {
		return w.watchList(ctx)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.watchList(gctx) })
	g.Go(func() error { return w.watchRoute(gctx, opts.Route) })
	return g.Wait()
}

// WatchRoute prints one route every time it changes and returns once the
// route reaches a terminal status or ctx is cancelled.
func WatchRoute(ctx context.Context, opts WatchOptions, out io.Writer) error {
	if opts.Route == "" {
		return fmt.Errorf("route slug is required")
	}
	w, cleanup, err := newWatcher(opts, out)
	if err != nil {
		return err
	}
	defer cleanup()
	return w.watchRoute(ctx, opts.Route)
}

type watcher struct {
	fetcher  fleet.Fetcher
	cfg      config.Config
	logger   *zap.Logger
	out      io.Writer
	interval time.Duration
}

func newWatcher(opts WatchOptions, out io.Writer) (*watcher, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, logging.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	client, err := newClient(cfg, opts.Version, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	w := &watcher{
		fetcher:  client,
		cfg:      cfg,
		logger:   logger,
		out:      &syncWriter{w: out},
		interval: opts.Interval,
	}
	return w, func() { _ = logger.Sync() }, nil
}

func (w *watcher) watchList(ctx context.Context) error {
	sink := &reportSink[[]route.Route]{
		store: state.NewRoutesStore(),
		report: func(snap state.Snapshot[[]route.Route]) {
			w.print(formatRouteTable(route.Sorted(snap.Value, nil), snap.LastUpdated))
		},
	}
	sched := newListScheduler(w.fetcher, sink, w.cfg, w.logger, w.interval)
	defer sched.Stop(false)

	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func (w *watcher) watchRoute(ctx context.Context, slug string) error {
	done := make(chan struct{})
	var once sync.Once
	sink := &reportSink[route.Route]{
		store: state.NewRouteStore(),
		report: func(snap state.Snapshot[route.Route]) {
			w.print(formatRouteDetail(snap.Value, snap.LastUpdated))
			if snap.Value.Status.Terminal() {
				once.Do(func() { close(done) })
			}
		},
	}
	sched := newRouteScheduler(w.fetcher, slug, sink, w.cfg, w.logger, w.interval)
	defer sched.Stop(false)

	if err := sched.Start(ctx); err != nil {
		return err
	}
	select {
	case <-done:
		w.logger.Info("route reached terminal status", zap.String("slug", slug))
	case <-ctx.Done():
	}
	return nil
}

func (w *watcher) print(s string) {
	_, _ = io.WriteString(w.out, s+"\n")
}

// reportSink publishes into a store and reports each accepted snapshot.
type reportSink[T any] struct {
	store  *state.Store[T]
	report func(state.Snapshot[T])
}

func (s *reportSink[T]) Publish(session uint64, v T) bool {
	if !s.store.Publish(session, v) {
		return false
	}
	s.report(s.store.Snapshot())
	return true
}

func (s *reportSink[T]) Fail(err error) {
	s.store.Fail(err)
}

// syncWriter serializes writes from concurrent watchers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func formatRouteTable(routes []route.Route, at time.Time) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("REFERENCE", "STATUS", "CRIT", "VEHICLE", "PRODUCT", "DRIVER", "STOPS")
	for _, r := range routes {
		t.Row(
			r.Reference,
			string(r.Status),
			dash(string(r.Criticality)),
			dash(r.VehicleType),
			dash(r.Product),
			dash(driverName(r)),
			fmt.Sprintf("%d/%d", r.CompletedStops(), len(r.Stops)),
		)
	}
	return fmt.Sprintf("%s  %d routes\n%s", at.Format(time.TimeOnly), len(routes), t.String())
}

func formatRouteDetail(r route.Route, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s  %d/%d stops", at.Format(time.TimeOnly), r.Reference, r.Status, r.CompletedStops(), len(r.Stops))
	if name := driverName(r); name != "" {
		fmt.Fprintf(&b, "  driver %s", name)
	}
	if r.Status.Terminal() {
		b.WriteString("  final")
	}
	if len(r.Stops) == 0 {
		return b.String()
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STOP", "STATUS", "ADDRESS", "ARRIVED")
	for _, s := range r.Stops {
		arrived := "-"
		if s.ArrivedAt != nil {
			arrived = s.ArrivedAt.Local().Format(time.TimeOnly)
		}
		t.Row(s.ID, string(s.Status), dash(s.Address), arrived)
	}
	b.WriteString("\n")
	b.WriteString(t.String())
	return b.String()
}

func driverName(r route.Route) string {
	if r.Driver == nil {
		return ""
	}
	return r.Driver.Name
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
