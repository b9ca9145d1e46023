// Package app is the composition root of the scatter plot. It owns the
// load state and the hover state and turns them into rendered charts.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/penguin-scatter/internal/chart"
	"github.com/couchcryptid/penguin-scatter/internal/domain"
	"github.com/couchcryptid/penguin-scatter/internal/observability"
)

// LoadingIndicator is shown in place of the chart until the dataset arrives.
const LoadingIndicator = "Loading..."

// ErrorIndicator prefixes the message shown when the dataset failed to load.
const ErrorIndicator = "Failed to load data"

// hoverQueueSize bounds the hover events waiting to be published.
const hoverQueueSize = 256

// publishTimeout bounds a single hover event publish.
const publishTimeout = 5 * time.Second

// DatasetLoader produces a fresh dataset.
type DatasetLoader interface {
	Fetch(ctx context.Context) (domain.Dataset, error)
}

// HoverPublisher forwards hover transitions to downstream consumers.
type HoverPublisher interface {
	Publish(ctx context.Context, ev domain.HoverEvent) error
}

// App holds the chart state. All methods are safe for concurrent use.
type App struct {
	loader    DatasetLoader
	publisher HoverPublisher
	layout    chart.Layout
	accessors chart.Accessors

	load    atomic.Pointer[domain.LoadState]
	hover   atomic.Pointer[domain.HoverState]
	version atomic.Uint64
	loadMu  sync.Mutex
	hoverMu sync.Mutex

	cache   *renderCache
	renders singleflight.Group
	events  chan domain.HoverEvent

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures an App.
type Option func(*App)

// WithPublisher sends every hover transition to p.
func WithPublisher(p HoverPublisher) Option {
	return func(a *App) { a.publisher = p }
}

// WithLayout overrides the default chart layout.
func WithLayout(l chart.Layout) Option {
	return func(a *App) { a.layout = l }
}

// WithCacheSize sets how many rendered charts are kept.
func WithCacheSize(n int) Option {
	return func(a *App) { a.cache = newRenderCache(n) }
}

// New creates an App in the loading state with nothing hovered.
func New(loader DatasetLoader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *App {
	a := &App{
		loader:    loader,
		layout:    chart.DefaultLayout(),
		accessors: chart.DefaultAccessors(),
		cache:     newRenderCache(64),
		events:    make(chan domain.HoverEvent, hoverQueueSize),
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(a)
	}
	loading := domain.LoadingState()
	idle := domain.Idle
	a.load.Store(&loading)
	a.hover.Store(&idle)
	return a
}

// Run loads the dataset once and then publishes hover events until ctx
// is cancelled. A failed load is logged and leaves the app in the failed
// state; it does not stop Run.
func (a *App) Run(ctx context.Context) error {
	if err := a.Load(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error("initial dataset load failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("app stopping", "reason", ctx.Err())
			return nil
		case ev := <-a.events:
			a.publish(ctx, ev)
		}
	}
}

// Load fetches the dataset and replaces the current one. Concurrent
// calls are serialised. When a reload fails after a successful load the
// previous dataset stays in place.
func (a *App) Load(ctx context.Context) error {
	a.loadMu.Lock()
	defer a.loadMu.Unlock()

	ds, err := a.loader.Fetch(ctx)
	if err != nil {
		if a.State().Phase == domain.Ready {
			a.logger.Warn("dataset reload failed, keeping previous dataset", "error", err)
			return err
		}
		failed := domain.FailedState(err)
		a.load.Store(&failed)
		a.metrics.DatasetReady.Set(0)
		return err
	}

	ds.Version = a.version.Add(1)
	ready := domain.ReadyState(ds)
	a.load.Store(&ready)

	a.metrics.DatasetReady.Set(1)
	a.metrics.RowsLoaded.Set(float64(ds.Report.Accepted))
	a.metrics.RowsRejected.Set(float64(ds.Report.Rejected))
	a.logger.Info("dataset loaded",
		"source", ds.Report.Source,
		"version", ds.Version,
		"rows", ds.Report.Accepted,
		"rejected", ds.Report.Rejected,
	)
	for _, r := range ds.Report.Rejections {
		a.logger.Debug("row rejected", "line", r.Line, "reason", r.Reason)
	}
	return nil
}

// State returns the current load state.
func (a *App) State() domain.LoadState { return *a.load.Load() }

// HoverState returns the current hover state.
func (a *App) HoverState() domain.HoverState { return *a.hover.Load() }

// CheckReadiness returns nil once a dataset has been loaded.
func (a *App) CheckReadiness(_ context.Context) error {
	_, err := a.State().Rows()
	return err
}

// Hover focuses category. An empty category behaves like Unhover.
func (a *App) Hover(category string) domain.HoverState {
	return a.transition(func(h domain.HoverState) domain.HoverState { return h.Enter(category) })
}

// Unhover clears the focused category.
func (a *App) Unhover() domain.HoverState {
	return a.transition(domain.HoverState.Exit)
}

// transition applies f to the hover state. Repeating a transition that
// changes nothing records no event. Transitions are serialised with
// their events, so the queue holds events in transition order.
func (a *App) transition(f func(domain.HoverState) domain.HoverState) domain.HoverState {
	a.hoverMu.Lock()
	defer a.hoverMu.Unlock()

	cur := *a.hover.Load()
	next := f(cur)
	if next == cur {
		return next
	}
	a.hover.Store(&next)

	ev := domain.NewHoverEvent(cur, next)
	a.metrics.HoverTransitions.WithLabelValues(ev.Kind).Inc()
	a.logger.Debug("hover", "from", cur.String(), "to", next.String())
	a.enqueue(ev)
	return next
}

func (a *App) enqueue(ev domain.HoverEvent) {
	if a.publisher == nil {
		return
	}
	select {
	case a.events <- ev:
	default:
		a.metrics.HoverEvents.WithLabelValues("dropped").Inc()
		a.logger.Warn("hover event queue full, dropping event", "kind", ev.Kind, "category", ev.Category)
	}
}

func (a *App) publish(ctx context.Context, ev domain.HoverEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.publisher.Publish(ctx, ev); err != nil {
		a.metrics.HoverEvents.WithLabelValues("error").Inc()
		a.logger.Warn("publish hover event failed", "error", err, "kind", ev.Kind)
		return
	}
	a.metrics.HoverEvents.WithLabelValues("published").Inc()
}

// SVG returns the chart for the current dataset and hover state as a
// standalone SVG document. It fails with domain.ErrNotLoaded until a
// dataset is available. The returned slice must not be modified.
func (a *App) SVG() ([]byte, error) {
	state := a.State()
	rows, err := state.Rows()
	if err != nil {
		return nil, err
	}
	hover := a.HoverState()
	key := fmt.Sprintf("%d|%s", state.Dataset.Version, hover)

	if b, ok := a.cache.get(key); ok {
		a.metrics.RenderCache.WithLabelValues("hit").Inc()
		return b, nil
	}
	a.metrics.RenderCache.WithLabelValues("miss").Inc()

	v, err, _ := a.renders.Do(key, func() (any, error) {
		start := time.Now()
		var buf bytes.Buffer
		p := chart.Build(rows, hover, a.accessors, a.layout)
		if err := p.WriteSVG(&buf); err != nil {
			return nil, fmt.Errorf("render chart: %w", err)
		}
		a.metrics.RenderDuration.Observe(time.Since(start).Seconds())
		b := buf.Bytes()
		a.cache.put(key, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Render writes the HTML fragment for the chart area: the loading
// indicator, the error indicator, or the inline SVG.
func (a *App) Render(w io.Writer) error {
	b, err := a.SVG()
	switch {
	case err == nil:
		_, err = w.Write(inlineSVG(b))
		return err
	case errors.Is(err, domain.ErrNotLoaded):
		state := a.State()
		msg := LoadingIndicator
		if state.Phase == domain.Failed {
			msg = ErrorIndicator + ": " + state.Err.Error()
		}
		_, err = io.WriteString(w, "<pre>"+html.EscapeString(msg)+"</pre>")
		return err
	default:
		return err
	}
}

// inlineSVG strips the XML prolog so the document can sit inside HTML.
func inlineSVG(b []byte) []byte {
	if i := bytes.Index(b, []byte("<svg")); i > 0 {
		return b[i:]
	}
	return b
}
