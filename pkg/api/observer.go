package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the renderer and the publisher for
// logging and metrics.
//
// Implementations should be fast; they run inline with rendering.
type Observer interface {
	// OnRenderStart is called once before a graph is walked.
	OnRenderStart(ctx context.Context, workflow string)

	// OnStateRendered is called after each state is rendered. scope is the
	// slash-separated path of the enclosing branch ("" for the top level).
	OnStateRendered(ctx context.Context, workflow, scope, state string, kind Kind)

	// OnRenderCompleted is called when a document has been produced.
	OnRenderCompleted(ctx context.Context, workflow string, states int, d time.Duration)

	// OnRenderFailed is called when rendering stops with a ConfigurationError.
	OnRenderFailed(ctx context.Context, workflow string, err error)

	// OnDefinitionStored is called after a publisher saved a document.
	// changed is false when the document matched the latest revision.
	OnDefinitionStored(ctx context.Context, workflow, revision string, changed bool)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnRenderStart(ctx context.Context, workflow string) {}
func (NoopObserver) OnStateRendered(ctx context.Context, workflow, scope, state string, kind Kind) {
}
func (NoopObserver) OnRenderCompleted(ctx context.Context, workflow string, states int, d time.Duration) {
}
func (NoopObserver) OnRenderFailed(ctx context.Context, workflow string, err error) {}
func (NoopObserver) OnDefinitionStored(ctx context.Context, workflow, revision string, changed bool) {
}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnRenderStart(ctx context.Context, workflow string) {
	for _, o := range c.observers {
		o.OnRenderStart(ctx, workflow)
	}
}

func (c *CompositeObserver) OnStateRendered(ctx context.Context, workflow, scope, state string, kind Kind) {
	for _, o := range c.observers {
		o.OnStateRendered(ctx, workflow, scope, state, kind)
	}
}

func (c *CompositeObserver) OnRenderCompleted(ctx context.Context, workflow string, states int, d time.Duration) {
	for _, o := range c.observers {
		o.OnRenderCompleted(ctx, workflow, states, d)
	}
}

func (c *CompositeObserver) OnRenderFailed(ctx context.Context, workflow string, err error) {
	for _, o := range c.observers {
		o.OnRenderFailed(ctx, workflow, err)
	}
}

func (c *CompositeObserver) OnDefinitionStored(ctx context.Context, workflow, revision string, changed bool) {
	for _, o := range c.observers {
		o.OnDefinitionStored(ctx, workflow, revision, changed)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs render and publish
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnRenderStart(ctx context.Context, workflow string) {
	o.Logger.DebugContext(ctx, "render_start",
		slog.String("workflow", workflow),
	)
}

func (o *LoggingObserver) OnStateRendered(ctx context.Context, workflow, scope, state string, kind Kind) {
	o.Logger.DebugContext(ctx, "state_rendered",
		slog.String("workflow", workflow),
		slog.String("scope", scope),
		slog.String("state", state),
		slog.String("type", kind.String()),
	)
}

func (o *LoggingObserver) OnRenderCompleted(ctx context.Context, workflow string, states int, d time.Duration) {
	o.Logger.InfoContext(ctx, "render_completed",
		slog.String("workflow", workflow),
		slog.Int("states", states),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnRenderFailed(ctx context.Context, workflow string, err error) {
	o.Logger.ErrorContext(ctx, "render_failed",
		slog.String("workflow", workflow),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnDefinitionStored(ctx context.Context, workflow, revision string, changed bool) {
	o.Logger.InfoContext(ctx, "definition_stored",
		slog.String("workflow", workflow),
		slog.String("revision", revision),
		slog.Bool("changed", changed),
	)
}

// BasicMetrics collects simple counters and aggregate render durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	rendersStarted    atomic.Int64
	rendersCompleted  atomic.Int64
	rendersFailed     atomic.Int64
	statesRendered    atomic.Int64
	definitionsStored atomic.Int64
	totalDuration     atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	RendersStarted    int64
	RendersCompleted  int64
	RendersFailed     int64
	StatesRendered    int64
	DefinitionsStored int64

	AvgRenderDuration time.Duration
}

func (m *BasicMetrics) OnRenderStart(ctx context.Context, workflow string) {
	m.rendersStarted.Add(1)
}

func (m *BasicMetrics) OnStateRendered(ctx context.Context, workflow, scope, state string, kind Kind) {
	m.statesRendered.Add(1)
}

func (m *BasicMetrics) OnRenderCompleted(ctx context.Context, workflow string, states int, d time.Duration) {
	m.rendersCompleted.Add(1)
	m.totalDuration.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnRenderFailed(ctx context.Context, workflow string, err error) {
	m.rendersFailed.Add(1)
}

func (m *BasicMetrics) OnDefinitionStored(ctx context.Context, workflow, revision string, changed bool) {
	if changed {
		m.definitionsStored.Add(1)
	}
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	completed := m.rendersCompleted.Load()
	totalNs := m.totalDuration.Load()

	var avg time.Duration
	if completed > 0 {
		avg = time.Duration(totalNs / completed)
	}

	return BasicMetricsSnapshot{
		RendersStarted:    m.rendersStarted.Load(),
		RendersCompleted:  completed,
		RendersFailed:     m.rendersFailed.Load(),
		StatesRendered:    m.statesRendered.Load(),
		DefinitionsStored: m.definitionsStored.Load(),
		AvgRenderDuration: avg,
	}
}
