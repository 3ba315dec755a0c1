package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

//
// Helpers
//

// testObserver is a simple Observer implementation used to verify fan-out behavior.
type testObserver struct {
	mu sync.Mutex

	starts    int
	completes int
	fails     int
	states    int
	stored    int

	lastWorkflow string
	lastState    string
	lastKind     Kind
	lastErr      error
	lastCount    int
	lastRevision string
	lastChanged  bool
}

func (o *testObserver) OnRenderStart(ctx context.Context, workflow string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts++
	o.lastWorkflow = workflow
}

func (o *testObserver) OnStateRendered(ctx context.Context, workflow, scope, state string, kind Kind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states++
	o.lastState = state
	o.lastKind = kind
}

func (o *testObserver) OnRenderCompleted(ctx context.Context, workflow string, states int, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completes++
	o.lastCount = states
}

func (o *testObserver) OnRenderFailed(ctx context.Context, workflow string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fails++
	o.lastErr = err
}

func (o *testObserver) OnDefinitionStored(ctx context.Context, workflow, revision string, changed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stored++
	o.lastRevision = revision
	o.lastChanged = changed
}

// recordingHandler is a minimal slog.Handler that just records log records.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Copy to avoid reuse issues.
	cpy := slog.Record{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		cpy.AddAttrs(a)
		return true
	})
	h.records = append(h.records, cpy)
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Not needed for tests; just return itself.
	return h
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	// Not needed for tests.
	return h
}

func attrsToMap(r slog.Record) map[string]any {
	m := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

//
// NoopObserver
//

func TestNoopObserver_DoesNotPanic(t *testing.T) {
	ctx := context.Background()
	var o Observer = NoopObserver{}

	// These calls should simply not panic.
	o.OnRenderStart(ctx, "wf")
	o.OnStateRendered(ctx, "wf", "", "A", KindPass)
	o.OnRenderCompleted(ctx, "wf", 1, time.Millisecond)
	o.OnRenderFailed(ctx, "wf", errors.New("boom"))
	o.OnDefinitionStored(ctx, "wf", "rev", true)
}

//
// CompositeObserver
//

func TestNewCompositeObserver_EmptyReturnsNoop(t *testing.T) {
	o := NewCompositeObserver()
	if _, ok := o.(NoopObserver); !ok {
		t.Fatalf("expected NewCompositeObserver() to return NoopObserver, got %T", o)
	}
}

func TestNewCompositeObserver_SingleReturnsThatObserver(t *testing.T) {
	single := &testObserver{}
	o := NewCompositeObserver(single, nil) // include a nil to ensure it is filtered

	if got, ok := o.(*testObserver); !ok || got != single {
		t.Fatalf("expected the single non-nil observer to be returned, got %T (%p)", o, o)
	}
}

func TestCompositeObserver_ForwardsAllEvents(t *testing.T) {
	ctx := context.Background()

	o1 := &testObserver{}
	o2 := &testObserver{}
	co, ok := NewCompositeObserver(o1, o2).(*CompositeObserver)
	if !ok {
		t.Fatalf("expected *CompositeObserver")
	}

	boom := errors.New("boom")
	co.OnRenderStart(ctx, "wf")
	co.OnStateRendered(ctx, "wf", "P/0", "A", KindTask)
	co.OnRenderCompleted(ctx, "wf", 3, time.Millisecond)
	co.OnRenderFailed(ctx, "wf", boom)
	co.OnDefinitionStored(ctx, "wf", "rev-1", true)

	for i, o := range []*testObserver{o1, o2} {
		if o.starts != 1 || o.states != 1 || o.completes != 1 || o.fails != 1 || o.stored != 1 {
			t.Fatalf("observer %d: unexpected counts %+v", i, o)
		}
		if o.lastWorkflow != "wf" || o.lastState != "A" || o.lastKind != KindTask {
			t.Fatalf("observer %d: unexpected last values %+v", i, o)
		}
		if !errors.Is(o.lastErr, boom) || o.lastCount != 3 || o.lastRevision != "rev-1" || !o.lastChanged {
			t.Fatalf("observer %d: unexpected payloads %+v", i, o)
		}
	}
}

//
// LoggingObserver
//

func TestLoggingObserver_NilLoggerFallsBackToDefault(t *testing.T) {
	o := NewLoggingObserver(nil).(*LoggingObserver)
	if o.Logger == nil {
		t.Fatalf("expected default logger")
	}
}

func TestLoggingObserver_LogsRenderLifecycle(t *testing.T) {
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))
	ctx := context.Background()

	o.OnRenderStart(ctx, "wf")
	o.OnStateRendered(ctx, "wf", "", "A", KindChoice)
	o.OnRenderCompleted(ctx, "wf", 2, 5*time.Millisecond)
	o.OnRenderFailed(ctx, "wf", errors.New("boom"))
	o.OnDefinitionStored(ctx, "wf", "rev-9", false)

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(h.records))
	}

	wantMsgs := []string{"render_start", "state_rendered", "render_completed", "render_failed", "definition_stored"}
	for i, want := range wantMsgs {
		if h.records[i].Message != want {
			t.Fatalf("record %d: expected message %q, got %q", i, want, h.records[i].Message)
		}
	}

	stateAttrs := attrsToMap(h.records[1])
	if stateAttrs["state"] != "A" || stateAttrs["type"] != "Choice" {
		t.Fatalf("unexpected state_rendered attrs: %v", stateAttrs)
	}

	if h.records[3].Level != slog.LevelError {
		t.Fatalf("expected render_failed at error level, got %v", h.records[3].Level)
	}

	storedAttrs := attrsToMap(h.records[4])
	if storedAttrs["revision"] != "rev-9" || storedAttrs["changed"] != false {
		t.Fatalf("unexpected definition_stored attrs: %v", storedAttrs)
	}
}

//
// BasicMetrics
//

func TestBasicMetrics_Snapshot(t *testing.T) {
	ctx := context.Background()
	m := &BasicMetrics{}

	m.OnRenderStart(ctx, "wf")
	m.OnStateRendered(ctx, "wf", "", "A", KindPass)
	m.OnStateRendered(ctx, "wf", "", "B", KindSucceed)
	m.OnRenderCompleted(ctx, "wf", 2, 10*time.Millisecond)

	m.OnRenderStart(ctx, "wf")
	m.OnRenderCompleted(ctx, "wf", 2, 30*time.Millisecond)

	m.OnRenderStart(ctx, "bad")
	m.OnRenderFailed(ctx, "bad", errors.New("boom"))

	m.OnDefinitionStored(ctx, "wf", "rev-1", true)
	m.OnDefinitionStored(ctx, "wf", "rev-1", false)

	snap := m.Snapshot()
	if snap.RendersStarted != 3 || snap.RendersCompleted != 2 || snap.RendersFailed != 1 {
		t.Fatalf("unexpected render counters: %+v", snap)
	}
	if snap.StatesRendered != 2 {
		t.Fatalf("expected 2 states rendered, got %d", snap.StatesRendered)
	}
	if snap.DefinitionsStored != 1 {
		t.Fatalf("expected 1 stored definition, got %d", snap.DefinitionsStored)
	}
	if snap.AvgRenderDuration != 20*time.Millisecond {
		t.Fatalf("expected average 20ms, got %v", snap.AvgRenderDuration)
	}
}
