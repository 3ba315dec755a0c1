// Package render walks a state graph and serializes it to an Amazon States
// Language document.
//
// A render places every reachable state in an arena, groups arena slots
// into scopes (the top-level graph and one scope per branch), validates
// each scope and emits the states in discovery order. Rendering only reads
// the graph, so the same head may be rendered concurrently.
package render

import (
	"context"
	"strconv"
	"time"

	"github.com/petrijr/aslflow/pkg/api"
)

// Options controls a single render.
type Options struct {
	// Workflow names the graph in observer callbacks.
	Workflow string

	// Comment, TimeoutSeconds and Version are emitted as top-level fields
	// when set.
	Comment        string
	TimeoutSeconds int
	Version        string

	Observer api.Observer
	Context  context.Context
}

// Render walks the graph entered at head and returns its document.
func Render(head api.Chainable, opts Options) (*api.Document, error) {
	if opts.Observer == nil {
		opts.Observer = api.NoopObserver{}
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	r := &renderer{arena: newArena(), opts: opts}

	started := time.Now()
	opts.Observer.OnRenderStart(opts.Context, opts.Workflow)

	doc, err := r.render(head)
	if err != nil {
		opts.Observer.OnRenderFailed(opts.Context, opts.Workflow, err)
		return nil, err
	}

	opts.Observer.OnRenderCompleted(opts.Context, opts.Workflow, len(r.arena.records), time.Since(started))
	return doc, nil
}

type renderer struct {
	arena *arena
	opts  Options
}

func (r *renderer) render(head api.Chainable) (*api.Document, error) {
	graph, err := r.renderScope(head, "")
	if err != nil {
		return nil, err
	}

	root := api.NewObject()
	if r.opts.Comment != "" {
		root.Set("Comment", r.opts.Comment)
	}
	for pair := graph.Oldest(); pair != nil; pair = pair.Next() {
		root.Set(pair.Key, pair.Value)
	}
	if r.opts.TimeoutSeconds > 0 {
		root.Set("TimeoutSeconds", r.opts.TimeoutSeconds)
	}
	if r.opts.Version != "" {
		root.Set("Version", r.opts.Version)
	}
	return api.NewDocument(root), nil
}

// renderScope discovers, names, validates and emits one scope as
// {"StartAt": ..., "States": {...}}.
func (r *renderer) renderScope(head api.Chainable, path string) (*api.Object, error) {
	if head == nil || head.StartState() == nil {
		return nil, api.NewConfigurationError(api.ErrNilState, "", "render head")
	}

	sc, err := r.arena.discover(head, path)
	if err != nil {
		return nil, err
	}
	if err := r.arena.assignNames(sc); err != nil {
		return nil, err
	}
	if err := r.arena.validateScope(sc); err != nil {
		return nil, err
	}

	states := api.NewObject()
	for _, idx := range sc.members {
		rec := r.arena.records[idx]
		rc := &scopeContext{r: r, scope: sc, owner: rec.name}
		obj, err := rec.state.Render(rc)
		if err != nil {
			return nil, err
		}
		states.Set(rec.name, obj)
		r.opts.Observer.OnStateRendered(r.opts.Context, r.opts.Workflow, sc.path, rec.name, rec.state.Kind())
	}

	out := api.NewObject()
	out.Set("StartAt", r.arena.records[sc.members[0]].name)
	out.Set("States", states)
	return out, nil
}

// scopeContext is the api.RenderContext of one state being rendered.
type scopeContext struct {
	r      *renderer
	scope  *scope
	owner  string
	branch int
}

func (c *scopeContext) NameOf(s *api.State) string {
	return c.r.arena.records[c.r.arena.index[s]].name
}

func (c *scopeContext) RenderBranch(head api.Chainable) (*api.Object, error) {
	path := c.owner + "/" + strconv.Itoa(c.branch)
	if c.scope.path != "" {
		path = c.scope.path + "/" + path
	}
	c.branch++
	return c.r.renderScope(head, path)
}
