package aslflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/petrijr/aslflow/internal/persistence"
	"github.com/petrijr/aslflow/pkg/api"
)

// DefaultPublishConcurrency bounds PublishAll when no limit is configured.
const DefaultPublishConcurrency = 4

// Publisher renders state machines and stores them as new revisions in a
// DefinitionStore. A document identical to the latest stored revision is
// not stored again.
//
// Typical usage:
//
//	pub := aslflow.NewPublisher(aslflow.NewInMemoryStore())
//	res, err := pub.Publish(ctx, "OrderFlow", chain)
//	if res.Changed { deploy(res.Definition.Document) }
//
// A Publisher is safe for concurrent use as long as the graphs it renders
// are no longer being built.
type Publisher struct {
	store       DefinitionStore
	observer    Observer
	renderOpts  []RenderOption
	concurrency int
	now         func() time.Time
	newRevision func() string
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublisherObserver reports render and store events to obs.
func WithPublisherObserver(obs Observer) PublisherOption {
	return func(p *Publisher) { p.observer = obs }
}

// WithRenderOptions applies opts to every render.
func WithRenderOptions(opts ...RenderOption) PublisherOption {
	return func(p *Publisher) { p.renderOpts = append(p.renderOpts, opts...) }
}

// WithConcurrency bounds how many flows PublishAll renders at once.
func WithConcurrency(n int) PublisherOption {
	return func(p *Publisher) { p.concurrency = n }
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) { p.now = now }
}

// WithRevisionFunc overrides how revision IDs are generated. The default
// is a random UUID.
func WithRevisionFunc(fn func() string) PublisherOption {
	return func(p *Publisher) { p.newRevision = fn }
}

// NewPublisher creates a Publisher writing to store.
func NewPublisher(store DefinitionStore, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:       store,
		observer:    api.NoopObserver{},
		concurrency: DefaultPublishConcurrency,
		now:         time.Now,
		newRevision: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.observer == nil {
		p.observer = api.NoopObserver{}
	}
	if p.concurrency <= 0 {
		p.concurrency = DefaultPublishConcurrency
	}
	return p
}

// PublishResult reports what Publish stored.
type PublishResult struct {
	// Definition is the stored revision: the new one, or the latest
	// existing one when the document did not change.
	Definition StoredDefinition
	// Changed is true when a new revision was written.
	Changed bool
}

// Publish renders head and stores the document as a new revision of name,
// unless it is byte-identical to the latest revision.
func (p *Publisher) Publish(ctx context.Context, name string, head Chainable, opts ...RenderOption) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}

	all := make([]RenderOption, 0, len(p.renderOpts)+len(opts)+3)
	all = append(all, p.renderOpts...)
	all = append(all, opts...)
	all = append(all, WithWorkflowName(name), WithObserver(p.observer), WithContext(ctx))

	doc, err := RenderDocument(head, all...)
	if err != nil {
		return PublishResult{}, err
	}
	body, err := doc.JSON()
	if err != nil {
		return PublishResult{}, err
	}
	fingerprint := api.FingerprintOf(body)

	latest, err := p.store.GetLatestDefinition(ctx, name)
	switch {
	case err == nil && latest.Fingerprint == fingerprint:
		p.observer.OnDefinitionStored(ctx, name, latest.Revision, false)
		return PublishResult{Definition: latest}, nil
	case err != nil && !errors.Is(err, persistence.ErrDefinitionNotFound):
		return PublishResult{}, err
	}

	def := StoredDefinition{
		Name:        name,
		Revision:    p.newRevision(),
		Fingerprint: fingerprint,
		Document:    body,
		CreatedAt:   p.now().UTC(),
	}
	if err := p.store.SaveDefinition(ctx, def); err != nil {
		return PublishResult{}, err
	}
	p.observer.OnDefinitionStored(ctx, name, def.Revision, true)
	return PublishResult{Definition: def, Changed: true}, nil
}

// PublishAll publishes every flow, rendering up to the configured
// concurrency at once. Results are ordered by flow name. The first error
// cancels the remaining work and is returned with the flow name.
func (p *Publisher) PublishAll(ctx context.Context, flows map[string]Chainable) ([]PublishResult, error) {
	names := make([]string, 0, len(flows))
	for name := range flows {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]PublishResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range names {
		g.Go(func() error {
			res, err := p.Publish(gctx, name, flows[name])
			if err != nil {
				return fmt.Errorf("publish %s: %w", name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
