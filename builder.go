package aslflow

import (
	"context"
	"fmt"

	"github.com/petrijr/aslflow/pkg/api"
)

// FlowBuilder provides a fluent API for defining state machines:
//
//	flow := aslflow.New("OnboardUser").
//	    Task("CreateAccount", "arn:aws:lambda:eu-west-1:123456789012:function:create").
//	    Wait("Settle", 30).
//	    Task("SendWelcomeEmail", "arn:aws:lambda:eu-west-1:123456789012:function:email").
//	    Succeed("Done")
//
//	doc, err := flow.Render()
//
// The first error raised while chaining is kept and returned by Render,
// Document and Publish; later calls are ignored.
type FlowBuilder struct {
	name  string
	chain api.Chain
	opts  []RenderOption
	err   error
}

// New creates a new flow builder with the given name.
func New(name string) *FlowBuilder {
	return &FlowBuilder{name: name}
}

// Name returns the flow name.
func (b *FlowBuilder) Name() string {
	return b.name
}

// Chain returns the chain built so far.
// Typically used when nesting the flow as a branch of another flow.
func (b *FlowBuilder) Chain() Chain {
	return b.chain
}

// Err returns the first error raised while chaining, if any.
func (b *FlowBuilder) Err() error {
	return b.err
}

// Then appends s (a state or a chain) to the flow.
func (b *FlowBuilder) Then(s Chainable) *FlowBuilder {
	if s == nil {
		panic(fmt.Sprintf("aslflow: flow %q: nil state", b.name))
	}
	if b.err != nil {
		return b
	}
	next, err := b.chain.Next(s)
	if err != nil {
		b.err = err
		return b
	}
	b.chain = next
	return b
}

// Pass appends a Pass state.
func (b *FlowBuilder) Pass(name string) *FlowBuilder {
	return b.Then(api.NewPass(name, api.PassProps{}))
}

// Task appends a Task state invoking resource.
func (b *FlowBuilder) Task(name, resource string) *FlowBuilder {
	return b.Then(api.NewTask(name, api.TaskProps{Resource: resource}))
}

// TaskWithRetry appends a Task state that retries according to retry.
func (b *FlowBuilder) TaskWithRetry(name, resource string, retry RetryBuilder) *FlowBuilder {
	task := api.NewTask(name, api.TaskProps{Resource: resource}).AddRetry(retry.Retrier())
	return b.Then(task)
}

// Wait appends a Wait state pausing for seconds.
func (b *FlowBuilder) Wait(name string, seconds int) *FlowBuilder {
	return b.Then(api.NewWait(name, api.WaitProps{Seconds: seconds}))
}

// Parallel appends a Parallel state running each branch.
func (b *FlowBuilder) Parallel(name string, branches ...Chainable) *FlowBuilder {
	p := api.NewParallel(name, api.ParallelProps{})
	for _, br := range branches {
		p.Branch(br)
	}
	return b.Then(p)
}

// Map appends a Map state running iterator for every item at itemsPath.
func (b *FlowBuilder) Map(name, itemsPath string, iterator Chainable) *FlowBuilder {
	return b.Then(api.NewMap(name, api.MapProps{ItemsPath: itemsPath}).Iterator(iterator))
}

// Succeed appends a Succeed state, closing the flow.
func (b *FlowBuilder) Succeed(name string) *FlowBuilder {
	return b.Then(api.NewSucceed(name, api.SucceedProps{}))
}

// Fail appends a Fail state with a static error and cause, closing the flow.
func (b *FlowBuilder) Fail(name, errorCode, cause string) *FlowBuilder {
	if b.err != nil {
		return b
	}
	f, err := api.NewFail(name, api.FailProps{Error: errorCode, Cause: cause})
	if err != nil {
		b.err = err
		return b
	}
	return b.Then(f)
}

// Include registers states that are reached only by name, such as catch
// handlers, in the flow's scope.
func (b *FlowBuilder) Include(states ...*State) *FlowBuilder {
	b.chain = b.chain.Include(states...)
	return b
}

// Comment sets the top-level comment of the rendered document.
func (b *FlowBuilder) Comment(comment string) *FlowBuilder {
	b.opts = append(b.opts, WithComment(comment))
	return b
}

// TimeoutSeconds sets the top-level timeout of the rendered document.
func (b *FlowBuilder) TimeoutSeconds(seconds int) *FlowBuilder {
	b.opts = append(b.opts, WithTimeoutSeconds(seconds))
	return b
}

// Document renders the flow.
func (b *FlowBuilder) Document(opts ...RenderOption) (*Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	return RenderDocument(b.chain, b.renderOptions(opts)...)
}

// Render renders the flow to compact JSON.
func (b *FlowBuilder) Render(opts ...RenderOption) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return Render(b.chain, b.renderOptions(opts)...)
}

// MustRender is like Render but panics on error.
func (b *FlowBuilder) MustRender(opts ...RenderOption) string {
	out, err := b.Render(opts...)
	if err != nil {
		panic(err)
	}
	return out
}

// Publish renders the flow and stores it through p under the flow name.
func (b *FlowBuilder) Publish(ctx context.Context, p *Publisher) (PublishResult, error) {
	if b.err != nil {
		return PublishResult{}, b.err
	}
	return p.Publish(ctx, b.name, b.chain, b.opts...)
}

func (b *FlowBuilder) renderOptions(extra []RenderOption) []RenderOption {
	opts := make([]RenderOption, 0, len(b.opts)+len(extra)+1)
	opts = append(opts, WithWorkflowName(b.name))
	opts = append(opts, b.opts...)
	return append(opts, extra...)
}
