// Package aslflow builds Amazon States Language (ASL) state machines in Go
// and renders them to deterministic JSON.
//
// State machines are assembled from typed states, linked with chains and
// rendered by walking the graph from its entry state. Rendering validates
// the graph first, so a document that renders is structurally valid ASL.
//
// # Core Concepts
//
// The programming model is small:
//
//  1. State
//  2. Chain
//  3. FlowBuilder
//  4. Render
//  5. Publisher
//
// # State
//
// A State is one node of the machine. The kinds are closed: Pass, Task,
// Choice, Wait, Succeed, Fail, Parallel, Map, and Custom for raw ASL
// fragments. Each kind has its own props struct:
//
//	charge := aslflow.NewTask("Charge", aslflow.TaskProps{
//	    Resource: "arn:aws:lambda:eu-west-1:123456789012:function:charge",
//	})
//
// Succeed and Fail states are terminal. Choice states route through rules
// built from conditions:
//
//	route := aslflow.NewChoice("Route", aslflow.ChoiceProps{}).
//	    When(aslflow.NumericGreaterThan("$.total", 100), review).
//	    Otherwise(charge)
//
// Parallel states own one or more branches; Map states own an iterator.
// Every branch is its own naming scope, so the same name may appear in two
// branches but never twice in one scope.
//
// # Chain
//
// A Chain is an immutable value with one entry and one open end. Next links
// the open end to the next fragment and returns a new chain:
//
//	c, err := aslflow.Start(validate).Next(charge)
//	c, err = c.Next(done)
//
// Extending a chain that ends in a terminal state fails.
//
// # FlowBuilder
//
// FlowBuilder wraps a chain in a fluent API for the common cases:
//
//	json, err := aslflow.New("Checkout").
//	    Task("Charge", chargeARN).
//	    Wait("Settle", 30).
//	    Succeed("Done").
//	    Render()
//
// # Render
//
// Render walks the graph, assigns names to unnamed states ("Pass",
// "Pass 2", ...), checks it and emits {"StartAt": ..., "States": {...}}.
// Keys are emitted in a fixed order and states in discovery order, so
// rendering the same graph twice yields byte-identical output. Every
// violation is reported as a *ConfigurationError naming the state and the
// rule; match rules with errors.Is.
//
// # Publisher
//
// A Publisher renders flows and stores each document as a new revision in
// a DefinitionStore, skipping documents identical to the latest revision.
// Stores exist for memory, SQLite, PostgreSQL, Redis and MongoDB.
//
// For examples, see the /examples directory.
package aslflow
