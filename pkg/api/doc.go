// Package api contains the core building blocks of aslflow: states, chains,
// choice conditions, error handling clauses, rendered documents and the
// observer interface.
//
// Most users interact with the higher-level aslflow package, which
// re-exports the types and constructors of this package. The api package
// is intended for custom integrations and for the renderer itself.
//
// # States
//
// A State is a single node with a closed Kind. Transitions are set with
// Next and NextName; Choice states use When, WhenName and Otherwise. A
// transition may point at a *State, which the renderer discovers by walking
// the graph, or at a name, which is resolved inside the enclosing scope
// once every state has been named.
//
// Misuse that cannot be reported through a return value, such as adding a
// branch to a Task, is recorded on the state and returned when the graph
// is rendered.
//
// # Rendering
//
// State.Render emits the ASL fragment of one state through a
// RenderContext, which supplies the final names of referenced states and
// renders branches. Keys always come out in the same order, which is what
// makes a Document byte-stable.
//
// # Observability
//
// The Observer interface reports render and publish events. NoopObserver,
// LoggingObserver (log/slog), BasicMetrics and CompositeObserver are
// provided.
package api
