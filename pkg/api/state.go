package api

import (
	"fmt"
)

// Common holds the fields shared by every state kind.
type Common struct {
	Comment    string
	InputPath  string
	OutputPath string
}

// PassProps configures a Pass state.
type PassProps struct {
	Common
	Result     any
	ResultPath string
	Parameters map[string]any
}

// TaskProps configures a Task state.
type TaskProps struct {
	Common
	Resource         string
	Parameters       map[string]any
	ResultPath       string
	ResultSelector   map[string]any
	TimeoutSeconds   int
	HeartbeatSeconds int
}

// ChoiceProps configures a Choice state. Rules are added with When.
type ChoiceProps struct {
	Common
}

// WaitProps configures a Wait state. Exactly one of the four fields must
// be set; Seconds counts as set when positive.
type WaitProps struct {
	Common
	Seconds       int
	SecondsPath   string
	Timestamp     string
	TimestampPath string
}

// SucceedProps configures a Succeed state.
type SucceedProps struct {
	Common
}

// FailProps configures a Fail state. Error and ErrorPath are mutually
// exclusive, as are Cause and CausePath.
type FailProps struct {
	Comment   string
	Error     string
	ErrorPath string
	Cause     string
	CausePath string
}

// ParallelProps configures a Parallel state. Branches are added with Branch.
type ParallelProps struct {
	Common
	Parameters     map[string]any
	ResultPath     string
	ResultSelector map[string]any
}

// MapProps configures a Map state. The iterator is set with Iterator.
type MapProps struct {
	Common
	ItemsPath      string
	MaxConcurrency int
	Parameters     map[string]any
	ResultPath     string
	ResultSelector map[string]any
}

// target is a transition destination. Exactly one of state or name is set:
// state targets are discovered by the walker, name targets are resolved
// inside the enclosing scope after discovery.
type target struct {
	state *State
	name  string
}

func (t target) isSet() bool {
	return t.state != nil || t.name != ""
}

// choiceRule is one ordered (condition, target) pair of a Choice state.
type choiceRule struct {
	cond Condition
	to   target
}

// catcher is a Catch clause: matched errors route to a handler state.
type catcher struct {
	props CatchProps
	to    target
}

// State is one node of a state machine. The set of kinds is closed; the
// kind-specific configuration lives in the props fields and only the one
// matching Kind is consulted.
//
// States are built by a single owner. Once construction is finished a
// state graph is only read, so it may be rendered from several goroutines.
type State struct {
	name string
	kind Kind

	next target
	end  bool

	pass     PassProps
	task     TaskProps
	choice   ChoiceProps
	wait     WaitProps
	succeed  SucceedProps
	fail     FailProps
	parallel ParallelProps
	mapping  MapProps
	custom   map[string]any

	rules    []choiceRule
	fallback target

	branches []Chainable

	retries  []Retrier
	catchers []catcher

	// buildErr records the first misuse of the fluent API; it is reported
	// when the graph is rendered.
	buildErr error
}

// NewPass creates a Pass state.
func NewPass(name string, props PassProps) *State {
	return &State{name: name, kind: KindPass, pass: props}
}

// NewTask creates a Task state.
func NewTask(name string, props TaskProps) *State {
	return &State{name: name, kind: KindTask, task: props}
}

// NewChoice creates a Choice state with no rules.
func NewChoice(name string, props ChoiceProps) *State {
	return &State{name: name, kind: KindChoice, choice: props}
}

// NewWait creates a Wait state.
func NewWait(name string, props WaitProps) *State {
	return &State{name: name, kind: KindWait, wait: props}
}

// NewSucceed creates a Succeed state.
func NewSucceed(name string, props SucceedProps) *State {
	return &State{name: name, kind: KindSucceed, succeed: props}
}

// NewFail creates a Fail state. Supplying both the static and the path
// form of Error or Cause is rejected.
func NewFail(name string, props FailProps) (*State, error) {
	if props.Error != "" && props.ErrorPath != "" {
		return nil, NewConfigurationError(ErrMutuallyExclusive, name, "Error, ErrorPath")
	}
	if props.Cause != "" && props.CausePath != "" {
		return nil, NewConfigurationError(ErrMutuallyExclusive, name, "Cause, CausePath")
	}
	return &State{name: name, kind: KindFail, fail: props}, nil
}

// NewParallel creates a Parallel state with no branches.
func NewParallel(name string, props ParallelProps) *State {
	return &State{name: name, kind: KindParallel, parallel: props}
}

// NewMap creates a Map state with no iterator.
func NewMap(name string, props MapProps) *State {
	return &State{name: name, kind: KindMap, mapping: props}
}

// NewCustom creates a state from a raw ASL fragment. The fragment must
// carry a "Type" and must not carry "Next" or "End"; transitions are added
// through the usual API. Keys are rendered in sorted order.
func NewCustom(name string, fragment map[string]any) *State {
	cp := make(map[string]any, len(fragment))
	for k, v := range fragment {
		cp[k] = v
	}
	return &State{name: name, kind: KindCustom, custom: cp}
}

// Name returns the caller-supplied name. It may be empty, in which case
// the renderer allocates one.
func (s *State) Name() string { return s.name }

// Kind returns the variant of the state.
func (s *State) Kind() Kind { return s.kind }

// Comment returns the state's comment, if any.
func (s *State) Comment() string {
	switch s.kind {
	case KindPass:
		return s.pass.Comment
	case KindTask:
		return s.task.Comment
	case KindChoice:
		return s.choice.Comment
	case KindWait:
		return s.wait.Comment
	case KindSucceed:
		return s.succeed.Comment
	case KindFail:
		return s.fail.Comment
	case KindParallel:
		return s.parallel.Comment
	case KindMap:
		return s.mapping.Comment
	}
	return ""
}

// IsTerminal reports whether the state has no outgoing transition: it is
// a Succeed or Fail state, or it was explicitly ended.
func (s *State) IsTerminal() bool {
	return s.kind.inherentlyTerminal() || s.end
}

// closed reports whether the state's transition has been finalized.
func (s *State) closed() bool {
	if s.kind == KindChoice {
		return s.fallback.isSet()
	}
	return s.IsTerminal() || s.next.isSet()
}

// Next links s to to. On a Choice state it sets the default branch. It
// fails if s is terminal or already transitions somewhere else; linking
// the same target twice is a no-op.
func (s *State) Next(to *State) error {
	if to == nil {
		return NewConfigurationError(ErrNilState, s.name, "Next")
	}
	return s.setNext(target{state: to})
}

// NextName links s to the state called name in the same scope.
func (s *State) NextName(name string) error {
	if name == "" {
		return NewConfigurationError(ErrDanglingReference, name, "empty Next name on "+s.describe())
	}
	return s.setNext(target{name: name})
}

func (s *State) setNext(t target) error {
	if s.IsTerminal() {
		return NewConfigurationError(ErrTerminatedChain, s.describe(), "")
	}
	slot := &s.next
	if s.kind == KindChoice {
		slot = &s.fallback
	} else if !s.kind.hasTransition() {
		return NewConfigurationError(ErrUnsupported, s.describe(), "Next on "+s.kind.String())
	}
	if slot.isSet() {
		if *slot == t {
			return nil
		}
		return NewConfigurationError(ErrTransitionConflict, s.describe(), "Next already set")
	}
	*slot = t
	return nil
}

// End marks s as terminal so that it renders "End": true.
func (s *State) End() error {
	if !s.kind.hasTransition() {
		if s.kind.inherentlyTerminal() {
			return nil
		}
		return NewConfigurationError(ErrUnsupported, s.describe(), "End on "+s.kind.String())
	}
	if s.next.isSet() {
		return NewConfigurationError(ErrTransitionConflict, s.describe(), "Next already set")
	}
	s.end = true
	return nil
}

// When appends a rule to a Choice state routing to to when cond holds.
// It returns s for fluent use; misuse is reported at render time.
func (s *State) When(cond Condition, to *State) *State {
	if to == nil {
		s.recordErr(NewConfigurationError(ErrNilState, s.name, "When"))
		return s
	}
	return s.addRule(cond, target{state: to})
}

// WhenName appends a rule routing to the state called name in the same scope.
func (s *State) WhenName(cond Condition, name string) *State {
	return s.addRule(cond, target{name: name})
}

func (s *State) addRule(cond Condition, t target) *State {
	if s.kind != KindChoice {
		s.recordErr(NewConfigurationError(ErrUnsupported, s.describe(), "When on "+s.kind.String()))
		return s
	}
	if cond == nil {
		s.recordErr(NewConfigurationError(ErrInvalidCondition, s.describe(), "nil condition"))
		return s
	}
	s.rules = append(s.rules, choiceRule{cond: cond, to: t})
	return s
}

// Otherwise sets the default of a Choice state.
func (s *State) Otherwise(to *State) *State {
	if s.kind != KindChoice {
		s.recordErr(NewConfigurationError(ErrUnsupported, s.describe(), "Otherwise on "+s.kind.String()))
		return s
	}
	if err := s.Next(to); err != nil {
		s.recordErr(err)
	}
	return s
}

// OtherwiseName sets the default of a Choice state by name.
func (s *State) OtherwiseName(name string) *State {
	if s.kind != KindChoice {
		s.recordErr(NewConfigurationError(ErrUnsupported, s.describe(), "Otherwise on "+s.kind.String()))
		return s
	}
	if err := s.NextName(name); err != nil {
		s.recordErr(err)
	}
	return s
}

// Branch appends a branch rooted at head to a Parallel state. Each branch
// is an independent naming scope. It returns s for fluent use.
func (s *State) Branch(head Chainable) *State {
	if s.kind != KindParallel {
		s.recordErr(NewConfigurationError(ErrUnsupported, s.describe(), "Branch on "+s.kind.String()))
		return s
	}
	if isNilChainable(head) {
		s.recordErr(NewConfigurationError(ErrNilState, s.describe(), "Branch"))
		return s
	}
	s.branches = append(s.branches, head)
	return s
}

// Iterator sets the sub-graph a Map state runs for every item.
func (s *State) Iterator(head Chainable) *State {
	if s.kind != KindMap {
		s.recordErr(NewConfigurationError(ErrUnsupported, s.describe(), "Iterator on "+s.kind.String()))
		return s
	}
	if isNilChainable(head) {
		s.recordErr(NewConfigurationError(ErrNilState, s.describe(), "Iterator"))
		return s
	}
	if len(s.branches) > 0 {
		s.recordErr(NewConfigurationError(ErrTransitionConflict, s.describe(), "Iterator already set"))
		return s
	}
	s.branches = append(s.branches, head)
	return s
}

// Branches returns the sub-graphs owned by a Parallel or Map state.
func (s *State) Branches() []Chainable {
	out := make([]Chainable, len(s.branches))
	copy(out, s.branches)
	return out
}

// AddRetry appends a retrier to a Task, Parallel, Map or Custom state.
func (s *State) AddRetry(r Retrier) *State {
	if !s.kind.supportsErrorHandling() {
		s.recordErr(NewConfigurationError(ErrUnsupported, s.describe(), "Retry on "+s.kind.String()))
		return s
	}
	s.retries = append(s.retries, r.withDefaults())
	return s
}

// AddCatch routes the errors matched by props to handler.
func (s *State) AddCatch(handler *State, props CatchProps) *State {
	if handler == nil {
		s.recordErr(NewConfigurationError(ErrNilState, s.describe(), "Catch"))
		return s
	}
	return s.addCatch(target{state: handler}, props)
}

// AddCatchName routes the errors matched by props to the state called name.
func (s *State) AddCatchName(name string, props CatchProps) *State {
	return s.addCatch(target{name: name}, props)
}

func (s *State) addCatch(t target, props CatchProps) *State {
	if !s.kind.supportsErrorHandling() {
		s.recordErr(NewConfigurationError(ErrUnsupported, s.describe(), "Catch on "+s.kind.String()))
		return s
	}
	s.catchers = append(s.catchers, catcher{props: props.withDefaults(), to: t})
	return s
}

// Err returns the first misuse recorded by the fluent API, if any.
func (s *State) Err() error {
	return s.buildErr
}

func (s *State) recordErr(err error) {
	if s.buildErr == nil {
		s.buildErr = err
	}
}

// describe names the state for error messages, even before a name is
// allocated.
func (s *State) describe() string {
	if s.name != "" {
		return s.name
	}
	return fmt.Sprintf("<unnamed %s>", s.kind)
}

// StartState implements Chainable.
func (s *State) StartState() *State { return s }

// OpenEnd implements Chainable.
func (s *State) OpenEnd() *State { return s }

// States implements Chainable.
func (s *State) States() []*State { return []*State{s} }
