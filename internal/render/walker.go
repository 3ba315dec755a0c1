package render

import (
	"fmt"

	"github.com/petrijr/aslflow/pkg/api"
)

// record is one arena slot: a state and where it was placed.
type record struct {
	state *api.State
	name  string
	scope int
}

// scope is one naming scope: the top-level graph or a single branch.
// Members are arena indices in discovery order; members[0] is the head.
type scope struct {
	id      int
	path    string
	members []int
	byName  map[string]int
}

// arena holds every state discovered during one render, indexed by int.
// A state belongs to exactly one scope.
type arena struct {
	records []record
	index   map[*api.State]int
	scopes  []*scope
}

func newArena() *arena {
	return &arena{index: make(map[*api.State]int)}
}

// discover walks the closure of root in discovery order and registers it
// as a new scope. Branch contents are not entered; they become scopes of
// their own when their container is rendered.
func (a *arena) discover(root api.Chainable, path string) (*scope, error) {
	sc := &scope{id: len(a.scopes), path: path, byName: make(map[string]int)}
	a.scopes = append(a.scopes, sc)

	seeds := append([]*api.State{root.StartState()}, root.States()...)
	for _, seed := range seeds {
		if err := a.walkFrom(sc, seed); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

// walkFrom visits every state reachable from seed through state edges,
// depth-first in edge order. Already visited states end the walk along
// that edge, which is how loops terminate.
func (a *arena) walkFrom(sc *scope, seed *api.State) error {
	stack := []*api.State{seed}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if idx, ok := a.index[s]; ok {
			if owner := a.records[idx].scope; owner != sc.id {
				return api.NewConfigurationError(api.ErrCrossScope, a.label(s),
					fmt.Sprintf("owned by %s, reached from %s", a.scopes[owner].describe(), sc.describe()))
			}
			continue
		}

		a.index[s] = len(a.records)
		sc.members = append(sc.members, len(a.records))
		a.records = append(a.records, record{state: s, scope: sc.id})

		edges := s.Edges()
		for i := len(edges) - 1; i >= 0; i-- {
			if t := edges[i].Target; t != nil {
				stack = append(stack, t)
			}
		}
	}
	return nil
}

// assignNames gives every member of sc its emitted name. Explicit names
// are kept verbatim and must be unique; unnamed states get allocated
// names afterwards so they never shadow an explicit one.
func (a *arena) assignNames(sc *scope) error {
	alloc := NewNameAllocator()
	for _, idx := range sc.members {
		s := a.records[idx].state
		name := s.Name()
		if name == "" {
			continue
		}
		if len(name) > MaxNameLength {
			return api.NewConfigurationError(api.ErrInvalidName, name,
				fmt.Sprintf("longer than %d characters", MaxNameLength))
		}
		if !alloc.Reserve(name) {
			return api.NewConfigurationError(api.ErrDuplicateName, name, sc.describe())
		}
		a.records[idx].name = name
		sc.byName[name] = idx
	}
	for _, idx := range sc.members {
		if a.records[idx].name != "" {
			continue
		}
		name := alloc.Allocate(a.records[idx].state.Kind().String())
		a.records[idx].name = name
		sc.byName[name] = idx
	}
	return nil
}

// successors resolves the edges of the state at idx to arena indices.
// Name references that do not resolve inside sc are dangling.
func (a *arena) successors(sc *scope, idx int) ([]int, error) {
	s := a.records[idx].state
	edges := s.Edges()
	out := make([]int, 0, len(edges))
	for _, e := range edges {
		if e.Target != nil {
			out = append(out, a.index[e.Target])
			continue
		}
		to, ok := sc.byName[e.Name]
		if !ok {
			return nil, api.NewConfigurationError(api.ErrDanglingReference, e.Name,
				fmt.Sprintf("%s of %s", e.Field, a.records[idx].name))
		}
		out = append(out, to)
	}
	return out, nil
}

func (a *arena) label(s *api.State) string {
	if idx, ok := a.index[s]; ok && a.records[idx].name != "" {
		return a.records[idx].name
	}
	if s.Name() != "" {
		return s.Name()
	}
	return "<unnamed " + s.Kind().String() + ">"
}

func (sc *scope) describe() string {
	if sc.path == "" {
		return "top-level scope"
	}
	return "scope " + sc.path
}
