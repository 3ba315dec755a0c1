package api

import (
	"fmt"
)

// Chainable is anything that can be linked into a chain or used as a
// branch: a single *State or a Chain.
type Chainable interface {
	// StartState is the entry of the fragment.
	StartState() *State
	// OpenEnd is the state that the next link attaches to.
	OpenEnd() *State
	// States lists every state registered in the fragment, in the order
	// they were added.
	States() []*State
}

// Chain is a linear sequence of states with one entry and one open end.
//
// A Chain is a value: Next returns a new Chain and never changes the
// receiver. The only mutation Next performs is closing the transition of
// the previous open end, and that happens at most once per state.
//
//	c, err := api.Start(validate).Next(charge)
//	c, err = c.Next(done)
type Chain struct {
	head    *State
	tail    *State
	members []*State
}

// Start wraps a single state in a Chain.
func Start(s Chainable) Chain {
	if isNilChainable(s) {
		return Chain{}
	}
	return Chain{
		head:    s.StartState(),
		tail:    s.OpenEnd(),
		members: append([]*State(nil), s.States()...),
	}
}

// Next links the open end of c to the start of s and returns a chain whose
// open end is the open end of s.
//
// Extending a chain whose open end is terminal fails with
// ErrTerminatedChain.
func (c Chain) Next(s Chainable) (Chain, error) {
	if isNilChainable(s) {
		return c, NewConfigurationError(ErrNilState, "", "Chain.Next")
	}
	if c.head == nil {
		return Start(s), nil
	}
	if err := c.tail.Next(s.StartState()); err != nil {
		return c, err
	}

	members := make([]*State, 0, len(c.members)+len(s.States()))
	members = append(members, c.members...)
	members = append(members, s.States()...)

	return Chain{
		head:    c.head,
		tail:    s.OpenEnd(),
		members: members,
	}, nil
}

// MustNext is like Next but panics on error. Useful when the chain is a
// literal in tests or program initialization.
func (c Chain) MustNext(s Chainable) Chain {
	next, err := c.Next(s)
	if err != nil {
		panic(fmt.Sprintf("aslflow: %v", err))
	}
	return next
}

// Include registers states in the chain's scope without linking them.
// Use it for states that are only reached by name, such as error handlers
// addressed with AddCatchName.
func (c Chain) Include(states ...*State) Chain {
	members := make([]*State, 0, len(c.members)+len(states))
	members = append(members, c.members...)
	for _, s := range states {
		if s != nil {
			members = append(members, s)
		}
	}
	c.members = members
	return c
}

// ToSingleState returns the only state of the chain. It fails unless the
// chain holds exactly one state.
func (c Chain) ToSingleState() (*State, error) {
	if len(c.members) != 1 {
		return nil, NewConfigurationError(ErrNotSingleState, "", fmt.Sprintf("chain holds %d states", len(c.members)))
	}
	return c.members[0], nil
}

// StartState implements Chainable.
func (c Chain) StartState() *State { return c.head }

// OpenEnd implements Chainable.
func (c Chain) OpenEnd() *State { return c.tail }

// States implements Chainable.
func (c Chain) States() []*State {
	return append([]*State(nil), c.members...)
}

func isNilChainable(c Chainable) bool {
	if c == nil {
		return true
	}
	if s, ok := c.(*State); ok && s == nil {
		return true
	}
	return c.StartState() == nil
}
