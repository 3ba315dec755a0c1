package render

import (
	"strconv"
)

// MaxNameLength is the longest state name accepted by ASL engines.
const MaxNameLength = 80

// NameAllocator hands out names that are unique within one scope. Names
// are derived from a base ("Pass", "Task", ...) and suffixed with a
// counter on collision: "Pass", "Pass 2", "Pass 3".
//
// Allocation is deterministic for a given sequence of calls.
type NameAllocator struct {
	taken map[string]struct{}
	next  map[string]int
}

// NewNameAllocator returns an allocator that treats reserved as taken.
func NewNameAllocator(reserved ...string) *NameAllocator {
	a := &NameAllocator{
		taken: make(map[string]struct{}, len(reserved)),
		next:  make(map[string]int),
	}
	for _, n := range reserved {
		a.taken[n] = struct{}{}
	}
	return a
}

// Reserve marks name as taken. It reports false if it already was.
func (a *NameAllocator) Reserve(name string) bool {
	if _, ok := a.taken[name]; ok {
		return false
	}
	a.taken[name] = struct{}{}
	return true
}

// Allocate returns the first free name derived from base and reserves it.
func (a *NameAllocator) Allocate(base string) string {
	n := a.next[base]
	for {
		candidate := base
		if n > 0 {
			candidate = base + " " + strconv.Itoa(n+1)
		}
		n++
		if a.Reserve(candidate) {
			a.next[base] = n
			return candidate
		}
	}
}
