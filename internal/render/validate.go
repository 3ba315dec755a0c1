package render

import (
	"fmt"

	"github.com/petrijr/aslflow/pkg/api"
)

// validateScope runs the structural checks for one scope once its members
// are named: kind-specific fields, reference resolution, a single start
// state, and a path to a terminal state from every member.
func (a *arena) validateScope(sc *scope) error {
	for _, idx := range sc.members {
		if err := a.records[idx].state.Validate(); err != nil {
			return err
		}
	}

	succ := make(map[int][]int, len(sc.members))
	preds := make(map[int]int, len(sc.members))
	for _, idx := range sc.members {
		out, err := a.successors(sc, idx)
		if err != nil {
			return err
		}
		succ[idx] = out
		for _, to := range out {
			preds[to]++
		}
	}

	if err := a.checkStart(sc, preds); err != nil {
		return err
	}
	return a.checkTerminalPaths(sc, succ)
}

// checkStart requires exactly one member without an in-scope predecessor,
// and that member must be the head of the scope.
func (a *arena) checkStart(sc *scope, preds map[int]int) error {
	var roots []int
	for _, idx := range sc.members {
		if preds[idx] == 0 {
			roots = append(roots, idx)
		}
	}
	head := sc.members[0]
	switch {
	case len(roots) == 0:
		return api.NewConfigurationError(api.ErrAmbiguousStart, a.records[head].name,
			fmt.Sprintf("%s: every state has a predecessor", sc.describe()))
	case len(roots) > 1:
		names := make([]string, len(roots))
		for i, r := range roots {
			names[i] = a.records[r].name
		}
		return api.NewConfigurationError(api.ErrAmbiguousStart, a.records[roots[1]].name,
			fmt.Sprintf("%s: candidates %v", sc.describe(), names))
	case roots[0] != head:
		return api.NewConfigurationError(api.ErrAmbiguousStart, a.records[roots[0]].name,
			fmt.Sprintf("%s: head %s has a predecessor", sc.describe(), a.records[head].name))
	}
	return nil
}

// checkTerminalPaths walks the reverse graph from every exit and reports
// the first member (in discovery order) that cannot reach one.
func (a *arena) checkTerminalPaths(sc *scope, succ map[int][]int) error {
	rev := make(map[int][]int, len(sc.members))
	for from, outs := range succ {
		for _, to := range outs {
			rev[to] = append(rev[to], from)
		}
	}

	reaches := make(map[int]bool, len(sc.members))
	var queue []int
	for _, idx := range sc.members {
		if a.records[idx].state.ExitsScope() {
			reaches[idx] = true
			queue = append(queue, idx)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, from := range rev[cur] {
			if !reaches[from] {
				reaches[from] = true
				queue = append(queue, from)
			}
		}
	}

	for _, idx := range sc.members {
		if !reaches[idx] {
			return api.NewConfigurationError(api.ErrNoTerminalPath, a.records[idx].name, sc.describe())
		}
	}
	return nil
}
