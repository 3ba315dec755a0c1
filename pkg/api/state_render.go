package api

import (
	"fmt"
	"sort"
)

// Edge is an outgoing reference of a state within its scope.
type Edge struct {
	// Target is the referenced state, or nil for a reference by name.
	Target *State
	// Name is the referenced name when Target is nil.
	Name string
	// Field is the ASL field the edge renders into, e.g. "Next",
	// "Default", "Choices[0]" or "Catch[1]".
	Field string
}

// Edges returns the outgoing references of s in render order: Choice
// rules, Default, Next, then Catch handlers. Branch contents are not
// edges; they live in their own scopes.
func (s *State) Edges() []Edge {
	var edges []Edge
	for i, r := range s.rules {
		edges = append(edges, edgeOf(r.to, fmt.Sprintf("Choices[%d]", i)))
	}
	if s.fallback.isSet() {
		edges = append(edges, edgeOf(s.fallback, "Default"))
	}
	if s.next.isSet() {
		edges = append(edges, edgeOf(s.next, "Next"))
	}
	for i, c := range s.catchers {
		edges = append(edges, edgeOf(c.to, fmt.Sprintf("Catch[%d]", i)))
	}
	return edges
}

func edgeOf(t target, field string) Edge {
	return Edge{Target: t.state, Name: t.name, Field: field}
}

// ExitsScope reports whether s ends execution of its scope on at least
// one path without following an edge: it is terminal, or it is a
// transition-bearing state left open, which renders "End": true.
func (s *State) ExitsScope() bool {
	if s.IsTerminal() {
		return true
	}
	return s.kind.hasTransition() && !s.next.isSet()
}

// Validate runs the kind-specific field checks of s. Structural checks
// that need the whole graph are done by the renderer.
func (s *State) Validate() error {
	if s.buildErr != nil {
		return s.buildErr
	}
	name := s.describe()

	switch s.kind {
	case KindPass, KindSucceed:
		return nil
	case KindTask:
		if s.task.Resource == "" {
			return NewConfigurationError(ErrMissingResource, name, "")
		}
	case KindChoice:
		if len(s.rules) == 0 && !s.fallback.isSet() {
			return NewConfigurationError(ErrEmptyChoice, name, "")
		}
		for i, r := range s.rules {
			if err := r.cond.validate(); err != nil {
				return NewConfigurationError(ErrInvalidCondition, name, fmt.Sprintf("Choices[%d]: %v", i, err))
			}
		}
	case KindWait:
		set := 0
		if s.wait.Seconds > 0 {
			set++
		}
		for _, v := range []string{s.wait.SecondsPath, s.wait.Timestamp, s.wait.TimestampPath} {
			if v != "" {
				set++
			}
		}
		if set != 1 {
			return NewConfigurationError(ErrInvalidWait, name, fmt.Sprintf("%d fields set", set))
		}
	case KindFail:
		if s.fail.Error != "" && s.fail.ErrorPath != "" {
			return NewConfigurationError(ErrMutuallyExclusive, name, "Error, ErrorPath")
		}
		if s.fail.Cause != "" && s.fail.CausePath != "" {
			return NewConfigurationError(ErrMutuallyExclusive, name, "Cause, CausePath")
		}
	case KindParallel, KindMap:
		if len(s.branches) == 0 {
			return NewConfigurationError(ErrNoBranches, name, "")
		}
	case KindCustom:
		typ, ok := s.custom["Type"].(string)
		if !ok || typ == "" {
			return NewConfigurationError(ErrInvalidCustomState, name, "missing Type")
		}
		for _, reserved := range []string{"Next", "End"} {
			if _, ok := s.custom[reserved]; ok {
				return NewConfigurationError(ErrInvalidCustomState, name, reserved+" is set through the builder")
			}
		}
	default:
		return NewConfigurationError(ErrUnsupported, name, "unknown kind")
	}

	retryErrs := make([][]string, len(s.retries))
	for i, r := range s.retries {
		retryErrs[i] = r.ErrorEquals
	}
	if err := validateErrorEquals(name, "Retry", retryErrs); err != nil {
		return err
	}
	catchErrs := make([][]string, len(s.catchers))
	for i, c := range s.catchers {
		catchErrs[i] = c.props.Errors
	}
	return validateErrorEquals(name, "Catch", catchErrs)
}

// RenderContext supplies what a state cannot know about itself: the final
// names of the states it references, and the rendering of its branches.
type RenderContext interface {
	// NameOf returns the emitted name of a state in the current scope.
	NameOf(s *State) string
	// RenderBranch renders a branch as a complete {StartAt, States} object.
	RenderBranch(head Chainable) (*Object, error)
}

// Render returns the ASL fragment of s. Keys are emitted in a fixed order:
// Type, Comment, kind fields, Retry, Catch, then Next or End. Fail states
// always carry "End": true.
func (s *State) Render(rc RenderContext) (*Object, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	obj := NewObject()

	switch s.kind {
	case KindPass:
		obj.Set("Type", "Pass")
		setCommon(obj, s.pass.Common)
		if s.pass.Result != nil {
			obj.Set("Result", s.pass.Result)
		}
		setString(obj, "ResultPath", s.pass.ResultPath)
		setMap(obj, "Parameters", s.pass.Parameters)

	case KindTask:
		obj.Set("Type", "Task")
		setCommon(obj, s.task.Common)
		obj.Set("Resource", s.task.Resource)
		setMap(obj, "Parameters", s.task.Parameters)
		setString(obj, "ResultPath", s.task.ResultPath)
		setMap(obj, "ResultSelector", s.task.ResultSelector)
		setInt(obj, "TimeoutSeconds", s.task.TimeoutSeconds)
		setInt(obj, "HeartbeatSeconds", s.task.HeartbeatSeconds)

	case KindChoice:
		obj.Set("Type", "Choice")
		setCommon(obj, s.choice.Common)
		if len(s.rules) > 0 {
			choices := make([]any, len(s.rules))
			for i, r := range s.rules {
				rule := r.cond.render()
				rule.Set("Next", resolve(rc, r.to))
				choices[i] = rule
			}
			obj.Set("Choices", choices)
		}
		if s.fallback.isSet() {
			obj.Set("Default", resolve(rc, s.fallback))
		}

	case KindWait:
		obj.Set("Type", "Wait")
		setCommon(obj, s.wait.Common)
		setInt(obj, "Seconds", s.wait.Seconds)
		setString(obj, "SecondsPath", s.wait.SecondsPath)
		setString(obj, "Timestamp", s.wait.Timestamp)
		setString(obj, "TimestampPath", s.wait.TimestampPath)

	case KindSucceed:
		obj.Set("Type", "Succeed")
		setCommon(obj, s.succeed.Common)

	case KindFail:
		obj.Set("Type", "Fail")
		setString(obj, "Comment", s.fail.Comment)
		setString(obj, "Error", s.fail.Error)
		setString(obj, "ErrorPath", s.fail.ErrorPath)
		setString(obj, "Cause", s.fail.Cause)
		setString(obj, "CausePath", s.fail.CausePath)

	case KindParallel:
		obj.Set("Type", "Parallel")
		setCommon(obj, s.parallel.Common)
		branches := make([]any, len(s.branches))
		for i, b := range s.branches {
			rendered, err := rc.RenderBranch(b)
			if err != nil {
				return nil, err
			}
			branches[i] = rendered
		}
		obj.Set("Branches", branches)
		setMap(obj, "Parameters", s.parallel.Parameters)
		setString(obj, "ResultPath", s.parallel.ResultPath)
		setMap(obj, "ResultSelector", s.parallel.ResultSelector)

	case KindMap:
		obj.Set("Type", "Map")
		setCommon(obj, s.mapping.Common)
		setString(obj, "ItemsPath", s.mapping.ItemsPath)
		setInt(obj, "MaxConcurrency", s.mapping.MaxConcurrency)
		iterator, err := rc.RenderBranch(s.branches[0])
		if err != nil {
			return nil, err
		}
		obj.Set("Iterator", iterator)
		setMap(obj, "Parameters", s.mapping.Parameters)
		setString(obj, "ResultPath", s.mapping.ResultPath)
		setMap(obj, "ResultSelector", s.mapping.ResultSelector)

	case KindCustom:
		obj.Set("Type", s.custom["Type"])
		keys := make([]string, 0, len(s.custom))
		for k := range s.custom {
			if k != "Type" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, s.custom[k])
		}
	}

	if len(s.retries) > 0 {
		retries := make([]any, len(s.retries))
		for i, r := range s.retries {
			retries[i] = r.render()
		}
		obj.Set("Retry", retries)
	}
	if len(s.catchers) > 0 {
		catches := make([]any, len(s.catchers))
		for i, c := range s.catchers {
			entry := NewObject()
			entry.Set("ErrorEquals", stringsToAny(c.props.Errors))
			setString(entry, "ResultPath", c.props.ResultPath)
			entry.Set("Next", resolve(rc, c.to))
			catches[i] = entry
		}
		obj.Set("Catch", catches)
	}

	switch {
	case s.kind.hasTransition() && s.next.isSet():
		obj.Set("Next", resolve(rc, s.next))
	case s.kind.hasTransition(), s.kind == KindFail:
		// Fail also renders End; Succeed does not.
		obj.Set("End", true)
	}

	return obj, nil
}

func resolve(rc RenderContext, t target) string {
	if t.state != nil {
		return rc.NameOf(t.state)
	}
	return t.name
}

func setCommon(obj *Object, c Common) {
	setString(obj, "Comment", c.Comment)
	setString(obj, "InputPath", c.InputPath)
	setString(obj, "OutputPath", c.OutputPath)
}

func setString(obj *Object, key, v string) {
	if v != "" {
		obj.Set(key, v)
	}
}

func setInt(obj *Object, key string, v int) {
	if v > 0 {
		obj.Set(key, v)
	}
}

func setMap(obj *Object, key string, v map[string]any) {
	if len(v) > 0 {
		obj.Set(key, v)
	}
}
