package api

import (
	"fmt"
)

// ErrorsAll matches every error in a Retry or Catch clause. It must be
// the only entry of its ErrorEquals and its clause must come last.
const ErrorsAll = "States.ALL"

// Retrier is one entry of a state's "Retry" list.
//
// Zero values are omitted from the rendered document, leaving the engine
// defaults in place.
type Retrier struct {
	ErrorEquals     []string
	IntervalSeconds int
	MaxAttempts     int
	BackoffRate     float64
	MaxDelaySeconds int
	JitterStrategy  string
}

func (r Retrier) withDefaults() Retrier {
	if len(r.ErrorEquals) == 0 {
		r.ErrorEquals = []string{ErrorsAll}
	} else {
		r.ErrorEquals = append([]string(nil), r.ErrorEquals...)
	}
	return r
}

func (r Retrier) render() *Object {
	obj := NewObject()
	obj.Set("ErrorEquals", stringsToAny(r.ErrorEquals))
	if r.IntervalSeconds > 0 {
		obj.Set("IntervalSeconds", r.IntervalSeconds)
	}
	if r.MaxAttempts > 0 {
		obj.Set("MaxAttempts", r.MaxAttempts)
	}
	if r.BackoffRate > 0 {
		obj.Set("BackoffRate", r.BackoffRate)
	}
	if r.MaxDelaySeconds > 0 {
		obj.Set("MaxDelaySeconds", r.MaxDelaySeconds)
	}
	if r.JitterStrategy != "" {
		obj.Set("JitterStrategy", r.JitterStrategy)
	}
	return obj
}

// CatchProps configures a Catch clause.
type CatchProps struct {
	// Errors defaults to States.ALL.
	Errors     []string
	ResultPath string
}

func (p CatchProps) withDefaults() CatchProps {
	if len(p.Errors) == 0 {
		p.Errors = []string{ErrorsAll}
	} else {
		p.Errors = append([]string(nil), p.Errors...)
	}
	return p
}

// validateErrorEquals checks that States.ALL appears alone and only in the
// last clause of a Retry or Catch list.
func validateErrorEquals(state, field string, lists [][]string) error {
	for i, errs := range lists {
		for _, e := range errs {
			if e != ErrorsAll {
				continue
			}
			if len(errs) != 1 {
				return NewConfigurationError(ErrInvalidErrorEquals, state,
					fmt.Sprintf("%s[%d]: %s must appear alone", field, i, ErrorsAll))
			}
			if i != len(lists)-1 {
				return NewConfigurationError(ErrInvalidErrorEquals, state,
					fmt.Sprintf("%s[%d]: %s must be the last clause", field, i, ErrorsAll))
			}
		}
	}
	return nil
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
