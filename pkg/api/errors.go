package api

import (
	"errors"
	"strings"
)

// Rules reported by ConfigurationError. Match them with errors.Is:
//
//	if errors.Is(err, api.ErrDanglingReference) { ... }
var (
	ErrMutuallyExclusive  = errors.New("mutually exclusive fields")
	ErrEmptyChoice        = errors.New("choice state requires at least one rule or a default")
	ErrTerminatedChain    = errors.New("cannot extend a terminated chain")
	ErrNoBranches         = errors.New("at least one branch required")
	ErrDanglingReference  = errors.New("dangling state reference")
	ErrDuplicateName      = errors.New("duplicate state name")
	ErrAmbiguousStart     = errors.New("ambiguous or missing start state")
	ErrNoTerminalPath     = errors.New("state cannot reach a terminal state")
	ErrCrossScope         = errors.New("state is referenced from more than one scope")
	ErrTransitionConflict = errors.New("state already has a transition")
	ErrNotSingleState     = errors.New("chain does not hold exactly one state")
	ErrInvalidWait        = errors.New("wait state requires exactly one of Seconds, SecondsPath, Timestamp, TimestampPath")
	ErrMissingResource    = errors.New("task state requires a resource")
	ErrInvalidErrorEquals = errors.New("invalid ErrorEquals")
	ErrInvalidCondition   = errors.New("invalid choice condition")
	ErrInvalidCustomState = errors.New("invalid custom state")
	ErrUnsupported        = errors.New("operation not supported by state kind")
	ErrNilState           = errors.New("nil state")
	ErrInvalidName        = errors.New("invalid state name")
)

// ConfigurationError is the single error kind raised while building or
// rendering a state machine. It names the offending state (when known)
// and the rule that was violated.
type ConfigurationError struct {
	// State is the name of the offending state. For dangling references it
	// is the name that failed to resolve.
	State string

	// Rule is one of the Err* values above.
	Rule error

	// Detail carries optional context such as the fields involved.
	Detail string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Rule.Error())
	if e.State != "" {
		b.WriteString(": ")
		b.WriteString(e.State)
	}
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Rule
}

// NewConfigurationError builds a ConfigurationError for rule on state.
func NewConfigurationError(rule error, state string, detail string) *ConfigurationError {
	return &ConfigurationError{State: state, Rule: rule, Detail: detail}
}

// IsConfigurationError reports whether err (or anything it wraps) is a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
