package aslflow

import (
	"math"
	"time"

	"github.com/petrijr/aslflow/pkg/api"
)

// RetryBuilder provides a fluent way to construct Retrier values
// for use with State.AddRetry and FlowBuilder.TaskWithRetry.
type RetryBuilder struct {
	retrier api.Retrier
}

// Retry creates a RetryBuilder allowing maxAttempts retries after the
// first failure, matching every error.
//
// maxAttempts <= 0 is treated as 1.
func Retry(maxAttempts int) RetryBuilder {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return RetryBuilder{
		retrier: api.Retrier{
			MaxAttempts: maxAttempts,
		},
	}
}

// On restricts the retrier to the given error names, e.g.
// "States.Timeout" or "Lambda.ServiceException".
func (r RetryBuilder) On(errorNames ...string) RetryBuilder {
	p := r.retrier
	p.ErrorEquals = append([]string(nil), errorNames...)
	return RetryBuilder{retrier: p}
}

// WithExponentialBackoff configures exponential backoff:
//
//   - initial is the delay before the first retry.
//   - rate > 1 grows the delay each attempt (default 2.0 if <= 0).
//   - max caps the delay; if <= 0, there is no cap.
//
// Durations are rounded up to whole seconds.
//
// Example:
//
//	Retry(3).WithExponentialBackoff(time.Second, 2.0, 30*time.Second)
func (r RetryBuilder) WithExponentialBackoff(initial time.Duration, rate float64, max time.Duration) RetryBuilder {
	p := r.retrier
	p.IntervalSeconds = seconds(initial)
	if rate <= 0 {
		rate = 2.0
	}
	p.BackoffRate = rate
	p.MaxDelaySeconds = 0
	if max > 0 {
		p.MaxDelaySeconds = seconds(max)
	}
	return RetryBuilder{retrier: p}
}

// WithConstantBackoff configures a constant delay between retries.
//
// This is equivalent to an exponential backoff with rate 1.0 and no cap.
func (r RetryBuilder) WithConstantBackoff(delay time.Duration) RetryBuilder {
	p := r.retrier
	p.IntervalSeconds = seconds(delay)
	p.BackoffRate = 1.0
	p.MaxDelaySeconds = 0
	return RetryBuilder{retrier: p}
}

// WithFullJitter randomizes each delay between zero and its computed value.
func (r RetryBuilder) WithFullJitter() RetryBuilder {
	p := r.retrier
	p.JitterStrategy = "FULL"
	return RetryBuilder{retrier: p}
}

// Retrier returns the underlying Retrier to be passed to State.AddRetry.
func (r RetryBuilder) Retrier() Retrier {
	p := r.retrier
	p.ErrorEquals = append([]string(nil), p.ErrorEquals...)
	return p
}

// seconds rounds d up to whole seconds, with a minimum of one.
func seconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
