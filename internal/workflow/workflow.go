// Package workflow advances a loan application through its lifecycle
// stages. The orchestrator scans an ordered step chain, executes the
// first applicable step, and continues from the top only while steps
// report observable persisted progress. Authoritative loan state always
// lives in the loan store and is re-read before every step evaluation;
// the orchestrator keeps no per-loan memory.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

// ErrUnknownDecision is returned for a decision value outside the known
// set. It is fatal and never retried.
var ErrUnknownDecision = errors.New("unknown underwriting decision")

// RetryPolicy bounds repeated attempts of a failing step.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Result is the outcome of one step execution, and of a whole chain
// invocation (the last step's result).
type Result struct {
	Step      string         `json:"step"`
	Success   bool           `json:"success"`
	NextStage *loan.Stage    `json:"next_stage,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Attempts  int            `json:"attempts,omitempty"`
	Error     error          `json:"-"`

	// Progressed reports whether the step changed persisted state. Only
	// a successful, progressing step lets the chain continue; without
	// this check the always-succeeding wait step would loop forever.
	Progressed bool `json:"-"`

	// Retryable marks an errorless failure the step wants re-run under
	// its retry policy (the check-conditions polling cadence). Without
	// it, a structured validation result is final: retrying an
	// incomplete checklist cannot complete it.
	Retryable bool `json:"-"`
}

// ErrorMessage renders the error for transport boundaries.
func (r Result) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}

	return r.Error.Error()
}

// Step is one link of the chain. Steps are idempotent: applicability is
// derived entirely from loan state.
type Step struct {
	Name       string
	Applicable func(app *loan.Application) bool
	Run        func(ctx context.Context, app *loan.Application) Result
	Retry      *RetryPolicy
}

// retryable reports whether the failure class permits another attempt.
func retryable(err error) bool {
	if err == nil {
		return true
	}

	return !errors.Is(err, loan.ErrNotFound) && !errors.Is(err, ErrUnknownDecision)
}
