package workflow

import (
	"context"
	"time"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

// steps builds the canonical chain in priority order. The slice is
// read-only after construction; scanning order is the visible,
// testable invariant.
func (o *Orchestrator) buildSteps() []Step {
	return []Step{
		{
			Name: "check-documents",
			Applicable: func(app *loan.Application) bool {
				return app.Stage == loan.StageDraft || app.Stage == loan.StageSubmitted
			},
			Run:   o.checkDocuments,
			Retry: &RetryPolicy{MaxAttempts: 3, Delay: 5 * time.Second},
		},
		{
			Name: "submit-to-underwriting",
			Applicable: func(app *loan.Application) bool {
				return app.Stage == loan.StagePreUnderwriting
			},
			Run: o.submitToUnderwriting,
		},
		{
			Name: "wait-for-decision",
			Applicable: func(app *loan.Application) bool {
				return app.Stage == loan.StageUnderwriting && app.Decision == nil
			},
			Run: o.waitForDecision,
		},
		{
			Name: "process-decision",
			Applicable: func(app *loan.Application) bool {
				return app.Stage == loan.StageUnderwriting && app.Decision != nil
			},
			Run: o.processDecision,
		},
		{
			Name: "check-conditions",
			Applicable: func(app *loan.Application) bool {
				return app.Stage == loan.StageConditional &&
					app.Decision != nil && *app.Decision == loan.DecisionConditional &&
					len(app.Conditions) > 0
			},
			Run:   o.checkConditions,
			Retry: &RetryPolicy{MaxAttempts: 10, Delay: time.Minute},
		},
	}
}

// checkDocuments verifies the required-document checklist and advances
// the loan once it is complete. An incomplete checklist is a structured
// failure, not a fault; the retry policy exists for transient store
// reads, not to wait for uploads.
func (o *Orchestrator) checkDocuments(ctx context.Context, app *loan.Application) Result {
	completeness := o.resolver.Check(app)
	if !completeness.Complete {
		missing := make([]string, 0, len(completeness.Missing))
		for _, req := range completeness.Missing {
			missing = append(missing, req.Name)
		}

		return Result{
			Step:    "check-documents",
			Success: false,
			Data: map[string]any{
				"missing_count":     len(completeness.Missing),
				"missing_documents": missing,
			},
		}
	}

	next := loan.StagePreUnderwriting
	if err := o.loans.Advance(ctx, app.ID, next, app.Status); err != nil {
		return Result{Step: "check-documents", Success: false, Error: err}
	}

	return Result{Step: "check-documents", Success: true, Progressed: true, NextStage: &next}
}

// submitToUnderwriting moves the loan into underwriting and, when an
// AUS submitter is wired, transmits the file. A failed transmission is
// reported but does not block the stage change; the file still reaches
// a human underwriter.
func (o *Orchestrator) submitToUnderwriting(ctx context.Context, app *loan.Application) Result {
	next := loan.StageUnderwriting
	if err := o.loans.Advance(ctx, app.ID, next, loan.StatusUnderReview); err != nil {
		return Result{Step: "submit-to-underwriting", Success: false, Error: err}
	}

	result := Result{
		Step:       "submit-to-underwriting",
		Success:    true,
		Progressed: true,
		NextStage:  &next,
	}

	if o.submitter != nil {
		submission, err := o.submitter.Submit(ctx, app)
		if err != nil {
			o.log.Warn("aus submission failed", "loan_id", app.ID, "error", err)

			result.Data = map[string]any{"aus_error": err.Error()}

			return result
		}

		result.Data = map[string]any{
			"aus_case_id":        submission.CaseID,
			"aus_recommendation": submission.Recommendation,
			"aus_findings":       len(submission.Findings),
		}
	}

	return result
}

// waitForDecision is a deliberate no-op marking "nothing to do until an
// external decision event arrives". It succeeds without progress so the
// chain terminates here.
func (o *Orchestrator) waitForDecision(_ context.Context, app *loan.Application) Result {
	return Result{
		Step:    "wait-for-decision",
		Success: true,
		Data:    map[string]any{"waiting_since": app.UpdatedAt},
	}
}

// processDecision reacts to the recorded underwriting decision.
func (o *Orchestrator) processDecision(ctx context.Context, app *loan.Application) Result {
	switch *app.Decision {
	case loan.DecisionApproved:
		next := loan.StageClearToClose
		if err := o.loans.Advance(ctx, app.ID, next, loan.StatusApproved); err != nil {
			return Result{Step: "process-decision", Success: false, Error: err}
		}

		return Result{Step: "process-decision", Success: true, Progressed: true, NextStage: &next}

	case loan.DecisionConditional:
		// Conditions were attached by the event handler that recorded
		// the decision.
		next := loan.StageConditional
		if err := o.loans.Advance(ctx, app.ID, next, loan.StatusActionRequired); err != nil {
			return Result{Step: "process-decision", Success: false, Error: err}
		}

		return Result{Step: "process-decision", Success: true, Progressed: true, NextStage: &next}

	case loan.DecisionRejected:
		// Terminal information; the stage does not change.
		return Result{
			Step:    "process-decision",
			Success: true,
			Data:    map[string]any{"decision": loan.DecisionRejected},
		}
	}

	return Result{Step: "process-decision", Success: false, Error: ErrUnknownDecision}
}

// checkConditions closes out the conditional phase once every condition
// is satisfied or waived. Its retry policy is a polling cadence, not
// error recovery.
func (o *Orchestrator) checkConditions(ctx context.Context, app *loan.Application) Result {
	pending := app.PendingConditions()
	if len(pending) > 0 {
		return Result{
			Step:      "check-conditions",
			Success:   false,
			Retryable: true,
			Data:      map[string]any{"pending_count": len(pending)},
		}
	}

	next := loan.StageClearToClose
	if err := o.loans.Advance(ctx, app.ID, next, loan.StatusApproved); err != nil {
		return Result{Step: "check-conditions", Success: false, Error: err}
	}

	return Result{Step: "check-conditions", Success: true, Progressed: true, NextStage: &next}
}
