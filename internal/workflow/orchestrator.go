package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/aus"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/document"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/notification"
)

// Orchestrator drives the step chain. It holds only read-only wiring;
// per-loan state is re-read from the store on every evaluation, so
// concurrent triggers are safe as long as the store serializes writes
// per loan.
type Orchestrator struct {
	loans     *loan.Service
	resolver  *document.Resolver
	submitter aus.Submitter
	notifier  notification.Gateway
	steps     []Step
	sleep     func(time.Duration)
	log       *slog.Logger
}

func NewOrchestrator(
	loans *loan.Service,
	resolver *document.Resolver,
	submitter aus.Submitter,
	notifier notification.Gateway,
	log *slog.Logger,
) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}

	o := &Orchestrator{
		loans:     loans,
		resolver:  resolver,
		submitter: submitter,
		notifier:  notifier,
		sleep:     time.Sleep,
		log:       log,
	}
	o.steps = o.buildSteps()

	return o
}

// Execute runs the chain once from current state. After a successful
// step that changed persisted state, the chain is re-evaluated from the
// top; otherwise the invocation returns. Stage monotonicity bounds the
// loop.
func (o *Orchestrator) Execute(ctx context.Context, loanID uuid.UUID) Result {
	for {
		app, err := o.loans.Get(ctx, loanID)
		if err != nil {
			return Result{Success: false, Error: err}
		}

		step := o.firstApplicable(app)
		if step == nil {
			return Result{
				Success: true,
				Data:    map[string]any{"stage": app.Stage, "note": "no applicable step"},
			}
		}

		result := o.runStep(ctx, step, app)
		if !result.Success || !result.Progressed {
			return result
		}
	}
}

func (o *Orchestrator) firstApplicable(app *loan.Application) *Step {
	for i := range o.steps {
		if o.steps[i].Applicable(app) {
			return &o.steps[i]
		}
	}

	return nil
}

// runStep executes one step under its retry policy, re-reading the loan
// between attempts so a retried step always sees current state.
func (o *Orchestrator) runStep(ctx context.Context, step *Step, app *loan.Application) Result {
	maxAttempts := 1
	if step.Retry != nil {
		maxAttempts = step.Retry.MaxAttempts
	}

	var result Result

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			o.sleep(step.Retry.Delay)

			fresh, err := o.loans.Get(ctx, app.ID)
			if err != nil {
				return Result{Step: step.Name, Success: false, Error: err, Attempts: attempt}
			}

			app = fresh
		}

		result = step.Run(ctx, app)
		result.Attempts = attempt

		if result.Success {
			return result
		}

		if result.Error == nil {
			// A structured validation result. Only a step that asked to
			// be polled is re-run; for the rest, no number of retries
			// changes the outcome until new state arrives.
			if !result.Retryable {
				return result
			}

			o.log.Info("step pending, polling", "step", step.Name, "loan_id", app.ID, "attempt", attempt)

			continue
		}

		if !retryable(result.Error) {
			o.log.Error("step failed fatally", "step", step.Name, "loan_id", app.ID, "error", result.Error)
			return result
		}

		o.log.Warn("step attempt failed", "step", step.Name, "loan_id", app.ID, "attempt", attempt, "error", result.Error)
	}

	return result
}

// OnDocumentUploaded re-runs the chain when a new document may satisfy
// completeness or a condition.
func (o *Orchestrator) OnDocumentUploaded(ctx context.Context, loanID, documentID uuid.UUID) Result {
	app, err := o.loans.Get(ctx, loanID)
	if err != nil {
		return Result{Success: false, Error: err}
	}

	switch app.Stage {
	case loan.StageDraft, loan.StageSubmitted, loan.StageConditional:
		o.log.Info("document uploaded, re-running chain", "loan_id", loanID, "document_id", documentID)
		return o.Execute(ctx, loanID)
	}

	return Result{
		Success: true,
		Data:    map[string]any{"stage": app.Stage, "note": "document recorded, no workflow action"},
	}
}

// OnUnderwritingDecision persists the decision (with any conditions)
// and re-runs the chain.
func (o *Orchestrator) OnUnderwritingDecision(ctx context.Context, loanID uuid.UUID, decision loan.Decision, conditions []loan.Condition) Result {
	switch decision {
	case loan.DecisionApproved, loan.DecisionConditional, loan.DecisionRejected:
	default:
		return Result{Success: false, Error: ErrUnknownDecision}
	}

	if err := o.loans.RecordDecision(ctx, loanID, decision, conditions); err != nil {
		return Result{Success: false, Error: err}
	}

	o.log.Info("underwriting decision recorded", "loan_id", loanID, "decision", decision, "conditions", len(conditions))

	return o.Execute(ctx, loanID)
}

// OnConditionSatisfied re-runs the chain; the satisfaction itself is
// expected to have been persisted by the caller.
func (o *Orchestrator) OnConditionSatisfied(ctx context.Context, loanID, conditionID uuid.UUID) Result {
	o.log.Info("condition satisfied, re-running chain", "loan_id", loanID, "condition_id", conditionID)
	return o.Execute(ctx, loanID)
}

// RequestDocumentsResult reports the side-channel checklist delivery.
type RequestDocumentsResult struct {
	MissingDocuments []document.Requirement `json:"missing_documents"`
	EmailSent        bool                   `json:"email_sent"`
	SMSSent          bool                   `json:"sms_sent"`
}

// RequestDocuments computes the missing documents and hands them to the
// notification gateway. The loan's stage is not mutated.
func (o *Orchestrator) RequestDocuments(ctx context.Context, loanID uuid.UUID) (*RequestDocumentsResult, error) {
	app, err := o.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}

	completeness := o.resolver.Check(app)

	receipt := notification.Receipt{}
	if len(completeness.Missing) > 0 && o.notifier != nil {
		contact := notification.Contact{
			Name:  app.Borrower.FullName,
			Email: app.Borrower.Email,
			Phone: app.Borrower.Phone,
		}

		receipt, err = o.notifier.SendDocumentChecklist(ctx, contact, completeness.Missing)
		if err != nil {
			return nil, err
		}
	}

	return &RequestDocumentsResult{
		MissingDocuments: completeness.Missing,
		EmailSent:        receipt.EmailSent,
		SMSSent:          receipt.SMSSent,
	}, nil
}
