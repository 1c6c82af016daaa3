package underwriting

import (
	"time"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

// Recommendation is the aggregate automated decision, in AUS
// vocabulary.
type Recommendation string

const (
	ApproveEligible Recommendation = "APPROVE/ELIGIBLE"
	ReferEligible   Recommendation = "REFER/ELIGIBLE"
	ReferCaution    Recommendation = "REFER/CAUTION"
	Ineligible      Recommendation = "INELIGIBLE"
)

// Finding is one non-PASS rule outcome.
type Finding struct {
	RuleID    string     `json:"rule_id"`
	Category  Category   `json:"category"`
	Status    RuleStatus `json:"status"`
	Message   string     `json:"message"`
	Condition string     `json:"condition,omitempty"`
}

// Result is the full evaluation output.
type Result struct {
	Recommendation   Recommendation `json:"recommendation"`
	Findings         []Finding      `json:"findings"`
	Metrics          Metrics        `json:"metrics"`
	EligiblePrograms []Program      `json:"eligible_programs"`
}

// Engine evaluates all registered rules against an application and
// filters the program shelf.
type Engine struct {
	calc     *Calculator
	rules    []Rule
	programs []Program
	now      func() time.Time
}

func NewEngine(calc *Calculator, programs []Program) *Engine {
	if len(programs) == 0 {
		programs = DefaultPrograms()
	}

	return &Engine{
		calc:     calc,
		rules:    Rules(),
		programs: programs,
		now:      time.Now,
	}
}

// Evaluate runs every rule independently, aggregates a decision, and
// filters the eligible programs. Any FAIL forces Ineligible; otherwise
// any REFER forces ReferEligible. Zero qualifying programs forces
// Ineligible regardless of rule outcomes.
func (e *Engine) Evaluate(app *loan.Application) Result {
	metrics := e.calc.Compute(app)
	ctx := BuildContext(app, metrics, e.now())

	var (
		findings []Finding
		failed   bool
		referred bool
	)

	for _, rule := range e.rules {
		res := rule.Evaluate(ctx)
		if res.Status == StatusPass {
			continue
		}

		findings = append(findings, Finding{
			RuleID:    rule.ID,
			Category:  rule.Category,
			Status:    res.Status,
			Message:   res.Message,
			Condition: res.Condition,
		})

		switch res.Status {
		case StatusFail:
			failed = true
		case StatusRefer:
			referred = true
		}
	}

	recommendation := ApproveEligible

	switch {
	case failed:
		recommendation = Ineligible
	case referred:
		recommendation = ReferEligible
	}

	eligible := FilterPrograms(e.programs, metrics)
	if len(eligible) == 0 {
		recommendation = Ineligible
	}

	return Result{
		Recommendation:   recommendation,
		Findings:         findings,
		Metrics:          metrics,
		EligiblePrograms: eligible,
	}
}
