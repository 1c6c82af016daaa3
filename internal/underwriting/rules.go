package underwriting

import (
	"fmt"
	"time"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

// Category groups rules by the classic underwriting dimensions.
type Category string

const (
	CategoryCredit      Category = "CREDIT"
	CategoryCapacity    Category = "CAPACITY"
	CategoryCollateral  Category = "COLLATERAL"
	CategoryCapital     Category = "CAPITAL"
	CategoryEligibility Category = "ELIGIBILITY"
)

// RuleStatus is the outcome of a single rule evaluation.
type RuleStatus string

const (
	StatusPass  RuleStatus = "PASS"
	StatusFail  RuleStatus = "FAIL"
	StatusRefer RuleStatus = "REFER"
)

// Context is a snapshot of loan, borrower and property metrics. It is
// derived fresh per evaluation and never mutated in place.
type Context struct {
	LoanType            loan.Type
	Occupancy           loan.Occupancy
	PropertyType        loan.PropertyType
	Units               int
	FirstTimeBuyer      bool
	SelfEmployed        bool
	CreditScore         int
	LatePayments12Mo    int
	BankruptcyDischarge *time.Time
	DTI                 float64
	FrontEndDTI         float64
	LTV                 float64
	CLTV                float64
	Reserves            float64
	AsOf                time.Time
}

// BuildContext assembles the evaluation snapshot from the application
// and its computed metrics, as of now.
func BuildContext(app *loan.Application, m Metrics, now time.Time) Context {
	selfEmployed := app.Borrower.EmploymentStatus == loan.EmploymentSelfEmployed ||
		app.Borrower.EmploymentStatus == loan.EmploymentBusinessOwner

	return Context{
		LoanType:            app.Terms.Type,
		Occupancy:           app.Property.Occupancy,
		PropertyType:        app.Property.Type,
		Units:               app.Property.Units,
		FirstTimeBuyer:      app.Borrower.FirstTimeBuyer,
		SelfEmployed:        selfEmployed,
		CreditScore:         m.CreditScore,
		LatePayments12Mo:    app.Borrower.LatePayments12Mo,
		BankruptcyDischarge: app.Borrower.BankruptcyDischarge,
		DTI:                 m.DTI,
		FrontEndDTI:         m.FrontEndDTI,
		LTV:                 m.LTV,
		CLTV:                m.LTV,
		Reserves:            m.Reserves,
		AsOf:                now,
	}
}

// RuleResult is the outcome of one rule. Condition carries the
// human-readable trigger for non-PASS outcomes.
type RuleResult struct {
	Status    RuleStatus
	Message   string
	Condition string
}

func pass() RuleResult {
	return RuleResult{Status: StatusPass}
}

// Rule is a stateless, independent evaluator. No rule depends on another
// rule's result.
type Rule struct {
	ID       string
	Category Category
	Evaluate func(Context) RuleResult
}

// Rules returns the registered rule table. Order is presentation order
// only; evaluation is order-independent.
func Rules() []Rule {
	return []Rule{
		{
			ID:       "credit-minimum-score",
			Category: CategoryCredit,
			Evaluate: minimumCreditScore,
		},
		{
			ID:       "credit-late-payments",
			Category: CategoryCredit,
			Evaluate: latePayments,
		},
		{
			ID:       "credit-bankruptcy-seasoning",
			Category: CategoryCredit,
			Evaluate: bankruptcySeasoning,
		},
		{
			ID:       "capacity-maximum-dti",
			Category: CategoryCapacity,
			Evaluate: maximumDTI,
		},
		{
			ID:       "capacity-thin-reserves",
			Category: CategoryCapacity,
			Evaluate: thinReserves,
		},
		{
			ID:       "collateral-maximum-ltv",
			Category: CategoryCollateral,
			Evaluate: maximumLTV,
		},
		{
			ID:       "collateral-manufactured-ltv",
			Category: CategoryCollateral,
			Evaluate: manufacturedLTV,
		},
		{
			ID:       "capital-required-reserves",
			Category: CategoryCapital,
			Evaluate: requiredReserves,
		},
	}
}

func minimumCreditScore(ctx Context) RuleResult {
	minScore := 620
	if ctx.LoanType == loan.TypeFHA {
		minScore = 580
	}

	if ctx.CreditScore < minScore {
		return RuleResult{
			Status:    StatusFail,
			Message:   fmt.Sprintf("credit score %d below program minimum %d", ctx.CreditScore, minScore),
			Condition: fmt.Sprintf("credit score < %d", minScore),
		}
	}

	return pass()
}

func latePayments(ctx Context) RuleResult {
	if ctx.LatePayments12Mo >= 1 {
		return RuleResult{
			Status:    StatusRefer,
			Message:   fmt.Sprintf("%d late payment(s) in the last 12 months", ctx.LatePayments12Mo),
			Condition: "late payments within 12 months",
		}
	}

	return pass()
}

func bankruptcySeasoning(ctx Context) RuleResult {
	if ctx.BankruptcyDischarge == nil {
		return pass()
	}

	seasoningYears := 4
	if ctx.LoanType == loan.TypeFHA {
		seasoningYears = 2
	}

	required := ctx.BankruptcyDischarge.AddDate(seasoningYears, 0, 0)
	if ctx.AsOf.Before(required) {
		return RuleResult{
			Status:    StatusFail,
			Message:   fmt.Sprintf("bankruptcy discharge within %d-year seasoning period", seasoningYears),
			Condition: fmt.Sprintf("bankruptcy discharged less than %d years ago", seasoningYears),
		}
	}

	return pass()
}

func maximumDTI(ctx Context) RuleResult {
	limit := 45.0

	switch {
	case ctx.LoanType == loan.TypeFHA:
		limit = 55
	case ctx.LoanType == loan.TypeVA:
		limit = 60
	case ctx.LoanType == loan.TypeConventional && ctx.CreditScore >= 700 && ctx.Reserves >= 6:
		limit = 50
	}

	if ctx.DTI > limit {
		return RuleResult{
			Status:    StatusFail,
			Message:   fmt.Sprintf("back-end DTI %.1f%% exceeds maximum %.1f%%", ctx.DTI, limit),
			Condition: fmt.Sprintf("DTI > %.1f%%", limit),
		}
	}

	return pass()
}

func thinReserves(ctx Context) RuleResult {
	if ctx.DTI > 45 && ctx.Reserves < 2 {
		return RuleResult{
			Status:    StatusRefer,
			Message:   fmt.Sprintf("DTI %.1f%% with only %.1f months reserves", ctx.DTI, ctx.Reserves),
			Condition: "DTI > 45% with reserves < 2 months",
		}
	}

	return pass()
}

// ltvLimit is one row of the ordered LTV cap table. The first applicable
// row supplies the cap.
type ltvLimit struct {
	applies func(Context) bool
	max     float64
	label   string
}

var ltvLimits = []ltvLimit{
	{
		applies: func(ctx Context) bool {
			return ctx.LoanType == loan.TypeConventional && ctx.FirstTimeBuyer
		},
		max:   97,
		label: "conventional first-time buyer",
	},
	{
		applies: func(ctx Context) bool { return ctx.LoanType == loan.TypeFHA },
		max:     96.5,
		label:   "FHA",
	},
	{
		applies: func(ctx Context) bool { return ctx.LoanType == loan.TypeVA },
		max:     100,
		label:   "VA",
	},
	{
		applies: func(ctx Context) bool { return ctx.LoanType == loan.TypeConventional },
		max:     95,
		label:   "conventional repeat buyer",
	},
	{
		applies: func(ctx Context) bool { return ctx.Occupancy == loan.OccupancyInvestment },
		max:     85,
		label:   "investment occupancy",
	},
}

func maximumLTV(ctx Context) RuleResult {
	for _, limit := range ltvLimits {
		if !limit.applies(ctx) {
			continue
		}

		if ctx.LTV > limit.max {
			return RuleResult{
				Status:    StatusFail,
				Message:   fmt.Sprintf("LTV %.2f%% exceeds %s maximum %.2f%%", ctx.LTV, limit.label, limit.max),
				Condition: fmt.Sprintf("LTV > %.2f%% (%s)", limit.max, limit.label),
			}
		}

		return pass()
	}

	return pass()
}

func manufacturedLTV(ctx Context) RuleResult {
	if ctx.PropertyType == loan.PropertyManufactured && ctx.LoanType == loan.TypeConventional && ctx.LTV > 95 {
		return RuleResult{
			Status:    StatusFail,
			Message:   fmt.Sprintf("manufactured home LTV %.2f%% exceeds conventional cap 95%%", ctx.LTV),
			Condition: "manufactured home LTV > 95% on conventional",
		}
	}

	return pass()
}

func requiredReserves(ctx Context) RuleResult {
	required := 0.0

	if ctx.Occupancy == loan.OccupancyInvestment {
		required += 6
	}

	if ctx.Units > 1 {
		required += 2
	}

	if ctx.SelfEmployed {
		required += 2
	}

	if ctx.Reserves < required {
		return RuleResult{
			Status:    StatusRefer,
			Message:   fmt.Sprintf("%.1f months reserves below required %.1f", ctx.Reserves, required),
			Condition: fmt.Sprintf("reserves < %.1f months", required),
		}
	}

	return pass()
}
