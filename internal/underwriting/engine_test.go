package underwriting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/underwriting"
)

func cleanApp() *loan.Application {
	return &loan.Application{
		Borrower: loan.Borrower{
			CreditScore:    740,
			FirstTimeBuyer: true,
			Employments: []loan.Employment{
				{Employer: "Acme Corp", Income: loan.IncomeBreakdown{Base: decimal.NewFromInt(12000)}},
			},
			Liabilities: []loan.Liability{
				{Creditor: "Auto Lender", MonthlyPayment: decimal.NewFromInt(800)},
			},
			Assets: []loan.Asset{
				{Institution: "Checking", Value: decimal.NewFromInt(60000), Liquid: true},
			},
		},
		Property: loan.Property{
			Type:          loan.PropertySingleFamily,
			Units:         1,
			Occupancy:     loan.OccupancyPrimary,
			PurchasePrice: decimal.NewFromInt(400000),
		},
		Terms: loan.Terms{
			Purpose: loan.PurposePurchase,
			Type:    loan.TypeConventional,
			Amount:  decimal.NewFromInt(304000),
		},
	}
}

func TestEngine_Evaluate_Approve(t *testing.T) {
	engine := underwriting.NewEngine(underwriting.NewCalculator(6.0), nil)

	result := engine.Evaluate(cleanApp())

	assert.Equal(t, underwriting.ApproveEligible, result.Recommendation)
	assert.Empty(t, result.Findings)
	assert.NotEmpty(t, result.EligiblePrograms)
}

func TestEngine_Evaluate_SingleFailForcesIneligible(t *testing.T) {
	engine := underwriting.NewEngine(underwriting.NewCalculator(6.0), nil)

	app := cleanApp()
	app.Borrower.CreditScore = 600

	result := engine.Evaluate(app)

	assert.Equal(t, underwriting.Ineligible, result.Recommendation)

	var sawFail bool

	for _, f := range result.Findings {
		if f.RuleID == "credit-minimum-score" {
			sawFail = true

			assert.Equal(t, underwriting.StatusFail, f.Status)
			assert.Equal(t, underwriting.CategoryCredit, f.Category)
		}
	}

	assert.True(t, sawFail)
}

func TestEngine_Evaluate_ReferNeverApproves(t *testing.T) {
	engine := underwriting.NewEngine(underwriting.NewCalculator(6.0), nil)

	app := cleanApp()
	app.Borrower.LatePayments12Mo = 1

	result := engine.Evaluate(app)

	assert.Equal(t, underwriting.ReferEligible, result.Recommendation)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, underwriting.StatusRefer, result.Findings[0].Status)
}

func TestEngine_Evaluate_FHAScoreFloor(t *testing.T) {
	engine := underwriting.NewEngine(underwriting.NewCalculator(6.0), nil)

	app := cleanApp()
	app.Terms.Type = loan.TypeFHA
	app.Borrower.CreditScore = 600

	// 600 fails conventional (620) but passes FHA (580).
	result := engine.Evaluate(app)

	for _, f := range result.Findings {
		assert.NotEqual(t, "credit-minimum-score", f.RuleID)
	}
}

func TestEngine_Evaluate_BankruptcySeasoning(t *testing.T) {
	engine := underwriting.NewEngine(underwriting.NewCalculator(6.0), nil)

	recent := time.Now().AddDate(-3, 0, 0)

	app := cleanApp()
	app.Borrower.BankruptcyDischarge = &recent

	// Conventional needs 4 years of seasoning.
	result := engine.Evaluate(app)
	assert.Equal(t, underwriting.Ineligible, result.Recommendation)

	// FHA needs only 2.
	app.Terms.Type = loan.TypeFHA
	result = engine.Evaluate(app)

	for _, f := range result.Findings {
		assert.NotEqual(t, "credit-bankruptcy-seasoning", f.RuleID)
	}
}

func TestEngine_Evaluate_InvestmentReserves(t *testing.T) {
	engine := underwriting.NewEngine(underwriting.NewCalculator(6.0), nil)

	app := cleanApp()
	app.Property.Occupancy = loan.OccupancyInvestment
	app.Borrower.Assets = []loan.Asset{
		{Institution: "Checking", Value: decimal.NewFromInt(5000), Liquid: true},
	}

	result := engine.Evaluate(app)

	var sawReserves bool

	for _, f := range result.Findings {
		if f.RuleID == "capital-required-reserves" {
			sawReserves = true

			assert.Equal(t, underwriting.StatusRefer, f.Status)
		}
	}

	assert.True(t, sawReserves)
}

func TestEngine_Evaluate_ZeroProgramsForcesIneligible(t *testing.T) {
	// A VA applicant with DTI between 50 and 60 passes every rule but
	// qualifies for no program when the only program caps DTI at 50.
	programs := []underwriting.Program{
		{ID: "strict", Name: "Strict Jumbo", Type: loan.TypeConventional, MaxDTI: 50, MaxLTV: 97, MinCreditScore: 620},
	}
	engine := underwriting.NewEngine(underwriting.NewCalculator(6.0), programs)

	app := cleanApp()
	app.Terms.Type = loan.TypeVA
	app.Terms.Amount = decimal.NewFromInt(200000)
	app.Property.PurchasePrice = decimal.NewFromInt(250000)
	app.Borrower.Employments = []loan.Employment{
		{Employer: "Acme Corp", Income: loan.IncomeBreakdown{Base: decimal.NewFromInt(5000)}},
	}
	app.Borrower.Liabilities = []loan.Liability{
		{Creditor: "Cards", MonthlyPayment: decimal.NewFromInt(1400)},
	}
	app.Borrower.Assets = []loan.Asset{
		{Institution: "Checking", Value: decimal.NewFromInt(30000), Liquid: true},
	}

	result := engine.Evaluate(app)

	assert.Empty(t, result.Findings, "all rules pass for this applicant")
	assert.Empty(t, result.EligiblePrograms)
	assert.Equal(t, underwriting.Ineligible, result.Recommendation)
}

func TestFilterPrograms(t *testing.T) {
	program := underwriting.Program{
		ID: "p1", MaxDTI: 50, MaxLTV: 97, MinCreditScore: 620,
	}

	eligible := underwriting.FilterPrograms([]underwriting.Program{program}, underwriting.Metrics{
		DTI: 45, LTV: 90, CreditScore: 680,
	})
	require.Len(t, eligible, 1)

	excluded := underwriting.FilterPrograms([]underwriting.Program{program}, underwriting.Metrics{
		DTI: 55, LTV: 90, CreditScore: 680,
	})
	assert.Empty(t, excluded)
}
