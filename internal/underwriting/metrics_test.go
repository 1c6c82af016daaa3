package underwriting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/underwriting"
)

func testApp() *loan.Application {
	return &loan.Application{
		Borrower: loan.Borrower{
			CreditScore: 720,
			Employments: []loan.Employment{
				{
					Employer: "Acme Corp",
					Income: loan.IncomeBreakdown{
						Base:     decimal.NewFromInt(9000),
						Overtime: decimal.NewFromInt(500),
						Bonus:    decimal.NewFromInt(300),
					},
				},
				{
					Employer: "Side Gig LLC",
					Income:   loan.IncomeBreakdown{Other: decimal.NewFromInt(200)},
				},
			},
			Liabilities: []loan.Liability{
				{Creditor: "Auto Lender", MonthlyPayment: decimal.NewFromInt(450)},
				{Creditor: "Card A", MonthlyPayment: decimal.NewFromInt(150)},
				{Creditor: "Card B", MonthlyPayment: decimal.NewFromInt(200), ToBePaidOff: true},
				{Creditor: "Disputed", MonthlyPayment: decimal.NewFromInt(99), Omitted: true},
			},
			Assets: []loan.Asset{
				{Institution: "Checking", Value: decimal.NewFromInt(25000), Liquid: true},
				{Institution: "Brokerage", Value: decimal.NewFromInt(15000), Liquid: true},
				{Institution: "Vehicle", Value: decimal.NewFromInt(20000), Liquid: false},
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
			Amount:  decimal.NewFromInt(320000),
		},
	}
}

func TestCalculator_Compute(t *testing.T) {
	calc := underwriting.NewCalculator(0)
	m := calc.Compute(testApp())

	// Income sums every component across every employment record.
	assert.True(t, m.MonthlyIncome.Equal(decimal.NewFromInt(10000)), "got %s", m.MonthlyIncome)

	// Paid-off and omitted liabilities are excluded.
	assert.True(t, m.MonthlyDebts.Equal(decimal.NewFromInt(600)), "got %s", m.MonthlyDebts)

	// Zero rate: P&I degrades to principal/360; plus the 1.25%/yr
	// tax/insurance load on property value.
	// 320000/360 + 400000*0.0125/12 = 888.89 + 416.67
	payment, _ := m.HousingPayment.Float64()
	assert.InDelta(t, 1305.56, payment, 0.02)

	assert.InDelta(t, 80.0, m.LTV, 0.001)
	assert.InDelta(t, (1305.56+600)/10000*100, m.DTI, 0.01)
	assert.InDelta(t, 1305.56/10000*100, m.FrontEndDTI, 0.01)
	assert.InDelta(t, 40000/1305.56, m.Reserves, 0.01)
	assert.Equal(t, 720, m.CreditScore)
}

func TestCalculator_Compute_AmortizedPayment(t *testing.T) {
	calc := underwriting.NewCalculator(6.0)
	m := calc.Compute(testApp())

	// 320000 at 6% over 360 months amortizes to ~1918.56 P&I.
	payment, _ := m.HousingPayment.Float64()
	assert.InDelta(t, 1918.56+416.67, payment, 0.5)
}

func TestCalculator_Compute_ZeroDenominators(t *testing.T) {
	calc := underwriting.NewCalculator(7.0)

	app := testApp()
	app.Borrower.Employments = nil
	app.Terms.Amount = decimal.Zero
	app.Property.PurchasePrice = decimal.Zero

	m := calc.Compute(app)

	// Unknown, not failing: zero denominators yield zero ratios.
	assert.Zero(t, m.DTI)
	assert.Zero(t, m.FrontEndDTI)
	assert.Zero(t, m.LTV)
	assert.Zero(t, m.Reserves)
}

func TestCalculator_Compute_Monotonicity(t *testing.T) {
	calc := underwriting.NewCalculator(6.5)

	base := calc.Compute(testApp())

	bigger := testApp()
	bigger.Terms.Amount = decimal.NewFromInt(360000)

	m := calc.Compute(bigger)

	require.Greater(t, m.LTV, base.LTV)
	require.Greater(t, m.DTI, base.DTI)
	require.Less(t, m.Reserves, base.Reserves)
}
