// Package underwriting computes affordability metrics for a loan
// application and evaluates them against categorized pass/fail/refer
// rules to produce an automated decision.
package underwriting

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

const (
	// termMonths is the assumed amortization term (30-year fixed).
	termMonths = 360

	// taxInsuranceRate is the estimated annual tax and insurance load as
	// a fraction of property value.
	taxInsuranceRate = 0.0125
)

// Metrics are the derived affordability figures. Ratios are percentages;
// reserves are months of housing payment coverage. A zero denominator
// yields 0, not an error: the figure is unknown, not failing.
type Metrics struct {
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	MonthlyDebts   decimal.Decimal `json:"monthly_debts"`
	HousingPayment decimal.Decimal `json:"housing_payment"`
	DTI            float64         `json:"dti"`
	FrontEndDTI    float64         `json:"frontend_dti"`
	LTV            float64         `json:"ltv"`
	Reserves       float64         `json:"reserves"`
	CreditScore    int             `json:"credit_score"`
}

// Calculator derives metrics from raw application data at an assumed
// interest rate.
type Calculator struct {
	annualRate float64
}

// NewCalculator creates a calculator using the given assumed annual
// interest rate, in percent.
func NewCalculator(annualRate float64) *Calculator {
	return &Calculator{annualRate: annualRate}
}

// Compute derives the full metric set for the application.
func (c *Calculator) Compute(app *loan.Application) Metrics {
	income := monthlyIncome(app.Borrower.Employments)
	debts := monthlyDebts(app.Borrower.Liabilities)
	housing := c.housingPayment(app.Terms.Amount, app.Property.PurchasePrice)

	incomeF, _ := income.Float64()
	debtsF, _ := debts.Float64()
	housingF, _ := housing.Float64()
	amountF, _ := app.Terms.Amount.Float64()
	valueF, _ := app.Property.PurchasePrice.Float64()
	liquidF, _ := liquidAssets(app.Borrower.Assets).Float64()

	return Metrics{
		MonthlyIncome:  income,
		MonthlyDebts:   debts,
		HousingPayment: housing,
		DTI:            ratio(housingF+debtsF, incomeF),
		FrontEndDTI:    ratio(housingF, incomeF),
		LTV:            ratio(amountF, valueF),
		Reserves:       months(liquidF, housingF),
		CreditScore:    app.Borrower.CreditScore,
	}
}

// housingPayment is the amortized principal and interest plus the
// estimated monthly tax/insurance load (PITI).
func (c *Calculator) housingPayment(amount, propertyValue decimal.Decimal) decimal.Decimal {
	principal, _ := amount.Float64()
	value, _ := propertyValue.Float64()

	pi := amortize(principal, c.annualRate, termMonths)
	ti := value * taxInsuranceRate / 12

	return decimal.NewFromFloat(pi + ti).Round(2)
}

// amortize is the standard payment formula P·r·(1+r)^n / ((1+r)^n − 1)
// with r the monthly rate.
func amortize(principal, annualRate float64, n int) float64 {
	if principal <= 0 {
		return 0
	}

	r := annualRate / 100 / 12
	if r == 0 {
		return principal / float64(n)
	}

	factor := math.Pow(1+r, float64(n))

	return principal * r * factor / (factor - 1)
}

func monthlyIncome(employments []loan.Employment) decimal.Decimal {
	total := decimal.Zero

	for _, e := range employments {
		total = total.Add(e.Income.Total())
	}

	return total
}

func monthlyDebts(liabilities []loan.Liability) decimal.Decimal {
	total := decimal.Zero

	for _, l := range liabilities {
		if l.ToBePaidOff || l.Omitted {
			continue
		}

		total = total.Add(l.MonthlyPayment)
	}

	return total
}

func liquidAssets(assets []loan.Asset) decimal.Decimal {
	total := decimal.Zero

	for _, a := range assets {
		if a.Liquid {
			total = total.Add(a.Value)
		}
	}

	return total
}

// ratio returns num/den as a percentage, or 0 for a zero denominator.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}

	return num / den * 100
}

// months returns assets/payment in months, or 0 for a zero payment.
func months(assets, payment float64) float64 {
	if payment == 0 {
		return 0
	}

	return assets / payment
}
