package underwriting

import "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"

// Program is a loan program with hard eligibility limits.
type Program struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           loan.Type `json:"type"`
	Rate           float64   `json:"rate"`
	MaxDTI         float64   `json:"max_dti"`
	MaxLTV         float64   `json:"max_ltv"`
	MinCreditScore int       `json:"min_credit_score"`
}

// DefaultPrograms is the product shelf offered when no custom program
// set is configured.
func DefaultPrograms() []Program {
	return []Program{
		{
			ID:             "conv-30",
			Name:           "Conventional 30-Year Fixed",
			Type:           loan.TypeConventional,
			Rate:           6.875,
			MaxDTI:         50,
			MaxLTV:         97,
			MinCreditScore: 620,
		},
		{
			ID:             "fha-30",
			Name:           "FHA 30-Year Fixed",
			Type:           loan.TypeFHA,
			Rate:           6.5,
			MaxDTI:         55,
			MaxLTV:         96.5,
			MinCreditScore: 580,
		},
		{
			ID:             "va-30",
			Name:           "VA 30-Year Fixed",
			Type:           loan.TypeVA,
			Rate:           6.25,
			MaxDTI:         60,
			MaxLTV:         100,
			MinCreditScore: 620,
		},
	}
}

// Qualifies applies the program's hard limits to the computed metrics.
func (p Program) Qualifies(m Metrics) bool {
	return m.DTI <= p.MaxDTI && m.LTV <= p.MaxLTV && m.CreditScore >= p.MinCreditScore
}

// FilterPrograms returns the programs the application qualifies for.
func FilterPrograms(programs []Program, m Metrics) []Program {
	var eligible []Program

	for _, p := range programs {
		if p.Qualifies(m) {
			eligible = append(eligible, p)
		}
	}

	return eligible
}
