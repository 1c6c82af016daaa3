// Package document derives the set of documents a loan application must
// supply and checks uploaded documents against it.
package document

import (
	"slices"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

// Predicate is a fixed enumeration of field matchers evaluated against
// the application. An empty slice means the field is not constrained; an
// entirely empty predicate matches every application.
type Predicate struct {
	EmploymentStatus []loan.EmploymentStatus
	IncomeType       []loan.IncomeType
	LoanPurpose      []loan.Purpose
	LoanType         []loan.Type
	PropertyType     []loan.PropertyType
}

// Matches reports whether every constrained field matches the
// application.
func (p Predicate) Matches(app *loan.Application) bool {
	if len(p.EmploymentStatus) > 0 && !slices.Contains(p.EmploymentStatus, app.Borrower.EmploymentStatus) {
		return false
	}

	if len(p.IncomeType) > 0 && !slices.Contains(p.IncomeType, app.Borrower.IncomeType) {
		return false
	}

	if len(p.LoanPurpose) > 0 && !slices.Contains(p.LoanPurpose, app.Terms.Purpose) {
		return false
	}

	if len(p.LoanType) > 0 && !slices.Contains(p.LoanType, app.Terms.Type) {
		return false
	}

	if len(p.PropertyType) > 0 && !slices.Contains(p.PropertyType, app.Property.Type) {
		return false
	}

	return true
}

// Requirement is one row of the requirement table. Rows are value
// objects, recomputed on demand and never persisted. Several rows may
// share a Type tag.
type Requirement struct {
	Type        loan.DocumentType
	Name        string
	Description string
	Required    bool
	When        Predicate
}

// requirements is the declarative requirement table. Row order is the
// order requirements are presented to the applicant.
var requirements = []Requirement{
	{
		Type:        loan.DocGovernmentID,
		Name:        "Government Photo ID",
		Description: "Valid government-issued photo identification",
		Required:    true,
	},
	{
		Type:        loan.DocPayStub,
		Name:        "Pay Stubs",
		Description: "Pay stubs covering the most recent 30 days",
		Required:    true,
		When: Predicate{
			EmploymentStatus: []loan.EmploymentStatus{loan.EmploymentEmployed},
			IncomeType:       []loan.IncomeType{loan.IncomeW2},
		},
	},
	{
		Type:        loan.DocW2,
		Name:        "W-2 Forms",
		Description: "W-2 forms for the most recent 2 years",
		Required:    true,
		When: Predicate{
			EmploymentStatus: []loan.EmploymentStatus{loan.EmploymentEmployed},
			IncomeType:       []loan.IncomeType{loan.IncomeW2},
		},
	},
	{
		Type:        loan.DocTaxReturn,
		Name:        "Personal Tax Returns",
		Description: "Personal tax returns for the most recent 2 years, all schedules",
		Required:    true,
		When: Predicate{
			EmploymentStatus: []loan.EmploymentStatus{loan.EmploymentSelfEmployed, loan.EmploymentBusinessOwner},
		},
	},
	{
		Type:        loan.DocBusinessTaxReturn,
		Name:        "Business Tax Returns",
		Description: "Business tax returns for the most recent 2 years",
		Required:    true,
		When: Predicate{
			EmploymentStatus: []loan.EmploymentStatus{loan.EmploymentSelfEmployed, loan.EmploymentBusinessOwner},
		},
	},
	{
		Type:        loan.DocProfitLossStatement,
		Name:        "YTD Profit & Loss Statement",
		Description: "Year-to-date profit and loss statement",
		Required:    true,
		When: Predicate{
			EmploymentStatus: []loan.EmploymentStatus{loan.EmploymentSelfEmployed, loan.EmploymentBusinessOwner},
		},
	},
	{
		Type:        loan.DocTaxReturn,
		Name:        "Tax Returns",
		Description: "Tax returns for the most recent 2 years",
		Required:    true,
		When: Predicate{
			EmploymentStatus: []loan.EmploymentStatus{loan.EmploymentRetired},
		},
	},
	{
		Type:        loan.DocOther,
		Name:        "Social Security Award Letter",
		Description: "Current Social Security award letter",
		Required:    true,
		When: Predicate{
			EmploymentStatus: []loan.EmploymentStatus{loan.EmploymentRetired},
		},
	},
	{
		Type:        loan.DocOther,
		Name:        "Pension Statement",
		Description: "Most recent pension statement, if receiving pension income",
		Required:    false,
		When: Predicate{
			EmploymentStatus: []loan.EmploymentStatus{loan.EmploymentRetired},
		},
	},
	{
		Type:        loan.DocOther,
		Name:        "Retirement Account Statement",
		Description: "Most recent retirement account statement",
		Required:    false,
		When: Predicate{
			EmploymentStatus: []loan.EmploymentStatus{loan.EmploymentRetired},
		},
	},
	{
		Type:        loan.DocBankStatement,
		Name:        "Bank Statements",
		Description: "Bank statements for the most recent 2 months",
		Required:    true,
	},
	{
		Type:        loan.DocPurchaseAgreement,
		Name:        "Purchase Agreement",
		Description: "Fully executed purchase agreement",
		Required:    true,
		When: Predicate{
			LoanPurpose: []loan.Purpose{loan.PurposePurchase},
		},
	},
	{
		Type:        loan.DocInsuranceQuote,
		Name:        "Homeowners Insurance Quote",
		Description: "Homeowners insurance quote for the subject property",
		Required:    true,
	},
	{
		Type:        loan.DocHOADocuments,
		Name:        "HOA Documents",
		Description: "Homeowners association documents, if available",
		Required:    false,
		When: Predicate{
			PropertyType: []loan.PropertyType{loan.PropertyCondo, loan.PropertyTownhouse},
		},
	},
	{
		Type:        loan.DocCertOfEligibility,
		Name:        "Certificate of Eligibility",
		Description: "VA Certificate of Eligibility",
		Required:    true,
		When: Predicate{
			LoanType: []loan.Type{loan.TypeVA},
		},
	},
	{
		Type:        loan.DocDD214,
		Name:        "DD-214 or Statement of Service",
		Description: "DD-214 for veterans or Statement of Service for active duty",
		Required:    true,
		When: Predicate{
			LoanType: []loan.Type{loan.TypeVA},
		},
	},
}

// Resolver computes applicable document requirements for an
// application.
type Resolver struct {
	table []Requirement
}

func NewResolver() *Resolver {
	return &Resolver{table: requirements}
}

// Resolve returns the requirement rows applicable to the application, in
// table order.
func (r *Resolver) Resolve(app *loan.Application) []Requirement {
	var out []Requirement

	for _, req := range r.table {
		if req.When.Matches(app) {
			out = append(out, req)
		}
	}

	return out
}

// Completeness is the result of checking uploads against requirements.
type Completeness struct {
	Complete bool
	Missing  []Requirement
}

// Check compares uploaded document types against the required rows.
// Coverage is by type membership: any upload of a required type
// satisfies every required row carrying that type.
func (r *Resolver) Check(app *loan.Application) Completeness {
	var missing []Requirement

	for _, req := range r.Resolve(app) {
		if !req.Required {
			continue
		}

		if !app.HasDocument(req.Type) {
			missing = append(missing, req)
		}
	}

	return Completeness{
		Complete: len(missing) == 0,
		Missing:  missing,
	}
}
