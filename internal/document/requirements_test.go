package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/document"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

func newApp(mutate func(*loan.Application)) *loan.Application {
	app := &loan.Application{
		Stage: loan.StageDraft,
		Borrower: loan.Borrower{
			EmploymentStatus: loan.EmploymentEmployed,
			IncomeType:       loan.IncomeW2,
		},
		Property: loan.Property{
			Type:      loan.PropertySingleFamily,
			Units:     1,
			Occupancy: loan.OccupancyPrimary,
		},
		Terms: loan.Terms{
			Purpose: loan.PurposePurchase,
			Type:    loan.TypeConventional,
		},
	}

	if mutate != nil {
		mutate(app)
	}

	return app
}

func requiredTypes(reqs []document.Requirement) map[loan.DocumentType]bool {
	types := make(map[loan.DocumentType]bool)

	for _, r := range reqs {
		if r.Required {
			types[r.Type] = true
		}
	}

	return types
}

func TestResolver_Resolve_W2Employed(t *testing.T) {
	resolver := document.NewResolver()
	reqs := resolver.Resolve(newApp(nil))
	types := requiredTypes(reqs)

	assert.True(t, types[loan.DocPayStub])
	assert.True(t, types[loan.DocW2])
	assert.True(t, types[loan.DocGovernmentID])
	assert.True(t, types[loan.DocBankStatement])
	assert.True(t, types[loan.DocInsuranceQuote])
	assert.True(t, types[loan.DocPurchaseAgreement])

	assert.False(t, types[loan.DocTaxReturn])
	assert.False(t, types[loan.DocBusinessTaxReturn])
	assert.False(t, types[loan.DocProfitLossStatement])
}

func TestResolver_Resolve_SelfEmployed(t *testing.T) {
	resolver := document.NewResolver()

	for _, status := range []loan.EmploymentStatus{loan.EmploymentSelfEmployed, loan.EmploymentBusinessOwner} {
		t.Run(string(status), func(t *testing.T) {
			app := newApp(func(a *loan.Application) {
				a.Borrower.EmploymentStatus = status
				a.Borrower.IncomeType = loan.IncomeSelfEmployed
			})

			types := requiredTypes(resolver.Resolve(app))

			assert.True(t, types[loan.DocTaxReturn])
			assert.True(t, types[loan.DocBusinessTaxReturn])
			assert.True(t, types[loan.DocProfitLossStatement])
			assert.False(t, types[loan.DocPayStub])
			assert.False(t, types[loan.DocW2])
		})
	}
}

func TestResolver_Resolve_Retired(t *testing.T) {
	resolver := document.NewResolver()
	app := newApp(func(a *loan.Application) {
		a.Borrower.EmploymentStatus = loan.EmploymentRetired
		a.Borrower.IncomeType = loan.IncomeFixed
	})

	reqs := resolver.Resolve(app)
	types := requiredTypes(reqs)

	assert.True(t, types[loan.DocTaxReturn])
	assert.True(t, types[loan.DocOther], "award letter maps to the other tag")

	// Pension and retirement statements surface as optional rows sharing
	// the other tag.
	var optionalOther int

	for _, r := range reqs {
		if r.Type == loan.DocOther && !r.Required {
			optionalOther++
		}
	}

	assert.Equal(t, 2, optionalOther)
}

func TestResolver_Resolve_VA(t *testing.T) {
	resolver := document.NewResolver()

	// COE and DD-214 must surface regardless of employment status.
	for _, status := range []loan.EmploymentStatus{
		loan.EmploymentEmployed,
		loan.EmploymentSelfEmployed,
		loan.EmploymentRetired,
	} {
		t.Run(string(status), func(t *testing.T) {
			app := newApp(func(a *loan.Application) {
				a.Borrower.EmploymentStatus = status
				a.Terms.Type = loan.TypeVA
			})

			types := requiredTypes(resolver.Resolve(app))
			assert.True(t, types[loan.DocCertOfEligibility])
			assert.True(t, types[loan.DocDD214])
		})
	}
}

func TestResolver_Resolve_OptionalSuppressedWhenNotApplicable(t *testing.T) {
	resolver := document.NewResolver()
	reqs := resolver.Resolve(newApp(nil))

	for _, r := range reqs {
		assert.NotEqual(t, loan.DocHOADocuments, r.Type, "HOA docs only surface for condo/townhouse")
	}

	condo := newApp(func(a *loan.Application) {
		a.Property.Type = loan.PropertyCondo
	})

	var foundHOA bool

	for _, r := range resolver.Resolve(condo) {
		if r.Type == loan.DocHOADocuments {
			foundHOA = true

			assert.False(t, r.Required)
		}
	}

	assert.True(t, foundHOA)
}

func TestResolver_Resolve_RefinanceSkipsPurchaseAgreement(t *testing.T) {
	resolver := document.NewResolver()
	app := newApp(func(a *loan.Application) {
		a.Terms.Purpose = loan.PurposeRefinance
	})

	types := requiredTypes(resolver.Resolve(app))
	assert.False(t, types[loan.DocPurchaseAgreement])
}

func TestResolver_Check(t *testing.T) {
	resolver := document.NewResolver()
	app := newApp(nil)

	result := resolver.Check(app)
	require.False(t, result.Complete)

	missingBefore := len(result.Missing)
	require.Positive(t, missingBefore)

	// Uploading an unrelated type never removes anything from missing.
	app.Documents = append(app.Documents, loan.Document{Type: loan.DocHOADocuments})
	result = resolver.Check(app)
	assert.Len(t, result.Missing, missingBefore)

	// Uploading a required type removes exactly that type.
	app.Documents = append(app.Documents, loan.Document{Type: loan.DocPayStub})
	result = resolver.Check(app)
	assert.Len(t, result.Missing, missingBefore-1)

	for _, r := range result.Missing {
		assert.NotEqual(t, loan.DocPayStub, r.Type)
	}

	// Covering every required type completes the checklist.
	for _, req := range resolver.Resolve(app) {
		if req.Required && !app.HasDocument(req.Type) {
			app.Documents = append(app.Documents, loan.Document{Type: req.Type})
		}
	}

	result = resolver.Check(app)
	assert.True(t, result.Complete)
	assert.Empty(t, result.Missing)
}

func TestResolver_Check_TypeCoverageSharedTag(t *testing.T) {
	resolver := document.NewResolver()
	app := newApp(func(a *loan.Application) {
		a.Borrower.EmploymentStatus = loan.EmploymentRetired
		a.Borrower.IncomeType = loan.IncomeFixed
	})

	// One upload tagged other covers the award letter requirement even
	// though multiple rows share the tag.
	app.Documents = append(app.Documents, loan.Document{Type: loan.DocOther})

	result := resolver.Check(app)
	for _, r := range result.Missing {
		assert.NotEqual(t, loan.DocOther, r.Type)
	}
}
