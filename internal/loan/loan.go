package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage represents the loan's position in the origination pipeline.
type Stage string

const (
	StageDraft              Stage = "draft"
	StageSubmitted          Stage = "submitted"
	StagePreUnderwriting    Stage = "pre_underwriting"
	StageUnderwriting       Stage = "underwriting"
	StageSeniorUnderwriting Stage = "senior_underwriting"
	StageConditional        Stage = "conditional"
	StageClearToClose       Stage = "clear_to_close"
	StageClosed             Stage = "closed"
)

// stageOrder defines the forward-only pipeline sequence.
var stageOrder = map[Stage]int{
	StageDraft:              0,
	StageSubmitted:          1,
	StagePreUnderwriting:    2,
	StageUnderwriting:       3,
	StageSeniorUnderwriting: 4,
	StageConditional:        5,
	StageClearToClose:       6,
	StageClosed:             7,
}

// CanAdvanceTo reports whether moving from s to next is a forward
// transition. Stages never regress except via administrative override,
// which is not part of this surface.
func (s Stage) CanAdvanceTo(next Stage) bool {
	from, ok := stageOrder[s]
	if !ok {
		return false
	}

	to, ok := stageOrder[next]
	if !ok {
		return false
	}

	return to > from
}

// Status is the coarser applicant-facing label, distinct from Stage.
type Status string

const (
	StatusIncomplete     Status = "incomplete"
	StatusActionRequired Status = "action_required"
	StatusUnderReview    Status = "under_review"
	StatusApproved       Status = "approved"
	StatusRejected       Status = "rejected"
	StatusClosed         Status = "closed"
)

// EmploymentStatus classifies how the borrower earns income.
type EmploymentStatus string

const (
	EmploymentEmployed      EmploymentStatus = "employed"
	EmploymentSelfEmployed  EmploymentStatus = "self_employed"
	EmploymentBusinessOwner EmploymentStatus = "business_owner"
	EmploymentRetired       EmploymentStatus = "retired"
	EmploymentUnemployed    EmploymentStatus = "unemployed"
)

// IncomeType classifies how the borrower's income is documented.
type IncomeType string

const (
	IncomeW2           IncomeType = "w2"
	IncomeSelfEmployed IncomeType = "self_employed"
	IncomeFixed        IncomeType = "fixed"
)

// Purpose of the loan.
type Purpose string

const (
	PurposePurchase  Purpose = "purchase"
	PurposeRefinance Purpose = "refinance"
)

// Type is the loan program family.
type Type string

const (
	TypeConventional Type = "conventional"
	TypeFHA          Type = "fha"
	TypeVA           Type = "va"
	TypeUSDA         Type = "usda"
)

// PropertyType classifies the subject property.
type PropertyType string

const (
	PropertySingleFamily PropertyType = "single_family"
	PropertyCondo        PropertyType = "condo"
	PropertyTownhouse    PropertyType = "townhouse"
	PropertyMultiUnit    PropertyType = "multi_unit"
	PropertyManufactured PropertyType = "manufactured"
)

// Occupancy describes how the borrower will use the property.
type Occupancy string

const (
	OccupancyPrimary    Occupancy = "primary"
	OccupancySecondHome Occupancy = "second_home"
	OccupancyInvestment Occupancy = "investment"
)

// DocumentType tags an uploaded document and a requirement row. Multiple
// requirements may share a tag; completeness operates on tag membership.
type DocumentType string

const (
	DocGovernmentID        DocumentType = "government_id"
	DocPayStub             DocumentType = "pay_stub"
	DocW2                  DocumentType = "w2"
	DocTaxReturn           DocumentType = "tax_return"
	DocBusinessTaxReturn   DocumentType = "business_tax_return"
	DocProfitLossStatement DocumentType = "profit_loss_statement"
	DocBankStatement       DocumentType = "bank_statement"
	DocPurchaseAgreement   DocumentType = "purchase_agreement"
	DocInsuranceQuote      DocumentType = "insurance_quote"
	DocHOADocuments        DocumentType = "hoa_documents"
	DocCertOfEligibility   DocumentType = "certificate_of_eligibility"
	DocDD214               DocumentType = "dd214"
	DocOther               DocumentType = "other"
)

// Document is the metadata of an uploaded document. Content storage and
// OCR live outside this system.
type Document struct {
	ID         uuid.UUID
	Type       DocumentType
	Filename   string
	UploadedAt time.Time
}

// ConditionType orders a condition relative to the closing milestones.
type ConditionType string

const (
	ConditionPriorToDoc     ConditionType = "prior_to_doc"
	ConditionPriorToFunding ConditionType = "prior_to_funding"
	ConditionPriorToClosing ConditionType = "prior_to_closing"
)

// ConditionStatus is the lifecycle of a single condition.
type ConditionStatus string

const (
	ConditionPending   ConditionStatus = "pending"
	ConditionSatisfied ConditionStatus = "satisfied"
	ConditionWaived    ConditionStatus = "waived"
)

// Condition is a post-decision requirement imposed during underwriting.
// Conditions are never deleted; they form part of the audit trail.
type Condition struct {
	ID                uuid.UUID
	Type              ConditionType
	Description       string
	Status            ConditionStatus
	RequiredDocuments []DocumentType
	SatisfiedAt       *time.Time
	SatisfiedBy       string
	WaivedAt          *time.Time
	WaivedBy          string
	CreatedAt         time.Time
}

// Resolved reports whether the condition no longer blocks closing.
func (c Condition) Resolved() bool {
	return c.Status == ConditionSatisfied || c.Status == ConditionWaived
}

// Decision is the underwriting outcome recorded on the application.
type Decision string

const (
	DecisionApproved    Decision = "approved"
	DecisionConditional Decision = "conditional"
	DecisionRejected    Decision = "rejected"
)

// IncomeBreakdown holds the declared monthly income components of one
// employment record.
type IncomeBreakdown struct {
	Base       decimal.Decimal `json:"base"`
	Overtime   decimal.Decimal `json:"overtime"`
	Bonus      decimal.Decimal `json:"bonus"`
	Commission decimal.Decimal `json:"commission"`
	Military   decimal.Decimal `json:"military"`
	Other      decimal.Decimal `json:"other"`
}

// Total sums all income components.
func (b IncomeBreakdown) Total() decimal.Decimal {
	return b.Base.Add(b.Overtime).Add(b.Bonus).Add(b.Commission).Add(b.Military).Add(b.Other)
}

// Employment is one declared employment record.
type Employment struct {
	Employer string          `json:"employer"`
	Income   IncomeBreakdown `json:"income"`
}

// Liability is one declared monthly obligation.
type Liability struct {
	Creditor       string          `json:"creditor"`
	Kind           string          `json:"kind"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Balance        decimal.Decimal `json:"balance"`
	ToBePaidOff    bool            `json:"to_be_paid_off"`
	Omitted        bool            `json:"omitted"`
}

// Asset is one declared asset.
type Asset struct {
	Institution string          `json:"institution"`
	Kind        string          `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	Liquid      bool            `json:"liquid"`
}

// Borrower is the borrower profile used by the resolver and the rule
// engine.
type Borrower struct {
	FullName            string            `json:"full_name"`
	Email               string            `json:"email"`
	Phone               string            `json:"phone"`
	EmploymentStatus    EmploymentStatus  `json:"employment_status"`
	IncomeType          IncomeType        `json:"income_type"`
	CreditScore         int               `json:"credit_score"`
	FirstTimeBuyer      bool              `json:"first_time_buyer"`
	LatePayments12Mo    int               `json:"late_payments_12mo"`
	BankruptcyDischarge *time.Time        `json:"bankruptcy_discharge,omitempty"`
	ForeclosureDate     *time.Time        `json:"foreclosure_date,omitempty"`
	Employments         []Employment      `json:"employments"`
	Liabilities         []Liability       `json:"liabilities"`
	Assets              []Asset           `json:"assets"`
}

// Property is the subject property profile.
type Property struct {
	Type          PropertyType    `json:"type"`
	Units         int             `json:"units"`
	Occupancy     Occupancy       `json:"occupancy"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Address       string          `json:"address"`
}

// Terms are the requested loan terms.
type Terms struct {
	Purpose Purpose         `json:"purpose"`
	Type    Type            `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
}

// Application is the aggregate root. Created on application start,
// mutated by the orchestrator and by underwriters, never deleted; a
// finished loan transitions to StageClosed.
type Application struct {
	ID         uuid.UUID
	Stage      Stage
	Status     Status
	Borrower   Borrower
	Property   Property
	Terms      Terms
	Documents  []Document
	Conditions []Condition
	Decision   *Decision
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// HasDocument reports whether at least one uploaded document carries the
// given type tag.
func (a *Application) HasDocument(t DocumentType) bool {
	for _, d := range a.Documents {
		if d.Type == t {
			return true
		}
	}

	return false
}

// PendingConditions returns the conditions still blocking closing.
func (a *Application) PendingConditions() []Condition {
	var pending []Condition

	for _, c := range a.Conditions {
		if !c.Resolved() {
			pending = append(pending, c)
		}
	}

	return pending
}
