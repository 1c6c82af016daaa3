package tradeline

// paymentMode determines how the monthly obligation is extracted from a
// row.
type paymentMode int

const (
	// paymentSingle means one "Monthly Payment" style column.
	paymentSingle paymentMode = iota
	// paymentSplit means separate scheduled and actual payment columns;
	// the actual payment wins when both are populated.
	paymentSplit
)

// Profile describes the column layout of a credit report CSV export.
// Adding a new vendor format is just adding a new Profile to the
// profiles slice.
type Profile struct {
	Name         string
	CreditorCol  string
	KindCol      string
	PaymentMode  paymentMode
	PaymentCol   string // used when PaymentMode == paymentSingle
	ScheduledCol string // used when PaymentMode == paymentSplit
	ActualCol    string // used when PaymentMode == paymentSplit
	BalanceCol   string
	PaidOffCol   string // optional, flags accounts cleared at closing
}

// requiredCols returns the column names that must be present for this
// profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.CreditorCol, p.BalanceCol}

	switch p.PaymentMode {
	case paymentSingle:
		cols = append(cols, p.PaymentCol)
	case paymentSplit:
		cols = append(cols, p.ScheduledCol, p.ActualCol)
	}

	return cols
}

// profiles is the ordered list of export formats to try during
// auto-detection. More specific profiles come first to avoid false
// matches.
var profiles = []Profile{
	{
		Name:         "detail",
		CreditorCol:  "Creditor Name",
		KindCol:      "Account Type",
		PaymentMode:  paymentSplit,
		ScheduledCol: "Scheduled Payment",
		ActualCol:    "Actual Payment",
		BalanceCol:   "Unpaid Balance",
		PaidOffCol:   "Paid By Close",
	},
	{
		Name:        "summary",
		CreditorCol: "Creditor",
		KindCol:     "Type",
		PaymentMode: paymentSingle,
		PaymentCol:  "Monthly Payment",
		BalanceCol:  "Balance",
	},
}
