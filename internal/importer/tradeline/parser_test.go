package tradeline_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/importer/tradeline"
)

func TestParser_Detail(t *testing.T) {
	csv := `Tri-Merge Credit Report,Generated 03/14/2026
Borrower,DANA WHITFIELD
Report ID,"=""88210394"""

Creditor Name,Account Type,Scheduled Payment,Actual Payment,Unpaid Balance,Paid By Close
CHASE CARD SERVICES,revolving,$45.00,$85.00,"$2,400.00",N
WELLS FARGO AUTO,installment,$450.00,,"$18,250.00",N
SALLIE MAE,installment,$220.00,$0.00,"$31,000.00",Y

Total monthly obligations,,,"$755.00",
`

	p := tradeline.NewParser()
	liabilities, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, liabilities, 3)

	assert.Equal(t, "CHASE CARD SERVICES", liabilities[0].Creditor)
	assert.Equal(t, "revolving", liabilities[0].Kind)
	assert.Equal(t, "85.00", liabilities[0].MonthlyPayment.StringFixed(2))
	assert.Equal(t, "2400.00", liabilities[0].Balance.StringFixed(2))
	assert.False(t, liabilities[0].ToBePaidOff)

	// No actual payment reported, scheduled wins.
	assert.Equal(t, "450.00", liabilities[1].MonthlyPayment.StringFixed(2))
	assert.Equal(t, "18250.00", liabilities[1].Balance.StringFixed(2))

	// Zero actual payment falls back to scheduled.
	assert.Equal(t, "220.00", liabilities[2].MonthlyPayment.StringFixed(2))
	assert.True(t, liabilities[2].ToBePaidOff)
}

func TestParser_Summary(t *testing.T) {
	csv := `Creditor,Type,Monthly Payment,Balance
Visa,Revolving,85.00,2400.00
Auto Lender,Installment,450.00,18250.00
`

	p := tradeline.NewParser()
	liabilities, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, liabilities, 2)

	assert.Equal(t, "Visa", liabilities[0].Creditor)
	assert.Equal(t, "revolving", liabilities[0].Kind)
	assert.Equal(t, "85.00", liabilities[0].MonthlyPayment.StringFixed(2))
}

func TestParser_SemicolonDelimiter(t *testing.T) {
	csv := `Creditor;Type;Monthly Payment;Balance
Visa;revolving;85.00;2400.00
`

	p := tradeline.NewParser()
	liabilities, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, liabilities, 1)
	assert.Equal(t, "Visa", liabilities[0].Creditor)
}

func TestParser_Windows1252(t *testing.T) {
	utf8CSV := "Creditor,Type,Monthly Payment,Balance\nPeña Loans,installment,120.00,5000.00\n"

	encoder := charmap.Windows1252.NewEncoder()
	raw, err := encoder.Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := tradeline.NewParser()
	liabilities, err := p.Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, liabilities, 1)
	assert.Equal(t, "Peña Loans", liabilities[0].Creditor)
}

func TestParser_ZeroPaymentCollection(t *testing.T) {
	csv := `Creditor,Type,Monthly Payment,Balance
MIDLAND FUNDING,collection,,1200.00
`

	p := tradeline.NewParser()
	liabilities, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, liabilities, 1)
	assert.True(t, liabilities[0].MonthlyPayment.IsZero())
	assert.Equal(t, "1200.00", liabilities[0].Balance.StringFixed(2))
}

func TestParser_MissingCreditor(t *testing.T) {
	csv := `Creditor,Type,Monthly Payment,Balance
,revolving,85.00,2400.00
`

	p := tradeline.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creditor")
}

func TestParser_NoMatchingFormat(t *testing.T) {
	p := tradeline.NewParser()
	_, err := p.Parse(strings.NewReader("some,random,file\n1,2,3\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no matching credit report format")
}

func TestParser_HeaderOnly(t *testing.T) {
	csv := `Creditor,Type,Monthly Payment,Balance`

	p := tradeline.NewParser()
	liabilities, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, liabilities)
}

func TestParser_SkipsFooterRows(t *testing.T) {
	csv := `Creditor,Type,Monthly Payment,Balance
Visa,revolving,85.00,2400.00
Totals,,,
`

	p := tradeline.NewParser()
	liabilities, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, liabilities, 1)
}
