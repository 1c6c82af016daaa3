package tradeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/encoding"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

// Parser reads credit report CSV exports and produces liability
// records. It auto-detects which vendor format is being used by
// matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]loan.Liability, error) {
	utf8r, delim, err := enc.Sniff(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching credit report format found: expected detail or summary tradeline columns")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Vendor exports carry preamble rows (report metadata, borrower info)
// before the header, so every row is a candidate.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts liabilities from data rows using the matched
// profile. headerRowNum is the 0-based index of the header in the
// original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]loan.Liability, error) {
	var liabilities []loan.Liability

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		balance, ok := parseBalance(row, cols[p.BalanceCol])
		if !ok {
			// Footer or summary row.
			continue
		}

		creditor := cellValue(row, cols[p.CreditorCol])
		if creditor == "" {
			return nil, fmt.Errorf("row %d: missing creditor", rowNum)
		}

		payment := parsePayment(p, cols, row)

		liabilities = append(liabilities, loan.Liability{
			Creditor:       creditor,
			Kind:           kindValue(p, cols, row),
			MonthlyPayment: payment,
			Balance:        balance,
			ToBePaidOff:    paidOffValue(p, cols, row),
		})
	}

	return liabilities, nil
}

// parseBalance doubles as the data-row gate: preamble and footer rows
// never carry a numeric balance.
func parseBalance(row []string, idx int) (decimal.Decimal, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := parseUSAmount(s)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d, true
}

// parsePayment extracts the monthly obligation based on the profile's
// payment mode. A missing payment is zero; collections and charge-offs
// report no scheduled payment.
func parsePayment(p *Profile, cols colIndex, row []string) decimal.Decimal {
	switch p.PaymentMode {
	case paymentSingle:
		if d, err := parseUSAmount(cellValue(row, cols[p.PaymentCol])); err == nil {
			return d
		}
	case paymentSplit:
		if d, err := parseUSAmount(cellValue(row, cols[p.ActualCol])); err == nil && !d.IsZero() {
			return d
		}

		if d, err := parseUSAmount(cellValue(row, cols[p.ScheduledCol])); err == nil {
			return d
		}
	}

	return decimal.Decimal{}
}

func kindValue(p *Profile, cols colIndex, row []string) string {
	idx, ok := cols[p.KindCol]
	if !ok {
		return ""
	}

	return strings.ToLower(cellValue(row, idx))
}

func paidOffValue(p *Profile, cols colIndex, row []string) bool {
	if p.PaidOffCol == "" {
		return false
	}

	idx, ok := cols[p.PaidOffCol]
	if !ok {
		return false
	}

	switch strings.ToLower(cellValue(row, idx)) {
	case "y", "yes", "true", "1":
		return true
	}

	return false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
