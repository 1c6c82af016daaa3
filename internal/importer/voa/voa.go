// Package voa parses verification-of-assets CSV exports into asset
// records. VOA reports list one row per account with an institution,
// account type and current balance.
package voa

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/encoding"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

const (
	colInstitution = "Institution"
	colKind        = "Account Type"
	colBalance     = "Current Balance"
)

// liquidKinds are the account types counted toward reserves without a
// haircut. Retirement and brokerage accounts are reported but not
// liquid.
var liquidKinds = map[string]bool{
	"checking":     true,
	"savings":      true,
	"money market": true,
	"cd":           true,
	"cash":         true,
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]loan.Asset, error) {
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

	var assets []loan.Asset

	headerFound := false

	idxInstitution := -1
	idxKind := -1
	idxBalance := -1

	for _, row := range rows {
		// Search for the header landmark; VOA reports carry preamble
		// rows before it.
		if !headerFound {
			matches := 0

			for i, col := range row {
				switch strings.TrimSpace(col) {
				case colInstitution:
					idxInstitution = i
					matches++
				case colKind:
					idxKind = i
					matches++
				case colBalance:
					idxBalance = i
					matches++
				}
			}

			if matches >= 2 && idxInstitution != -1 && idxBalance != -1 {
				headerFound = true
			}

			continue
		}

		institution := cell(row, idxInstitution)
		if institution == "" {
			continue
		}

		kind := strings.ToLower(cell(row, idxKind))
		if idxKind != -1 && kind == "" {
			// Subtotal and footer rows carry no account type.
			continue
		}

		balance, err := parseAmount(cell(row, idxBalance))
		if err != nil {
			continue
		}

		assets = append(assets, loan.Asset{
			Institution: institution,
			Kind:        kind,
			Value:       balance,
			Liquid:      liquidKinds[kind],
		})
	}

	if !headerFound {
		return nil, fmt.Errorf("no matching VOA format found: expected %q and %q columns", colInstitution, colBalance)
	}

	return assets, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// parseAmount parses a US-formatted balance: "$12,500.00" or "12500".
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, "$", "")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	return decimal.NewFromString(clean)
}
