package tradeline

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseUSAmount parses a US-formatted amount string. Format examples:
// "$1,234.56", "85.00", "(120.00)" for negatives.
func parseUSAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	clean = strings.ReplaceAll(clean, "$", "")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}
