package importer

import (
	"io"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

// Source identifies the vendor report format being imported.
type Source string

const (
	SourceCreditReport Source = "credit_report"
	SourceAssetReport  Source = "asset_report"
)

// LiabilityImporter parses a vendor export into liability records.
type LiabilityImporter interface {
	Parse(r io.Reader) ([]loan.Liability, error)
}

// AssetImporter parses a vendor export into asset records.
type AssetImporter interface {
	Parse(r io.Reader) ([]loan.Asset, error)
}
