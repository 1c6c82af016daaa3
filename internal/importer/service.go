package importer

import (
	"fmt"
	"io"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/importer/tradeline"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/importer/voa"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

type Service struct {
	tradelines LiabilityImporter
	accounts   AssetImporter
}

func NewService() *Service {
	return &Service{
		tradelines: tradeline.NewParser(),
		accounts:   voa.NewParser(),
	}
}

func (s *Service) ImportLiabilities(source Source, r io.Reader) ([]loan.Liability, error) {
	switch source {
	case SourceCreditReport:
		return s.tradelines.Parse(r)
	default:
		return nil, fmt.Errorf("unknown liability source: %s", source)
	}
}

func (s *Service) ImportAssets(source Source, r io.Reader) ([]loan.Asset, error) {
	switch source {
	case SourceAssetReport:
		return s.accounts.Parse(r)
	default:
		return nil, fmt.Errorf("unknown asset source: %s", source)
	}
}
