package aus

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/underwriting"
)

// SimulatedSubmitter runs the local rule engine instead of transmitting
// the file to a third party. Used when no remote AUS is configured.
type SimulatedSubmitter struct {
	engine  *underwriting.Engine
	auditor *Auditor
}

func NewSimulatedSubmitter(engine *underwriting.Engine, auditor *Auditor) *SimulatedSubmitter {
	return &SimulatedSubmitter{engine: engine, auditor: auditor}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, app *loan.Application) (*Submission, error) {
	result := s.engine.Evaluate(app)

	submission := &Submission{
		CaseID:         fmt.Sprintf("SIM-%s", uuid.NewString()[:8]),
		Recommendation: mapRecommendation(result),
		Findings:       result.Findings,
		Metrics:        &result.Metrics,
		Programs:       result.EligiblePrograms,
	}

	s.auditor.Info(ctx, "submit", "completed",
		"mode", "simulated",
		"loan_id", app.ID,
		"case_id", submission.CaseID,
		"recommendation", submission.Recommendation,
	)

	return submission, nil
}

// mapRecommendation translates the engine outcome into AUS vocabulary.
// An ineligible file with refer findings and no hard failure is
// reported as REFER/CAUTION: a human underwriter may still place it.
func mapRecommendation(result underwriting.Result) underwriting.Recommendation {
	if result.Recommendation != underwriting.Ineligible {
		return result.Recommendation
	}

	var failed, referred bool

	for _, f := range result.Findings {
		switch f.Status {
		case underwriting.StatusFail:
			failed = true
		case underwriting.StatusRefer:
			referred = true
		}
	}

	if !failed && referred {
		return underwriting.ReferCaution
	}

	return underwriting.Ineligible
}
