// Package aus handles submission of loan files to an automated
// underwriting system. Two strategies implement one Submitter
// interface: a simulated submitter backed by the local rule engine and
// a remote submitter that transmits the file to a configured third
// party. The strategy is selected at construction time.
package aus

import (
	"context"
	"sync"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/underwriting"
)

// Submission is the AUS response for one loan file.
type Submission struct {
	CaseID         string                      `json:"case_id,omitempty"`
	Recommendation underwriting.Recommendation `json:"recommendation"`
	Findings       []underwriting.Finding      `json:"findings"`
	Metrics        *underwriting.Metrics       `json:"metrics,omitempty"`
	Programs       []underwriting.Program      `json:"programs,omitempty"`
}

// Submitter submits a loan file for automated underwriting.
type Submitter interface {
	Submit(ctx context.Context, app *loan.Application) (*Submission, error)
}

// Settings are the integration credentials for a remote AUS. They are
// loaded at process start and updated only through the store's setter.
type Settings struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
}

// Configured reports whether remote submission can be attempted.
func (s Settings) Configured() bool {
	return s.Endpoint != "" && s.ClientID != "" && s.ClientSecret != ""
}

// SettingsStore holds the current integration settings behind a lock so
// an operator update never races a submission in flight.
type SettingsStore struct {
	mu       sync.RWMutex
	settings Settings
}

func NewSettingsStore(initial Settings) *SettingsStore {
	return &SettingsStore{settings: initial}
}

func (s *SettingsStore) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

func (s *SettingsStore) Set(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
}

func parseRecommendation(s string) underwriting.Recommendation {
	switch rec := underwriting.Recommendation(s); rec {
	case underwriting.ApproveEligible,
		underwriting.ReferEligible,
		underwriting.ReferCaution,
		underwriting.Ineligible:
		return rec
	}

	// Unknown vocabulary from the remote system maps to the cautious
	// refer so a human always reviews it.
	return underwriting.ReferCaution
}

func parseFinding(ruleID, category, status, message, condition string) underwriting.Finding {
	return underwriting.Finding{
		RuleID:    ruleID,
		Category:  underwriting.Category(category),
		Status:    underwriting.RuleStatus(status),
		Message:   message,
		Condition: condition,
	}
}
