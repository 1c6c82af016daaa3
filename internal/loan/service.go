package loan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a loan application id cannot be resolved.
var ErrNotFound = errors.New("loan application not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=loan
type Repository interface {
	CreateApplication(ctx context.Context, app *Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*Application, error)
	ListApplications(ctx context.Context, filter ListFilter) ([]*Application, error)

	UpdateStage(ctx context.Context, id uuid.UUID, stage Stage, status Status) error
	UpdateBorrower(ctx context.Context, id uuid.UUID, borrower Borrower) error
	SetDecision(ctx context.Context, id uuid.UUID, decision Decision) error

	AddDocument(ctx context.Context, id uuid.UUID, doc *Document) error
	AddConditions(ctx context.Context, id uuid.UUID, conditions []Condition) error
	UpdateConditionStatus(ctx context.Context, id, conditionID uuid.UUID, status ConditionStatus, actor string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Borrower Borrower
	Property Property
	Terms    Terms
}

type ListFilter struct {
	Stage  *Stage
	Status *Status
}

// Create starts a new application in StageDraft.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Application, error) {
	app := &Application{
		Stage:    StageDraft,
		Status:   StatusIncomplete,
		Borrower: params.Borrower,
		Property: params.Property,
		Terms:    params.Terms,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Application, error) {
	return s.repo.GetApplication(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Application, error) {
	return s.repo.ListApplications(ctx, filter)
}

// Advance moves the application to a later stage. Regressions are
// rejected; the pipeline is forward-only.
func (s *Service) Advance(ctx context.Context, id uuid.UUID, stage Stage, status Status) error {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return err
	}

	if !app.Stage.CanAdvanceTo(stage) {
		return ErrStageRegression
	}

	return s.repo.UpdateStage(ctx, id, stage, status)
}

// ErrStageRegression is returned when a transition would move a loan
// backwards through the pipeline.
var ErrStageRegression = errors.New("stage may only advance forward")

// AttachDocument records uploaded document metadata on the application.
func (s *Service) AttachDocument(ctx context.Context, id uuid.UUID, docType DocumentType, filename string) (*Document, error) {
	doc := &Document{
		Type:       docType,
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.AddDocument(ctx, id, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// RecordDecision persists the underwriting decision and, for a
// conditional decision, the conditions that came with it.
func (s *Service) RecordDecision(ctx context.Context, id uuid.UUID, decision Decision, conditions []Condition) error {
	if err := s.repo.SetDecision(ctx, id, decision); err != nil {
		return err
	}

	if decision == DecisionConditional && len(conditions) > 0 {
		return s.repo.AddConditions(ctx, id, conditions)
	}

	return nil
}

// SatisfyCondition marks a condition as satisfied by the given actor.
func (s *Service) SatisfyCondition(ctx context.Context, id, conditionID uuid.UUID, actor string) error {
	return s.repo.UpdateConditionStatus(ctx, id, conditionID, ConditionSatisfied, actor)
}

// WaiveCondition marks a condition as waived by the given actor.
func (s *Service) WaiveCondition(ctx context.Context, id, conditionID uuid.UUID, actor string) error {
	return s.repo.UpdateConditionStatus(ctx, id, conditionID, ConditionWaived, actor)
}

// AddLiabilities appends imported liabilities to the borrower profile.
func (s *Service) AddLiabilities(ctx context.Context, id uuid.UUID, liabilities []Liability) (*Application, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	app.Borrower.Liabilities = append(app.Borrower.Liabilities, liabilities...)
	if err := s.repo.UpdateBorrower(ctx, id, app.Borrower); err != nil {
		return nil, err
	}

	return app, nil
}

// AddAssets appends imported assets to the borrower profile.
func (s *Service) AddAssets(ctx context.Context, id uuid.UUID, assets []Asset) (*Application, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	app.Borrower.Assets = append(app.Borrower.Assets, assets...)
	if err := s.repo.UpdateBorrower(ctx, id, app.Borrower); err != nil {
		return nil, err
	}

	return app, nil
}
