package loan_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    loan.CreateParams
		setupMock func(m *loan.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: loan.CreateParams{
				Borrower: loan.Borrower{
					FullName:         "Dana Whitfield",
					EmploymentStatus: loan.EmploymentEmployed,
					IncomeType:       loan.IncomeW2,
					CreditScore:      720,
				},
				Property: loan.Property{
					Type:          loan.PropertySingleFamily,
					Occupancy:     loan.OccupancyPrimary,
					PurchasePrice: decimal.NewFromInt(500000),
				},
				Terms: loan.Terms{
					Purpose: loan.PurposePurchase,
					Type:    loan.TypeConventional,
					Amount:  decimal.NewFromInt(400000),
				},
			},
			setupMock: func(m *loan.MockRepository) {
				m.EXPECT().
					CreateApplication(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, app *loan.Application) error {
						app.ID = uuid.New()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name:   "RepoError",
			params: loan.CreateParams{},
			setupMock: func(m *loan.MockRepository) {
				m.EXPECT().
					CreateApplication(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := loan.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := loan.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, loan.StageDraft, got.Stage)
			assert.Equal(t, loan.StatusIncomplete, got.Status)
		})
	}
}

func TestService_Advance(t *testing.T) {
	type testCase struct {
		name    string
		current loan.Stage
		target  loan.Stage
		wantErr error
	}

	tests := []testCase{
		{
			name:    "Forward",
			current: loan.StageSubmitted,
			target:  loan.StagePreUnderwriting,
		},
		{
			name:    "SkipAhead",
			current: loan.StageUnderwriting,
			target:  loan.StageClearToClose,
		},
		{
			name:    "Regression",
			current: loan.StageUnderwriting,
			target:  loan.StageSubmitted,
			wantErr: loan.ErrStageRegression,
		},
		{
			name:    "SameStage",
			current: loan.StageConditional,
			target:  loan.StageConditional,
			wantErr: loan.ErrStageRegression,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			repo := loan.NewMockRepository(ctrl)
			repo.EXPECT().
				GetApplication(gomock.Any(), id).
				Return(&loan.Application{ID: id, Stage: tt.current}, nil)

			if tt.wantErr == nil {
				repo.EXPECT().
					UpdateStage(gomock.Any(), id, tt.target, loan.StatusUnderReview).
					Return(nil)
			}

			svc := loan.NewService(repo)
			err := svc.Advance(context.Background(), id, tt.target, loan.StatusUnderReview)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Advance_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := loan.NewMockRepository(ctrl)
	repo.EXPECT().
		GetApplication(gomock.Any(), id).
		Return(nil, loan.ErrNotFound)

	svc := loan.NewService(repo)
	err := svc.Advance(context.Background(), id, loan.StageUnderwriting, loan.StatusUnderReview)
	assert.ErrorIs(t, err, loan.ErrNotFound)
}

func TestService_AttachDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := loan.NewMockRepository(ctrl)
	repo.EXPECT().
		AddDocument(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, doc *loan.Document) error {
			doc.ID = uuid.New()
			return nil
		})

	svc := loan.NewService(repo)
	doc, err := svc.AttachDocument(context.Background(), id, loan.DocPayStub, "paystub-march.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, loan.DocPayStub, doc.Type)
	assert.False(t, doc.UploadedAt.IsZero())
}

func TestService_RecordDecision(t *testing.T) {
	type testCase struct {
		name       string
		decision   loan.Decision
		conditions []loan.Condition
		setupMock  func(m *loan.MockRepository, id uuid.UUID)
		wantErr    bool
	}

	tests := []testCase{
		{
			name:     "ApprovedNoConditions",
			decision: loan.DecisionApproved,
			setupMock: func(m *loan.MockRepository, id uuid.UUID) {
				m.EXPECT().
					SetDecision(gomock.Any(), id, loan.DecisionApproved).
					Return(nil)
			},
		},
		{
			name:     "ConditionalWithConditions",
			decision: loan.DecisionConditional,
			conditions: []loan.Condition{
				{Type: loan.ConditionPriorToDoc, Description: "Updated bank statement"},
			},
			setupMock: func(m *loan.MockRepository, id uuid.UUID) {
				m.EXPECT().
					SetDecision(gomock.Any(), id, loan.DecisionConditional).
					Return(nil)
				m.EXPECT().
					AddConditions(gomock.Any(), id, gomock.Len(1)).
					Return(nil)
			},
		},
		{
			name:     "ApprovedIgnoresConditions",
			decision: loan.DecisionApproved,
			conditions: []loan.Condition{
				{Description: "should not be stored"},
			},
			setupMock: func(m *loan.MockRepository, id uuid.UUID) {
				m.EXPECT().
					SetDecision(gomock.Any(), id, loan.DecisionApproved).
					Return(nil)
			},
		},
		{
			name:     "SetDecisionError",
			decision: loan.DecisionRejected,
			setupMock: func(m *loan.MockRepository, id uuid.UUID) {
				m.EXPECT().
					SetDecision(gomock.Any(), id, loan.DecisionRejected).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			repo := loan.NewMockRepository(ctrl)
			tt.setupMock(repo, id)

			svc := loan.NewService(repo)
			err := svc.RecordDecision(context.Background(), id, tt.decision, tt.conditions)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_AddLiabilities(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	existing := loan.Liability{Creditor: "Visa", MonthlyPayment: decimal.NewFromInt(85)}
	imported := []loan.Liability{
		{Creditor: "Auto Lender", MonthlyPayment: decimal.NewFromInt(450)},
		{Creditor: "Student Loans", MonthlyPayment: decimal.NewFromInt(220)},
	}

	repo := loan.NewMockRepository(ctrl)
	repo.EXPECT().
		GetApplication(gomock.Any(), id).
		Return(&loan.Application{
			ID:       id,
			Borrower: loan.Borrower{Liabilities: []loan.Liability{existing}},
		}, nil)
	repo.EXPECT().
		UpdateBorrower(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, b loan.Borrower) error {
			assert.Len(t, b.Liabilities, 3)
			return nil
		})

	svc := loan.NewService(repo)
	app, err := svc.AddLiabilities(context.Background(), id, imported)
	require.NoError(t, err)
	assert.Len(t, app.Borrower.Liabilities, 3)
	assert.Equal(t, "Visa", app.Borrower.Liabilities[0].Creditor)
}

func TestService_SatisfyCondition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	conditionID := uuid.New()

	repo := loan.NewMockRepository(ctrl)
	repo.EXPECT().
		UpdateConditionStatus(gomock.Any(), id, conditionID, loan.ConditionSatisfied, "underwriter@cms").
		Return(nil)

	svc := loan.NewService(repo)
	assert.NoError(t, svc.SatisfyCondition(context.Background(), id, conditionID, "underwriter@cms"))
}
