package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan/store"
)

var applicationColumns = []string{
	"id", "stage", "status", "borrower", "property", "terms", "decision", "created_at", "updated_at",
}

func applicationRow(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows(applicationColumns).AddRow(
		id.String(),
		string(loan.StageDraft),
		string(loan.StatusIncomplete),
		[]byte(`{"full_name":"Pat Example"}`),
		[]byte(`{}`),
		[]byte(`{}`),
		nil,
		time.Now().UTC(),
		nil,
	)
}

func TestStore_GetApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()

	mock.ExpectQuery("FROM loan_applications").
		WillReturnRows(applicationRow(id))

	mock.ExpectQuery("FROM loan_documents").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "filename", "uploaded_at"}).
			AddRow(uuid.NewString(), string(loan.DocGovernmentID), "id.pdf", time.Now().UTC()))

	mock.ExpectQuery("FROM loan_conditions").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "type", "description", "status", "required_documents",
			"satisfied_at", "satisfied_by", "waived_at", "waived_by", "created_at",
		}).AddRow(
			uuid.NewString(), string(loan.ConditionPriorToClosing), "Letter of explanation",
			string(loan.ConditionPending), []byte(`["bank_statement"]`),
			nil, nil, nil, nil, time.Now().UTC(),
		))

	app, err := store.New(db).GetApplication(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, app.ID)
	assert.Equal(t, loan.StageDraft, app.Stage)
	assert.Equal(t, "Pat Example", app.Borrower.FullName)
	assert.Nil(t, app.Decision)
	require.Len(t, app.Documents, 1)
	assert.Equal(t, loan.DocGovernmentID, app.Documents[0].Type)
	require.Len(t, app.Conditions, 1)
	assert.Equal(t, []loan.DocumentType{loan.DocBankStatement}, app.Conditions[0].RequiredDocuments)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetApplication_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM loan_applications").
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	_, err = store.New(db).GetApplication(context.Background(), uuid.New())
	assert.ErrorIs(t, err, loan.ErrNotFound)
}

func TestStore_GetApplication_DocumentIterationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()

	mock.ExpectQuery("FROM loan_applications").
		WillReturnRows(applicationRow(id))

	// The driver fails mid-iteration after delivering the first row. A
	// truncated document list must surface as an error, never as a
	// shorter slice.
	mock.ExpectQuery("FROM loan_documents").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "filename", "uploaded_at"}).
			AddRow(uuid.NewString(), string(loan.DocGovernmentID), "id.pdf", time.Now().UTC()).
			AddRow(uuid.NewString(), string(loan.DocW2), "w2.pdf", time.Now().UTC()).
			RowError(1, errors.New("connection reset")))

	_, err = store.New(db).GetApplication(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterating documents")
}

func TestStore_GetApplication_ConditionIterationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()

	mock.ExpectQuery("FROM loan_applications").
		WillReturnRows(applicationRow(id))

	mock.ExpectQuery("FROM loan_documents").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "filename", "uploaded_at"}))

	// A truncated conditions list is worse than a truncated document
	// list: a hidden pending condition would let the workflow clear the
	// loan to close early.
	mock.ExpectQuery("FROM loan_conditions").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "type", "description", "status", "required_documents",
			"satisfied_at", "satisfied_by", "waived_at", "waived_by", "created_at",
		}).AddRow(
			uuid.NewString(), string(loan.ConditionPriorToClosing), "Letter of explanation",
			string(loan.ConditionPending), []byte(`[]`),
			nil, nil, nil, nil, time.Now().UTC(),
		).AddRow(
			uuid.NewString(), string(loan.ConditionPriorToClosing), "Updated insurance binder",
			string(loan.ConditionPending), []byte(`[]`),
			nil, nil, nil, nil, time.Now().UTC(),
		).RowError(1, errors.New("connection reset")))

	_, err = store.New(db).GetApplication(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterating conditions")
}
