package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

// Store is the postgres loan store. It is the single serialization
// point for loan state: every workflow step re-reads through it.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectApplicationColumns = `
	id, stage, status, borrower, property, terms, decision, created_at, updated_at
`

// scanApplication reads an application row. Borrower, property and
// terms are stored as jsonb documents; child rows are loaded
// separately.
func scanApplication(s scanner) (*loan.Application, error) {
	var (
		app           loan.Application
		stage, status string
		borrowerJSON  []byte
		propertyJSON  []byte
		termsJSON     []byte
		decision      sql.NullString
	)

	if err := s.Scan(
		&app.ID, &stage, &status, &borrowerJSON, &propertyJSON, &termsJSON,
		&decision, &app.CreatedAt, &app.UpdatedAt,
	); err != nil {
		return nil, err
	}

	app.Stage = loan.Stage(stage)
	app.Status = loan.Status(status)

	if err := json.Unmarshal(borrowerJSON, &app.Borrower); err != nil {
		return nil, fmt.Errorf("decoding borrower: %w", err)
	}

	if err := json.Unmarshal(propertyJSON, &app.Property); err != nil {
		return nil, fmt.Errorf("decoding property: %w", err)
	}

	if err := json.Unmarshal(termsJSON, &app.Terms); err != nil {
		return nil, fmt.Errorf("decoding terms: %w", err)
	}

	if decision.Valid {
		d := loan.Decision(decision.String)
		app.Decision = &d
	}

	return &app, nil
}

func (s *Store) CreateApplication(ctx context.Context, app *loan.Application) error {
	borrowerJSON, err := json.Marshal(app.Borrower)
	if err != nil {
		return fmt.Errorf("encoding borrower: %w", err)
	}

	propertyJSON, err := json.Marshal(app.Property)
	if err != nil {
		return fmt.Errorf("encoding property: %w", err)
	}

	termsJSON, err := json.Marshal(app.Terms)
	if err != nil {
		return fmt.Errorf("encoding terms: %w", err)
	}

	query := `
		INSERT INTO loan_applications (stage, status, borrower, property, terms, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		app.Stage,
		app.Status,
		borrowerJSON,
		propertyJSON,
		termsJSON,
	).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating loan application: %w", err)
	}

	return nil
}

func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*loan.Application, error) {
	query := `SELECT ` + selectApplicationColumns + ` FROM loan_applications WHERE id = $1`

	app, err := scanApplication(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, loan.ErrNotFound
		}

		return nil, fmt.Errorf("getting loan application: %w", err)
	}

	if app.Documents, err = s.documents(ctx, id); err != nil {
		return nil, err
	}

	if app.Conditions, err = s.conditions(ctx, id); err != nil {
		return nil, err
	}

	return app, nil
}

func (s *Store) ListApplications(ctx context.Context, filter loan.ListFilter) ([]*loan.Application, error) {
	query := `SELECT ` + selectApplicationColumns + ` FROM loan_applications WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Stage != nil {
		query += fmt.Sprintf(" AND stage = $%d", argIdx)

		args = append(args, *filter.Stage)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing loan applications: %w", err)
	}
	defer rows.Close()

	var apps []*loan.Application

	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning loan application: %w", err)
		}

		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating loan applications: %w", err)
	}

	for _, app := range apps {
		if app.Documents, err = s.documents(ctx, app.ID); err != nil {
			return nil, err
		}

		if app.Conditions, err = s.conditions(ctx, app.ID); err != nil {
			return nil, err
		}
	}

	return apps, nil
}

func (s *Store) UpdateStage(ctx context.Context, id uuid.UUID, stage loan.Stage, status loan.Status) error {
	query := `
		UPDATE loan_applications
		SET stage = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, stage, status, id)
	if err != nil {
		return fmt.Errorf("updating stage: %w", err)
	}

	return requireRow(res)
}

func (s *Store) UpdateBorrower(ctx context.Context, id uuid.UUID, borrower loan.Borrower) error {
	borrowerJSON, err := json.Marshal(borrower)
	if err != nil {
		return fmt.Errorf("encoding borrower: %w", err)
	}

	query := `
		UPDATE loan_applications
		SET borrower = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, borrowerJSON, id)
	if err != nil {
		return fmt.Errorf("updating borrower: %w", err)
	}

	return requireRow(res)
}

func (s *Store) SetDecision(ctx context.Context, id uuid.UUID, decision loan.Decision) error {
	query := `
		UPDATE loan_applications
		SET decision = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, decision, id)
	if err != nil {
		return fmt.Errorf("setting decision: %w", err)
	}

	return requireRow(res)
}

func (s *Store) AddDocument(ctx context.Context, id uuid.UUID, doc *loan.Document) error {
	query := `
		INSERT INTO loan_documents (loan_id, type, filename, uploaded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, id, doc.Type, doc.Filename, doc.UploadedAt).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("adding document: %w", err)
	}

	return nil
}

func (s *Store) AddConditions(ctx context.Context, id uuid.UUID, conditions []loan.Condition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO loan_conditions (loan_id, type, description, status, required_documents, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	for _, c := range conditions {
		docsJSON, err := json.Marshal(c.RequiredDocuments)
		if err != nil {
			return fmt.Errorf("encoding required documents: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, id, c.Type, c.Description, loan.ConditionPending, docsJSON); err != nil {
			return fmt.Errorf("adding condition: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing conditions: %w", err)
	}

	return nil
}

func (s *Store) UpdateConditionStatus(ctx context.Context, id, conditionID uuid.UUID, status loan.ConditionStatus, actor string) error {
	var query string

	switch status {
	case loan.ConditionSatisfied:
		query = `
			UPDATE loan_conditions
			SET status = $1, satisfied_at = NOW(), satisfied_by = $2
			WHERE id = $3 AND loan_id = $4
		`
	case loan.ConditionWaived:
		query = `
			UPDATE loan_conditions
			SET status = $1, waived_at = NOW(), waived_by = $2
			WHERE id = $3 AND loan_id = $4
		`
	default:
		return fmt.Errorf("unsupported condition status %q", status)
	}

	res, err := s.db.ExecContext(ctx, query, status, actor, conditionID, id)
	if err != nil {
		return fmt.Errorf("updating condition status: %w", err)
	}

	return requireRow(res)
}

func (s *Store) documents(ctx context.Context, id uuid.UUID) ([]loan.Document, error) {
	query := `
		SELECT id, type, filename, uploaded_at
		FROM loan_documents
		WHERE loan_id = $1
		ORDER BY uploaded_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []loan.Document

	for rows.Next() {
		var (
			doc     loan.Document
			docType string
		)

		if err := rows.Scan(&doc.ID, &docType, &doc.Filename, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		doc.Type = loan.DocumentType(docType)
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

func (s *Store) conditions(ctx context.Context, id uuid.UUID) ([]loan.Condition, error) {
	query := `
		SELECT id, type, description, status, required_documents,
		       satisfied_at, satisfied_by, waived_at, waived_by, created_at
		FROM loan_conditions
		WHERE loan_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("listing conditions: %w", err)
	}
	defer rows.Close()

	var conditions []loan.Condition

	for rows.Next() {
		var (
			c                     loan.Condition
			condType, status      string
			docsJSON              []byte
			satisfiedBy, waivedBy sql.NullString
			satisfiedAt, waivedAt sql.NullTime
		)

		if err := rows.Scan(
			&c.ID, &condType, &c.Description, &status, &docsJSON,
			&satisfiedAt, &satisfiedBy, &waivedAt, &waivedBy, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning condition: %w", err)
		}

		c.Type = loan.ConditionType(condType)
		c.Status = loan.ConditionStatus(status)
		c.SatisfiedBy = satisfiedBy.String
		c.WaivedBy = waivedBy.String

		if satisfiedAt.Valid {
			t := satisfiedAt.Time
			c.SatisfiedAt = &t
		}

		if waivedAt.Valid {
			t := waivedAt.Time
			c.WaivedAt = &t
		}

		if len(docsJSON) > 0 {
			if err := json.Unmarshal(docsJSON, &c.RequiredDocuments); err != nil {
				return nil, fmt.Errorf("decoding required documents: %w", err)
			}
		}

		conditions = append(conditions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conditions: %w", err)
	}

	return conditions, nil
}

// requireRow maps a zero-row update to ErrNotFound so callers can treat
// a vanished id uniformly.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}

	if n == 0 {
		return loan.ErrNotFound
	}

	return nil
}
