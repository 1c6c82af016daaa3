package loan

import (
	"time"

	"github.com/google/uuid"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/document"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

type applicationResponse struct {
	ID         uuid.UUID           `json:"id"`
	Stage      loan.Stage          `json:"stage"`
	Status     loan.Status         `json:"status"`
	Borrower   loan.Borrower       `json:"borrower"`
	Property   loan.Property       `json:"property"`
	Terms      loan.Terms          `json:"terms"`
	Documents  []documentResponse  `json:"documents"`
	Conditions []conditionResponse `json:"conditions"`
	Decision   *loan.Decision      `json:"decision,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  *time.Time          `json:"updated_at,omitempty"`
}

type documentResponse struct {
	ID         uuid.UUID         `json:"id"`
	Type       loan.DocumentType `json:"type"`
	Filename   string            `json:"filename"`
	UploadedAt time.Time         `json:"uploaded_at"`
}

type conditionResponse struct {
	ID                uuid.UUID            `json:"id"`
	Type              loan.ConditionType   `json:"type"`
	Description       string               `json:"description"`
	Status            loan.ConditionStatus `json:"status"`
	RequiredDocuments []loan.DocumentType  `json:"required_documents,omitempty"`
	SatisfiedAt       *time.Time           `json:"satisfied_at,omitempty"`
	SatisfiedBy       string               `json:"satisfied_by,omitempty"`
	WaivedAt          *time.Time           `json:"waived_at,omitempty"`
	WaivedBy          string               `json:"waived_by,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

type requirementResponse struct {
	Type        loan.DocumentType `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Required    bool              `json:"required"`
	Satisfied   bool              `json:"satisfied"`
}

type checklistResponse struct {
	Complete     bool                  `json:"complete"`
	Requirements []requirementResponse `json:"requirements"`
}

func toResponse(app *loan.Application) applicationResponse {
	resp := applicationResponse{
		ID:         app.ID,
		Stage:      app.Stage,
		Status:     app.Status,
		Borrower:   app.Borrower,
		Property:   app.Property,
		Terms:      app.Terms,
		Documents:  make([]documentResponse, 0, len(app.Documents)),
		Conditions: make([]conditionResponse, 0, len(app.Conditions)),
		Decision:   app.Decision,
		CreatedAt:  app.CreatedAt,
		UpdatedAt:  app.UpdatedAt,
	}

	for _, d := range app.Documents {
		resp.Documents = append(resp.Documents, documentResponse{
			ID:         d.ID,
			Type:       d.Type,
			Filename:   d.Filename,
			UploadedAt: d.UploadedAt,
		})
	}

	for _, c := range app.Conditions {
		resp.Conditions = append(resp.Conditions, conditionResponse{
			ID:                c.ID,
			Type:              c.Type,
			Description:       c.Description,
			Status:            c.Status,
			RequiredDocuments: c.RequiredDocuments,
			SatisfiedAt:       c.SatisfiedAt,
			SatisfiedBy:       c.SatisfiedBy,
			WaivedAt:          c.WaivedAt,
			WaivedBy:          c.WaivedBy,
			CreatedAt:         c.CreatedAt,
		})
	}

	return resp
}

func toResponseList(apps []*loan.Application) []applicationResponse {
	resp := make([]applicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = toResponse(app)
	}

	return resp
}

func toChecklistResponse(app *loan.Application, reqs []document.Requirement) checklistResponse {
	resp := checklistResponse{
		Complete:     true,
		Requirements: make([]requirementResponse, 0, len(reqs)),
	}

	for _, req := range reqs {
		satisfied := app.HasDocument(req.Type)
		if req.Required && !satisfied {
			resp.Complete = false
		}

		resp.Requirements = append(resp.Requirements, requirementResponse{
			Type:        req.Type,
			Name:        req.Name,
			Description: req.Description,
			Required:    req.Required,
			Satisfied:   satisfied,
		})
	}

	return resp
}
