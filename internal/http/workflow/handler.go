package workflow

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/document"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/workflow"
)

type Handler struct {
	orch *workflow.Orchestrator
}

func NewHandler(orch *workflow.Orchestrator) *Handler {
	return &Handler{orch: orch}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/loans/{id}/execute", h.execute)
	r.Post("/loans/{id}/decision", h.decision)
	r.Post("/loans/{id}/request-documents", h.requestDocuments)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	writeResult(w, h.orch.Execute(r.Context(), id))
}

type conditionDTO struct {
	Type              loan.ConditionType  `json:"type"`
	Description       string              `json:"description"`
	RequiredDocuments []loan.DocumentType `json:"required_documents,omitempty"`
}

type decisionRequest struct {
	Decision   loan.Decision  `json:"decision"`
	Conditions []conditionDTO `json:"conditions,omitempty"`
}

func (h *Handler) decision(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conditions := make([]loan.Condition, 0, len(req.Conditions))
	for _, c := range req.Conditions {
		conditions = append(conditions, loan.Condition{
			Type:              c.Type,
			Description:       c.Description,
			RequiredDocuments: c.RequiredDocuments,
		})
	}

	writeResult(w, h.orch.OnUnderwritingDecision(r.Context(), id, req.Decision, conditions))
}

type requestDocumentsResponse struct {
	MissingDocuments []requirementDTO `json:"missing_documents"`
	EmailSent        bool             `json:"email_sent"`
	SMSSent          bool             `json:"sms_sent"`
}

type requirementDTO struct {
	Type        loan.DocumentType `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
}

func (h *Handler) requestDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	result, err := h.orch.RequestDocuments(r.Context(), id)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			http.Error(w, "loan application not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toRequestDocumentsResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toRequestDocumentsResponse(result *workflow.RequestDocumentsResult) requestDocumentsResponse {
	resp := requestDocumentsResponse{
		MissingDocuments: make([]requirementDTO, 0, len(result.MissingDocuments)),
		EmailSent:        result.EmailSent,
		SMSSent:          result.SMSSent,
	}

	for _, req := range result.MissingDocuments {
		resp.MissingDocuments = append(resp.MissingDocuments, toRequirementDTO(req))
	}

	return resp
}

func toRequirementDTO(req document.Requirement) requirementDTO {
	return requirementDTO{
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
	}
}

type resultResponse struct {
	Step      string         `json:"step,omitempty"`
	Success   bool           `json:"success"`
	NextStage *loan.Stage    `json:"next_stage,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Attempts  int            `json:"attempts,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// writeResult maps a chain result to transport. Not-found surfaces as
// 404, an unknown decision as 400; other failures stay 200 with
// success=false since the chain itself ran.
func writeResult(w http.ResponseWriter, res workflow.Result) {
	status := http.StatusOK

	switch {
	case errors.Is(res.Error, loan.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(res.Error, workflow.ErrUnknownDecision):
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := resultResponse{
		Step:      res.Step,
		Success:   res.Success,
		NextStage: res.NextStage,
		Data:      res.Data,
		Attempts:  res.Attempts,
		Error:     res.ErrorMessage(),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
