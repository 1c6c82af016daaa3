package loan

import (
	"context"
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
	svc      *loan.Service
	resolver *document.Resolver
	orch     *workflow.Orchestrator
}

func NewHandler(svc *loan.Service, resolver *document.Resolver, orch *workflow.Orchestrator) *Handler {
	return &Handler{
		svc:      svc,
		resolver: resolver,
		orch:     orch,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/requirements", h.requirements)
	r.Post("/{id}/documents", h.attachDocument)
	r.Post("/{id}/conditions/{conditionID}/satisfy", h.satisfyCondition)
	r.Post("/{id}/conditions/{conditionID}/waive", h.waiveCondition)
}

type createApplicationRequest struct {
	Borrower loan.Borrower `json:"borrower"`
	Property loan.Property `json:"property"`
	Terms    loan.Terms    `json:"terms"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	app, err := h.svc.Create(r.Context(), loan.CreateParams{
		Borrower: req.Borrower,
		Property: req.Property,
		Terms:    req.Terms,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(app)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := loan.ListFilter{}

	if s := r.URL.Query().Get("stage"); s != "" {
		stage := loan.Stage(s)
		filter.Stage = &stage
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := loan.Status(s)
		filter.Status = &status
	}

	apps, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(apps)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	app, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			http.Error(w, "loan application not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(app)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) requirements(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	app, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			http.Error(w, "loan application not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toChecklistResponse(app, h.resolver.Resolve(app))); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type attachDocumentRequest struct {
	Type     loan.DocumentType `json:"type"`
	Filename string            `json:"filename"`
}

// attachDocument records uploaded document metadata and lets the
// workflow react to it. Document content lives in external storage.
func (h *Handler) attachDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req attachDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Type == "" || req.Filename == "" {
		http.Error(w, "type and filename are required", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.AttachDocument(r.Context(), id, req.Type, req.Filename)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			http.Error(w, "loan application not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	result := h.orch.OnDocumentUploaded(r.Context(), id, doc.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := struct {
		Document documentResponse `json:"document"`
		Workflow workflowResult   `json:"workflow"`
	}{
		Document: documentResponse{
			ID:         doc.ID,
			Type:       doc.Type,
			Filename:   doc.Filename,
			UploadedAt: doc.UploadedAt,
		},
		Workflow: toWorkflowResult(result),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type resolveConditionRequest struct {
	Actor string `json:"actor"`
}

func (h *Handler) satisfyCondition(w http.ResponseWriter, r *http.Request) {
	h.resolveCondition(w, r, h.svc.SatisfyCondition)
}

func (h *Handler) waiveCondition(w http.ResponseWriter, r *http.Request) {
	h.resolveCondition(w, r, h.svc.WaiveCondition)
}

func (h *Handler) resolveCondition(
	w http.ResponseWriter,
	r *http.Request,
	update func(ctx context.Context, id, conditionID uuid.UUID, actor string) error,
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	conditionID, err := uuid.Parse(chi.URLParam(r, "conditionID"))
	if err != nil {
		http.Error(w, "invalid condition id", http.StatusBadRequest)
		return
	}

	var req resolveConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := update(r.Context(), id, conditionID, req.Actor); err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			http.Error(w, "condition not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	result := h.orch.OnConditionSatisfied(r.Context(), id, conditionID)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toWorkflowResult(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// workflowResult mirrors workflow.Result for transport, with the error
// rendered as text.
type workflowResult struct {
	Step      string         `json:"step,omitempty"`
	Success   bool           `json:"success"`
	NextStage *loan.Stage    `json:"next_stage,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Attempts  int            `json:"attempts,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func toWorkflowResult(res workflow.Result) workflowResult {
	return workflowResult{
		Step:      res.Step,
		Success:   res.Success,
		NextStage: res.NextStage,
		Data:      res.Data,
		Attempts:  res.Attempts,
		Error:     res.ErrorMessage(),
	}
}
