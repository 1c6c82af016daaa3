package underwriting

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/underwriting"
)

type Handler struct {
	svc    *loan.Service
	engine *underwriting.Engine
}

func NewHandler(svc *loan.Service, engine *underwriting.Engine) *Handler {
	return &Handler{
		svc:    svc,
		engine: engine,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/loans/{id}/evaluation", h.evaluate)
	r.Get("/programs", h.programs)
}

// evaluate runs the rule engine against current loan state. The
// evaluation is advisory: it never mutates the loan or records a
// decision.
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
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

	if err := json.NewEncoder(w).Encode(h.engine.Evaluate(app)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) programs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(underwriting.DefaultPrograms()); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
