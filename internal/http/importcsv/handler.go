package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/importer"
	"github.com/mikejohnkurkeyerian-eng/California-Mortgage-Solutions-sub001/internal/loan"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	importSvc *importer.Service
	loanSvc   *loan.Service
}

func NewHandler(importSvc *importer.Service, loanSvc *loan.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		loanSvc:   loanSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/loans/{id}/liabilities", h.importLiabilities)
	r.Post("/loans/{id}/assets", h.importAssets)
}

type importResponse struct {
	Imported         int `json:"imported"`
	TotalLiabilities int `json:"total_liabilities,omitempty"`
	TotalAssets      int `json:"total_assets,omitempty"`
}

// importLiabilities parses an uploaded credit report export and appends
// the tradelines to the borrower profile.
func (h *Handler) importLiabilities(w http.ResponseWriter, r *http.Request) {
	id, file, source, ok := h.uploadFields(w, r, importer.SourceCreditReport)
	if !ok {
		return
	}
	defer file.Close()

	liabilities, err := h.importSvc.ImportLiabilities(source, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	app, err := h.loanSvc.AddLiabilities(r.Context(), id, liabilities)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			http.Error(w, "loan application not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeImportResponse(w, importResponse{
		Imported:         len(liabilities),
		TotalLiabilities: len(app.Borrower.Liabilities),
	})
}

func (h *Handler) importAssets(w http.ResponseWriter, r *http.Request) {
	id, file, source, ok := h.uploadFields(w, r, importer.SourceAssetReport)
	if !ok {
		return
	}
	defer file.Close()

	assets, err := h.importSvc.ImportAssets(source, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	app, err := h.loanSvc.AddAssets(r.Context(), id, assets)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			http.Error(w, "loan application not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeImportResponse(w, importResponse{
		Imported:    len(assets),
		TotalAssets: len(app.Borrower.Assets),
	})
}

// uploadFields parses the multipart form shared by both import routes.
// The source field is optional and defaults to the route's natural
// format.
func (h *Handler) uploadFields(
	w http.ResponseWriter,
	r *http.Request,
	defaultSource importer.Source,
) (uuid.UUID, multipart.File, importer.Source, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, nil, "", false
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return uuid.Nil, nil, "", false
	}

	source := defaultSource
	if s := r.FormValue("source"); s != "" {
		source = importer.Source(s)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return uuid.Nil, nil, "", false
	}

	return id, file, source, true
}

func writeImportResponse(w http.ResponseWriter, resp importResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
