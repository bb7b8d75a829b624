package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/legal-intake/internal/usecase"
)

type DocumentHandler struct {
	createUC *usecase.CreateDocumentSubmissionUseCase
	statusUC *usecase.DocumentStatusUseCase
}

func NewDocumentHandler(createUC *usecase.CreateDocumentSubmissionUseCase, statusUC *usecase.DocumentStatusUseCase) *DocumentHandler {
	return &DocumentHandler{
		createUC: createUC,
		statusUC: statusUC,
	}
}

func (h *DocumentHandler) CreateDocuments(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateDocumentsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}

	output, err := h.createUC.Execute(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    output,
	})
}

func (h *DocumentHandler) DocumentStatus(w http.ResponseWriter, r *http.Request) {
	applicantID := r.URL.Query().Get("applicant_id")

	output, err := h.statusUC.Execute(r.Context(), applicantID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    output,
	})
}
