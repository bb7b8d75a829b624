package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/legal-intake/internal/entity"
	"github.com/xavierca1/legal-intake/internal/usecase"
)

const maxUploadSize = 10 << 20 // 10 MiB

type BatchHandler struct {
	importUC *usecase.ImportRetainerBatchUseCase
}

func NewBatchHandler(importUC *usecase.ImportRetainerBatchUseCase) *BatchHandler {
	return &BatchHandler{importUC: importUC}
}

// Upload accepts a multipart form with the spreadsheet under "file" plus the
// campaign's template ids.
func (h *BatchHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "file is required"})
		return
	}
	defer file.Close()

	input := usecase.ImportBatchInput{
		LawFirmID:          r.FormValue("law_firm_id"),
		FileName:           header.Filename,
		File:               file,
		DocumentTemplateID: r.FormValue("document_template_id"),
		EmailTemplateID:    r.FormValue("email_template_id"),
	}

	batch, err := h.importUC.Execute(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    batchSummary(batch),
	})
}

func (h *BatchHandler) Status(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "id")

	batch, recipients, err := h.importUC.BatchStatus(r.Context(), batchID)
	if err != nil {
		respondError(w, err)
		return
	}

	counts := map[entity.RecipientStatus]int{}
	for _, rec := range recipients {
		counts[rec.Status]++
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"batch":      batchSummary(batch),
			"recipients": recipients,
			"counts": map[string]int{
				"pending":   counts[entity.RecipientPending],
				"submitted": counts[entity.RecipientSubmitted],
				"completed": counts[entity.RecipientCompleted],
				"failed":    counts[entity.RecipientFailed],
				"skipped":   counts[entity.RecipientSkipped],
			},
		},
	})
}

func (h *BatchHandler) Resend(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "id")

	if err := h.importUC.RequestResend(r.Context(), recipientID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"message": "resend queued",
	})
}

func batchSummary(b *entity.RetainerBatch) map[string]any {
	return map[string]any{
		"id":              b.ID,
		"file_name":       b.FileName,
		"status":          b.Status,
		"total_rows":      b.TotalRows,
		"processed_rows":  b.ProcessedRows,
		"successful_rows": b.SuccessfulRows,
		"failed_rows":     b.FailedRows,
		"skipped_rows":    b.SkippedRows,
		"success_rate":    b.SuccessRate(),
		"error_message":   b.ErrorMessage,
		"created_at":      b.CreatedAt,
		"completed_at":    b.CompletedAt,
	}
}
