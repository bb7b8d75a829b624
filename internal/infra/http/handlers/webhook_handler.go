package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/legal-intake/internal/entity"
	"github.com/xavierca1/legal-intake/internal/infra/http/middleware"
	"github.com/xavierca1/legal-intake/internal/usecase"
)

const maxWebhookBody = 1 << 20 // 1 MiB

type WebhookHandler struct {
	processUC *usecase.ProcessWebhookUseCase
}

func NewWebhookHandler(processUC *usecase.ProcessWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{processUC: processUC}
}

// Handle is the NextKeySign callback endpoint. The provider retries on
// anything but 2xx, so only structurally broken payloads earn a 4xx; unknown
// events and unmatched submissions are acknowledged and dropped.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "unreadable body"})
		return
	}

	outcome, err := h.processUC.Execute(r.Context(), json.RawMessage(body), time.Now())
	if err != nil {
		var eventType string
		if outcome != nil {
			eventType = outcome.Kind.String()
		}
		middleware.RecordWebhookEvent(eventType, "error")
		respondError(w, err)
		return
	}

	switch {
	case !outcome.Matched:
		middleware.RecordWebhookEvent(outcome.Kind.String(), "unmatched")
	case outcome.Changed:
		middleware.RecordWebhookEvent(outcome.Kind.String(), "applied")
		if outcome.Submission.Status == entity.StatusCompleted {
			middleware.RecordDocumentCompleted(outcome.Submission.TemplateName)
		}
	default:
		middleware.RecordWebhookEvent(outcome.Kind.String(), "noop")
	}

	if outcome.Matched && outcome.Changed {
		log.Printf("✅ Webhook applied: %s -> %s", outcome.Kind, outcome.Submission.Status)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"matched": outcome.Matched,
		"changed": outcome.Changed,
	})
}
