package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/legal-intake/internal/infra/integration/nextkeysign"
	"github.com/xavierca1/legal-intake/internal/usecase"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps usecase errors onto HTTP statuses. Provider failures are
// 503 so the frontend can distinguish "try again" from "you did it wrong".
func respondError(w http.ResponseWriter, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		respondJSON(w, domainStatus(domainErr.Code), errorResponse{
			Code:    domainErr.Code,
			Message: domainErr.Message,
		})
		return
	}

	var providerErr *nextkeysign.ProviderError
	if errors.As(err, &providerErr) {
		log.Printf("❌ NextKeySign error: %v", providerErr)
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{
			Code:    "PROVIDER_ERROR",
			Message: "signature provider is unavailable",
		})
		return
	}

	log.Printf("❌ Internal error: %v", err)
	respondJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	})
}

func domainStatus(code string) int {
	switch code {
	case "VALIDATION_ERROR", "INVALID_PAYLOAD", "MISSING_SUBMISSION_ID", "INVALID_SPREADSHEET":
		return http.StatusBadRequest
	case "APPLICANT_NOT_FOUND", "LAW_FIRM_NOT_FOUND", "TEMPLATE_NOT_FOUND",
		"BATCH_NOT_FOUND", "RECIPIENT_NOT_FOUND":
		return http.StatusNotFound
	case "INTAKE_ALREADY_SUBMITTED", "RECIPIENT_NOT_RESENDABLE":
		return http.StatusConflict
	case "SMTP_NOT_CONFIGURED":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
