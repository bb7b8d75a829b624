package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/xavierca1/legal-intake/internal/infra/http/middleware"
	"github.com/xavierca1/legal-intake/internal/usecase"
)

type IntakeHandler struct {
	registerUC  *usecase.RegisterApplicantUseCase
	intakeUC    *usecase.SubmitIntakeUseCase
	rateLimiter *RateLimiter
}

func NewIntakeHandler(registerUC *usecase.RegisterApplicantUseCase, intakeUC *usecase.SubmitIntakeUseCase) *IntakeHandler {
	return &IntakeHandler{
		registerUC:  registerUC,
		intakeUC:    intakeUC,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

func (h *IntakeHandler) RegisterApplicant(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		respondJSON(w, http.StatusTooManyRequests, errorResponse{
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.RegisterApplicantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}

	output, err := h.registerUC.Execute(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    output,
	})
}

func (h *IntakeHandler) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		respondJSON(w, http.StatusTooManyRequests, errorResponse{
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var input usecase.SubmitIntakeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}
	input.ClientIP = getClientIP(r)

	output, err := h.intakeUC.Execute(r.Context(), input)
	if err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "INTAKE_ALREADY_SUBMITTED" && output != nil {
			// Conflict, but hand the existing form back so the frontend can
			// move the user along instead of dead-ending.
			respondJSON(w, http.StatusConflict, map[string]any{
				"success":           false,
				"code":              domainErr.Code,
				"message":           domainErr.Message,
				"already_submitted": true,
				"data":              output,
			})
			return
		}
		respondError(w, err)
		return
	}

	middleware.RecordIntakeSubmission()
	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    output,
	})
}

func (h *IntakeHandler) IntakeStatus(w http.ResponseWriter, r *http.Request) {
	applicantID := r.URL.Query().Get("applicant_id")

	output, err := h.intakeUC.IntakeStatus(r.Context(), applicantID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    output,
	})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
