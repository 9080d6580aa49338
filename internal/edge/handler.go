// Package edge serves the analyze-plant function: it accepts an image,
// delegates classification to the AI gateway, and attaches treatment
// recommendations from the fixed table.
package edge

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"agriguard/internal/gateway"
	"agriguard/internal/recommend"
)

// Gateway is the slice of the AI client the handler needs.
type Gateway interface {
	AnalyzeImage(ctx context.Context, imageURL string) (gateway.Verdict, error)
}

// AnalyzeRequest is the function's input: a data URL or plain URL string.
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// AnalyzeResponse is the success body.
type AnalyzeResponse struct {
	Status          string   `json:"status"`
	Disease         string   `json:"disease"`
	Confidence      float64  `json:"confidence"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	Timestamp       string   `json:"timestamp"`
}

// ErrorResponse is the structured error body; the function never produces a
// non-JSON failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

const retryDetails = "Please ensure you uploaded a valid plant image and try again."

// Handler implements the analyze-plant function. The API key is checked
// lazily per request, so the server boots without a credential and reports
// the configuration error on first use.
type Handler struct {
	apiKey string
	gw     Gateway
	now    func() time.Time
}

// NewHandler builds a handler around the given gateway client.
func NewHandler(apiKey string, gw Gateway) *Handler {
	return &Handler{apiKey: apiKey, gw: gw, now: time.Now}
}

// Router mounts the function with the permissive CORS contract: any origin,
// the browser-client headers allowed, preflight answered with no body.
func Router(h *Handler) http.Handler {
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
	}))
	mux.Post("/functions/v1/analyze-plant", h.Analyze)
	return mux
}

// Analyze handles one classification request.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "invalid request body", retryDetails)
		return
	}
	if req.Image == "" {
		writeError(w, http.StatusInternalServerError, gateway.ErrMissingImage.Error(), retryDetails)
		return
	}
	if h.apiKey == "" {
		writeError(w, http.StatusInternalServerError, gateway.ErrNotConfigured.Error(), retryDetails)
		return
	}

	verdict, err := h.gw.AnalyzeImage(r.Context(), req.Image)
	switch {
	case errors.Is(err, gateway.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Error: "Rate limit exceeded. Please try again later.",
		})
		return
	case errors.Is(err, gateway.ErrPaymentRequired):
		writeJSON(w, http.StatusPaymentRequired, ErrorResponse{
			Error: "AI service requires payment. Please contact support.",
		})
		return
	case err != nil:
		log.Printf("analyze-plant failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error(), retryDetails)
		return
	}

	recommendations := []string{}
	if verdict.Status == "diseased" && verdict.Disease != "none" {
		recommendations = recommend.Resolve(verdict.Disease).Recommendations
	} else if verdict.Status == "healthy" {
		recommendations = recommend.HealthyAdvice()
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Status:          verdict.Status,
		Disease:         verdict.Disease,
		Confidence:      verdict.Confidence,
		Analysis:        verdict.Analysis,
		Recommendations: recommendations,
		Timestamp:       h.now().UTC().Format(time.RFC3339),
	})
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write analyze-plant response failed: %v", err)
	}
}
