package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kasaapp/kasa/internal/billing"
)

// BillingHandler handles Stripe payment intents and webhook deliveries
type BillingHandler struct {
	billing *billing.Billing
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(b *billing.Billing) *BillingHandler {
	return &BillingHandler{
		billing: b,
	}
}

func (h *BillingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/billing/intent", h.CreateIntent).Methods("POST")
}

// CreateIntent opens a Stripe payment intent for a family
func (h *BillingHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req billing.IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FamilyID == 0 {
		writeError(w, http.StatusBadRequest, "familyId is required")
		return
	}

	resp, err := h.billing.CreateIntent(req)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Webhook receives Stripe event deliveries. It is mounted outside the
// authenticated router; the signature header is the authentication.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = 65536
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	result, err := h.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
