package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
	"github.com/kasaapp/kasa/internal/services"
)

// WithdrawalHandler handles withdrawal requests
type WithdrawalHandler struct {
	withdrawalService services.WithdrawalService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalService services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

func (h *WithdrawalHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/withdrawals", h.GetWithdrawals).Methods("GET")
	router.HandleFunc("/withdrawals", h.CreateWithdrawal).Methods("POST")
	router.HandleFunc("/withdrawals/{id:[0-9]+}", h.GetWithdrawal).Methods("GET")
	router.HandleFunc("/withdrawals/{id:[0-9]+}", h.DeleteWithdrawal).Methods("DELETE")
}

// GetWithdrawals retrieves withdrawals for a family
func (h *WithdrawalHandler) GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("familyId")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "familyId is required")
		return
	}
	familyID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid familyId")
		return
	}

	withdrawals, err := h.withdrawalService.GetWithdrawalsByFamilyID(uint(familyID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, withdrawals)
}

// GetWithdrawal retrieves a withdrawal by ID
func (h *WithdrawalHandler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	withdrawal, err := h.withdrawalService.GetWithdrawalByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Withdrawal not found")
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

// CreateWithdrawal records a new withdrawal
func (h *WithdrawalHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var withdrawal models.Withdrawal
	if err := json.NewDecoder(r.Body).Decode(&withdrawal); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if withdrawal.FamilyID == 0 {
		writeError(w, http.StatusBadRequest, "familyId is required")
		return
	}

	created, err := h.withdrawalService.CreateWithdrawal(withdrawal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteWithdrawal permanently removes a withdrawal
func (h *WithdrawalHandler) DeleteWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.withdrawalService.DeleteWithdrawal(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Withdrawal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
