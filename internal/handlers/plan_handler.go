package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
	"github.com/kasaapp/kasa/internal/services"
)

// PlanHandler handles payment plan requests
type PlanHandler struct {
	planService services.PlanService
	userService services.UserService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService services.PlanService, userService services.UserService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		userService: userService,
	}
}

func (h *PlanHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/plans", h.GetPlans).Methods("GET")
	router.HandleFunc("/plans", h.CreatePlan).Methods("POST")
	router.HandleFunc("/plans/{id:[0-9]+}", h.GetPlan).Methods("GET")
	router.HandleFunc("/plans/{id:[0-9]+}", h.UpdatePlan).Methods("PUT")
	router.HandleFunc("/plans/{id:[0-9]+}", h.DeletePlan).Methods("DELETE")
}

// getUserIDFromContext resolves the authenticated user's ID
func (h *PlanHandler) getUserIDFromContext(r *http.Request) (uint, error) {
	return h.userService.GetUserIDByUsername(usernameFromRequest(r))
}

// GetPlans retrieves the authenticated user's payment plans
func (h *PlanHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	userID, err := h.getUserIDFromContext(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	plans, err := h.planService.GetPlansByUserID(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// GetPlan retrieves a plan by ID
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := h.getUserIDFromContext(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	plan, err := h.planService.GetPlanByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if plan.UserID != userID {
		writeError(w, http.StatusNotFound, "Plan not found")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// CreatePlan creates a plan owned by the authenticated user
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := h.getUserIDFromContext(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.PaymentPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.planService.CreatePlan(models.PaymentPlan{
		Name:        req.Name,
		PlanNumber:  req.PlanNumber,
		YearlyPrice: req.YearlyPrice,
		Description: req.Description,
		UserID:      userID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePlan updates a plan owned by the authenticated user
func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := h.getUserIDFromContext(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var req models.PaymentPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.planService.UpdatePlan(id, userID, models.PaymentPlan{
		Name:        req.Name,
		PlanNumber:  req.PlanNumber,
		YearlyPrice: req.YearlyPrice,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeletePlan deletes a plan owned by the authenticated user
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := h.getUserIDFromContext(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
