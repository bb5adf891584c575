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

// LifecycleHandler handles lifecycle event types and event payouts
type LifecycleHandler struct {
	lifecycleService services.LifecycleService
}

// NewLifecycleHandler creates a new lifecycle handler
func NewLifecycleHandler(lifecycleService services.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{
		lifecycleService: lifecycleService,
	}
}

func (h *LifecycleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/event-types", h.GetEventTypes).Methods("GET")
	router.HandleFunc("/event-types", h.CreateEventType).Methods("POST")
	router.HandleFunc("/event-types/{id:[0-9]+}", h.UpdateEventType).Methods("PUT")
	router.HandleFunc("/events", h.GetEvents).Methods("GET")
	router.HandleFunc("/events", h.CreateEvent).Methods("POST")
	router.HandleFunc("/events/{id:[0-9]+}", h.DeleteEvent).Methods("DELETE")
}

// GetEventTypes retrieves the lifecycle event type catalog
func (h *LifecycleHandler) GetEventTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.lifecycleService.GetEventTypes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// CreateEventType adds a lifecycle event type
func (h *LifecycleHandler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	var event models.LifecycleEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.lifecycleService.CreateEventType(event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateEventType updates a lifecycle event type
func (h *LifecycleHandler) UpdateEventType(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var event models.LifecycleEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.lifecycleService.UpdateEventType(id, event)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Event type not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GetEvents retrieves event payouts, optionally filtered by family
func (h *LifecycleHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("familyId"); raw != "" {
		familyID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid familyId")
			return
		}
		events, err := h.lifecycleService.GetEventPaymentsByFamilyID(uint(familyID))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	events, err := h.lifecycleService.GetEventPayments()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent records a lifecycle event payout
func (h *LifecycleHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.LifecycleEventPayment
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if event.FamilyID == 0 {
		writeError(w, http.StatusBadRequest, "familyId is required")
		return
	}

	created, err := h.lifecycleService.CreateEventPayment(event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteEvent permanently removes an event payout
func (h *LifecycleHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.lifecycleService.DeleteEventPayment(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
