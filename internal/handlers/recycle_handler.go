package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kasaapp/kasa/internal/services"
)

// RecycleHandler handles recycle bin requests
type RecycleHandler struct {
	recycleService services.RecycleService
}

// NewRecycleHandler creates a new recycle handler
func NewRecycleHandler(recycleService services.RecycleService) *RecycleHandler {
	return &RecycleHandler{
		recycleService: recycleService,
	}
}

func (h *RecycleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/recycle-bin", h.ListDeleted).Methods("GET")
	router.HandleFunc("/recycle-bin/restore", h.Restore).Methods("POST")
	router.HandleFunc("/recycle-bin/purge", h.Purge).Methods("DELETE")
}

// recycleRequest names a soft-deleted record
type recycleRequest struct {
	EntityType string `json:"entityType"`
	ID         uint   `json:"id"`
}

// ListDeleted retrieves everything in the recycle bin
func (h *RecycleHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	items, err := h.recycleService.ListDeleted()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Restore brings a soft-deleted record back
func (h *RecycleHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req recycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.recycleService.Restore(req.EntityType, req.ID); err != nil {
		if errors.Is(err, services.ErrUnknownEntity) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"restored": true})
}

// Purge permanently removes a soft-deleted record
func (h *RecycleHandler) Purge(w http.ResponseWriter, r *http.Request) {
	var req recycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.recycleService.Purge(req.EntityType, req.ID); err != nil {
		if errors.Is(err, services.ErrUnknownEntity) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"purged": true})
}
