package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/models"
	"github.com/kasaapp/kasa/internal/services"
)

// FamilyHandler handles family requests
type FamilyHandler struct {
	familyService services.FamilyService
	memberService services.MemberService
	engine        *calc.Engine
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService services.FamilyService, memberService services.MemberService, engine *calc.Engine) *FamilyHandler {
	return &FamilyHandler{
		familyService: familyService,
		memberService: memberService,
		engine:        engine,
	}
}

func (h *FamilyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/families", h.GetFamilies).Methods("GET")
	router.HandleFunc("/families", h.CreateFamily).Methods("POST")
	router.HandleFunc("/families/{id:[0-9]+}", h.GetFamily).Methods("GET")
	router.HandleFunc("/families/{id:[0-9]+}", h.UpdateFamily).Methods("PUT")
	router.HandleFunc("/families/{id:[0-9]+}", h.DeleteFamily).Methods("DELETE")
	router.HandleFunc("/families/{id:[0-9]+}/balance", h.GetFamilyBalance).Methods("GET")
	router.HandleFunc("/families/{id:[0-9]+}/members", h.GetFamilyMembers).Methods("GET")
	router.HandleFunc("/families/{id:[0-9]+}/members", h.CreateFamilyMember).Methods("POST")
}

// GetFamilies retrieves all families
func (h *FamilyHandler) GetFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := h.familyService.GetFamilies()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, families)
}

// GetFamily retrieves a single family by ID
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	family, err := h.familyService.GetFamilyByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Family not found")
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// CreateFamily creates a new family
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var family models.Family
	if err := json.NewDecoder(r.Body).Decode(&family); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.familyService.CreateFamily(family)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateFamily updates an existing family
func (h *FamilyHandler) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var family models.Family
	if err := json.NewDecoder(r.Body).Decode(&family); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.familyService.UpdateFamily(id, family)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Family not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteFamily moves a family to the recycle bin
func (h *FamilyHandler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.familyService.DeleteFamily(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Family not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// GetFamilyBalance computes a family's balance, optionally as of a date
func (h *FamilyHandler) GetFamilyBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	asOf := time.Now()
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid asOf date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	balance, err := h.engine.FamilyBalance(r.Context(), id, asOf)
	if err != nil {
		if errors.Is(err, calc.ErrFamilyNotFound) {
			writeError(w, http.StatusNotFound, "Family not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetFamilyMembers retrieves a family's members
func (h *FamilyHandler) GetFamilyMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	members, err := h.memberService.GetMembersByFamilyID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// CreateFamilyMember adds a member to a family
func (h *FamilyHandler) CreateFamilyMember(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var member models.FamilyMember
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	member.FamilyID = id

	created, err := h.memberService.CreateMember(member)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// idFromRequest parses the {id} path variable, writing a 400 on failure
func idFromRequest(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}
