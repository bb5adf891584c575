package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/models"
	"github.com/kasaapp/kasa/internal/services"
)

// MemberHandler handles family member requests
type MemberHandler struct {
	memberService services.MemberService
	engine        *calc.Engine
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService services.MemberService, engine *calc.Engine) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		engine:        engine,
	}
}

func (h *MemberHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/members/{id:[0-9]+}", h.GetMember).Methods("GET")
	router.HandleFunc("/members/{id:[0-9]+}", h.UpdateMember).Methods("PUT")
	router.HandleFunc("/members/{id:[0-9]+}", h.DeleteMember).Methods("DELETE")
	router.HandleFunc("/members/{id:[0-9]+}/balance", h.GetMemberBalance).Methods("GET")
	router.HandleFunc("/members/assign-plans", h.AssignBucherPlans).Methods("POST")
}

// GetMember retrieves a member by ID
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	member, err := h.memberService.GetMemberByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Member not found")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// UpdateMember updates a family member
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	var member models.FamilyMember
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.memberService.UpdateMember(id, member)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteMember moves a member to the recycle bin
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// GetMemberBalance computes an individually billed member's balance
func (h *MemberHandler) GetMemberBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	balance, err := h.engine.MemberBalance(r.Context(), id, time.Now())
	if err != nil {
		if errors.Is(err, calc.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "Member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// AssignBucherPlans flags members who reached bar mitzvah age for
// individual billing
func (h *MemberHandler) AssignBucherPlans(w http.ResponseWriter, r *http.Request) {
	assigned, err := h.memberService.AssignBucherPlans(time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"assigned": assigned})
}
