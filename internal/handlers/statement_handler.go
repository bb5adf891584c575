package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/kasaapp/kasa/internal/batch"
	"github.com/kasaapp/kasa/internal/mailer"
	"github.com/kasaapp/kasa/internal/services"
	"github.com/kasaapp/kasa/internal/ws"
)

// StatementHandler handles statement requests
type StatementHandler struct {
	statementService services.StatementService
	familyService    services.FamilyService
	generator        *batch.StatementGenerator
	mailer           *mailer.Mailer
	wsHub            *ws.Hub
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(
	statementService services.StatementService,
	familyService services.FamilyService,
	generator *batch.StatementGenerator,
	m *mailer.Mailer,
	wsHub *ws.Hub,
) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		familyService:    familyService,
		generator:        generator,
		mailer:           m,
		wsHub:            wsHub,
	}
}

func (h *StatementHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/statements", h.GetStatements).Methods("GET")
	router.HandleFunc("/statements/generate", h.GenerateStatements).Methods("POST")
	router.HandleFunc("/statements/{id:[0-9]+}", h.GetStatement).Methods("GET")
	router.HandleFunc("/statements/{id:[0-9]+}", h.DeleteStatement).Methods("DELETE")
	router.HandleFunc("/statements/{id:[0-9]+}/email", h.EmailStatement).Methods("POST")
}

// GetStatements retrieves statements, optionally filtered by family
func (h *StatementHandler) GetStatements(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("familyId"); raw != "" {
		familyID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid familyId")
			return
		}
		statements, err := h.statementService.GetStatementsByFamilyID(uint(familyID))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, statements)
		return
	}

	statements, err := h.statementService.GetStatements()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statements)
}

// GetStatement retrieves a statement by ID
func (h *StatementHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	statement, err := h.statementService.GetStatementByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Statement not found")
		return
	}
	writeJSON(w, http.StatusOK, statement)
}

// DeleteStatement permanently removes a statement
func (h *StatementHandler) DeleteStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.statementService.DeleteStatement(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// generateRequest names the statement period; it defaults to the current
// month.
type generateRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// GenerateStatements runs the monthly statement batch
func (h *StatementHandler) GenerateStatements(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	req := generateRequest{Year: now.Year(), Month: int(now.Month())}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month")
		return
	}

	result, err := h.generator.Run(r.Context(), req.Year, req.Month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.wsHub.Broadcast(ws.EventStatementsGenerated, map[string]interface{}{
		"year":  req.Year,
		"month": req.Month,
	})
	writeJSON(w, http.StatusOK, result)
}

// EmailStatement sends a statement to the family's email address
func (h *StatementHandler) EmailStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromRequest(w, r)
	if !ok {
		return
	}

	statement, err := h.statementService.GetStatementByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Statement not found")
		return
	}

	family, err := h.familyService.GetFamilyByID(statement.FamilyID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Family not found")
		return
	}
	if family.Email == "" {
		writeError(w, http.StatusBadRequest, "Family has no email address")
		return
	}

	if err := h.mailer.SendStatement(family.Email, family, statement); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"sentTo":  family.Email,
	})
}
