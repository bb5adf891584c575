package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/kasaapp/kasa/internal/cache"
	"github.com/kasaapp/kasa/internal/calc"
	"github.com/kasaapp/kasa/internal/ws"
)

// CalculationHandler handles yearly calculation requests
type CalculationHandler struct {
	engine *calc.Engine
	cache  *cache.CalculationCache
	wsHub  *ws.Hub
}

// NewCalculationHandler creates a new calculation handler
func NewCalculationHandler(engine *calc.Engine, calcCache *cache.CalculationCache, wsHub *ws.Hub) *CalculationHandler {
	return &CalculationHandler{
		engine: engine,
		cache:  calcCache,
		wsHub:  wsHub,
	}
}

func (h *CalculationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/calculations/{year:[0-9]+}", h.GetCalculation).Methods("GET")
	router.HandleFunc("/calculations/{year:[0-9]+}", h.Recalculate).Methods("POST")
}

// recalculateRequest carries manual adjustments for a recalculation
type recalculateRequest struct {
	ExtraDonation decimal.Decimal `json:"extraDonation"`
	ExtraExpense  decimal.Decimal `json:"extraExpense"`
}

func yearFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 1900 || year > 3000 {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return 0, false
	}
	return year, true
}

// GetCalculation returns a year's summary, computing and caching it when
// missing
func (h *CalculationHandler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	year, ok := yearFromRequest(w, r)
	if !ok {
		return
	}

	if cached, err := h.cache.Get(r.Context(), year); err != nil {
		slog.Warn("calculation cache read failed", "year", year, "error", err)
	} else if cached != nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	row, err := h.engine.CalculateAndSaveYear(r.Context(), year, decimal.Zero, decimal.Zero)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.cache.Set(r.Context(), &row); err != nil {
		slog.Warn("calculation cache write failed", "year", year, "error", err)
	}
	writeJSON(w, http.StatusOK, row)
}

// Recalculate recomputes a year with manual adjustments and notifies
// connected clients
func (h *CalculationHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	year, ok := yearFromRequest(w, r)
	if !ok {
		return
	}

	var req recalculateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	row, err := h.engine.CalculateAndSaveYear(r.Context(), year, req.ExtraDonation, req.ExtraExpense)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.cache.Invalidate(r.Context(), year); err != nil {
		slog.Warn("calculation cache invalidation failed", "year", year, "error", err)
	}
	h.wsHub.Broadcast(ws.EventYearRecalculated, map[string]interface{}{"year": year})

	writeJSON(w, http.StatusOK, row)
}
