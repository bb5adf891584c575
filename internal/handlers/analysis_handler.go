package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/kasaapp/kasa/internal/calc"
)

// AnalysisHandler answers free-text questions about a year's finances by
// keyword and year extraction.
type AnalysisHandler struct {
	engine *calc.Engine
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(engine *calc.Engine) *AnalysisHandler {
	return &AnalysisHandler{
		engine: engine,
	}
}

func (h *AnalysisHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/analysis/query", h.Query).Methods("POST")
}

type analysisRequest struct {
	Question string `json:"question"`
}

type analysisResponse struct {
	Year   int         `json:"year"`
	Topic  string      `json:"topic"`
	Answer interface{} `json:"answer"`
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// extractYear pulls a four digit year out of the question, defaulting to
// the current year
func extractYear(question string, now time.Time) int {
	if match := yearPattern.FindString(question); match != "" {
		year, _ := strconv.Atoi(match)
		return year
	}
	return now.Year()
}

// extractTopic classifies the question by keyword
func extractTopic(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "income") || strings.Contains(q, "payment") || strings.Contains(q, "donation"):
		return "income"
	case strings.Contains(q, "expense") || strings.Contains(q, "event") || strings.Contains(q, "payout"):
		return "expenses"
	case strings.Contains(q, "member") || strings.Contains(q, "plan") || strings.Contains(q, "count"):
		return "members"
	default:
		return "balance"
	}
}

// Query answers a free-text question with the matching slice of the
// yearly summary
func (h *AnalysisHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	year := extractYear(req.Question, time.Now())
	topic := extractTopic(req.Question)

	resp := analysisResponse{Year: year, Topic: topic}

	switch topic {
	case "income":
		summary, err := h.engine.YearlyIncome(r.Context(), year, decimal.Zero)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Answer = summary
	case "expenses":
		summary, err := h.engine.YearlyExpenses(r.Context(), year, decimal.Zero)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Answer = summary
	case "members":
		counts, err := h.engine.CountMembersByPlan(r.Context(), year)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Answer = counts
	default:
		summary, err := h.engine.YearlyBalance(r.Context(), year, decimal.Zero, decimal.Zero)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Answer = summary
	}

	writeJSON(w, http.StatusOK, resp)
}
