package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/kasaapp/kasa/internal/calc"
)

// ReportHandler produces profit and loss reports
type ReportHandler struct {
	engine *calc.Engine
}

// NewReportHandler creates a new report handler
func NewReportHandler(engine *calc.Engine) *ReportHandler {
	return &ReportHandler{
		engine: engine,
	}
}

func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports/pl", h.GetProfitAndLoss).Methods("GET")
	router.HandleFunc("/reports/pl/export", h.ExportProfitAndLoss).Methods("GET")
}

func reportYear(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	return strconv.Atoi(raw)
}

// GetProfitAndLoss returns a year's income and expense summary
func (h *ReportHandler) GetProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	year, err := reportYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}

	summary, err := h.engine.YearlyBalance(r.Context(), year, decimal.Zero, decimal.Zero)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ExportProfitAndLoss writes the profit and loss report as an xlsx
// workbook
func (h *ReportHandler) ExportProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	year, err := reportYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}

	summary, err := h.engine.YearlyBalance(r.Context(), year, decimal.Zero, decimal.Zero)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", fmt.Sprintf("Profit & Loss %d", year))

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Plan Income", summary.PlanIncome},
		{"Total Payments", summary.TotalPayments},
		{"Extra Donation", summary.ExtraDonation},
		{"Calculated Income", summary.CalculatedIncome},
		{"Total Expenses", summary.TotalExpenses},
		{"Extra Expense", summary.ExtraExpense},
		{"Calculated Expenses", summary.CalculatedExpenses},
		{"Balance", summary.Balance},
	}
	for i, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+3), row.label)
		value, _ := row.value.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+3), value)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pl-%d.xlsx"`, year))
	if err := f.Write(w); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
