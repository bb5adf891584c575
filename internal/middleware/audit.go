package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasaapp/kasa/internal/models"
)

// Audit writes an audit log row for every mutating request. Reads are
// not audited.
func Audit(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			entry := models.AuditLog{
				RequestID:  uuid.NewString(),
				Username:   UsernameFromContext(r.Context()),
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: rec.status,
			}
			if err := db.Create(&entry).Error; err != nil {
				slog.Warn("failed to write audit log", "error", err)
			}
		})
	}
}
