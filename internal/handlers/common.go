package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/annotcheck/internal/coco"
	"github.com/lehigh-university-libraries/annotcheck/internal/storage"
)

// maxBodyBytes caps uploaded annotation documents.
const maxBodyBytes = 64 << 20

type Handler struct {
	reportStore *storage.ReportStore
	validator   *coco.Validator
}

func New(validator *coco.Validator, store *storage.ReportStore) *Handler {
	return &Handler{
		reportStore: store,
		validator:   validator,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
