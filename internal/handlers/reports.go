package handlers

import (
	"net/http"
	"strings"
)

func (h *Handler) HandleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.reportStore.GetAll())
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleReportDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodDelete {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reportID := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	rep, exists := h.reportStore.Get(reportID)
	if !exists {
		h.writeError(w, "Report not found", http.StatusNotFound)
		return
	}

	if r.Method == http.MethodDelete {
		h.reportStore.Delete(reportID)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, rep)
}

// Routes registers the API on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/validate", h.HandleValidate)
	mux.HandleFunc("/api/reports", h.HandleReports)
	mux.HandleFunc("/api/reports/", h.HandleReportDetail)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			h.writeError(w, "Unable to write healthcheck", http.StatusInternalServerError)
		}
	})
	return mux
}
