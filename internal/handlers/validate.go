package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lehigh-university-libraries/annotcheck/internal/report"
)

// HandleValidate validates the JSON document in the request body and stores
// the report. Invalid documents still get 200 with valid=false; only
// unreadable bodies are client errors.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "request"
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		h.writeError(w, "Invalid JSON: unexpected data after document", http.StatusBadRequest)
		return
	}

	ds, err := h.validator.Validate(doc)

	rep := report.New(h.validator)
	rep.Results = []report.Result{report.NewResult(source, ds, err)}
	h.reportStore.Add(rep)

	h.writeJSON(w, http.StatusOK, rep)
}
