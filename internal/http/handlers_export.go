package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gastos/internal/export"
)

// handleExportCSV streams the full ledger as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.List(r.Context())
	if err != nil {
		s.respondStoreError(w, r, "export csv", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, expenses); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := export.CSVFilename(time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// handleExportXLSX streams a workbook with the ledger and the pending
// calendar. The calendar sheet honors the as_of parameter like the JSON
// endpoint does.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.store.List(r.Context())
	if err != nil {
		s.respondStoreError(w, r, "export xlsx", err)
		return
	}

	buckets, _, err := s.calendar.Calendar(r.Context(), asOf)
	if err != nil {
		s.respondStoreError(w, r, "export xlsx calendar", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, expenses, buckets); err != nil {
		slog.ErrorContext(r.Context(), "Excel export failed", "error", err)
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := export.XLSXFilename(time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	_, _ = w.Write(buf.Bytes())
}
