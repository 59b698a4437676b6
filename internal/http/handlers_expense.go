package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gastos/internal/core"
)

// expenseRequest is the JSON write shape. The amount arrives as free text
// and goes through the currency normalizer; the date uses the household
// DD/MM/YYYY form. An unparsable date is tolerated: the record persists
// with no date and stays out of the calendar.
type expenseRequest struct {
	Date              string `json:"date"`
	Amount            string `json:"amount"`
	Category          string `json:"category"`
	Person            string `json:"person"`
	Card              string `json:"card"`
	Description       string `json:"description"`
	InstallmentsTotal int    `json:"installments_total"`
	InstallmentsPaid  int    `json:"installments_paid"`
}

type expenseResponse struct {
	ID                string   `json:"id"`
	Date              string   `json:"date"`
	Amount            string   `json:"amount"`
	AmountFormatted   string   `json:"amount_formatted"`
	Category          string   `json:"category"`
	Person            string   `json:"person"`
	Card              string   `json:"card"`
	Description       string   `json:"description"`
	InstallmentsTotal int      `json:"installments_total"`
	InstallmentsPaid  int      `json:"installments_paid"`
	PaidMonths        []string `json:"paid_months"`
	Settled           bool     `json:"settled"`
}

func toResponse(e core.Expense) expenseResponse {
	months := make([]string, 0, len(e.PaidMonths))
	for _, m := range e.PaidMonths {
		months = append(months, string(m))
	}
	return expenseResponse{
		ID:                e.ID,
		Date:              e.Date.StoreString(),
		Amount:            e.Amount.String(),
		AmountFormatted:   core.FormatAmount(e.Amount),
		Category:          e.Category,
		Person:            e.Person,
		Card:              e.Card,
		Description:       e.Description,
		InstallmentsTotal: e.InstallmentsTotal,
		InstallmentsPaid:  e.InstallmentsPaid,
		PaidMonths:        months,
		Settled:           e.Settled(),
	}
}

// toExpense converts a request to a domain record. Paid months are derived
// from the paid count during reconciliation, not taken from the client.
func (req expenseRequest) toExpense() core.Expense {
	e := core.Expense{
		Amount:            core.ParseAmount(req.Amount),
		Category:          sanitizeInput(req.Category),
		Person:            sanitizeInput(req.Person),
		Card:              sanitizeInput(req.Card),
		Description:       sanitizeInput(req.Description),
		InstallmentsTotal: req.InstallmentsTotal,
		InstallmentsPaid:  req.InstallmentsPaid,
	}
	if e.InstallmentsTotal == 0 {
		e.InstallmentsTotal = 1
	}
	if d, err := core.ParseDate(req.Date); err == nil {
		e.Date = d
	}
	// Derive paid months from the count here so every backend receives a
	// consistent record; the SQLite service reconciles again harmlessly.
	core.Reconcile(&e)
	return e
}

func decodeExpenseRequest(w http.ResponseWriter, r *http.Request) (expenseRequest, error) {
	var req expenseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return expenseRequest{}, err
	}
	return req, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	req, err := decodeExpenseRequest(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e := req.toExpense()
	id, err := s.store.Create(r.Context(), e)
	if err != nil {
		s.respondStoreError(w, r, "create", err)
		return
	}

	s.flushCaches()

	created, err := s.store.Get(r.Context(), id)
	if err != nil {
		// The record exists; answer with what the client sent plus the id.
		e.ID = id
		respondJSON(w, http.StatusCreated, toResponse(e))
		return
	}
	respondJSON(w, http.StatusCreated, toResponse(created))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.List(r.Context())
	if err != nil {
		s.respondStoreError(w, r, "list", err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toResponse(e))
	}
	respondJSON(w, http.StatusOK, map[string]any{"expenses": out, "count": len(out)})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondStoreError(w, r, "get", err)
		return
	}
	respondJSON(w, http.StatusOK, toResponse(e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req, err := decodeExpenseRequest(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.Update(r.Context(), id, req.toExpense()); err != nil {
		s.respondStoreError(w, r, "update", err)
		return
	}

	s.flushCaches()

	updated, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, "get after update", err)
		return
	}
	respondJSON(w, http.StatusOK, toResponse(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondStoreError(w, r, "delete", err)
		return
	}

	s.flushCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTaxonomies(w http.ResponseWriter, r *http.Request) {
	categories, persons, cards, err := s.store.Taxonomies(r.Context())
	if err != nil {
		s.respondStoreError(w, r, "taxonomies", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{
		"categories": categories,
		"persons":    persons,
		"cards":      cards,
	})
}

// respondStoreError maps store errors to HTTP status codes.
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, "expense not found")
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Store operation failed",
			"op", op, "error", err, "url", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidInstallments) ||
		errors.Is(err, core.ErrEmptyPerson) ||
		errors.Is(err, core.ErrEmptyCard) ||
		errors.Is(err, core.ErrEmptyCategory)
}
