package http

import (
	"net/http"

	"gastos/internal/core"
)

type bucketTotalJSON struct {
	Total          string `json:"total"`
	TotalFormatted string `json:"total_formatted"`
	Count          int    `json:"count"`
}

type monthBucketJSON struct {
	Month    string                     `json:"month"`
	ByCard   map[string]bucketTotalJSON `json:"by_card"`
	ByPerson map[string]bucketTotalJSON `json:"by_person"`
}

type calendarResponse struct {
	AsOf   string            `json:"as_of"`
	Months []monthBucketJSON `json:"months"`
	Totals calendarTotals    `json:"totals"`
}

type calendarTotals struct {
	Overall          string            `json:"overall"`
	OverallFormatted string            `json:"overall_formatted"`
	Items            int               `json:"items"`
	ByCard           map[string]string `json:"by_card"`
	ByPerson         map[string]string `json:"by_person"`
}

type summaryResponse struct {
	Total            string            `json:"total"`
	TotalFormatted   string            `json:"total_formatted"`
	Count            int               `json:"count"`
	Average          string            `json:"average"`
	AverageFormatted string            `json:"average_formatted"`
	ByPerson         map[string]string `json:"by_person"`
}

func bucketTotalsJSON(m map[string]core.BucketTotal) map[string]bucketTotalJSON {
	out := make(map[string]bucketTotalJSON, len(m))
	for k, bt := range m {
		out[k] = bucketTotalJSON{
			Total:          bt.Total.String(),
			TotalFormatted: core.FormatAmount(bt.Total),
			Count:          bt.Count,
		}
	}
	return out
}

// handleCalendar serves the forward payment calendar. Results cache per
// as_of day until the next write.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cacheKey := asOf.StoreString()
	if cached, ok := s.calendarCache.Get(cacheKey); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	buckets, totals, err := s.calendar.Calendar(r.Context(), asOf)
	if err != nil {
		s.respondStoreError(w, r, "calendar", err)
		return
	}

	months := make([]monthBucketJSON, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, monthBucketJSON{
			Month:    string(b.Month),
			ByCard:   bucketTotalsJSON(b.ByCard),
			ByPerson: bucketTotalsJSON(b.ByPerson),
		})
	}

	byCard := make(map[string]string, len(totals.ByCard))
	for k, v := range totals.ByCard {
		byCard[k] = core.FormatAmount(v)
	}
	byPerson := make(map[string]string, len(totals.ByPerson))
	for k, v := range totals.ByPerson {
		byPerson[k] = core.FormatAmount(v)
	}

	resp := calendarResponse{
		AsOf:   asOf.StoreString(),
		Months: months,
		Totals: calendarTotals{
			Overall:          totals.Overall.String(),
			OverallFormatted: core.FormatAmount(totals.Overall),
			Items:            totals.Items,
			ByCard:           byCard,
			ByPerson:         byPerson,
		},
	}

	s.calendarCache.Set(cacheKey, resp)
	respondJSON(w, http.StatusOK, resp)
}

const summaryCacheKey = "summary"

// handleSummary serves the dashboard totals over the whole ledger.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.summaryCache.Get(summaryCacheKey); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	sum, err := s.calendar.Summary(r.Context())
	if err != nil {
		s.respondStoreError(w, r, "summary", err)
		return
	}

	byPerson := make(map[string]string, len(sum.ByPerson))
	for k, v := range sum.ByPerson {
		byPerson[k] = core.FormatAmount(v)
	}

	resp := summaryResponse{
		Total:            sum.Total.String(),
		TotalFormatted:   core.FormatAmount(sum.Total),
		Count:            sum.Count,
		Average:          sum.Average.String(),
		AverageFormatted: core.FormatAmount(sum.Average),
		ByPerson:         byPerson,
	}

	s.summaryCache.Set(summaryCacheKey, resp)
	respondJSON(w, http.StatusOK, resp)
}
