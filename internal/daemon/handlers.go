package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/tripplan/internal/model"
	"github.com/theirongolddev/tripplan/internal/planner"
)

const maxBodyBytes = 64 << 10

type entryRequest struct {
	Name    string  `json:"name"`
	Cost    float64 `json:"cost"`
	Address string  `json:"address"`
	Image   string  `json:"image"`
}

type expenseRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type amountRequest struct {
	Amount float64 `json:"amount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		writeJSON(w, http.StatusOK, []model.Destination{})
		return
	}
	results := s.search.SearchByName(r.Context(), r.URL.Query().Get("q"))
	if results == nil {
		results = []model.Destination{}
	}
	writeJSON(w, http.StatusOK, results)
}

// handleSuggestions refreshes suggestions around lat/lon when both are
// given, then returns the current list.
func (s *Service) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("lat") || q.Has("lon") {
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
		if errLat != nil || errLon != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lat and lon must be numbers"})
			return
		}
		s.planner.RefreshSuggestions(r.Context(), lat, lon)
	}
	list := s.planner.Suggestions()
	if list == nil {
		list = []model.Suggestion{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Service) handleSelect(w http.ResponseWriter, r *http.Request) {
	var d model.Destination
	if !decodeBody(w, r, &d) {
		return
	}
	if strings.TrimSpace(d.Name) == "" {
		s.writeError(w, planner.ErrEmptyName)
		return
	}
	if err := s.planner.SelectDestination(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Service) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := s.planner.AddEntry(r.Context(), req.Name, req.Cost, req.Address, req.Image)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Service) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err == nil {
		err = s.planner.RemoveItineraryEntry(r.Context(), i)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleToggle(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err == nil {
		err = s.planner.ToggleComplete(r.Context(), i)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.planner.Itinerary()[i])
}

func (s *Service) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := s.planner.AddExpense(r.Context(), req.Name, req.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Service) handleEditAmount(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.planner.EditBudgetAmount(r.Context(), i, req.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.planner.Budget()[i])
}

func (s *Service) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err == nil {
		err = s.planner.RemoveBudgetEntry(r.Context(), i)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.ClearAll(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// writeError maps planner input errors to 4xx and records anything else.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, planner.ErrEmptyName), errors.Is(err, planner.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, planner.ErrIndexOutOfRange):
		status = http.StatusNotFound
	default:
		s.recordError(err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.mu.Lock()
		s.requestCount++
		s.mu.Unlock()

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
