package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/simcore/internal/calendar"
	"github.com/wonny/simcore/internal/decision"
	"github.com/wonny/simcore/internal/executor"
	"github.com/wonny/simcore/pkg/logger"
)

// Handler serves the calendar and simulation endpoints
type Handler struct {
	locator calendar.Locator
	logger  *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(locator calendar.Locator, log *logger.Logger) *Handler {
	return &Handler{locator: locator, logger: log}
}

// StepInfo is one discretized step in a response
type StepInfo struct {
	Step  int       `json:"step"`
	Open  time.Time `json:"open"`
	Close time.Time `json:"close"`
}

// GetSteps returns the discretized steps of a calendar window.
// GET /api/calendar/steps?freq=day&from=2023-01-02&to=2023-01-06
func (h *Handler) GetSteps(w http.ResponseWriter, r *http.Request) {
	freq, start, end, err := parseWindow(r.URL.Query().Get("freq"), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cal, err := calendar.NewManager(r.Context(), h.locator, h.logger, freq, start, end)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	steps := make([]StepInfo, 0, cal.TradeLen())
	for i := 0; i < cal.TradeLen(); i++ {
		open, close, err := cal.StepTime(i, 0)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		steps = append(steps, StepInfo{Step: i, Open: open, Close: close})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"freq":      freq.String(),
		"trade_len": cal.TradeLen(),
		"steps":     steps,
	})
}

// SimulateRequest describes a nested simulation run
type SimulateRequest struct {
	OuterFreq  string `json:"outer_freq"`
	InnerFreq  string `json:"inner_freq,omitempty"`
	From       string `json:"from"`
	To         string `json:"to"`
	RangeStart *int   `json:"range_start,omitempty"`
	RangeEnd   *int   `json:"range_end,omitempty"`
}

// Simulate runs a nested executor over the requested window.
// POST /api/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	outerFreq, start, end, err := parseWindow(req.OuterFreq, req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var inner *executor.NestedExecutor
	if req.InnerFreq != "" {
		innerFreq, err := calendar.ParseFreq(req.InnerFreq)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		inner = executor.New(innerFreq, h.locator, nil, h.logger)
	}

	exec := executor.New(outerFreq, h.locator, inner, h.logger)
	if err := exec.Reset(r.Context(), start, end); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	var outer decision.Decision
	if req.RangeStart != nil && req.RangeEnd != nil {
		outer = decision.NewRangeLimited(nil, *req.RangeStart, *req.RangeEnd)
	}

	windows, err := exec.Run(r.Context(), outer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"windows": windows,
	})
}

// parseWindow parses a frequency token and a [from, to] day pair into a
// concrete calendar window. The end bound covers the whole "to" day so
// intraday bars on that day are included.
func parseWindow(freqStr, fromStr, toStr string) (calendar.Freq, time.Time, time.Time, error) {
	freq, err := calendar.ParseFreq(freqStr)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return "", time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return "", time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
	}

	end := to.AddDate(0, 0, 1).Add(-calendar.MinTimeUnit)
	return freq, from, end, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
