/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll calculator and the directory via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Payroll:
    POST   /api/punch                  Record in/out/sick/vacation
    GET    /api/hours/today            Today's hours and clock state
    GET    /api/payroll/calculate      Period summary (?start_date&end_date)
    GET    /api/payroll/breakdown      Per-day detail for the same range
    GET    /api/settings/rate          Current hourly rate
    PUT    /api/settings/rate          Replace hourly rate
    GET    /api/calendar               Month of entries (?year&month)

  Directory (directory_handlers.go):
    /api/employees, /api/construction-sites, /api/roles

REQUEST FLOW:
  1. Parse and validate input (bind.go)
  2. Call the calculator or directory store
  3. Convert decimals to DTOs
  4. Map errors to status codes (respondError)

ERROR HANDLING:
  Errors are returned as JSON {error, details}:
  - 400: Bad JSON, validation, invalid period/type/rate, bad query params
  - 404: Directory record not found
  - 503: Entry or rate store unavailable
  - 500: Anything else

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/warp/payroll-engine/directory"
	"github.com/warp/payroll-engine/logger"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Pinger reports database reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Payroll   *payroll.Calculator
	Directory directory.Store
	DB        Pinger // optional
}

// NewHandler creates a handler over the calculator and directory store.
func NewHandler(calc *payroll.Calculator, dir directory.Store) *Handler {
	return &Handler{Payroll: calc, Directory: dir}
}

func (h *Handler) now() time.Time {
	if h.Payroll != nil && h.Payroll.Now != nil {
		return h.Payroll.Now().UTC()
	}
	return time.Now().UTC()
}

// =============================================================================
// PUNCH
// =============================================================================

// Punch records a time entry.
func (h *Handler) Punch(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[PunchRequest](r)
	if err != nil {
		respondError(w, r, "Invalid request", err)
		return
	}

	var at *time.Time
	if req.Timestamp != nil && *req.Timestamp != "" {
		t, err := parseInstant(*req.Timestamp)
		if err != nil {
			respondError(w, r, "Invalid timestamp", err)
			return
		}
		at = &t
	}

	entry, err := h.Payroll.Punch(r.Context(), payroll.EntryType(req.EntryType), at)
	if err != nil {
		respondError(w, r, "Failed to record entry", err)
		return
	}

	logger.C(r.Context()).Info().
		Int64("entry_id", entry.ID).
		Str("entry_type", string(entry.Type)).
		Time("punch_time", entry.PunchTime).
		Msg("entry recorded")

	writeJSON(w, http.StatusOK, PunchResponse{
		Success:   true,
		Message:   entry.Type.Title() + " recorded successfully",
		EntryID:   entry.ID,
		Timestamp: formatInstant(entry.PunchTime),
	})
}

// =============================================================================
// HOURS AND PAYROLL
// =============================================================================

// TodayHours returns the current day's status.
func (h *Handler) TodayHours(w http.ResponseWriter, r *http.Request) {
	status, err := h.Payroll.TodayHours(r.Context(), nil)
	if err != nil {
		respondError(w, r, "Error retrieving hours", err)
		return
	}
	writeJSON(w, http.StatusOK, toTodayDTO(status))
}

// CalculatePayroll returns the summary for a period.
// If either date is omitted, the whole current semi-monthly period is used.
func (h *Handler) CalculatePayroll(w http.ResponseWriter, r *http.Request) {
	start, end, err := periodParams(r)
	if err != nil {
		respondError(w, r, "Invalid date format", err)
		return
	}

	calc, err := h.Payroll.CalculatePeriodPay(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Calculation error", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(calc))
}

// PayrollBreakdown returns the per-day detail behind CalculatePayroll.
func (h *Handler) PayrollBreakdown(w http.ResponseWriter, r *http.Request) {
	start, end, err := periodParams(r)
	if err != nil {
		respondError(w, r, "Invalid date format", err)
		return
	}

	period, days, err := h.Payroll.PeriodBreakdown(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Calculation error", err)
		return
	}

	resp := BreakdownResponse{
		PeriodStart: formatInstant(period.Start),
		PeriodEnd:   formatInstant(period.End),
		Days:        make([]DayBreakdownDTO, len(days)),
	}
	for i, d := range days {
		resp.Days[i] = toBreakdownDTO(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

// periodParams reads start_date and end_date. A start date becomes the
// start of that day and an end date the last instant of that day.
func periodParams(r *http.Request) (start, end *time.Time, err error) {
	q := r.URL.Query()
	if s := q.Get("start_date"); s != "" {
		d, err := parseDateParam("start_date", s)
		if err != nil {
			return nil, nil, err
		}
		t := d.Time()
		start = &t
	}
	if s := q.Get("end_date"); s != "" {
		d, err := parseDateParam("end_date", s)
		if err != nil {
			return nil, nil, err
		}
		t := payroll.EndOfDay(d.Time())
		end = &t
	}
	return start, end, nil
}

// parseDateParam accepts YYYY-MM-DD or an RFC3339 instant, whose date is
// taken in its own offset.
func parseDateParam(name, s string) (payroll.Day, error) {
	if d, err := payroll.ParseDay(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return payroll.Day{}, &BindError{Field: name, Message: fmt.Sprintf("%q is not a date (YYYY-MM-DD or RFC3339)", s)}
	}
	return payroll.DayOf(t), nil
}

// parseInstant accepts RFC3339 (with or without fraction), a local
// timestamp without offset (read as UTC) or a bare date (midnight UTC).
func parseInstant(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &BindError{Field: "timestamp", Message: fmt.Sprintf("%q is not an ISO 8601 timestamp", s)}
}

// =============================================================================
// RATE
// =============================================================================

func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.Payroll.CurrentRate(r.Context())
	if err != nil {
		respondError(w, r, "Error retrieving rate", err)
		return
	}
	writeJSON(w, http.StatusOK, RateDTO{HourlyRate: toFloat(rate)})
}

func (h *Handler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[RateUpdateRequest](r)
	if err != nil {
		respondError(w, r, "Invalid request", err)
		return
	}

	rate := decimalFromFloat(req.HourlyRate).Round(payroll.RateDecimals)
	if err := h.Payroll.UpdateRate(r.Context(), rate); err != nil {
		respondError(w, r, "Error updating rate", err)
		return
	}

	logger.C(r.Context()).Info().Str("hourly_rate", rate.String()).Msg("hourly rate updated")
	writeJSON(w, http.StatusOK, RateUpdateResponse{Success: true, NewRate: toFloat(rate)})
}

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar returns a month of entries grouped by date.
// Missing year or month means the current month.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := h.now()
	year, month := now.Year(), int(now.Month())

	if q.Get("year") != "" && q.Get("month") != "" {
		var err error
		if year, err = strconv.Atoi(q.Get("year")); err != nil {
			respondError(w, r, "Invalid year", &BindError{Field: "year", Message: "must be an integer"})
			return
		}
		if month, err = strconv.Atoi(q.Get("month")); err != nil {
			respondError(w, r, "Invalid month", &BindError{Field: "month", Message: "must be an integer"})
			return
		}
	}

	days, err := h.Payroll.Calendar(r.Context(), year, time.Month(month))
	if err != nil {
		respondError(w, r, "Calendar error", err)
		return
	}

	resp := CalendarResponse{Year: year, Month: month, Entries: make(map[string][]CalendarEntryDTO, len(days))}
	for _, day := range payroll.SortedDays(days) {
		list := make([]CalendarEntryDTO, len(days[day]))
		for i, e := range days[day] {
			list[i] = CalendarEntryDTO{ID: e.ID, Time: e.PunchTime.Format(payroll.ClockTimeLayout), Type: string(e.Type)}
		}
		resp.Entries[day.String()] = list
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Timestamp: formatInstant(time.Now())}
	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("health check: database unreachable")
			resp.Status = "unhealthy"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var bind *BindError
	switch {
	case errors.As(err, &bind), payroll.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, directory.ErrNotFound):
		return http.StatusNotFound
	case payroll.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs server-side failures and writes the JSON error.
func respondError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.C(r.Context()).Error().Err(err).Int("status", status).Str("path", r.URL.Path).Msg(strings.ToLower(message))
	}
	writeError(w, status, message, err)
}
