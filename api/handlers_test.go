/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- Punch recording and timestamp parsing
- Today view, period calculation and breakdown
- Rate settings and calendar
- Directory CRUD and error status mapping
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// Thursday 2025-03-20 14:00 UTC, inside the 16-31 March period.
var testNow = time.Date(2025, time.March, 20, 14, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *chi.Mux {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	calc := payroll.NewCalculator(store, store)
	calc.Now = func() time.Time { return testNow }

	h := NewHandler(calc, store)
	h.DB = store
	return NewRouter(h, []string{"http://localhost:5173"})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v), rec.Body.String())
	return v
}

func punchAt(t *testing.T, router http.Handler, entryType, ts string) PunchResponse {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/punch",
		`{"entry_type":"`+entryType+`","timestamp":"`+ts+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[PunchResponse](t, rec)
}

// =============================================================================
// PUNCH
// =============================================================================

func TestPunch_WithTimestamp(t *testing.T) {
	router := newTestServer(t)

	// WHEN: punching in with an offset timestamp
	resp := punchAt(t, router, "in", "2025-03-18T08:00:00+02:00")

	// THEN: stored and echoed in UTC
	assert.True(t, resp.Success)
	assert.Equal(t, "In recorded successfully", resp.Message)
	assert.Positive(t, resp.EntryID)
	assert.Equal(t, "2025-03-18T06:00:00Z", resp.Timestamp)
}

func TestPunch_DefaultsToNow(t *testing.T) {
	router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/punch", `{"entry_type":"sick"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[PunchResponse](t, rec)
	assert.Equal(t, "Sick recorded successfully", resp.Message)
	assert.Equal(t, "2025-03-20T14:00:00Z", resp.Timestamp)
}

func TestPunch_InvalidInput(t *testing.T) {
	router := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"entry_type":"lunch"}`},
		{"missing type", `{}`},
		{"empty body", ``},
		{"unknown field", `{"entry_type":"in","employee":3}`},
		{"bad timestamp", `{"entry_type":"in","timestamp":"yesterday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/punch", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestParseInstant_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-18T08:00:00Z", time.Date(2025, 3, 18, 8, 0, 0, 0, time.UTC)},
		{"2025-03-18T08:00:00.5-01:00", time.Date(2025, 3, 18, 9, 0, 0, 5e8, time.UTC)},
		{"2025-03-18T08:00:00", time.Date(2025, 3, 18, 8, 0, 0, 0, time.UTC)},
		{"2025-03-18T08:00", time.Date(2025, 3, 18, 8, 0, 0, 0, time.UTC)},
		{"2025-03-18", time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseInstant(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

// =============================================================================
// TODAY AND PAYROLL
// =============================================================================

func TestTodayHours_ClockedIn(t *testing.T) {
	router := newTestServer(t)

	// GIVEN: clocked in at 09:00, now is 14:00
	punchAt(t, router, "in", "2025-03-20T09:00:00Z")

	rec := do(t, router, http.MethodGet, "/api/hours/today", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[TodayHoursDTO](t, rec)
	assert.Equal(t, 5.0, resp.TotalHours)
	assert.True(t, resp.IsClockedIn)
	require.NotNil(t, resp.ClockInTime)
	assert.Equal(t, "09:00", *resp.ClockInTime)
	assert.Equal(t, 1, resp.EntryCount)
}

func TestTodayHours_Empty(t *testing.T) {
	router := newTestServer(t)

	rec := do(t, router, http.MethodGet, "/api/hours/today", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_hours":0,"is_clocked_in":false,"clock_in_time":null,"entry_count":0}`, rec.Body.String())
}

func TestCalculatePayroll_SingleDayWithOvertime(t *testing.T) {
	router := newTestServer(t)

	// GIVEN: a 10 hour Monday
	punchAt(t, router, "in", "2025-03-17T07:00:00Z")
	punchAt(t, router, "out", "2025-03-17T17:00:00Z")

	// WHEN: calculating that day only
	rec := do(t, router, http.MethodGet, "/api/payroll/calculate?start_date=2025-03-17&end_date=2025-03-17", "")

	// THEN: 8 regular + 2 overtime at 15.00; 120 + 2*15*1.15 = 154.50
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[PayrollDTO](t, rec)
	assert.Equal(t, 8.0, resp.RegularHours)
	assert.Equal(t, 2.0, resp.OvertimeHours)
	assert.Equal(t, 10.0, resp.TotalHours)
	assert.Equal(t, 154.5, resp.GrossPay)
	assert.Equal(t, 15.0, resp.HourlyRate)
	assert.Equal(t, "2025-03-17T00:00:00Z", resp.PeriodStart)
	assert.Equal(t, "2025-03-17T23:59:59.999999999Z", resp.PeriodEnd)
}

func TestCalculatePayroll_DefaultsToCurrentPeriod(t *testing.T) {
	router := newTestServer(t)

	punchAt(t, router, "vacation", "2025-03-18T00:00:00Z")
	punchAt(t, router, "sick", "2025-03-10T00:00:00Z") // previous period

	rec := do(t, router, http.MethodGet, "/api/payroll/calculate", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[PayrollDTO](t, rec)
	assert.Equal(t, 8.0, resp.VacationHours)
	assert.Equal(t, 0.0, resp.SickHours)
	assert.Equal(t, 120.0, resp.GrossPay)
	assert.Equal(t, "2025-03-16T00:00:00Z", resp.PeriodStart)
}

func TestCalculatePayroll_LoneStartDateUsesCurrentPeriod(t *testing.T) {
	router := newTestServer(t)

	// GIVEN: a shift in the previous period
	punchAt(t, router, "in", "2025-03-03T09:00:00Z")
	punchAt(t, router, "out", "2025-03-03T17:00:00Z")

	rec := do(t, router, http.MethodGet, "/api/payroll/calculate?start_date=2025-03-01", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[PayrollDTO](t, rec)
	assert.Equal(t, "2025-03-16T00:00:00Z", resp.PeriodStart)
	assert.Equal(t, 0.0, resp.RegularHours)
}

func TestRate_UpdateRoundsToCents(t *testing.T) {
	router := newTestServer(t)

	rec := do(t, router, http.MethodPut, "/api/settings/rate", `{"hourly_rate":15.125}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"new_rate":15.13}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/settings/rate", "")
	assert.JSONEq(t, `{"hourly_rate":15.13}`, rec.Body.String())
}

func TestCalculatePayroll_BadParams(t *testing.T) {
	router := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"unparseable start", "start_date=soon"},
		{"unparseable end", "end_date=2025-13-40"},
		{"start after end", "start_date=2025-03-20&end_date=2025-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, "/api/payroll/calculate?"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestPayrollBreakdown(t *testing.T) {
	router := newTestServer(t)

	// GIVEN: Saturday and Sunday work
	punchAt(t, router, "in", "2025-03-22T09:00:00Z")
	punchAt(t, router, "out", "2025-03-22T13:00:00Z")
	punchAt(t, router, "in", "2025-03-23T10:00:00Z")
	punchAt(t, router, "out", "2025-03-23T12:00:00Z")

	rec := do(t, router, http.MethodGet, "/api/payroll/breakdown?start_date=2025-03-22&end_date=2025-03-23", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[BreakdownResponse](t, rec)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-03-22", resp.Days[0].Date)
	assert.Equal(t, 4.0, resp.Days[0].Weekend)
	assert.Equal(t, "2025-03-23", resp.Days[1].Date)
	assert.Equal(t, 2.0, resp.Days[1].Holiday)
}

// =============================================================================
// RATE AND CALENDAR
// =============================================================================

func TestRate_GetAndUpdate(t *testing.T) {
	router := newTestServer(t)

	rec := do(t, router, http.MethodGet, "/api/settings/rate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hourly_rate":15}`, rec.Body.String())

	rec = do(t, router, http.MethodPut, "/api/settings/rate", `{"hourly_rate":22.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"new_rate":22.5}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/settings/rate", "")
	assert.JSONEq(t, `{"hourly_rate":22.5}`, rec.Body.String())
}

func TestRate_RejectsNonPositive(t *testing.T) {
	router := newTestServer(t)

	for _, body := range []string{`{"hourly_rate":0}`, `{"hourly_rate":-3}`, `{}`} {
		rec := do(t, router, http.MethodPut, "/api/settings/rate", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := do(t, router, http.MethodGet, "/api/settings/rate", "")
	assert.JSONEq(t, `{"hourly_rate":15}`, rec.Body.String())
}

func TestCalendar_GroupsByDate(t *testing.T) {
	router := newTestServer(t)

	punchAt(t, router, "in", "2025-03-17T07:00:00Z")
	punchAt(t, router, "out", "2025-03-17T17:30:00Z")
	punchAt(t, router, "sick", "2025-03-18T00:00:00Z")
	punchAt(t, router, "in", "2025-04-01T08:00:00Z") // next month

	for _, path := range []string{"/api/calendar?year=2025&month=3", "/api/calendar"} {
		rec := do(t, router, http.MethodGet, path, "")

		require.Equal(t, http.StatusOK, rec.Code, path)
		resp := decode[CalendarResponse](t, rec)
		assert.Equal(t, 2025, resp.Year)
		assert.Equal(t, 3, resp.Month)
		require.Len(t, resp.Entries, 2, path)
		require.Len(t, resp.Entries["2025-03-17"], 2)
		assert.Equal(t, "07:00", resp.Entries["2025-03-17"][0].Time)
		assert.Equal(t, "in", resp.Entries["2025-03-17"][0].Type)
		assert.Equal(t, "17:30", resp.Entries["2025-03-17"][1].Time)
		assert.Equal(t, "sick", resp.Entries["2025-03-18"][0].Type)
	}
}

func TestCalendar_BadMonth(t *testing.T) {
	router := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/calendar?year=2025&month=13", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/calendar?year=x&month=3", "").Code)
}

// =============================================================================
// DIRECTORY
// =============================================================================

func TestEmployees_Lifecycle(t *testing.T) {
	router := newTestServer(t)

	// GIVEN: a role and a site
	rec := do(t, router, http.MethodPost, "/api/roles", `{"name":"Macon"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	roleID := decode[MessageResponse](t, rec).ID

	rec = do(t, router, http.MethodPost, "/api/construction-sites", `{"name":"Site A","address":"Libreville"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	siteID := decode[MessageResponse](t, rec).ID

	// WHEN: creating an employee
	body, _ := json.Marshal(EmployeeRequest{
		Name: "Jean", LastName: "Mba", RoleID: roleID, ConstructionSiteID: siteID, HourlyRate: 18.5,
	})
	rec = do(t, router, http.MethodPost, "/api/employees", string(body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	empID := decode[MessageResponse](t, rec).ID

	// THEN: listed with joined names
	rec = do(t, router, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]EmployeeDTO](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, empID, list[0].ID)
	assert.Equal(t, "Macon", list[0].Role)
	assert.Equal(t, "Site A", list[0].ConstructionSite)
	assert.Equal(t, 18.5, list[0].HourlyRate)
	assert.Equal(t, "active", list[0].Status)
	assert.Nil(t, list[0].FireDate)

	// WHEN: fired then rehired
	path := "/api/employees/" + strconv.FormatInt(empID, 10)
	rec = do(t, router, http.MethodPut, path+"/fire", `{"fire_date":"2025-03-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	list = decode[[]EmployeeDTO](t, do(t, router, http.MethodGet, "/api/employees", ""))
	assert.Equal(t, "inactive", list[0].Status)
	require.NotNil(t, list[0].FireDate)
	assert.Equal(t, "2025-03-01", *list[0].FireDate)

	rec = do(t, router, http.MethodPut, path+"/hire", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list = decode[[]EmployeeDTO](t, do(t, router, http.MethodGet, "/api/employees", ""))
	assert.Equal(t, "active", list[0].Status)
	assert.Nil(t, list[0].FireDate)

	// WHEN: deleted
	rec = do(t, router, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode[[]EmployeeDTO](t, do(t, router, http.MethodGet, "/api/employees", ""))
	assert.Empty(t, list)
}

func TestDirectory_ErrorStatuses(t *testing.T) {
	router := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing employee", http.MethodDelete, "/api/employees/999", "", http.StatusNotFound},
		{"missing site", http.MethodPut, "/api/construction-sites/999", `{"name":"x","address":"y"}`, http.StatusNotFound},
		{"missing role", http.MethodDelete, "/api/roles/999", "", http.StatusNotFound},
		{"non-numeric id", http.MethodDelete, "/api/roles/abc", "", http.StatusBadRequest},
		{"missing name", http.MethodPost, "/api/roles", `{"name":""}`, http.StatusBadRequest},
		{"bad fire date", http.MethodPut, "/api/employees/1/fire", `{"fire_date":"01/03/2025"}`, http.StatusBadRequest},
		{"employee without rate", http.MethodPost, "/api/employees",
			`{"name":"A","last_name":"B","role_id":1,"construction_site_id":1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestSitesAndRoles_UpdateAndList(t *testing.T) {
	router := newTestServer(t)

	id := decode[MessageResponse](t, do(t, router, http.MethodPost, "/api/construction-sites",
		`{"name":"Old","address":"Somewhere"}`)).ID
	rec := do(t, router, http.MethodPut, "/api/construction-sites/"+strconv.FormatInt(id, 10), `{"name":"New","address":"Elsewhere"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sites := decode[[]SiteDTO](t, do(t, router, http.MethodGet, "/api/construction-sites", ""))
	require.Len(t, sites, 1)
	assert.Equal(t, "New", sites[0].Name)
	assert.Equal(t, "Elsewhere", sites[0].Address)

	do(t, router, http.MethodPost, "/api/roles", `{"name":"Peintre"}`)
	do(t, router, http.MethodPost, "/api/roles", `{"name":"Chauffeur"}`)
	roles := decode[[]RoleDTO](t, do(t, router, http.MethodGet, "/api/roles", ""))
	require.Len(t, roles, 2)
	assert.Equal(t, "Chauffeur", roles[0].Name)
}

// =============================================================================
// HEALTH AND ERROR MAPPING
// =============================================================================

func TestHealth(t *testing.T) {
	router := newTestServer(t)

	rec := do(t, router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&BindError{Message: "x"}))
	assert.Equal(t, http.StatusBadRequest, statusFor(payroll.ErrInvalidRate))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(&payroll.DataUnavailableError{Op: "list entries", Err: assert.AnError}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
