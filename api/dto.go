/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Decimal values from
  the engine are rendered as JSON numbers (float64); the engine itself never
  sees a float.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Response wrappers

VALIDATION:
  Request types carry `validate` tags checked by parseJSON (bind.go).

SEE ALSO:
  - handlers.go: Uses these types
  - bind.go: Decoding and validation
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/directory"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// PAYROLL
// =============================================================================

// PunchRequest records an entry. Timestamp defaults to now.
type PunchRequest struct {
	EntryType string  `json:"entry_type" validate:"required,oneof=in out sick vacation"`
	Timestamp *string `json:"timestamp,omitempty"`
}

type PunchResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	EntryID   int64  `json:"entry_id"`
	Timestamp string `json:"timestamp"`
}

type TodayHoursDTO struct {
	TotalHours  float64 `json:"total_hours"`
	IsClockedIn bool    `json:"is_clocked_in"`
	ClockInTime *string `json:"clock_in_time"`
	EntryCount  int     `json:"entry_count"`
}

type PayrollDTO struct {
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	WeekendHours  float64 `json:"weekend_hours"`
	HolidayHours  float64 `json:"holiday_hours"`
	SickHours     float64 `json:"sick_hours"`
	VacationHours float64 `json:"vacation_hours"`
	TotalHours    float64 `json:"total_hours"`
	GrossPay      float64 `json:"gross_pay"`
	HourlyRate    float64 `json:"hourly_rate"`
	PeriodStart   string  `json:"period_start"`
	PeriodEnd     string  `json:"period_end"`
}

// DayBreakdownDTO is one day of a period breakdown.
type DayBreakdownDTO struct {
	Date     string  `json:"date"`
	Kind     string  `json:"kind"`
	Regular  float64 `json:"regular_hours"`
	Overtime float64 `json:"overtime_hours"`
	Weekend  float64 `json:"weekend_hours"`
	Holiday  float64 `json:"holiday_hours"`
	Sick     float64 `json:"sick_hours"`
	Vacation float64 `json:"vacation_hours"`
}

type BreakdownResponse struct {
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	Days        []DayBreakdownDTO `json:"days"`
}

type RateUpdateRequest struct {
	HourlyRate float64 `json:"hourly_rate" validate:"gt=0"`
}

type RateDTO struct {
	HourlyRate float64 `json:"hourly_rate"`
}

type RateUpdateResponse struct {
	Success bool    `json:"success"`
	NewRate float64 `json:"new_rate"`
}

// CalendarEntryDTO is one entry in the calendar view.
type CalendarEntryDTO struct {
	ID   int64  `json:"id"`
	Time string `json:"time"`
	Type string `json:"type"`
}

type CalendarResponse struct {
	Year    int                           `json:"year"`
	Month   int                           `json:"month"`
	Entries map[string][]CalendarEntryDTO `json:"entries"`
}

// =============================================================================
// DIRECTORY
// =============================================================================

type EmployeeDTO struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	LastName           string  `json:"last_name"`
	RoleID             *int64  `json:"role_id"`
	Role               string  `json:"role"`
	ConstructionSiteID *int64  `json:"construction_site_id"`
	ConstructionSite   string  `json:"construction_site"`
	HourlyRate         float64 `json:"hourly_rate"`
	Status             string  `json:"status"`
	FireDate           *string `json:"fire_date"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

type EmployeeRequest struct {
	Name               string  `json:"name" validate:"required,max=100"`
	LastName           string  `json:"last_name" validate:"required,max=100"`
	RoleID             int64   `json:"role_id" validate:"gt=0"`
	HourlyRate         float64 `json:"hourly_rate" validate:"gt=0"`
	ConstructionSiteID int64   `json:"construction_site_id" validate:"gt=0"`
}

type FireRequest struct {
	FireDate string `json:"fire_date" validate:"required,datetime=2006-01-02"`
}

type SiteDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type SiteRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"required,max=500"`
}

type RoleDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type RoleRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// =============================================================================
// COMMON
// =============================================================================

// MessageResponse acknowledges a write. ID is set on creates.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is returned on errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// decimalFromFloat converts a JSON number at the API boundary.
func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toPayrollDTO(c *payroll.Calculation) PayrollDTO {
	return PayrollDTO{
		RegularHours:  toFloat(c.RegularHours),
		OvertimeHours: toFloat(c.OvertimeHours),
		WeekendHours:  toFloat(c.WeekendHours),
		HolidayHours:  toFloat(c.HolidayHours),
		SickHours:     toFloat(c.SickHours),
		VacationHours: toFloat(c.VacationHours),
		TotalHours:    toFloat(c.TotalHours),
		GrossPay:      toFloat(c.GrossPay.Round(2)),
		HourlyRate:    toFloat(c.HourlyRate),
		PeriodStart:   formatInstant(c.PeriodStart),
		PeriodEnd:     formatInstant(c.PeriodEnd),
	}
}

func toTodayDTO(s *payroll.TodayStatus) TodayHoursDTO {
	dto := TodayHoursDTO{
		TotalHours:  toFloat(s.TotalHours.Round(2)),
		IsClockedIn: s.IsClockedIn,
		EntryCount:  s.EntryCount,
	}
	if s.ClockInTime != "" {
		t := s.ClockInTime
		dto.ClockInTime = &t
	}
	return dto
}

func toBreakdownDTO(b payroll.DayBreakdown) DayBreakdownDTO {
	return DayBreakdownDTO{
		Date:     b.Day.String(),
		Kind:     string(b.Kind),
		Regular:  toFloat(b.Regular),
		Overtime: toFloat(b.Overtime),
		Weekend:  toFloat(b.Weekend),
		Holiday:  toFloat(b.Holiday),
		Sick:     toFloat(b.Sick),
		Vacation: toFloat(b.Vacation),
	}
}

func toEmployeeDTO(e directory.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:                 e.ID,
		Name:               e.Name,
		LastName:           e.LastName,
		RoleID:             e.RoleID,
		Role:               e.Role,
		ConstructionSiteID: e.SiteID,
		ConstructionSite:   e.Site,
		HourlyRate:         toFloat(e.HourlyRate),
		Status:             string(e.Status),
		CreatedAt:          formatInstant(e.CreatedAt),
		UpdatedAt:          formatInstant(e.UpdatedAt),
	}
	if e.FireDate != nil {
		d := e.FireDate.Format(time.DateOnly)
		dto.FireDate = &d
	}
	return dto
}

func (r EmployeeRequest) input() directory.EmployeeInput {
	return directory.EmployeeInput{
		Name:       r.Name,
		LastName:   r.LastName,
		RoleID:     r.RoleID,
		SiteID:     r.ConstructionSiteID,
		HourlyRate: decimalFromFloat(r.HourlyRate),
	}
}

func toSiteDTO(s directory.Site) SiteDTO {
	return SiteDTO{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		CreatedAt: formatInstant(s.CreatedAt),
		UpdatedAt: formatInstant(s.UpdatedAt),
	}
}

func toRoleDTO(r directory.Role) RoleDTO {
	return RoleDTO{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: formatInstant(r.CreatedAt),
		UpdatedAt: formatInstant(r.UpdatedAt),
	}
}
