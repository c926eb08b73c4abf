package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/payroll-engine/logger"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Directory.ListEmployees(r.Context())
	if err != nil {
		respondError(w, r, "Error retrieving employees", err)
		return
	}

	resp := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		resp[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[EmployeeRequest](r)
	if err != nil {
		respondError(w, r, "Invalid request", err)
		return
	}

	id, err := h.Directory.CreateEmployee(r.Context(), req.input())
	if err != nil {
		respondError(w, r, "Error creating employee", err)
		return
	}

	logger.C(r.Context()).Info().Int64("employee_id", id).Msg("employee created")
	writeJSON(w, http.StatusCreated, MessageResponse{Success: true, Message: "Employee created successfully", ID: id})
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, "Invalid employee ID", err)
		return
	}
	req, err := parseJSON[EmployeeRequest](r)
	if err != nil {
		respondError(w, r, "Invalid request", err)
		return
	}

	if err := h.Directory.UpdateEmployee(r.Context(), id, req.input()); err != nil {
		respondError(w, r, "Error updating employee", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Employee updated successfully"})
}

// DeleteEmployee removes the employee and, by cascade, their time entries.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, "Invalid employee ID", err)
		return
	}

	if err := h.Directory.DeleteEmployee(r.Context(), id); err != nil {
		respondError(w, r, "Error deleting employee", err)
		return
	}

	logger.C(r.Context()).Info().Int64("employee_id", id).Msg("employee deleted")
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Employee deleted successfully"})
}

func (h *Handler) FireEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, "Invalid employee ID", err)
		return
	}
	req, err := parseJSON[FireRequest](r)
	if err != nil {
		respondError(w, r, "Invalid request", err)
		return
	}
	// validated as YYYY-MM-DD by the datetime tag
	date, _ := time.Parse(time.DateOnly, req.FireDate)

	if err := h.Directory.FireEmployee(r.Context(), id, date); err != nil {
		respondError(w, r, "Error firing employee", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Employee fired successfully"})
}

func (h *Handler) HireEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, "Invalid employee ID", err)
		return
	}

	if err := h.Directory.HireEmployee(r.Context(), id); err != nil {
		respondError(w, r, "Error rehiring employee", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Employee rehired successfully"})
}

// =============================================================================
// CONSTRUCTION SITES
// =============================================================================

func (h *Handler) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.Directory.ListSites(r.Context())
	if err != nil {
		respondError(w, r, "Error retrieving construction sites", err)
		return
	}

	resp := make([]SiteDTO, len(sites))
	for i, s := range sites {
		resp[i] = toSiteDTO(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateSite(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[SiteRequest](r)
	if err != nil {
		respondError(w, r, "Invalid request", err)
		return
	}

	id, err := h.Directory.CreateSite(r.Context(), req.Name, req.Address)
	if err != nil {
		respondError(w, r, "Error creating construction site", err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Success: true, Message: "Construction site created successfully", ID: id})
}

func (h *Handler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, "Invalid construction site ID", err)
		return
	}
	req, err := parseJSON[SiteRequest](r)
	if err != nil {
		respondError(w, r, "Invalid request", err)
		return
	}

	if err := h.Directory.UpdateSite(r.Context(), id, req.Name, req.Address); err != nil {
		respondError(w, r, "Error updating construction site", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Construction site updated successfully"})
}

// DeleteSite unassigns the site from its employees before deleting it.
func (h *Handler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, "Invalid construction site ID", err)
		return
	}

	if err := h.Directory.DeleteSite(r.Context(), id); err != nil {
		respondError(w, r, "Error deleting construction site", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Construction site deleted successfully"})
}

// =============================================================================
// ROLES
// =============================================================================

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Directory.ListRoles(r.Context())
	if err != nil {
		respondError(w, r, "Error retrieving roles", err)
		return
	}

	resp := make([]RoleDTO, len(roles))
	for i, role := range roles {
		resp[i] = toRoleDTO(role)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[RoleRequest](r)
	if err != nil {
		respondError(w, r, "Invalid request", err)
		return
	}

	id, err := h.Directory.CreateRole(r.Context(), req.Name)
	if err != nil {
		respondError(w, r, "Error creating role", err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Success: true, Message: "Role created successfully", ID: id})
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, "Invalid role ID", err)
		return
	}
	req, err := parseJSON[RoleRequest](r)
	if err != nil {
		respondError(w, r, "Invalid request", err)
		return
	}

	if err := h.Directory.UpdateRole(r.Context(), id, req.Name); err != nil {
		respondError(w, r, "Error updating role", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Role updated successfully"})
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, "Invalid role ID", err)
		return
	}

	if err := h.Directory.DeleteRole(r.Context(), id); err != nil {
		respondError(w, r, "Error deleting role", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Role deleted successfully"})
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &BindError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}
