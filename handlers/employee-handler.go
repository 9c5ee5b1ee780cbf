package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"agency-crm/backend/services"

	"github.com/gorilla/mux"
)

type EmployeeHandler struct {
	Service *services.EmployeeService
}

func NewEmployeeHandler(service *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{Service: service}
}

func (h *EmployeeHandler) CreateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "admin"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	var input services.CreateEmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	employee, err := h.Service.CreateEmployee(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, employee)
}

func (h *EmployeeHandler) GetEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathObjectID(mux.Vars(r), "employeeId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	employee, err := h.Service.GetEmployeeByID(r.Context(), employeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) ListEmployeesHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	employees, err := h.Service.ListEmployees(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) SoftDeleteEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "admin"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	employeeID, err := pathObjectID(mux.Vars(r), "employeeId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.SoftDeleteEmployee(r.Context(), employeeID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EmployeeHandler) RestoreEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "admin"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	employeeID, err := pathObjectID(mux.Vars(r), "employeeId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.RestoreEmployee(r.Context(), employeeID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
