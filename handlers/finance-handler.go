package handlers

import (
	"encoding/json"
	"net/http"

	"agency-crm/backend/services"

	"github.com/gorilla/mux"
)

type FinanceHandler struct {
	Service *services.FinanceService
}

func NewFinanceHandler(service *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{Service: service}
}

// RecordInstallmentHandler appends a client installment to the project ledger.
func (h *FinanceHandler) RecordInstallmentHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "accountant"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	actorID, err := actorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	projectID, err := pathObjectID(mux.Vars(r), "projectId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var input services.InstallmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.Service.RecordClientInstallment(r.Context(), projectID, input, actorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// RecordEmployeePaymentHandler appends a payout to a rostered employee.
func (h *FinanceHandler) RecordEmployeePaymentHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "accountant"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	actorID, err := actorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	projectID, err := pathObjectID(mux.Vars(r), "projectId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var input services.EmployeePaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.Service.RecordEmployeePayment(r.Context(), projectID, input, actorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// RecordExpenseHandler appends a project cost.
func (h *FinanceHandler) RecordExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "accountant"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	actorID, err := actorFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	projectID, err := pathObjectID(mux.Vars(r), "projectId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var input services.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.Service.RecordExpense(r.Context(), projectID, input, actorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}
