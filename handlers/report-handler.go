package handlers

import (
	"net/http"

	"agency-crm/backend/models"
	"agency-crm/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// ProjectSummaryHandler returns the derived financial summary of one project.
func (h *ReportHandler) ProjectSummaryHandler(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathObjectID(mux.Vars(r), "projectId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.Service.ProjectSummary(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// CompanyReportHandler returns company-wide totals over matched projects.
// Filters come from query parameters: status, clientId, includeInactive.
func (h *ReportHandler) CompanyReportHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "accountant"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	filters := services.CompanyReportFilters{
		Status:          models.ProjectStatus(r.URL.Query().Get("status")),
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
	}
	if clientID := r.URL.Query().Get("clientId"); clientID != "" {
		id, err := primitive.ObjectIDFromHex(clientID)
		if err != nil {
			http.Error(w, "invalid clientId format", http.StatusBadRequest)
			return
		}
		filters.ClientID = id
	}

	report, err := h.Service.CompanyReport(r.Context(), filters)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DashboardHandler returns the at-a-glance view over active projects.
func (h *ReportHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Service.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
