package handlers

import (
	"encoding/json"
	"net/http"

	"agency-crm/backend/services"

	"github.com/gorilla/mux"
)

// CatalogHandler serves one reference collection (departments, positions,
// skills, service offerings) through a shared route shape.
type CatalogHandler struct {
	Service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: service}
}

type catalogInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CatalogHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "admin"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	var input catalogInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	item, err := h.Service.Create(r.Context(), input.Name, input.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathObjectID(mux.Vars(r), "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) SoftDeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "admin"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	id, err := pathObjectID(mux.Vars(r), "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.SoftDelete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) RestoreHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "admin"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	id, err := pathObjectID(mux.Vars(r), "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.Restore(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
