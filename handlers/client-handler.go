package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"agency-crm/backend/services"

	"github.com/gorilla/mux"
)

type ClientHandler struct {
	Service *services.ClientService
}

func NewClientHandler(service *services.ClientService) *ClientHandler {
	return &ClientHandler{Service: service}
}

func (h *ClientHandler) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "admin"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	var input services.CreateClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	client, err := h.Service.CreateClient(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) GetClientHandler(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathObjectID(mux.Vars(r), "clientId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	client, err := h.Service.GetClientByID(r.Context(), clientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) ListClientsHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	clients, err := h.Service.ListClients(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) SoftDeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "admin"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	clientID, err := pathObjectID(mux.Vars(r), "clientId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.SoftDeleteClient(r.Context(), clientID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) RestoreClientHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "admin"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	clientID, err := pathObjectID(mux.Vars(r), "clientId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.RestoreClient(r.Context(), clientID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
