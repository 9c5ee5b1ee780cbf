package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"agency-crm/backend/services"
	"agency-crm/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidReference):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, services.ErrAllocationFailed):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func checkRole(r *http.Request, allowedRoles []string) error {
	userRole := r.Header.Get("Role")
	if userRole == "" {
		return fmt.Errorf("role is missing in request header")
	}
	for _, role := range allowedRoles {
		if role == userRole {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}

// actorFromRequest resolves the acting user's id from the bearer token.
func actorFromRequest(r *http.Request) (primitive.ObjectID, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return primitive.NilObjectID, fmt.Errorf("authorization token required")
	}
	userID, err := utils.ExtractUserIDFromToken(strings.TrimPrefix(tokenString, "Bearer "))
	if err != nil {
		return primitive.NilObjectID, err
	}
	actorID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user id in token")
	}
	return actorID, nil
}

func pathObjectID(vars map[string]string, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(vars[name])
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s format", name)
	}
	return id, nil
}
