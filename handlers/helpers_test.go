package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"agency-crm/backend/services"

	"github.com/stretchr/testify/assert"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &services.ServiceError{Kind: services.ErrValidation, Message: "amount is required"}, http.StatusBadRequest},
		{"not found", &services.ServiceError{Kind: services.ErrNotFound, Message: "project missing"}, http.StatusNotFound},
		{"invalid reference", &services.ServiceError{Kind: services.ErrInvalidReference, Message: "employee not assigned"}, http.StatusUnprocessableEntity},
		{"allocation failed", &services.ServiceError{Kind: services.ErrAllocationFailed, Message: "counter busy"}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			writeServiceError(recorder, tc.err)
			assert.Equal(t, tc.status, recorder.Code)
		})
	}
}

func TestWriteServiceError_HidesInternalDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	writeServiceError(recorder, errors.New("connection string mongodb://secret"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "mongodb://")
}

func TestCheckRole(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/projects", nil)
	assert.Error(t, checkRole(r, []string{"manager"}))

	r.Header.Set("Role", "member")
	assert.Error(t, checkRole(r, []string{"manager", "accountant"}))

	r.Header.Set("Role", "accountant")
	assert.NoError(t, checkRole(r, []string{"manager", "accountant"}))
}
