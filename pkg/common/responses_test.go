package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"breathe-backend/pkg/errors"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		data     interface{}
		wantBody string
	}{
		{name: "created", status: http.StatusCreated, data: map[string]int{"count": 2}, wantBody: `{"success":true,"data":{"count":2}}`},
		{name: "non 2xx is unsuccessful", status: http.StatusConflict, data: nil, wantBody: `{"success":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			RespondJSON(w, tt.status, tt.data)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRespondValidationErrors(t *testing.T) {
	w := httptest.NewRecorder()

	RespondValidationErrors(w, []errors.FieldError{{Field: "duration", Message: "duration must be at least 1"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Validation failed","errors":[{"field":"duration","message":"duration must be at least 1"}]}`, w.Body.String())
}
