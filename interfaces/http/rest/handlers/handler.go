// Package handlers translates HTTP requests into commands and queries.
package handlers

import (
	"encoding/json"
	"net/http"

	"breathe-backend/pkg/auth"
	"breathe-backend/pkg/errors"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errors.NewValidationError("Invalid request body")
	}
	return nil
}

// currentUser returns the user set by the auth middleware
func currentUser(r *http.Request) (*auth.UserContext, error) {
	u, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return nil, errors.NewUnauthorizedError("Unauthorized")
	}
	return u, nil
}
