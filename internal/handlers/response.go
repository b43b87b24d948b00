package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Varun5711/blogd/internal/models"
	"github.com/Varun5711/blogd/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}
	respondJSON(w, status, errResp)
}

func respondFormErrors(w http.ResponseWriter, status int, errs validation.FieldErrors) {
	respondJSON(w, status, models.FormErrorsResponse{Errors: errs})
}

// parseForm accepts urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}
