package sandbox

import (
	"encoding/json"
	"errors"
	"net/http"

	trerr "github.com/amterp/trellis/internal/errors"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var notFound *trerr.NotFoundError
	var validation *trerr.ValidationError
	var permission *trerr.PermissionError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &permission):
		status = http.StatusUnauthorized
	}

	JSON(w, status, map[string]string{"error": message})
}

// Unauthorized writes the service's response to bad credentials.
func Unauthorized(w http.ResponseWriter) {
	JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid key or token"})
}
