package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/scribe/internal/models"
)

var validate = validator.New()

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteErrorEnvelope(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes the normalized success envelope.
func WriteSuccess(w http.ResponseWriter, message string, data any) error {
	return WriteJSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteErrorEnvelope writes the normalized error envelope. The message field
// always carries the generic "Error"; the underlying text goes in error.
func WriteErrorEnvelope(w http.ResponseWriter, statusCode int, errorText string) error {
	return WriteJSON(w, statusCode, models.APIResponse{
		Success: false,
		Message: "Error",
		Error:   errorText,
	})
}

// WriteServiceError maps a service failure onto the envelope. All upstream
// and configuration failures surface as HTTP 500 with the wrapped message;
// there is no structured error code distinguishing the causes.
func WriteServiceError(w http.ResponseWriter, err error) error {
	return WriteErrorEnvelope(w, http.StatusInternalServerError, err.Error())
}

// DecodeAndValidate decodes a JSON request body into dst and runs struct
// validation. On failure it writes a 400 envelope and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteErrorEnvelope(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			WriteErrorEnvelope(w, http.StatusBadRequest,
				fmt.Sprintf("missing or invalid fields: %s", strings.Join(fields, ", ")))
		} else {
			WriteErrorEnvelope(w, http.StatusBadRequest, err.Error())
		}
		return false
	}

	return true
}

// PathParam extracts the path segment following prefix, trimming any further
// suffix segments. Example: PathParam("/api/jira/issue/PROJ-1/comment",
// "/api/jira/issue/") -> "PROJ-1".
func PathParam(path, prefix string) string {
	param := strings.TrimPrefix(path, prefix)
	if idx := strings.Index(param, "/"); idx >= 0 {
		param = param[:idx]
	}
	return param
}
