package core

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the envelope used for all JSON payloads.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// JSON writes data wrapped in the standard envelope with the given status.
func JSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(JSONResponse{Data: data})
}

// JSONWithMeta writes data plus response metadata (pagination, counts).
func JSONWithMeta(w http.ResponseWriter, status int, data any, meta map[string]any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(JSONResponse{Data: data, Meta: meta})
}

// Error renders err as a JSON error response. HTTPError values map to their
// own status code and key; anything else becomes a 500 with a generic code so
// internal details never leak to clients.
func Error(w http.ResponseWriter, err error) error {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{
		Code:    ErrInternalServerError.Key,
		Message: http.StatusText(http.StatusInternalServerError),
	}

	if httpErr, ok := err.(HTTPError); ok {
		status = httpErr.Code
		detail.Code = httpErr.Key
		detail.Message = http.StatusText(httpErr.Code)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(JSONResponse{Error: detail})
}
