package utils

import (
	"encoding/json"
	"net/http"
)

// Error bodies are always {"Error": "<message>"} with one of a small
// fixed set of messages; clients match on them.
const (
	MsgInvalidBody  = "The request body is invalid"
	MsgUnauthorized = "Unauthorized"
	MsgForbidden    = "You don't have permission on this resource"
	MsgNotFound     = "Not found"
	MsgInternal     = "Internal server error"
)

// ErrorResponse represents the wire format of every error body
type ErrorResponse struct {
	Error string `json:"Error"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteBadRequest writes a 400 Bad Request with the invalid-body message
func WriteBadRequest(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: MsgInvalidBody})
}

// WriteUnauthorized writes a 401 Unauthorized response
func WriteUnauthorized(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: MsgUnauthorized})
}

// WriteForbidden writes a 403 Forbidden response
func WriteForbidden(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusForbidden, ErrorResponse{Error: MsgForbidden})
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: MsgNotFound})
}

// WriteNotFoundForbidden writes the missing-target-user response on the
// user detail endpoint: a "Not found" body carried on a 403 status.
// Long-standing client behavior depends on it, so it stays.
func WriteNotFoundForbidden(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusForbidden, ErrorResponse{Error: MsgNotFound})
}

// WriteInternalServerError writes a 500 Internal Server Error response
func WriteInternalServerError(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: MsgInternal})
}
