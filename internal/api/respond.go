// ABOUTME: JSON response helpers and the error envelope for the blog API
// ABOUTME: Maps store/auth errors to status codes uniformly across handlers

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkpost/inkpost/internal/store"
)

// FieldError is one entry in the validation error envelope.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// errorEnvelope is the JSON body for every failure response.
type errorEnvelope struct {
	Errors []FieldError `json:"errors"`
}

// messageEnvelope is the JSON body for simple confirmations.
type messageEnvelope struct {
	Message string `json:"message"`
}

func fieldError(msg string) FieldError {
	return FieldError{Msg: msg}
}

func paramError(param, msg string) FieldError {
	return FieldError{Msg: msg, Param: param}
}

// sendJSON writes an arbitrary JSON payload.
func (s *Server) sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// sendMessage writes a confirmation message.
func (s *Server) sendMessage(w http.ResponseWriter, status int, msg string) {
	s.sendJSON(w, status, messageEnvelope{Message: msg})
}

// sendErrors writes the error envelope with the given field errors.
func (s *Server) sendErrors(w http.ResponseWriter, status int, errs ...FieldError) {
	s.sendJSON(w, status, errorEnvelope{Errors: errs})
}

// sendStoreError maps a store failure to a response: ErrNotFound becomes 404
// with the given message, anything else a generic 500 with the detail logged.
func (s *Server) sendStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		s.sendErrors(w, http.StatusNotFound, fieldError(notFoundMsg))
		return
	}
	s.sendInternalError(w, err)
}

// sendInternalError logs the underlying error and responds with a generic 500.
// The error detail never reaches the response body.
func (s *Server) sendInternalError(w http.ResponseWriter, err error) {
	s.logger.Error("internal error", "error", err)
	s.sendErrors(w, http.StatusInternalServerError, fieldError("Internal server error"))
}
