package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/firstloop/nomendex"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondWithJSON writes payload as JSON with the given status code.
func (s *Server) respondWithJSON(w http.ResponseWriter, payload any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// respondWithError writes err as a JSON error. Server errors are logged and their details hidden.
func (s *Server) respondWithError(w http.ResponseWriter, err error, code int) {
	message := err.Error()
	if code >= http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
		message = http.StatusText(code)
	}
	s.respondWithJSON(w, errorResponse{Error: message}, code)
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, nomendex.ErrTodoNotFound):
		return http.StatusNotFound
	case errors.Is(err, nomendex.ErrTodoTitleRequired), errors.Is(err, nomendex.ErrInvalidTodo):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleHealth reports that the sidecar is up.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondWithJSON(w, map[string]string{"status": "ok", "version": appVersion}, http.StatusOK)
}
