package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/firstloop/nomendex"
)

// handleInbox lists inbox todos filtered by the q, tag and priority parameters.
func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filter := nomendex.InboxFilter{
		Query:    params.Get("q"),
		Tags:     params["tag"],
		Priority: nomendex.Priority(params.Get("priority")),
	}

	if !filter.Priority.Valid() {
		s.respondWithError(w, fmt.Errorf("unknown priority %q", filter.Priority), http.StatusBadRequest)
		return
	}

	todos, err := s.todos.List()
	if err != nil {
		// A failed load shows as an empty inbox
		log.Printf("Error loading todos: %v", err)
		todos = nil
	}

	s.respondWithJSON(w, filter.Apply(nomendex.InboxTodos(todos)), http.StatusOK)
}

// handleGetTodo returns a single todo.
func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := s.todos.Get(r.PathValue("id"))
	if err != nil {
		s.respondWithError(w, err, statusForError(err))
		return
	}

	s.respondWithJSON(w, todo, http.StatusOK)
}

// handleCreateTodo creates a todo from a JSON body.
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var input nomendex.NewTodo
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&input); err != nil {
		s.respondWithError(w, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	todo, err := s.todos.Create(input)
	if err != nil {
		s.respondWithError(w, err, statusForError(err))
		return
	}

	s.respondWithJSON(w, todo, http.StatusCreated)
}

// handleArchiveTodo archives or restores a todo.
func (s *Server) handleArchiveTodo(archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		todo, err := s.todos.SetArchived(r.PathValue("id"), archived)
		if err != nil {
			s.respondWithError(w, err, statusForError(err))
			return
		}

		s.respondWithJSON(w, todo, http.StatusOK)
	}
}
