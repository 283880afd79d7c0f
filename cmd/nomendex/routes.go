package main

import (
	"net/http"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	// Notes
	mux.HandleFunc("GET /api/notes/search", s.handleSearchNotes)
	mux.HandleFunc("POST /api/notes/refresh", s.handleRefreshNotes)

	// Todos
	mux.HandleFunc("GET /api/todos/inbox", s.handleInbox)
	mux.HandleFunc("GET /api/todos/{id}", s.handleGetTodo)
	mux.HandleFunc("POST /api/todos", s.handleCreateTodo)
	mux.HandleFunc("POST /api/todos/{id}/archive", s.handleArchiveTodo(true))
	mux.HandleFunc("POST /api/todos/{id}/unarchive", s.handleArchiveTodo(false))

	return mux
}
