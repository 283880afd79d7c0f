package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firstloop/nomendex"
	"github.com/firstloop/nomendex/internal/workers"
)

// noteCacheMaxAge is how long the list of note files is trusted before rescanning.
const noteCacheMaxAge = 5 * time.Minute

// Server holds the sidecar state and configuration
type Server struct {
	dataDir          string
	notes            *nomendex.NoteRepository
	todos            *nomendex.TodoStore
	backgroundWorker *workers.BackgroundWorker
	httpServer       *http.Server
}

// ServerOption for configuring the server with functional options pattern
type ServerOption func(*Server) error

// NewServer initializes the server with the given data directory
func NewServer(ctx context.Context, dataDir string, opts ...ServerOption) (*Server, error) {
	rootManager, err := nomendex.NewRootManager(dataDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		dataDir:          dataDir,
		notes:            nomendex.NewNoteRepository(rootManager, nomendex.DefaultDataConfig),
		todos:            nomendex.NewTodoStore(rootManager, nomendex.DefaultDataConfig),
		backgroundWorker: workers.NewBackgroundWorker(ctx),
	}

	if err := s.notes.Initialize(); err != nil {
		return nil, fmt.Errorf("could not initialize notes: %w", err)
	}

	if err := s.todos.Initialize(); err != nil {
		return nil, fmt.Errorf("could not initialize todos: %w", err)
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.setupBackgroundTasks()

	return s, nil
}

// WithEncryptionManager sets the encryption manager used to read encrypted notes
func WithEncryptionManager(manager *nomendex.EncryptionManager) ServerOption {
	return func(s *Server) error {
		s.notes.SetEncryptionManager(manager)
		return nil
	}
}

func (s *Server) setupBackgroundTasks() {
	s.backgroundWorker.AddPeriodicTask("note-cache-refresh", noteCacheMaxAge, func(ctx context.Context) error {
		s.notes.ReloadIfStale(noteCacheMaxAge)
		return nil
	})
}

// Start starts the server and all background tasks, blocking until shutdown
func (s *Server) Start(addr string, port int) error {
	serverAddr := fmt.Sprintf("%s:%d", addr, port)

	s.httpServer = &http.Server{
		Addr:         serverAddr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
		Handler:      s.setupRoutes(),
	}

	s.backgroundWorker.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting %s on %s", appName, serverAddr)
		log.Printf("Data directory: %s", s.dataDir)
		serverErrors <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.backgroundWorker.Shutdown()
			return fmt.Errorf("could not start server: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating shutdown", sig)
	}

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server and background tasks
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during HTTP server shutdown: %v", err)
		}
	}

	s.backgroundWorker.Shutdown()

	log.Println("Server shutdown complete")
	return nil
}
