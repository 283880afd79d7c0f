package nomendex

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// InboxProject is the project todos land in when none is given.
const InboxProject = "Inbox"

// TodoStatus is the workflow state of a todo, matching the kanban board columns.
type TodoStatus string

const (
	StatusTodo       TodoStatus = "todo"
	StatusInProgress TodoStatus = "in_progress"
	StatusDone       TodoStatus = "done"
	StatusLater      TodoStatus = "later"
)

// Valid reports whether s is a known status.
func (s TodoStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusLater:
		return true
	}
	return false
}

// Priority of a todo. The empty priority is treated as PriorityNone.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// OrNone returns the priority, mapping the empty value to PriorityNone.
func (p Priority) OrNone() Priority {
	if p == "" {
		return PriorityNone
	}
	return p
}

// Valid reports whether p is a known priority. The empty priority is valid.
func (p Priority) Valid() bool {
	switch p.OrNone() {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	}
	return false
}

// Todo is a single task.
type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TodoStatus `json:"status"`
	Project     string     `json:"project,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	Archived    bool       `json:"archived,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsInbox reports whether the todo belongs to the inbox project.
func (t Todo) IsInbox() bool {
	return t.Project == "" || strings.EqualFold(t.Project, InboxProject)
}

// HasAnyTag reports whether the todo carries at least one of tags.
func (t Todo) HasAnyTag(tags []string) bool {
	for _, tag := range t.Tags {
		if slices.Contains(tags, tag) {
			return true
		}
	}
	return false
}

// NewTodo holds the fields accepted when creating a todo.
type NewTodo struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TodoStatus `json:"status"`
	Project     string     `json:"project"`
	Tags        []string   `json:"tags"`
	Priority    Priority   `json:"priority"`
	DueDate     string     `json:"dueDate"`
}

// Validate checks the input and fills in defaults.
func (n *NewTodo) Validate() error {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return ErrTodoTitleRequired
	}

	if n.Status == "" {
		n.Status = StatusTodo
	}
	if !n.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTodo, n.Status)
	}

	if !n.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTodo, n.Priority)
	}

	if strings.TrimSpace(n.Project) == "" {
		n.Project = InboxProject
	}

	if n.DueDate != "" {
		if _, err := time.Parse(time.DateOnly, n.DueDate); err != nil {
			if _, err := time.Parse(time.RFC3339, n.DueDate); err != nil {
				return fmt.Errorf("%w: due date %q is not a date", ErrInvalidTodo, n.DueDate)
			}
		}
	}

	return nil
}
