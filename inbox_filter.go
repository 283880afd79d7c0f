package nomendex

import "strings"

// InboxFilter narrows the inbox list. Zero values disable each criterion.
type InboxFilter struct {
	Query    string
	Tags     []string
	Priority Priority
}

// InboxTodos returns the todos that belong in the inbox: not archived and in the inbox project.
func InboxTodos(todos []Todo) []Todo {
	var inbox []Todo
	for _, todo := range todos {
		if !todo.Archived && todo.IsInbox() {
			inbox = append(inbox, todo)
		}
	}
	return inbox
}

// Match reports whether a single todo passes the filter.
// The query matches if it is a subsequence of the title or of the description.
func (f InboxFilter) Match(todo Todo) bool {
	if strings.TrimSpace(f.Query) != "" {
		if !IsSubsequence(f.Query, todo.Title) &&
			(todo.Description == "" || !IsSubsequence(f.Query, todo.Description)) {
			return false
		}
	}

	if len(f.Tags) > 0 && !todo.HasAnyTag(f.Tags) {
		return false
	}

	if f.Priority != "" && todo.Priority.OrNone() != f.Priority {
		return false
	}

	return true
}

// Apply returns the todos that pass the filter, keeping their order.
func (f InboxFilter) Apply(todos []Todo) []Todo {
	filtered := make([]Todo, 0, len(todos))
	for _, todo := range todos {
		if f.Match(todo) {
			filtered = append(filtered, todo)
		}
	}
	return filtered
}
