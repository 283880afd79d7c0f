package nomendex

import "time"

// SetClock replaces the clock used to stamp todos.
func (ts *TodoStore) SetClock(now func() time.Time) {
	ts.now = now
}
