package presence

import "errors"

var (
	// ErrStudentNotFound rejects a report before classification.
	ErrStudentNotFound = errors.New("student not found")
)
