package oerror

import "fmt"

// Error is raised when an internal invariant of the world mirror is broken.
// It is never returned for bad input from the outside, only for programmer
// errors caught by the assert package.
type Error struct {
	msg string
}

// New formats a new Error.
func New(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return "cubic: " + e.msg
}
