package launcher

import "fmt"

// ExitError carries the exit code for a failed launch together with the
// text to show the user. Message may span several lines or be empty.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

func fail(format string, args ...any) *ExitError {
	return &ExitError{Code: 1, Message: fmt.Sprintf(format, args...)}
}
