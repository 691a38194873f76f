package api

import "fmt"

// Error is a server-rejected request: a non-2xx response with an optional
// message body. The message is surfaced verbatim, never interpreted; for
// rollback purposes callers treat it exactly like a transport failure.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}
