package host

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates the device did not answer within the read
	// timeout.
	ErrTimeout = errors.New("read timeout")
	// ErrUnexpectedResponse indicates the response line did not echo
	// the command code it answers.
	ErrUnexpectedResponse = errors.New("unexpected response")
	// ErrBadPeriods indicates clock periods that the client refused to
	// transmit.
	ErrBadPeriods = errors.New("bad clock periods")
)

// CommandError wraps an error response reported by the device.
type CommandError struct {
	Request  string
	Response string
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("device error: %s", e.Response)
}
