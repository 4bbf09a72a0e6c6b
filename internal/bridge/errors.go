package bridge

import (
	"errors"
	"fmt"

	"github.com/dalfonso89/rolimons-bridge/internal/httpclient"
)

// ErrRateNotFound is reported when the conversion response has no numeric
// value at rates.{to}. The text is what the front-end matches on.
var ErrRateNotFound = errors.New("No rate field in response")

// ErrorKind tags a command failure. All kinds reach the caller as one message.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindProtocol
	KindShape
	KindInvalidArguments
	KindUnknownCommand
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindShape:
		return "shape"
	case KindInvalidArguments:
		return "invalid_arguments"
	case KindUnknownCommand:
		return "unknown_command"
	default:
		return "unknown"
	}
}

// ShapeError is returned when a response body does not have the expected structure
type ShapeError struct {
	Err error
}

func (e *ShapeError) Error() string {
	return e.Err.Error()
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// ArgumentError is returned when command arguments cannot be decoded
type ArgumentError struct {
	Command string
	Err     error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid args for command %s: %v", e.Command, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// UnknownCommandError is returned when no command is registered under Name
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command %s not found", e.Name)
}

// Classify returns the kind of a command failure
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var (
		transportError *httpclient.TransportError
		statusError    *httpclient.StatusError
		shapeError     *ShapeError
		argumentError  *ArgumentError
		unknownCommand *UnknownCommandError
	)
	switch {
	case errors.As(err, &transportError):
		return KindTransport
	case errors.As(err, &statusError):
		return KindProtocol
	case errors.As(err, &shapeError):
		return KindShape
	case errors.As(err, &argumentError):
		return KindInvalidArguments
	case errors.As(err, &unknownCommand):
		return KindUnknownCommand
	default:
		return KindUnknown
	}
}

// StatusCode returns the upstream HTTP status of a protocol failure
func StatusCode(err error) (int, bool) {
	var statusError *httpclient.StatusError
	if errors.As(err, &statusError) {
		return statusError.StatusCode, true
	}
	return 0, false
}
