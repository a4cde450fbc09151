package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error definitions
var (
	ErrTimeout      = errors.New("request timed out")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransport    = errors.New("transport failure")
	ErrStatus       = errors.New("unexpected status")
)

// ErrorKind classifies a failed call
type ErrorKind string

const (
	KindTransport    ErrorKind = "transport"
	KindTimeout      ErrorKind = "timeout"
	KindUnauthorized ErrorKind = "unauthorized"
	KindStatus       ErrorKind = "status"
)

// Error describes a failed call. Callers match it with errors.Is against the
// sentinels above or errors.As to read the server message.
type Error struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int
	Message    string // server-provided message, if any
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus, KindUnauthorized:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrStatus:
		return e.Kind == KindStatus
	}
	return false
}

// ServerMessage extracts the user-displayable message carried by err, if any
func ServerMessage(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return ""
}

// extractMessage reads {"error": "..."} or {"message": "..."} from a JSON body
func extractMessage(body []byte) string {
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Error.(string); ok && s != "" {
		return s
	}
	return payload.Message
}
