package api

import (
	"errors"
	"fmt"

	"github.com/johanthomias/HumDaddy-mobile/internal/common"
)

var (
	// ErrNetwork means no response reached the client (DNS, connect or
	// transport failure).
	ErrNetwork = errors.New("server unreachable")

	// ErrTimeout means the request deadline elapsed before a response
	// arrived.
	ErrTimeout = errors.New("request timed out")
)

// APIError is a non-success HTTP response. Message carries the
// server-supplied text when the body had one, otherwise a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// ErrorMessage extracts a human-readable message from any error produced by
// this layer, for transient UI indicators.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var valErr *common.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error()
	}
	switch {
	case errors.Is(err, ErrTimeout):
		return "The request timed out. Check your connection."
	case errors.Is(err, ErrNetwork):
		return "Unable to reach the server. Check your connection."
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
