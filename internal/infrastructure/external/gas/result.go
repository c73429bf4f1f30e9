// Package gas talks to the Apps Script web apps that back the portal: the
// expense spreadsheet (system of record and file server) and the leave sheet.
package gas

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/garyjia/settlement-portal/internal/application/port"
)

// Result is the declared outcome of one Apps Script call: either a value or
// the failure message the script reported.
type Result[T any] struct {
	value   T
	message string
	ok      bool
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Err wraps a declared failure.
func Err[T any](message string) Result[T] {
	if message == "" {
		message = "Unknown error"
	}
	return Result[T]{message: message}
}

// IsOk reports whether the call succeeded.
func (r Result[T]) IsOk() bool { return r.ok }

// Message returns the failure message, or "" on success.
func (r Result[T]) Message() string { return r.message }

// Unwrap returns the value, or the failure as a port.ErrUpstream error.
func (r Result[T]) Unwrap() (T, error) {
	if !r.ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", port.ErrUpstream, r.message)
	}
	return r.value, nil
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// parseResult reads the {success, message, ...} envelope of body and, on
// success, hands the whole body to payload. A body that is not a JSON object
// means the URL points at a deployment serving HTML.
func parseResult[T any](body []byte, payload func([]byte) (T, error)) (Result[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Result[T]{}, fmt.Errorf("%w: empty response", port.ErrUpstream)
	}
	if trimmed[0] != '{' {
		return Result[T]{}, fmt.Errorf("%w: %s", port.ErrUpstreamMisconfigured, snippet(trimmed))
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Result[T]{}, fmt.Errorf("%w: failed to parse response: %v", port.ErrUpstream, err)
	}
	if !env.Success {
		return Err[T](env.Message), nil
	}

	value, err := payload(trimmed)
	if err != nil {
		return Result[T]{}, fmt.Errorf("%w: failed to parse response: %v", port.ErrUpstream, err)
	}
	return Ok(value), nil
}

func snippet(b []byte) string {
	const max = 300
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
