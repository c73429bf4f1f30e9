// Package service holds the portal's use cases. Handlers call these; the
// services call collaborators only through the port interfaces.
package service

import (
	"errors"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

var (
	// ErrInvalidRequest is returned when a required field is missing or malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidAction is returned for an action outside the six accepted ones
	ErrInvalidAction = errors.New("invalid action")

	// ErrApplicationNotFound is returned when the system of record has no such application
	ErrApplicationNotFound = errors.New("application not found")

	// ErrTokenInvalid is returned when an identity token is expired or fails verification
	ErrTokenInvalid = errors.New("identity token invalid")

	// ErrEmployeeNotFound is returned when the signed-in address is not in the employee directory
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrLoginForbidden is returned when the employee matches no allow-list entry
	ErrLoginForbidden = errors.New("login not allowed")
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
