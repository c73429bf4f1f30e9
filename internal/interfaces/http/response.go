package http

import (
	"github.com/gin-gonic/gin"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AuthErrorResponse is returned by the login endpoint.
type AuthErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

// ApplicationsResponse is the application list with the month it covers.
type ApplicationsResponse struct {
	Success     bool        `json:"success"`
	TargetMonth string      `json:"targetMonth"`
	Data        interface{} `json:"data"`
}

// MeResponse carries the signed-in user, or null.
type MeResponse struct {
	User *UserResponse `json:"user"`
}

// UserResponse is the session user in API responses.
type UserResponse struct {
	UID            string `json:"uid"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	TMGEmail       string `json:"tmg_email,omitempty"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	Department     string `json:"department,omitempty"`
	Role           string `json:"role,omitempty"`
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: msg})
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}
