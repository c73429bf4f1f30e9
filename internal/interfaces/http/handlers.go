package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "settlement_session"

const sessionUserKey = "session_user"

// Version is reported by /health.
var Version = "1.0.0"

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	config   ServerConfig
	health   HealthFunc
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, config ServerConfig, health HealthFunc, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		config:   config,
		health:   health,
		logger:   logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}
	if h.health != nil {
		response.Components = h.health(c.Request.Context())
		for _, status := range response.Components {
			if status != "ok" && status != "disabled" {
				response.Status = "degraded"
			}
		}
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// RequireSession rejects requests without a valid session cookie or bearer token.
func (h *Handlers) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := h.sessionUser(c)
		if user == nil {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Set(sessionUserKey, user)
		c.Next()
	}
}

// sessionUser parses the request's session token; nil when absent or invalid.
func (h *Handlers) sessionUser(c *gin.Context) *entity.SessionUser {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		const prefix = "Bearer "
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, prefix) {
			return nil
		}
		token = strings.TrimSpace(header[len(prefix):])
	}
	if token == "" || h.services.Auth == nil {
		return nil
	}
	user, err := h.services.Auth.ParseSession(token)
	if err != nil {
		return nil
	}
	return user
}

// currentUser returns the user stored by RequireSession.
func currentUser(c *gin.Context) *entity.SessionUser {
	v, ok := c.Get(sessionUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*entity.SessionUser)
	return user
}

// sessionID keys per-session state such as the AI-check cache.
func sessionID(c *gin.Context) string {
	if user := currentUser(c); user != nil {
		return user.UID
	}
	return ""
}

func (h *Handlers) respondError(c *gin.Context, op string, err error, receiptStatus int, misconfigured string) {
	status := statusFor(err, receiptStatus)
	if status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", "status", status, "error", err)
	} else {
		h.logger.Info(op+" rejected", "status", status, "error", err.Error())
	}
	fail(c, status, messageFor(err, misconfigured))
}
