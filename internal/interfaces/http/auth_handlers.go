package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// CreateSessionRequest is the body of POST /api/auth/session.
type CreateSessionRequest struct {
	IDToken string `json:"idToken"`
}

// CreateSession handles POST /api/auth/session
func (h *Handlers) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AuthErrorResponse{Code: "INVALID_REQUEST", Message: "idToken is required"})
		return
	}

	session, err := h.services.Auth.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		status, body := authError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Login failed", "error", err)
		}
		c.JSON(status, body)
		return
	}

	h.setSessionCookie(c, session.Token, int(h.services.Auth.SessionTTL().Seconds()))
	c.JSON(http.StatusOK, Response{Success: true})
}

// Me handles GET /api/auth/me
func (h *Handlers) Me(c *gin.Context) {
	user := h.sessionUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, MeResponse{User: nil})
		return
	}
	c.JSON(http.StatusOK, MeResponse{User: toUserResponse(user)})
}

// Logout handles POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	if user := h.sessionUser(c); user != nil && h.services.ReceiptChecks != nil {
		h.services.ReceiptChecks.EndSession(user.UID)
	}
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, Response{Success: true})
}

func (h *Handlers) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", h.config.SecureCookies, true)
}

func toUserResponse(u *entity.SessionUser) *UserResponse {
	return &UserResponse{
		UID:            u.UID,
		Email:          u.Email,
		Name:           u.Name,
		TMGEmail:       u.CompanyEmail,
		EmployeeNumber: u.EmployeeNumber,
		Department:     u.Department,
		Role:           u.Role,
	}
}
