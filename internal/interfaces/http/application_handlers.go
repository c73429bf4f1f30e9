package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/settlement-portal/internal/application/service"
)

// ListApplications handles GET /api/applications
func (h *Handlers) ListApplications(c *gin.Context) {
	apps, month, err := h.services.Applications.List(c.Request.Context(), sessionID(c), c.Query("month"))
	if err != nil {
		h.respondError(c, "List applications", err, http.StatusBadGateway, msgUpstreamMisconfigured)
		return
	}

	c.JSON(http.StatusOK, ApplicationsResponse{
		Success:     true,
		TargetMonth: month,
		Data:        apps,
	})
}

// ExportApplications handles GET /api/applications/export
func (h *Handlers) ExportApplications(c *gin.Context) {
	var buf bytes.Buffer
	file, err := h.services.Applications.Export(c.Request.Context(), &buf, sessionID(c), c.Query("month"), c.Query("format"))
	if err != nil {
		h.respondError(c, "Export applications", err, http.StatusBadGateway, msgUpstreamMisconfigured)
		return
	}

	h.logger.Info("Applications exported", "file", file.Filename, "count", file.Count)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("X-Export-Count", strconv.Itoa(file.Count))
	c.Data(http.StatusOK, file.ContentType, buf.Bytes())
}

// SubmitCheckRequest is the body of POST /api/check.
type SubmitCheckRequest struct {
	ApplicationID    string `json:"applicationId"`
	Action           string `json:"action"`
	Checker          string `json:"checker"`
	Comment          string `json:"comment"`
	TargetMonth      string `json:"targetMonth"`
	ReceiptReviewed  bool   `json:"receiptReviewed"`
	ContentConfirmed bool   `json:"contentConfirmed"`
}

// SubmitCheck handles POST /api/check
func (h *Handlers) SubmitCheck(c *gin.Context) {
	var req SubmitCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.services.Approval.Submit(c.Request.Context(), service.SubmitCheckInput{
		ApplicationID:    req.ApplicationID,
		Action:           req.Action,
		Checker:          req.Checker,
		Comment:          req.Comment,
		TargetMonth:      req.TargetMonth,
		ReceiptReviewed:  req.ReceiptReviewed,
		ContentConfirmed: req.ContentConfirmed,
	})
	if err != nil {
		h.respondError(c, "Submit check", err, http.StatusBadGateway, msgUpstreamMisconfigured)
		return
	}

	ok(c, http.StatusOK, result)
}
