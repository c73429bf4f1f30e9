package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/settlement-portal/internal/application/service"
)

// LeaveApprovalRequest is the body of POST /api/leave-approval.
type LeaveApprovalRequest struct {
	RowIndex *int        `json:"rowIndex"`
	Column   string      `json:"column"`
	Value    interface{} `json:"value"`
}

// UpdateLeaveApproval handles POST /api/leave-approval. The leave system's
// reply is relayed unchanged.
func (h *Handlers) UpdateLeaveApproval(c *gin.Context) {
	var req LeaveApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	reply, err := h.services.Leave.UpdateApproval(c.Request.Context(), service.LeaveApprovalInput{
		RowIndex: req.RowIndex,
		Column:   req.Column,
		Value:    req.Value,
	})
	if err != nil {
		h.respondError(c, "Leave approval", err, http.StatusBadGateway, msgLeaveMisconfigured)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", reply)
}

// ListPaidLeave handles GET /api/paid-leave-list
func (h *Handlers) ListPaidLeave(c *gin.Context) {
	reply, err := h.services.Leave.ListPaidLeave(c.Request.Context())
	if err != nil {
		h.respondError(c, "Paid leave list", err, http.StatusBadGateway, msgLeaveMisconfigured)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", reply)
}
