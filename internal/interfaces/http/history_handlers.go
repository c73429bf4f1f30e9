package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/settlement-portal/internal/application/service"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// HistoryListResponse is the body of GET /api/approval-history.
type HistoryListResponse struct {
	Success bool                          `json:"success"`
	Items   []*entity.ApprovalHistoryItem `json:"items"`
}

// HistoryItemResponse is the body of POST /api/approval-history.
type HistoryItemResponse struct {
	Success bool                        `json:"success"`
	Item    *entity.ApprovalHistoryItem `json:"item"`
}

// AppendHistoryRequest is the body of POST /api/approval-history.
type AppendHistoryRequest struct {
	ApplicationID string  `json:"applicationId"`
	Action        string  `json:"action"`
	Checker       string  `json:"checker"`
	Comment       *string `json:"comment"`
}

// ListHistory handles GET /api/approval-history
func (h *Handlers) ListHistory(c *gin.Context) {
	items, err := h.services.History.ListFor(c.Request.Context(), c.Query("applicationId"))
	if err != nil {
		h.respondError(c, "List history", err, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}
	c.JSON(http.StatusOK, HistoryListResponse{Success: true, Items: items})
}

// AppendHistory handles POST /api/approval-history
func (h *Handlers) AppendHistory(c *gin.Context) {
	var req AppendHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	item, err := h.services.History.Append(c.Request.Context(), service.AppendHistoryInput{
		ApplicationID: req.ApplicationID,
		Action:        req.Action,
		Checker:       req.Checker,
		Comment:       req.Comment,
	})
	if err != nil {
		h.respondError(c, "Append history", err, http.StatusInternalServerError, msgStoreUnavailable)
		return
	}
	c.JSON(http.StatusOK, HistoryItemResponse{Success: true, Item: item})
}
