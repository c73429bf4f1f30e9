package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/settlement-portal/internal/application/aicheck"
	"github.com/garyjia/settlement-portal/internal/application/receipt"
)

// GetReceipt handles GET /api/receipts/:fileId
func (h *Handlers) GetReceipt(c *gin.Context) {
	fileID := c.Param("fileId")

	r, err := h.services.ReceiptChecks.FetchReceipt(c.Request.Context(), fileID)
	if errors.Is(err, receipt.ErrInvalidReference) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.respondError(c, "Fetch receipt", err, http.StatusBadGateway, msgUpstreamMisconfigured)
		return
	}
	if len(r.Data) == 0 {
		fail(c, http.StatusBadGateway, "Empty image data")
		return
	}

	mimeType := aicheck.NormalizeMimeType(r.MimeType)
	c.Header("Cache-Control", "private, max-age=3600")
	if mimeType == aicheck.MimeTypePDF {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileID+".pdf"))
	}
	c.Data(http.StatusOK, mimeType, r.Data)
}
