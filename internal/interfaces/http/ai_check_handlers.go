package http

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/settlement-portal/internal/application/service"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// AICheckBatchRequest is the body of POST /api/ai-check/batch.
type AICheckBatchRequest struct {
	TargetMonth string `json:"targetMonth"`
	PageSize    int    `json:"pageSize"`
	Force       bool   `json:"force"`
}

// AICheck handles POST /api/ai-check. The sheet sends tool and amount as
// either strings or numbers, so the body is read loosely.
func (h *Handlers) AICheck(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	amount, present := amountField(raw, "amount")
	if !present {
		h.respondError(c, "AI check", fmt.Errorf("%w: amount is required", service.ErrInvalidRequest),
			http.StatusInternalServerError, msgUpstreamMisconfigured)
		return
	}
	in := service.ReceiptCheckInput{
		ApplicationID: stringField(raw, "applicationId"),
		ReceiptURL:    stringField(raw, "receiptUrl"),
		Tool:          stringField(raw, "tool"),
		Amount:        amount,
		TargetMonth:   stringField(raw, "targetMonth"),
		Purpose:       stringField(raw, "purpose"),
	}

	result, err := h.services.ReceiptChecks.Check(c.Request.Context(), sessionID(c), in)
	if err != nil {
		h.respondError(c, "AI check", err, http.StatusInternalServerError, msgUpstreamMisconfigured)
		return
	}

	ok(c, http.StatusOK, result)
}

// AICheckBatch handles POST /api/ai-check/batch
func (h *Handlers) AICheckBatch(c *gin.Context) {
	var req AICheckBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.services.Batch.Run(c.Request.Context(), sessionID(c), service.BatchCheckInput{
		TargetMonth: req.TargetMonth,
		PageSize:    req.PageSize,
		Force:       req.Force,
	})
	if err != nil {
		h.respondError(c, "AI batch check", err, http.StatusInternalServerError, msgUpstreamMisconfigured)
		return
	}

	ok(c, http.StatusOK, result)
}

func stringField(body map[string]interface{}, key string) string {
	switch v := body[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// amountField reads a yen amount such as 5250, "5250" or "¥5,250". It
// reports false when the field is absent, blank or not a number.
func amountField(body map[string]interface{}, key string) (int64, bool) {
	switch v := body[key].(type) {
	case float64:
		return int64(math.Round(v)), true
	case string:
		return entity.ParseYen(v)
	}
	return 0, false
}
