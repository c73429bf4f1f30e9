package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/settlement-portal/internal/application/aicheck"
	"github.com/garyjia/settlement-portal/internal/application/receipt"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// ReceiptCheckInput is one AI check request.
type ReceiptCheckInput struct {
	// ApplicationID keys the session cache; checks without it are not cached.
	ApplicationID string
	ReceiptURL    string
	Tool          string
	Amount        int64
	TargetMonth   string
	Purpose       string
}

// Claim returns the fields the receipt is checked against.
func (in ReceiptCheckInput) Claim() entity.Claim {
	return entity.Claim{
		Tool:        in.Tool,
		Amount:      in.Amount,
		TargetMonth: in.TargetMonth,
		Purpose:     in.Purpose,
	}
}

// ReceiptChecker produces a verdict for receipt bytes. It never fails.
type ReceiptChecker interface {
	Check(ctx context.Context, data []byte, mimeType string, claim entity.Claim) *entity.AICheckResult
}

// ReceiptFetcher downloads receipts.
type ReceiptFetcher interface {
	Fetch(ctx context.Context, url string) (*receipt.Receipt, error)
	FetchByID(ctx context.Context, fileID string) (*receipt.Receipt, error)
}

// ReceiptCheckService runs AI checks and keeps their results per session.
type ReceiptCheckService interface {
	Check(ctx context.Context, sessionID string, in ReceiptCheckInput) (*entity.AICheckResult, error)
	Cached(sessionID, applicationID string) (*entity.AICheckResult, bool)
	FetchReceipt(ctx context.Context, fileID string) (*receipt.Receipt, error)
	EndSession(sessionID string)
}

type receiptCheckServiceImpl struct {
	fetcher ReceiptFetcher
	checker ReceiptChecker
	caches  *aicheck.Registry
	logger  Logger
}

// NewReceiptCheckService creates a new ReceiptCheckService
func NewReceiptCheckService(fetcher ReceiptFetcher, checker ReceiptChecker, caches *aicheck.Registry, logger Logger) ReceiptCheckService {
	if logger == nil {
		logger = nopLogger{}
	}
	if caches == nil {
		caches = aicheck.NewRegistry()
	}
	return &receiptCheckServiceImpl{
		fetcher: fetcher,
		checker: checker,
		caches:  caches,
		logger:  logger,
	}
}

// Check fetches the receipt and runs the model. Fetch failures are returned
// as errors; model failures come back as an ERROR verdict. A verdict that
// arrives after ctx is done is dropped and not cached.
func (s *receiptCheckServiceImpl) Check(ctx context.Context, sessionID string, in ReceiptCheckInput) (*entity.AICheckResult, error) {
	in.ReceiptURL = strings.TrimSpace(in.ReceiptURL)
	if in.ReceiptURL == "" || strings.TrimSpace(in.Tool) == "" || strings.TrimSpace(in.TargetMonth) == "" {
		return nil, fmt.Errorf("%w: Missing required fields", ErrInvalidRequest)
	}

	r, err := s.fetcher.Fetch(ctx, in.ReceiptURL)
	if err != nil {
		s.logger.Error("Receipt fetch failed", "application_id", in.ApplicationID, "error", err)
		return nil, err
	}

	result := s.checker.Check(ctx, r.Data, r.MimeType, in.Claim())

	if err := ctx.Err(); err != nil {
		s.logger.Info("AI check discarded", "application_id", in.ApplicationID, "reason", err.Error())
		return nil, err
	}

	if in.ApplicationID != "" && sessionID != "" {
		s.caches.For(sessionID).Put(in.ApplicationID, result)
	}

	s.logger.Info("AI check completed",
		"application_id", in.ApplicationID,
		"risk_level", string(result.RiskLevel),
		"processing_time_ms", result.ProcessingTime)

	return result, nil
}

func (s *receiptCheckServiceImpl) Cached(sessionID, applicationID string) (*entity.AICheckResult, bool) {
	return s.caches.For(sessionID).Get(applicationID)
}

// FetchReceipt downloads a receipt by drive file id for display.
func (s *receiptCheckServiceImpl) FetchReceipt(ctx context.Context, fileID string) (*receipt.Receipt, error) {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return nil, fmt.Errorf("%w: fileId is required", ErrInvalidRequest)
	}
	return s.fetcher.FetchByID(ctx, fileID)
}

// EndSession drops the cache of sessionID.
func (s *receiptCheckServiceImpl) EndSession(sessionID string) {
	s.caches.Drop(sessionID)
}
