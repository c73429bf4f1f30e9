// Package aicheck cross-checks a receipt against the claimed expense using a
// vision-capable language model.
package aicheck

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// MimeTypePDF routes a receipt to the document model.
const MimeTypePDF = "application/pdf"

var supportedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	MimeTypePDF:  true,
}

// NormalizeMimeType maps unsupported types to image/jpeg so that the image
// model still gets a best-effort attempt.
func NormalizeMimeType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if supportedMimeTypes[mimeType] {
		return mimeType
	}
	return "image/jpeg"
}

// Checker runs one model call per receipt and always returns a verdict.
type Checker struct {
	imageModel  port.ReceiptModel
	pdfModel    port.ReceiptModel
	inspector   port.PDFInspector
	prompts     *Prompts
	maxPDFPages int
	logger      Logger
	now         func() time.Time
}

// Option customises a Checker.
type Option func(*Checker)

// WithPDFInspector checks PDFs locally before the model call. Documents with
// more than maxPages pages get a warning finding; maxPages <= 0 disables it.
func WithPDFInspector(inspector port.PDFInspector, maxPages int) Option {
	return func(c *Checker) {
		c.inspector = inspector
		c.maxPDFPages = maxPages
	}
}

// WithLogger sets the logger used for model failures.
func WithLogger(logger Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// NewChecker creates a Checker that sends images to imageModel and PDFs to pdfModel.
func NewChecker(imageModel, pdfModel port.ReceiptModel, prompts *Prompts, opts ...Option) *Checker {
	c := &Checker{
		imageModel: imageModel,
		pdfModel:   pdfModel,
		prompts:    prompts,
		logger:     nopLogger{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check compares the receipt against claim. Every failure is folded into an
// ERROR verdict; ProcessingTime is set on every path.
func (c *Checker) Check(ctx context.Context, data []byte, mimeType string, claim entity.Claim) *entity.AICheckResult {
	start := c.now()
	result := c.check(ctx, data, NormalizeMimeType(mimeType), claim)
	result.ProcessingTime = c.now().Sub(start).Milliseconds()
	return result
}

func (c *Checker) check(ctx context.Context, data []byte, mimeType string, claim entity.Claim) *entity.AICheckResult {
	model, kind := c.imageModel, "画像"
	if mimeType == MimeTypePDF {
		model, kind = c.pdfModel, "PDF"
	}

	if model == nil || !model.Configured() {
		credential := "API key"
		if model != nil {
			credential = model.CredentialName()
		}
		return entity.FallbackCheckResult(fmt.Sprintf("%s用のAPIキー（%s）が設定されていません。", kind, credential))
	}

	var pageWarning string
	if mimeType == MimeTypePDF && c.inspector != nil {
		pages, err := c.inspector.PageCount(data)
		if err != nil {
			return entity.FallbackCheckResult(fmt.Sprintf("PDFを読み込めませんでした: %v", err))
		}
		if c.maxPDFPages > 0 && pages > c.maxPDFPages {
			pageWarning = fmt.Sprintf("PDFが%dページあります（%dページ目以降は確認対象外の可能性があります）", pages, c.maxPDFPages+1)
		}
	}

	prompt, err := c.prompts.Render(claim)
	if err != nil {
		return entity.FallbackCheckResult(fmt.Sprintf("プロンプトを生成できませんでした: %v", err))
	}

	text, err := model.Complete(ctx, port.ModelRequest{
		System:   c.prompts.System(),
		Prompt:   prompt,
		Data:     data,
		MimeType: mimeType,
	})
	if err != nil {
		c.logger.Error("Receipt model call failed", "model", model.Name(), "error", err)
		return entity.FallbackCheckResult(err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return entity.FallbackCheckResult(fmt.Sprintf("%sから応答がありませんでした", model.Name()))
	}

	raw := ExtractJSON(text)
	if raw == "" {
		c.logger.Error("Receipt model answer has no JSON", "model", model.Name(), "content", text)
		return entity.FallbackCheckResult("AI応答にJSONが見つかりませんでした")
	}

	var verdict modelVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		c.logger.Error("Receipt model answer is not valid JSON", "model", model.Name(), "error", err)
		return entity.FallbackCheckResult(fmt.Sprintf("AI応答のJSONを解析できませんでした: %v", err))
	}

	result := verdict.toResult(claim)
	if pageWarning != "" {
		result.Findings = append(result.Findings, pageWarning)
		if result.RiskLevel == entity.RiskOK {
			result.RiskLevel = entity.RiskWarning
		}
	}

	c.logger.Info("Receipt checked",
		"model", model.Name(),
		"risk_level", string(result.RiskLevel),
		"amount_match", result.AmountMatch,
		"confidence", result.Confidence)

	return result
}

// modelVerdict is the JSON object requested from the model. Amounts are
// accepted as numbers or strings such as "¥5,250".
type modelVerdict struct {
	ExtractedAmount           flexAmount `json:"extractedAmount"`
	ExtractedDate             string     `json:"extractedDate"`
	ExtractedVendor           string     `json:"extractedVendor"`
	ExtractedProductName      string     `json:"extractedProductName"`
	AmountMatch               bool       `json:"amountMatch"`
	DateMatch                 bool       `json:"dateMatch"`
	VendorMatch               bool       `json:"vendorMatch"`
	HasQualifiedInvoiceNumber *bool      `json:"hasQualifiedInvoiceNumber"`
	RiskLevel                 string     `json:"riskLevel"`
	Findings                  []string   `json:"findings"`
	Recommendation            string     `json:"recommendation"`
	Confidence                float64    `json:"confidence"`
}

func (v *modelVerdict) toResult(claim entity.Claim) *entity.AICheckResult {
	result := &entity.AICheckResult{
		ExtractedAmount:           int64(v.ExtractedAmount),
		ExtractedDate:             v.ExtractedDate,
		ExtractedVendor:           v.ExtractedVendor,
		ExtractedProductName:      v.ExtractedProductName,
		AmountMatch:               v.AmountMatch,
		DateMatch:                 v.DateMatch,
		VendorMatch:               v.VendorMatch,
		HasQualifiedInvoiceNumber: v.HasQualifiedInvoiceNumber,
		RiskLevel:                 entity.RiskLevel(strings.ToUpper(strings.TrimSpace(v.RiskLevel))),
		Findings:                  make([]string, 0, len(v.Findings)),
		Recommendation:            v.Recommendation,
		Confidence:                clamp01(v.Confidence),
	}

	for _, f := range v.Findings {
		if f = strings.TrimSpace(f); f != "" {
			result.Findings = append(result.Findings, f)
		}
	}

	// The model occasionally reports a mismatch for identical figures.
	if claim.Amount > 0 && result.ExtractedAmount == claim.Amount {
		result.AmountMatch = true
	}

	if !result.RiskLevel.IsValid() {
		result.Findings = append(result.Findings, fmt.Sprintf("AIのリスク判定が不明な値でした（%q）", v.RiskLevel))
		result.RiskLevel = entity.RiskWarning
	}

	return result
}

type flexAmount int64

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*a = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.NewReplacer(",", "", "¥", "", "￥", "", "円", "", " ", "").Replace(unquoted)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("extractedAmount: %w", err)
	}
	*a = flexAmount(math.Round(f))
	return nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
