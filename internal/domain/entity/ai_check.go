package entity

// RiskLevel is the coarse verdict of a receipt check.
type RiskLevel string

const (
	RiskOK      RiskLevel = "OK"
	RiskWarning RiskLevel = "WARNING"
	RiskError   RiskLevel = "ERROR"
)

// IsValid reports whether r is one of the three verdicts.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskOK, RiskWarning, RiskError:
		return true
	}
	return false
}

// ManualReviewRecommendation is attached to every fallback verdict.
const ManualReviewRecommendation = "手動確認が必要です"

// AICheckResult is the verdict of one receipt check. It is never written back
// to the system of record.
type AICheckResult struct {
	ExtractedAmount           int64     `json:"extractedAmount"`
	ExtractedDate             string    `json:"extractedDate"`
	ExtractedVendor           string    `json:"extractedVendor"`
	ExtractedProductName      string    `json:"extractedProductName,omitempty"`
	AmountMatch               bool      `json:"amountMatch"`
	DateMatch                 bool      `json:"dateMatch"`
	VendorMatch               bool      `json:"vendorMatch"`
	HasQualifiedInvoiceNumber *bool     `json:"hasQualifiedInvoiceNumber,omitempty"`
	RiskLevel                 RiskLevel `json:"riskLevel"`
	Findings                  []string  `json:"findings"`
	Recommendation            string    `json:"recommendation"`
	Confidence                float64   `json:"confidence"`
	ProcessingTime            int64     `json:"processingTime"`
}

// FallbackCheckResult is the verdict used whenever the model could not
// produce a usable answer.
func FallbackCheckResult(reason string) *AICheckResult {
	return &AICheckResult{
		RiskLevel:      RiskError,
		Findings:       []string{reason},
		Recommendation: ManualReviewRecommendation,
		Confidence:     0,
	}
}
