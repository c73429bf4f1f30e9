package entity

// Application is an expense request as returned by the system of record.
// It is a read-only snapshot; status changes go through the action endpoint.
type Application struct {
	ApplicationID   string `json:"applicationId"`
	ApplicationDate string `json:"applicationDate"`
	EmployeeNumber  string `json:"employeeNumber"`
	EmployeeName    string `json:"employeeName"`
	Location        string `json:"location"`
	Tool            string `json:"tool"`
	Amount          int64  `json:"amount"`
	TargetMonth     string `json:"targetMonth"`
	Purpose         string `json:"purpose"`
	ReceiptURL      string `json:"receiptUrl"`
	CreditURL       string `json:"creditUrl,omitempty"`
	Status          string `json:"status"`
	CheckStatus     string `json:"checkStatus"`

	AICheckResult *AICheckResult `json:"aiCheckResult,omitempty"`
	AIRiskLevel   RiskLevel      `json:"aiRiskLevel,omitempty"`

	AccountingChecker   string `json:"accountingChecker,omitempty"`
	AccountingCheckDate string `json:"accountingCheckDate,omitempty"`
	AccountingComment   string `json:"accountingComment,omitempty"`

	ExecutiveApprover     string `json:"executiveApprover,omitempty"`
	ExecutiveApprovalDate string `json:"executiveApprovalDate,omitempty"`
	ExecutiveComment      string `json:"executiveComment,omitempty"`

	Supervisor string `json:"supervisor,omitempty"`
}

// Claim is the part of an application the receipt is checked against.
type Claim struct {
	Tool        string
	Amount      int64
	TargetMonth string
	Purpose     string
}

// Claim extracts the checked fields.
func (a *Application) Claim() Claim {
	return Claim{
		Tool:        a.Tool,
		Amount:      a.Amount,
		TargetMonth: a.TargetMonth,
		Purpose:     a.Purpose,
	}
}

// CheckSubmission is the payload relayed to the system of record when a
// reviewer acts on an application.
type CheckSubmission struct {
	ApplicationID string
	Action        string
	Checker       string
	Comment       string
}
