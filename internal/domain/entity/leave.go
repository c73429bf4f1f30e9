package entity

// Leave approval columns accepted by the leave system.
const (
	LeaveColumnBranchManager = "branch_manager"
	LeaveColumnExecutive     = "executive"
	LeaveColumnHR            = "hr"
	LeaveColumnCancelled     = "cancelled"
)

// LeaveApprovalUpdate sets one approval column of a leave request row.
// Value is a status label, or true for the cancelled column.
type LeaveApprovalUpdate struct {
	RowIndex int         `json:"rowIndex"`
	Column   string      `json:"column"`
	Value    interface{} `json:"value"`
}

// PaidLeaveItem is one employee's remaining paid leave.
type PaidLeaveItem struct {
	Number        interface{} `json:"number"`
	Name          string      `json:"name"`
	PaidLeaveDays interface{} `json:"paidLeaveDays"`
	LastUpdated   *string     `json:"lastUpdated"`
}
