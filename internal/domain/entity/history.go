package entity

import "time"

// ApprovalHistoryItem is one row of the append-only approval audit log.
type ApprovalHistoryItem struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Action        string    `json:"action"`
	Checker       string    `json:"checker"`
	Comment       *string   `json:"comment"`
	CreatedAt     time.Time `json:"createdAt"`
}
