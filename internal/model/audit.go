package model

import "time"

// Audit actions recorded for lifecycle transitions.
const (
	AuditActionSubmit    = "submit"
	AuditActionApprove   = "approve"
	AuditActionReject    = "reject"
	AuditActionResubmit  = "resubmit"
	AuditActionPublish   = "publish"
	AuditActionUnpublish = "unpublish"
	AuditActionUpdate    = "update"
	AuditActionDelete    = "delete"
)

// AuditLogEntry is one fact in the capped, newest-first audit log.
type AuditLogEntry struct {
	ID          string            `json:"id"`
	Action      string            `json:"action"`
	ToolID      string            `json:"toolId"`
	ToolTitle   string            `json:"toolTitle"`
	PerformedBy string            `json:"performedBy"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}
