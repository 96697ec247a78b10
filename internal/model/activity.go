package model

import "time"

// ActivityAction names an audited console mutation.
type ActivityAction string

const (
	ActionLogin              ActivityAction = "login"
	ActionLogout             ActivityAction = "logout"
	ActionAdminCreate        ActivityAction = "admin.create"
	ActionAdminUpdate        ActivityAction = "admin.update"
	ActionAdminDelete        ActivityAction = "admin.delete"
	ActionUserDelete         ActivityAction = "user.delete"
	ActionUserMetadata       ActivityAction = "user.metadata"
	ActionConsultationStatus ActivityAction = "consultation.status"
	ActionConsultationDelete ActivityAction = "consultation.delete"
)

// Activity is one audit log entry. It is queued in Redis and persisted by a worker.
type Activity struct {
	ID         int64          `json:"id"`
	AdminID    string         `json:"admin_id"`
	AdminLogin string         `json:"admin_login"`
	Action     ActivityAction `json:"action"`
	TargetID   string         `json:"target_id,omitempty"`
	Detail     string         `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
