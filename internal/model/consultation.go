package model

import "time"

// ConsultationStatus is the wire-level status of a free consultation request.
// The statuses are unordered; any status may be replaced by any other.
type ConsultationStatus string

const (
	StatusPending   ConsultationStatus = "pending"
	StatusContacted ConsultationStatus = "contacted"
	StatusCompleted ConsultationStatus = "completed"
	StatusCancelled ConsultationStatus = "cancelled"
)

// AllConsultationStatuses lists every valid status in display order.
var AllConsultationStatuses = []ConsultationStatus{
	StatusPending,
	StatusContacted,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether s is one of the four known statuses.
func (s ConsultationStatus) Valid() bool {
	for _, v := range AllConsultationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Consultation is a free consultation intake request submitted by a site visitor.
type Consultation struct {
	ID          string             `json:"id"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Age         int                `json:"age"`
	DiseaseType string             `json:"disease_type"`
	Phone       string             `json:"phone"`
	Comments    *string            `json:"comments,omitempty"`
	Status      ConsultationStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// FullName joins first and last name for display and export.
func (c Consultation) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// SubmitConsultationRequest is the public intake payload.
type SubmitConsultationRequest struct {
	FirstName   string  `json:"first_name" binding:"required,min=1,max=80"`
	LastName    string  `json:"last_name" binding:"required,min=1,max=80"`
	Age         int     `json:"age" binding:"required,min=0,max=130"`
	DiseaseType string  `json:"disease_type" binding:"required,max=120"`
	Phone       string  `json:"phone" binding:"required,min=5,max=32"`
	Comments    *string `json:"comments" binding:"omitempty,max=2000"`
}

// UpdateConsultationStatusRequest changes the status of one request.
type UpdateConsultationStatusRequest struct {
	Status ConsultationStatus `json:"status" binding:"required,consultation_status"`
}
