package models

import "time"

type ApplicationStatus string

const (
	StatusApplied        ApplicationStatus = "APPLIED"
	StatusShortlisted    ApplicationStatus = "SHORTLISTED"
	StatusNotShortlisted ApplicationStatus = "NOT_SHORTLISTED"
	StatusSelected       ApplicationStatus = "SELECTED"
	StatusRejected       ApplicationStatus = "REJECTED"
)

// ApplicationStatuses is the full enum; any value may be set by an admin.
var ApplicationStatuses = []ApplicationStatus{StatusApplied, StatusShortlisted, StatusNotShortlisted, StatusSelected, StatusRejected}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Application struct {
	ID        string            `gorm:"column:id;size:36;primaryKey" json:"id"`
	StudentID string            `gorm:"column:student_id;size:36;uniqueIndex:idx_application_student_job" json:"studentId"`
	JobID     string            `gorm:"column:job_id;size:36;uniqueIndex:idx_application_student_job;index" json:"jobId"`
	Status    ApplicationStatus `gorm:"column:status;type:varchar(24);index" json:"status"`

	CoverLetter *string `gorm:"column:cover_letter;type:text" json:"coverLetter,omitempty"`
	// No FK: resume deletion leaves this pointing at a removed row.
	SelectedResumeID *string `gorm:"column:selected_resume_id;size:36" json:"selectedResumeId,omitempty"`

	AppliedAt time.Time `gorm:"column:applied_at" json:"appliedAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Application) TableName() string { return "applications" }

// StatusCount is one row of a GROUP BY status aggregation.
type StatusCount struct {
	Status ApplicationStatus `gorm:"column:status" json:"status"`
	Count  int64             `gorm:"column:count" json:"count"`
}
