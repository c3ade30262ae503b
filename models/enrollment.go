package models

import (
	"time"
)

// Enrollment status constants.
const (
	EnrollmentStatusPending = "pending"
	EnrollmentStatusPaid    = "paid"
)

// Enrollment grants a student access to a course. It is unique per
// (student, course); granting a paid enrollment twice is a no-op. In the
// legacy flow enrollments are charged directly at the gateway, so the
// charge correlation fields live here as well.
type Enrollment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StudentID uint   `json:"student_id" gorm:"uniqueIndex:idx_enrollments_student_course"`
	Student   User   `json:"-" gorm:"foreignKey:StudentID"`
	CourseID  uint   `json:"course_id" gorm:"uniqueIndex:idx_enrollments_student_course"`
	Course    Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`

	Status string  `json:"status" gorm:"default:'pending'"`
	Amount float64 `json:"amount"`

	ChargeID   string `json:"charge_id,omitempty"`
	InvoiceURL string `json:"invoice_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
