package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// swagger:model Assignment
type Assignment struct {
	BaseModel
	CourseID    uint      `gorm:"index;not null" json:"courseId"`
	Course      *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `gorm:"not null" json:"dueDate"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// swagger:model Submission
type Submission struct {
	BaseModel
	AssignmentID   uint             `gorm:"index;not null" json:"assignmentId"`
	Assignment     *Assignment      `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
	StudentID      uint             `gorm:"index;not null" json:"studentId"`
	Student        *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Content        string           `gorm:"type:text;not null" json:"content"`
	AttachmentKey  string           `gorm:"size:255" json:"-"`
	AttachmentType string           `gorm:"size:100" json:"-"`
	// AttachmentURL is the authorized download route, never the storage path.
	AttachmentURL  string           `gorm:"-" json:"attachmentUrl,omitempty"`
	Grade          *string          `gorm:"size:10" json:"grade"`
	Status         SubmissionStatus `gorm:"size:20;not null;default:'submitted'" json:"status"`
	SubmittedAt    time.Time        `gorm:"not null" json:"submittedAt"`
	GradedAt       *time.Time       `json:"gradedAt,omitempty"`
	// IsLate mirrors Late() for API responses.
	IsLate         bool             `gorm:"-" json:"late"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Late is advisory only; nothing rejects a late submission.
func (s *Submission) Late() bool {
	return s.Assignment != nil && s.SubmittedAt.After(s.Assignment.DueDate)
}

// FillComputed sets the fields that are derived rather than stored.
func (s *Submission) FillComputed() {
	s.IsLate = s.Late()
	s.AttachmentURL = ""
	if s.AttachmentKey != "" {
		s.AttachmentURL = fmt.Sprintf("/api/submissions/%d/attachment", s.ID)
	}
}

func (s *Submission) AfterFind(tx *gorm.DB) error {
	s.FillComputed()
	return nil
}
