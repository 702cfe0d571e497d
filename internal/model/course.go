package model

// swagger:model Course
type Course struct {
	BaseModel
	Name         string `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	InstructorID uint   `gorm:"index;not null" json:"instructorId"`
	Instructor   *User  `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment links a student to a course. The composite unique index is what
// keeps concurrent enroll requests from producing duplicate rows.
type Enrollment struct {
	BaseModel
	StudentID uint    `gorm:"uniqueIndex:idx_enrollment_student_course;not null" json:"studentId"`
	CourseID  uint    `gorm:"uniqueIndex:idx_enrollment_student_course;index;not null" json:"courseId"`
	Student   *User   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course    *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
