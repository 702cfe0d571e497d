package repository

import (
	"context"

	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	// Create relies on the (student_id, course_id) unique index; a duplicate
	// surfaces as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, enrollment *model.Enrollment) error
	Exists(ctx context.Context, studentID, courseID uint) (bool, error)
	Delete(ctx context.Context, studentID, courseID uint) (int64, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Enrollment, error)
	CountByCourses(ctx context.Context, courseIDs []uint) (map[uint]int64, error)
	DeleteByCourse(ctx context.Context, courseID uint) error
	DeleteByStudent(ctx context.Context, studentID uint) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Omit("Student", "Course").Create(enrollment).Error
}

func (r *enrollmentRepo) Exists(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) Delete(ctx context.Context, studentID, courseID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Delete(&model.Enrollment{})
	return res.RowsAffected, res.Error
}

func (r *enrollmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) CountByCourses(ctx context.Context, courseIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CourseID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CourseID] = row.Total
	}
	return counts, nil
}

func (r *enrollmentRepo) DeleteByCourse(ctx context.Context, courseID uint) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.Enrollment{}).Error
}

func (r *enrollmentRepo) DeleteByStudent(ctx context.Context, studentID uint) error {
	return r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&model.Enrollment{}).Error
}
