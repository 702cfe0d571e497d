package repository

import (
	"context"

	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

// CourseQuery filters the catalog. Zero values mean "no filter".
type CourseQuery struct {
	InstructorID         uint
	EnrolledStudentID    uint
	NotEnrolledStudentID uint
	Search               string
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	List(ctx context.Context, q CourseQuery) ([]model.Course, error)
	Delete(ctx context.Context, id uint) error
}

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Omit("Instructor").Create(course).Error
}

func (r *courseRepo) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Preload("Instructor").First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, q CourseQuery) ([]model.Course, error) {
	var courses []model.Course

	db := r.db.WithContext(ctx).Model(&model.Course{}).Preload("Instructor")
	if q.InstructorID != 0 {
		db = db.Where("instructor_id = ?", q.InstructorID)
	}
	if q.EnrolledStudentID != 0 {
		db = db.Where("id IN (?)", r.db.Model(&model.Enrollment{}).
			Select("course_id").Where("student_id = ?", q.EnrolledStudentID))
	}
	if q.NotEnrolledStudentID != 0 {
		db = db.Where("id NOT IN (?)", r.db.Model(&model.Enrollment{}).
			Select("course_id").Where("student_id = ?", q.NotEnrolledStudentID))
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	err := db.Order("name ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Course{}, id).Error
}
