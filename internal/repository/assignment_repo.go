package repository

import (
	"context"

	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	FindByID(ctx context.Context, id uint) (*model.Assignment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Assignment, error)
	ListByCourses(ctx context.Context, courseIDs []uint) ([]model.Assignment, error)
	DeleteByCourse(ctx context.Context, courseID uint) error
}

type assignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Omit("Course").Create(assignment).Error
}

func (r *assignmentRepo) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := r.db.WithContext(ctx).Preload("Course").First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByCourses(ctx context.Context, courseIDs []uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	if len(courseIDs) == 0 {
		return assignments, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("course_id IN ?", courseIDs).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) DeleteByCourse(ctx context.Context, courseID uint) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.Assignment{}).Error
}
