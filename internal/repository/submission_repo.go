package repository

import (
	"context"

	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	FindByID(ctx context.Context, id uint) (*model.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID uint) ([]model.Submission, error)
	ListByStudent(ctx context.Context, studentID uint, gradedOnly bool) ([]model.Submission, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Submission, error)
	UpdateGrade(ctx context.Context, submission *model.Submission) error
	DeleteByCourse(ctx context.Context, courseID uint) error
	DeleteByStudent(ctx context.Context, studentID uint) error
}

type submissionRepo struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Omit("Assignment", "Student").Create(submission).Error
}

func (r *submissionRepo) FindByID(ctx context.Context, id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.WithContext(ctx).
		Preload("Assignment.Course").
		Preload("Student").
		First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) ListByAssignment(ctx context.Context, assignmentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Assignment").
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) ListByStudent(ctx context.Context, studentID uint, gradedOnly bool) ([]model.Submission, error) {
	var submissions []model.Submission
	db := r.db.WithContext(ctx).
		Preload("Assignment.Course").
		Where("student_id = ?", studentID)
	if gradedOnly {
		db = db.Where("status = ?", model.SubmissionGraded)
	}
	err := db.Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) ListByCourse(ctx context.Context, courseID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("assignment_id IN (?)", r.db.Model(&model.Assignment{}).
			Select("id").Where("course_id = ?", courseID)).
		Order("submitted_at ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) UpdateGrade(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", submission.ID).
		Updates(map[string]interface{}{
			"grade":     submission.Grade,
			"status":    submission.Status,
			"graded_at": submission.GradedAt,
		}).Error
}

func (r *submissionRepo) DeleteByCourse(ctx context.Context, courseID uint) error {
	return r.db.WithContext(ctx).
		Where("assignment_id IN (?)", r.db.Model(&model.Assignment{}).
			Select("id").Where("course_id = ?", courseID)).
		Delete(&model.Submission{}).Error
}

func (r *submissionRepo) DeleteByStudent(ctx context.Context, studentID uint) error {
	return r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&model.Submission{}).Error
}
