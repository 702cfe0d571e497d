package repository

import (
	"context"

	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type DiscussionRepository interface {
	Create(ctx context.Context, d *model.Discussion) error
	FindByID(ctx context.Context, id uint) (*model.Discussion, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Discussion, error)
	ListRecentByCourses(ctx context.Context, courseIDs []uint, limit int) ([]model.Discussion, error)
	CreateReply(ctx context.Context, reply *model.Reply) error
	// DeleteByCourse removes the course's discussions together with their replies.
	DeleteByCourse(ctx context.Context, courseID uint) error
	// DeleteByAuthor removes every reply written by the user and every
	// discussion they started, including other people's replies to it.
	DeleteByAuthor(ctx context.Context, authorID uint) error
}

type discussionRepo struct {
	db *gorm.DB
}

func NewDiscussionRepo(db *gorm.DB) DiscussionRepository {
	return &discussionRepo{db: db}
}

func (r *discussionRepo) Create(ctx context.Context, d *model.Discussion) error {
	return r.db.WithContext(ctx).Omit("Author", "Replies").Create(d).Error
}

func (r *discussionRepo) FindByID(ctx context.Context, id uint) (*model.Discussion, error) {
	var d model.Discussion
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.Author").
		First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *discussionRepo) ListByCourse(ctx context.Context, courseID uint) ([]model.Discussion, error) {
	var ds []model.Discussion
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("course_id = ?", courseID).
		Order("created_at DESC, id DESC").
		Find(&ds).Error
	return ds, err
}

func (r *discussionRepo) ListRecentByCourses(ctx context.Context, courseIDs []uint, limit int) ([]model.Discussion, error) {
	var ds []model.Discussion
	if len(courseIDs) == 0 {
		return ds, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("course_id IN ?", courseIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&ds).Error
	return ds, err
}

func (r *discussionRepo) CreateReply(ctx context.Context, reply *model.Reply) error {
	return r.db.WithContext(ctx).Omit("Author").Create(reply).Error
}

func (r *discussionRepo) DeleteByCourse(ctx context.Context, courseID uint) error {
	db := r.db.WithContext(ctx)
	err := db.Where("discussion_id IN (?)", r.db.Model(&model.Discussion{}).
		Select("id").Where("course_id = ?", courseID)).
		Delete(&model.Reply{}).Error
	if err != nil {
		return err
	}
	return db.Where("course_id = ?", courseID).Delete(&model.Discussion{}).Error
}

func (r *discussionRepo) DeleteByAuthor(ctx context.Context, authorID uint) error {
	db := r.db.WithContext(ctx)
	err := db.Where("author_id = ? OR discussion_id IN (?)", authorID,
		r.db.Model(&model.Discussion{}).Select("id").Where("author_id = ?", authorID)).
		Delete(&model.Reply{}).Error
	if err != nil {
		return err
	}
	return db.Where("author_id = ?", authorID).Delete(&model.Discussion{}).Error
}
