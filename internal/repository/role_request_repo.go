package repository

import (
	"context"

	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type RoleRequestRepository interface {
	Create(ctx context.Context, req *model.RoleRequest) error
	FindByID(ctx context.Context, id uint) (*model.RoleRequest, error)
	ListPending(ctx context.Context) ([]model.RoleRequest, error)
	Update(ctx context.Context, req *model.RoleRequest) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type roleRequestRepo struct {
	db *gorm.DB
}

func NewRoleRequestRepo(db *gorm.DB) RoleRequestRepository {
	return &roleRequestRepo{db: db}
}

func (r *roleRequestRepo) Create(ctx context.Context, req *model.RoleRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *roleRequestRepo) FindByID(ctx context.Context, id uint) (*model.RoleRequest, error) {
	var req model.RoleRequest
	if err := r.db.WithContext(ctx).Preload("User").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *roleRequestRepo) ListPending(ctx context.Context) ([]model.RoleRequest, error) {
	var reqs []model.RoleRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", model.RoleRequestPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *roleRequestRepo) Update(ctx context.Context, req *model.RoleRequest) error {
	return r.db.WithContext(ctx).Omit("User").Save(req).Error
}

func (r *roleRequestRepo) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RoleRequest{}).Error
}
