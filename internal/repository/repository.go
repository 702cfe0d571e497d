package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store is the aggregate entry point to every repository. Services receive a
// Store and open transactions through it; inside Transaction the callback gets
// a Store bound to the transaction, so all writes commit or roll back together.
type Store interface {
	Users() UserRepository
	RoleRequests() RoleRequestRepository
	Courses() CourseRepository
	Enrollments() EnrollmentRepository
	Assignments() AssignmentRepository
	Submissions() SubmissionRepository
	Notifications() NotificationRepository
	Discussions() DiscussionRepository

	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore builds the GORM backed Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository                 { return NewUserRepo(s.db) }
func (s *gormStore) RoleRequests() RoleRequestRepository   { return NewRoleRequestRepo(s.db) }
func (s *gormStore) Courses() CourseRepository             { return NewCourseRepo(s.db) }
func (s *gormStore) Enrollments() EnrollmentRepository     { return NewEnrollmentRepo(s.db) }
func (s *gormStore) Assignments() AssignmentRepository     { return NewAssignmentRepo(s.db) }
func (s *gormStore) Submissions() SubmissionRepository     { return NewSubmissionRepo(s.db) }
func (s *gormStore) Notifications() NotificationRepository { return NewNotificationRepo(s.db) }
func (s *gormStore) Discussions() DiscussionRepository     { return NewDiscussionRepo(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
