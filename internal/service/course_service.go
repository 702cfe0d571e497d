package service

import (
	"context"
	"strings"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
	"elearning_backend/pkg/logger"

	"go.uber.org/zap"
)

const maxCourseNameLen = 150

// CourseView selects which slice of the catalog listCourses returns.
type CourseView string

const (
	ViewDefault   CourseView = ""
	ViewCatalog   CourseView = "catalog"
	ViewEnrolled  CourseView = "enrolled"
	ViewAvailable CourseView = "available"
	ViewOwned     CourseView = "owned"
)

// ParseCourseView maps the view query value; empty means the caller's default view.
func ParseCourseView(s string) (CourseView, error) {
	v := CourseView(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case ViewDefault, ViewCatalog, ViewEnrolled, ViewAvailable, ViewOwned:
		return v, nil
	}
	return "", invalid("unknown course view %q", s)
}

// CreateCourseInput carries the fields of a new course.
type CreateCourseInput struct {
	Name        string
	Description string
}

// CourseService manages the course catalog.
type CourseService struct {
	Store repository.Store
}

// NewCourseService creates a CourseService.
func NewCourseService(store repository.Store) *CourseService {
	return &CourseService{Store: store}
}

func (s *CourseService) Create(ctx context.Context, sess policy.Session, in CreateCourseInput) (*model.Course, error) {
	if err := policy.Authorize(sess, policy.CourseCreate); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxCourseNameLen {
		return nil, invalid("course name must be 1-%d characters", maxCourseNameLen)
	}

	course := &model.Course{
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		InstructorID: sess.UserID,
	}
	if err := s.Store.Courses().Create(ctx, course); err != nil {
		return nil, storeErr(err, "a course named %q already exists", name)
	}

	logger.Log.Info("Course created",
		zap.Uint("courseID", course.ID),
		zap.Uint("instructorID", sess.UserID),
		zap.String("name", course.Name))
	return course, nil
}

// List returns the courses visible to the caller under the requested view.
// Students default to the full catalog and may narrow it to enrolled or
// available courses. Instructors default to their own courses. Admins see
// everything.
func (s *CourseService) List(ctx context.Context, sess policy.Session, view CourseView, search string) ([]model.Course, error) {
	if err := policy.Authorize(sess, policy.CourseView); err != nil {
		return nil, err
	}

	q := repository.CourseQuery{Search: strings.TrimSpace(search)}
	switch sess.Role {
	case model.Student:
		switch view {
		case ViewEnrolled:
			q.EnrolledStudentID = sess.UserID
		case ViewAvailable:
			q.NotEnrolledStudentID = sess.UserID
		case ViewOwned:
			return nil, invalid("students do not own courses")
		}
	case model.Instructor:
		if view != ViewCatalog {
			q.InstructorID = sess.UserID
		}
	}

	courses, err := s.Store.Courses().List(ctx, q)
	if err != nil {
		return nil, storeErr(err, "list courses")
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, sess policy.Session, id uint) (*model.Course, error) {
	if err := policy.Authorize(sess, policy.CourseView); err != nil {
		return nil, err
	}
	course, err := s.Store.Courses().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "course %d", id)
	}
	return course, nil
}

// Delete removes the course with its assignments, submissions, enrollments and
// discussions in one transaction.
func (s *CourseService) Delete(ctx context.Context, sess policy.Session, id uint) error {
	if err := policy.Authorize(sess, policy.CourseDelete); err != nil {
		return err
	}

	course, err := s.Store.Courses().FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "course %d", id)
	}
	if err := policy.Require(policy.CanDeleteCourse(sess, course), "only the owning instructor or an admin can delete course %d", id); err != nil {
		return err
	}

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		return purgeCourse(ctx, tx, id)
	})
	if err != nil {
		logger.Log.Error("Failed to delete course", zap.Uint("courseID", id), zap.Error(err))
		return err
	}

	logger.Log.Info("Course deleted", zap.Uint("courseID", id), zap.Uint("actorID", sess.UserID))
	return nil
}
