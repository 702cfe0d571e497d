package service

import (
	"context"
	"fmt"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"elearning_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// EnrollmentService enrolls and withdraws students and lists rosters.
type EnrollmentService struct {
	Store repository.Store
}

// NewEnrollmentService creates an EnrollmentService.
func NewEnrollmentService(store repository.Store) *EnrollmentService {
	return &EnrollmentService{Store: store}
}

// Enroll adds the calling student to a course. A second attempt for the same
// pair, including a concurrent one, fails with ErrConflict from the unique index.
func (s *EnrollmentService) Enroll(ctx context.Context, sess policy.Session, courseID uint) (*model.Enrollment, error) {
	if err := policy.Authorize(sess, policy.EnrollmentCreate); err != nil {
		return nil, err
	}

	course, err := s.Store.Courses().FindByID(ctx, courseID)
	if err != nil {
		return nil, storeErr(err, "course %d", courseID)
	}
	student, err := s.Store.Users().FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr(err, "user %d", sess.UserID)
	}

	enrollment := &model.Enrollment{StudentID: sess.UserID, CourseID: courseID}
	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Enrollments().Create(ctx, enrollment); err != nil {
			return storeErr(err, "already enrolled in %s", course.Name)
		}
		return notify(ctx, tx, course.InstructorID, "%s enrolled in %s.", student.Username, course.Name)
	})
	if err != nil {
		return nil, err
	}

	enrollment.Course = course
	monitoring.EnrollmentCounter.Inc()
	logger.Log.Info("Student enrolled",
		zap.Uint("studentID", sess.UserID),
		zap.Uint("courseID", courseID))
	return enrollment, nil
}

// Withdraw removes the caller's enrollment. Past submissions are kept.
func (s *EnrollmentService) Withdraw(ctx context.Context, sess policy.Session, courseID uint) error {
	if err := policy.Authorize(sess, policy.EnrollmentDelete); err != nil {
		return err
	}

	n, err := s.Store.Enrollments().Delete(ctx, sess.UserID, courseID)
	if err != nil {
		return storeErr(err, "withdraw from course %d", courseID)
	}
	if n == 0 {
		return fmt.Errorf("%w: not enrolled in course %d", util.ErrNotFound, courseID)
	}

	logger.Log.Info("Student withdrew",
		zap.Uint("studentID", sess.UserID),
		zap.Uint("courseID", courseID))
	return nil
}

// Roster lists the students enrolled in a course, for its instructor or an admin.
func (s *EnrollmentService) Roster(ctx context.Context, sess policy.Session, courseID uint) ([]model.Enrollment, error) {
	if err := policy.Authorize(sess, policy.RosterView); err != nil {
		return nil, err
	}

	course, err := s.Store.Courses().FindByID(ctx, courseID)
	if err != nil {
		return nil, storeErr(err, "course %d", courseID)
	}
	if err := policy.Require(policy.CanViewCourseContent(sess, course, false), "not the instructor of course %d", courseID); err != nil {
		return nil, err
	}

	enrollments, err := s.Store.Enrollments().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, storeErr(err, "list roster of course %d", courseID)
	}
	return enrollments, nil
}
