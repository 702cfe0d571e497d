package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"elearning_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	maxTitleLen = 200
	maxGradeLen = 10
)

// CreateAssignmentInput carries the fields of a new assignment.
type CreateAssignmentInput struct {
	Title       string
	Description string
	// DueDate is the raw form value, see util.ParseDueDate.
	DueDate string
}

// SubmitInput is a student's answer; Content or Attachment must be set.
type SubmitInput struct {
	Content    string
	Attachment *Attachment
}

// AssignmentService covers the assignment and submission workflow:
// Submitted -> Graded, with re-grading overwriting the grade.
type AssignmentService struct {
	Store   repository.Store
	Storage *StorageService
	now     func() time.Time
}

// NewAssignmentService creates an AssignmentService storing attachments through storage.
func NewAssignmentService(store repository.Store, storage *StorageService) *AssignmentService {
	return &AssignmentService{Store: store, Storage: storage, now: time.Now}
}

func (s *AssignmentService) CreateAssignment(ctx context.Context, sess policy.Session, courseID uint, in CreateAssignmentInput) (*model.Assignment, error) {
	if err := policy.Authorize(sess, policy.AssignmentCreate); err != nil {
		return nil, err
	}

	course, err := s.Store.Courses().FindByID(ctx, courseID)
	if err != nil {
		return nil, storeErr(err, "course %d", courseID)
	}
	if err := policy.Require(policy.OwnsCourse(sess, course), "not the instructor of %s", course.Name); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLen {
		return nil, invalid("title must be 1-%d characters", maxTitleLen)
	}
	due, err := util.ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		CourseID:    courseID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		DueDate:     due,
	}
	if err := s.Store.Assignments().Create(ctx, assignment); err != nil {
		return nil, storeErr(err, "create assignment")
	}

	logger.Log.Info("Assignment created",
		zap.Uint("assignmentID", assignment.ID),
		zap.Uint("courseID", courseID))
	return assignment, nil
}

func (s *AssignmentService) ListAssignments(ctx context.Context, sess policy.Session, courseID uint) ([]model.Assignment, error) {
	if err := policy.Authorize(sess, policy.AssignmentView); err != nil {
		return nil, err
	}

	course, enrolled, err := courseAccess(ctx, s.Store, sess, courseID)
	if err != nil {
		return nil, err
	}
	if err := policy.Require(policy.CanViewCourseContent(sess, course, enrolled), "no access to %s", course.Name); err != nil {
		return nil, err
	}

	assignments, err := s.Store.Assignments().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, storeErr(err, "list assignments of course %d", courseID)
	}
	return assignments, nil
}

// Submit records a student's submission and notifies the course instructor in
// the same transaction. The enrollment check runs inside that transaction too.
// An uploaded attachment is removed again if the transaction fails.
func (s *AssignmentService) Submit(ctx context.Context, sess policy.Session, assignmentID uint, in SubmitInput) (*model.Submission, error) {
	if err := policy.Authorize(sess, policy.SubmissionCreate); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" && in.Attachment == nil {
		return nil, invalid("submission content cannot be empty")
	}

	assignment, err := s.Store.Assignments().FindByID(ctx, assignmentID)
	if err != nil {
		return nil, storeErr(err, "assignment %d", assignmentID)
	}
	course := assignment.Course
	if course == nil {
		if course, err = s.Store.Courses().FindByID(ctx, assignment.CourseID); err != nil {
			return nil, storeErr(err, "course %d", assignment.CourseID)
		}
	}

	// refuse early so an unenrolled student never uploads anything
	enrolled, err := s.Store.Enrollments().Exists(ctx, sess.UserID, course.ID)
	if err != nil {
		return nil, storeErr(err, "check enrollment")
	}
	if err := policy.Require(enrolled, "not enrolled in %s", course.Name); err != nil {
		return nil, err
	}

	var stored *StoredObject
	if in.Attachment != nil {
		if s.Storage == nil {
			return nil, invalid("attachments are not accepted")
		}
		if stored, err = s.Storage.SaveAttachment(ctx, "submissions", in.Attachment); err != nil {
			return nil, err
		}
	}

	submission := &model.Submission{
		AssignmentID: assignment.ID,
		StudentID:    sess.UserID,
		Content:      content,
		Status:       model.SubmissionSubmitted,
		SubmittedAt:  s.now(),
	}
	if stored != nil {
		submission.AttachmentKey = stored.Key
		submission.AttachmentType = stored.ContentType
	}

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		enrolled, err := tx.Enrollments().Exists(ctx, sess.UserID, course.ID)
		if err != nil {
			return storeErr(err, "check enrollment")
		}
		if err := policy.Require(enrolled, "not enrolled in %s", course.Name); err != nil {
			return err
		}
		if err := tx.Submissions().Create(ctx, submission); err != nil {
			return storeErr(err, "create submission")
		}
		return notify(ctx, tx, course.InstructorID, "New submission for %q in %s.", assignment.Title, course.Name)
	})
	if err != nil {
		s.Storage.Discard(ctx, stored)
		return nil, err
	}

	submission.Assignment = assignment
	submission.FillComputed()
	monitoring.SubmissionCounter.Inc()
	logger.Log.Info("Submission received",
		zap.Uint("submissionID", submission.ID),
		zap.Uint("assignmentID", assignment.ID),
		zap.Uint("studentID", sess.UserID),
		zap.Bool("late", submission.IsLate))
	return submission, nil
}

// Grade sets or overwrites the grade. Only the instructor owning the
// submission's course may grade it.
func (s *AssignmentService) Grade(ctx context.Context, sess policy.Session, submissionID uint, grade string) (*model.Submission, error) {
	if err := policy.Authorize(sess, policy.SubmissionGrade); err != nil {
		return nil, err
	}

	submission, err := s.Store.Submissions().FindByID(ctx, submissionID)
	if err != nil {
		return nil, storeErr(err, "submission %d", submissionID)
	}
	if submission.Assignment == nil || submission.Assignment.Course == nil {
		return nil, fmt.Errorf("submission %d is missing its assignment", submissionID)
	}
	course := submission.Assignment.Course
	if err := policy.Require(policy.OwnsCourse(sess, course), "not the instructor of %s", course.Name); err != nil {
		return nil, err
	}

	grade = strings.TrimSpace(grade)
	if grade == "" || len(grade) > maxGradeLen {
		return nil, invalid("grade must be 1-%d characters", maxGradeLen)
	}

	now := s.now()
	updated := *submission
	updated.Grade = &grade
	updated.Status = model.SubmissionGraded
	updated.GradedAt = &now

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Submissions().UpdateGrade(ctx, &updated); err != nil {
			return storeErr(err, "grade submission %d", submissionID)
		}
		return notify(ctx, tx, submission.StudentID, "Your submission for %q in %s was graded: %s.",
			submission.Assignment.Title, course.Name, grade)
	})
	if err != nil {
		return nil, err
	}

	monitoring.GradeCounter.Inc()
	logger.Log.Info("Submission graded",
		zap.Uint("submissionID", submissionID),
		zap.Uint("instructorID", sess.UserID))
	return &updated, nil
}

// ListSubmissions returns every submission for the owning instructor or an
// admin, and only the caller's own submissions for an enrolled student.
func (s *AssignmentService) ListSubmissions(ctx context.Context, sess policy.Session, assignmentID uint) ([]model.Submission, error) {
	if err := policy.Authorize(sess, policy.SubmissionView); err != nil {
		return nil, err
	}

	assignment, err := s.Store.Assignments().FindByID(ctx, assignmentID)
	if err != nil {
		return nil, storeErr(err, "assignment %d", assignmentID)
	}
	course, enrolled, err := courseAccess(ctx, s.Store, sess, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if err := policy.Require(policy.CanViewCourseContent(sess, course, enrolled), "no access to %s", course.Name); err != nil {
		return nil, err
	}

	submissions, err := s.Store.Submissions().ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, storeErr(err, "list submissions of assignment %d", assignmentID)
	}
	if !sess.IsStudent() {
		return submissions, nil
	}

	own := make([]model.Submission, 0, 1)
	for _, sub := range submissions {
		if sub.StudentID == sess.UserID {
			own = append(own, sub)
		}
	}
	return own, nil
}

// OpenAttachment streams a submission's attachment to the submitting student,
// the instructor owning the course or an admin. The caller closes the reader.
func (s *AssignmentService) OpenAttachment(ctx context.Context, sess policy.Session, submissionID uint) (*model.Submission, io.ReadCloser, error) {
	if err := policy.Authorize(sess, policy.SubmissionView); err != nil {
		return nil, nil, err
	}

	submission, err := s.Store.Submissions().FindByID(ctx, submissionID)
	if err != nil {
		return nil, nil, storeErr(err, "submission %d", submissionID)
	}
	if submission.Assignment == nil || submission.Assignment.Course == nil {
		return nil, nil, fmt.Errorf("submission %d is missing its assignment", submissionID)
	}
	course := submission.Assignment.Course

	allowed := sess.IsAdmin() || policy.OwnsCourse(sess, course)
	if sess.IsStudent() {
		allowed = submission.StudentID == sess.UserID
	}
	if err := policy.Require(allowed, "no access to submission %d", submissionID); err != nil {
		return nil, nil, err
	}

	if submission.AttachmentKey == "" || s.Storage == nil {
		return nil, nil, fmt.Errorf("%w: submission %d has no attachment", util.ErrNotFound, submissionID)
	}
	body, err := s.Storage.Provider.Open(ctx, submission.AttachmentKey)
	if err != nil {
		return nil, nil, err
	}
	return submission, body, nil
}

// GradingHistory lists the calling student's graded submissions, newest first.
func (s *AssignmentService) GradingHistory(ctx context.Context, sess policy.Session) ([]model.Submission, error) {
	if err := policy.Authorize(sess, policy.SubmissionView); err != nil {
		return nil, err
	}
	if err := policy.Require(sess.IsStudent(), "grading history is only kept for students"); err != nil {
		return nil, err
	}

	submissions, err := s.Store.Submissions().ListByStudent(ctx, sess.UserID, true)
	if err != nil {
		return nil, storeErr(err, "list grading history")
	}
	return submissions, nil
}
