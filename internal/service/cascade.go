package service

import (
	"context"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
)

// purgeCourse deletes a course and everything hanging off it, children first.
// Must run inside a transaction.
func purgeCourse(ctx context.Context, tx repository.Store, courseID uint) error {
	if err := tx.Discussions().DeleteByCourse(ctx, courseID); err != nil {
		return storeErr(err, "delete discussions of course %d", courseID)
	}
	if err := tx.Submissions().DeleteByCourse(ctx, courseID); err != nil {
		return storeErr(err, "delete submissions of course %d", courseID)
	}
	if err := tx.Assignments().DeleteByCourse(ctx, courseID); err != nil {
		return storeErr(err, "delete assignments of course %d", courseID)
	}
	if err := tx.Enrollments().DeleteByCourse(ctx, courseID); err != nil {
		return storeErr(err, "delete enrollments of course %d", courseID)
	}
	return storeErr(tx.Courses().Delete(ctx, courseID), "delete course %d", courseID)
}

// purgeUser deletes a user, the courses they teach and every row they authored.
// Must run inside a transaction.
func purgeUser(ctx context.Context, tx repository.Store, userID uint) error {
	owned, err := tx.Courses().List(ctx, repository.CourseQuery{InstructorID: userID})
	if err != nil {
		return storeErr(err, "list courses of user %d", userID)
	}
	for _, c := range owned {
		if err := purgeCourse(ctx, tx, c.ID); err != nil {
			return err
		}
	}

	if err := tx.Discussions().DeleteByAuthor(ctx, userID); err != nil {
		return storeErr(err, "delete discussions of user %d", userID)
	}
	if err := tx.Submissions().DeleteByStudent(ctx, userID); err != nil {
		return storeErr(err, "delete submissions of user %d", userID)
	}
	if err := tx.Enrollments().DeleteByStudent(ctx, userID); err != nil {
		return storeErr(err, "delete enrollments of user %d", userID)
	}
	if err := tx.Notifications().DeleteByRecipient(ctx, userID); err != nil {
		return storeErr(err, "delete notifications of user %d", userID)
	}
	if err := tx.RoleRequests().DeleteByUser(ctx, userID); err != nil {
		return storeErr(err, "delete role requests of user %d", userID)
	}
	return storeErr(tx.Users().Delete(ctx, userID), "delete user %d", userID)
}

// courseAccess loads a course and, for students, whether they are enrolled in it.
func courseAccess(ctx context.Context, store repository.Store, sess policy.Session, courseID uint) (*model.Course, bool, error) {
	course, err := store.Courses().FindByID(ctx, courseID)
	if err != nil {
		return nil, false, storeErr(err, "course %d", courseID)
	}
	if !sess.IsStudent() {
		return course, false, nil
	}
	enrolled, err := store.Enrollments().Exists(ctx, sess.UserID, courseID)
	if err != nil {
		return nil, false, storeErr(err, "check enrollment in course %d", courseID)
	}
	return course, enrolled, nil
}
