package service

import (
	"context"
	"fmt"
	"strings"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"

	"go.uber.org/zap"
)

// NotificationService lists and marks notifications and posts announcements.
type NotificationService struct {
	Store repository.Store
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{Store: store}
}

func (s *NotificationService) List(ctx context.Context, sess policy.Session, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	if err := policy.Authorize(sess, policy.NotificationRead); err != nil {
		return nil, 0, err
	}
	offset, size := util.Page(page, limit)
	ns, total, err := s.Store.Notifications().ListByRecipient(ctx, sess.UserID, unreadOnly, offset, size)
	if err != nil {
		return nil, 0, storeErr(err, "list notifications")
	}
	return ns, total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, sess policy.Session) (int64, error) {
	if err := policy.Authorize(sess, policy.NotificationRead); err != nil {
		return 0, err
	}
	n, err := s.Store.Notifications().CountUnread(ctx, sess.UserID)
	if err != nil {
		return 0, storeErr(err, "count unread notifications")
	}
	return n, nil
}

// MarkRead flags one notification as read. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, sess policy.Session, id uint) error {
	if err := policy.Authorize(sess, policy.NotificationRead); err != nil {
		return err
	}

	n, err := s.Store.Notifications().FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "notification %d", id)
	}
	if err := policy.Require(n.RecipientID == sess.UserID, "notification %d belongs to another user", id); err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return storeErr(s.Store.Notifications().MarkRead(ctx, id), "mark notification %d read", id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, sess policy.Session) (int64, error) {
	if err := policy.Authorize(sess, policy.NotificationRead); err != nil {
		return 0, err
	}
	n, err := s.Store.Notifications().MarkAllRead(ctx, sess.UserID)
	if err != nil {
		return 0, storeErr(err, "mark all notifications read")
	}
	return n, nil
}

// Announce sends message to every student enrolled in the caller's course, all
// in one transaction. It returns the number of notifications created.
func (s *NotificationService) Announce(ctx context.Context, sess policy.Session, courseID uint, message string) (int, error) {
	if err := policy.Authorize(sess, policy.NotificationAnnounce); err != nil {
		return 0, err
	}

	course, err := s.Store.Courses().FindByID(ctx, courseID)
	if err != nil {
		return 0, storeErr(err, "course %d", courseID)
	}
	if err := policy.Require(policy.OwnsCourse(sess, course), "not the instructor of %s", course.Name); err != nil {
		return 0, err
	}

	message = strings.TrimSpace(message)
	text := fmt.Sprintf("[%s] %s", course.Name, message)
	if message == "" || len(text) > maxMessageLen {
		return 0, invalid("announcement must be 1-%d characters", maxMessageLen-len(course.Name)-3)
	}

	var sent int
	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		enrollments, err := tx.Enrollments().ListByCourse(ctx, courseID)
		if err != nil {
			return storeErr(err, "list roster of course %d", courseID)
		}
		batch := make([]model.Notification, 0, len(enrollments))
		for _, e := range enrollments {
			batch = append(batch, model.Notification{RecipientID: e.StudentID, Message: text})
		}
		sent = len(batch)
		return storeErr(tx.Notifications().CreateBatch(ctx, batch), "create announcement")
	})
	if err != nil {
		return 0, err
	}

	logger.Log.Info("Announcement sent",
		zap.Uint("courseID", courseID),
		zap.Int("recipients", sent))
	return sent, nil
}
