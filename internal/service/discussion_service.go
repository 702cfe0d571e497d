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

// CreateDiscussionInput carries the fields of a new discussion thread.
type CreateDiscussionInput struct {
	Title   string
	Content string
}

// DiscussionService runs the per-course discussion boards. Students must be
// enrolled and instructors must own the course, for threads and replies alike.
type DiscussionService struct {
	Store repository.Store
}

// NewDiscussionService creates a DiscussionService.
func NewDiscussionService(store repository.Store) *DiscussionService {
	return &DiscussionService{Store: store}
}

func (s *DiscussionService) Create(ctx context.Context, sess policy.Session, courseID uint, in CreateDiscussionInput) (*model.Discussion, error) {
	if err := policy.Authorize(sess, policy.DiscussionCreate); err != nil {
		return nil, err
	}

	course, enrolled, err := courseAccess(ctx, s.Store, sess, courseID)
	if err != nil {
		return nil, err
	}
	if err := policy.Require(policy.CanParticipate(sess, course, enrolled), "cannot post in %s", course.Name); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLen {
		return nil, invalid("title must be 1-%d characters", maxTitleLen)
	}

	d := &model.Discussion{
		CourseID: courseID,
		AuthorID: sess.UserID,
		Title:    title,
		Content:  strings.TrimSpace(in.Content),
	}
	if err := s.Store.Discussions().Create(ctx, d); err != nil {
		return nil, storeErr(err, "create discussion")
	}

	logger.Log.Info("Discussion created",
		zap.Uint("discussionID", d.ID),
		zap.Uint("courseID", courseID),
		zap.Uint("authorID", sess.UserID))
	return d, nil
}

// Reply appends to a discussion and notifies its author, unless the author is
// replying to their own thread.
func (s *DiscussionService) Reply(ctx context.Context, sess policy.Session, discussionID uint, content string) (*model.Reply, error) {
	if err := policy.Authorize(sess, policy.DiscussionReply); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("reply cannot be empty")
	}

	d, err := s.Store.Discussions().FindByID(ctx, discussionID)
	if err != nil {
		return nil, storeErr(err, "discussion %d", discussionID)
	}
	course, enrolled, err := courseAccess(ctx, s.Store, sess, d.CourseID)
	if err != nil {
		return nil, err
	}
	if err := policy.Require(policy.CanParticipate(sess, course, enrolled), "cannot reply in %s", course.Name); err != nil {
		return nil, err
	}

	reply := &model.Reply{DiscussionID: d.ID, AuthorID: sess.UserID, Content: content}
	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Discussions().CreateReply(ctx, reply); err != nil {
			return storeErr(err, "create reply")
		}
		if d.AuthorID == sess.UserID {
			return nil
		}
		return notify(ctx, tx, d.AuthorID, "New reply to your discussion %q in %s.", d.Title, course.Name)
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *DiscussionService) List(ctx context.Context, sess policy.Session, courseID uint) ([]model.Discussion, error) {
	if err := policy.Authorize(sess, policy.DiscussionView); err != nil {
		return nil, err
	}

	course, enrolled, err := courseAccess(ctx, s.Store, sess, courseID)
	if err != nil {
		return nil, err
	}
	if err := policy.Require(policy.CanViewCourseContent(sess, course, enrolled), "no access to %s", course.Name); err != nil {
		return nil, err
	}

	ds, err := s.Store.Discussions().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, storeErr(err, "list discussions of course %d", courseID)
	}
	return ds, nil
}

// Get returns a discussion with its replies in posting order.
func (s *DiscussionService) Get(ctx context.Context, sess policy.Session, id uint) (*model.Discussion, error) {
	if err := policy.Authorize(sess, policy.DiscussionView); err != nil {
		return nil, err
	}

	d, err := s.Store.Discussions().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "discussion %d", id)
	}
	course, enrolled, err := courseAccess(ctx, s.Store, sess, d.CourseID)
	if err != nil {
		return nil, err
	}
	if err := policy.Require(policy.CanViewCourseContent(sess, course, enrolled), "no access to %s", course.Name); err != nil {
		return nil, err
	}
	return d, nil
}
