package service

import (
	"context"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
)

const recentDiscussionLimit = 10

// CourseSummary is one course row on the dashboard.
type CourseSummary struct {
	model.Course
	EnrollmentCount int64 `json:"enrollmentCount"`
}

// Dashboard is the role specific landing view. Fields that do not apply to the
// caller's role are left empty.
type Dashboard struct {
	Role                model.UserRole      `json:"role"`
	UnreadNotifications int64               `json:"unreadNotifications"`
	EnrolledCourses     []model.Course      `json:"enrolledCourses,omitempty"`
	AvailableCourses    []model.Course      `json:"availableCourses,omitempty"`
	RecentDiscussions   []model.Discussion  `json:"recentDiscussions,omitempty"`
	OwnedCourses        []CourseSummary     `json:"ownedCourses,omitempty"`
	Users               []model.User        `json:"users,omitempty"`
	Courses             []model.Course      `json:"courses,omitempty"`
	PendingRoleRequests []model.RoleRequest `json:"pendingRoleRequests,omitempty"`
}

// DashboardService assembles dashboards.
type DashboardService struct {
	Store repository.Store
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{Store: store}
}

func (s *DashboardService) Get(ctx context.Context, sess policy.Session) (*Dashboard, error) {
	if err := policy.Authorize(sess, policy.NotificationRead); err != nil {
		return nil, err
	}

	unread, err := s.Store.Notifications().CountUnread(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr(err, "count unread notifications")
	}
	d := &Dashboard{Role: sess.Role, UnreadNotifications: unread}

	switch sess.Role {
	case model.Student:
		err = s.fillStudent(ctx, sess, d)
	case model.Instructor:
		err = s.fillInstructor(ctx, sess, d)
	case model.Admin:
		err = s.fillAdmin(ctx, d)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DashboardService) fillStudent(ctx context.Context, sess policy.Session, d *Dashboard) error {
	var err error
	if d.EnrolledCourses, err = s.Store.Courses().List(ctx, repository.CourseQuery{EnrolledStudentID: sess.UserID}); err != nil {
		return storeErr(err, "list enrolled courses")
	}
	if d.AvailableCourses, err = s.Store.Courses().List(ctx, repository.CourseQuery{NotEnrolledStudentID: sess.UserID}); err != nil {
		return storeErr(err, "list available courses")
	}

	ids := make([]uint, 0, len(d.EnrolledCourses))
	for _, c := range d.EnrolledCourses {
		ids = append(ids, c.ID)
	}
	if d.RecentDiscussions, err = s.Store.Discussions().ListRecentByCourses(ctx, ids, recentDiscussionLimit); err != nil {
		return storeErr(err, "list recent discussions")
	}
	return nil
}

func (s *DashboardService) fillInstructor(ctx context.Context, sess policy.Session, d *Dashboard) error {
	courses, err := s.Store.Courses().List(ctx, repository.CourseQuery{InstructorID: sess.UserID})
	if err != nil {
		return storeErr(err, "list owned courses")
	}

	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	counts, err := s.Store.Enrollments().CountByCourses(ctx, ids)
	if err != nil {
		return storeErr(err, "count enrollments")
	}

	d.OwnedCourses = make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		d.OwnedCourses = append(d.OwnedCourses, CourseSummary{Course: c, EnrollmentCount: counts[c.ID]})
	}
	return nil
}

func (s *DashboardService) fillAdmin(ctx context.Context, d *Dashboard) error {
	var err error
	if d.Users, _, err = s.Store.Users().List(ctx, repository.UserQuery{}); err != nil {
		return storeErr(err, "list users")
	}
	if d.Courses, err = s.Store.Courses().List(ctx, repository.CourseQuery{}); err != nil {
		return storeErr(err, "list courses")
	}
	if d.PendingRoleRequests, err = s.Store.RoleRequests().ListPending(ctx); err != nil {
		return storeErr(err, "list role requests")
	}
	return nil
}
