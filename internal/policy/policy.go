// Package policy decides who may do what. Every check takes an explicit
// Session; nothing here reads request state.
package policy

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/util"
	"fmt"
)

// Session identifies the authenticated caller of a service operation.
type Session struct {
	UserID uint
	Role   model.UserRole
}

func (s Session) IsAdmin() bool      { return s.Role == model.Admin }
func (s Session) IsInstructor() bool { return s.Role == model.Instructor }
func (s Session) IsStudent() bool    { return s.Role == model.Student }

type Action string

const (
	CourseCreate         Action = "course:create"
	CourseDelete         Action = "course:delete"
	CourseView           Action = "course:view"
	EnrollmentCreate     Action = "enrollment:create"
	EnrollmentDelete     Action = "enrollment:delete"
	RosterView           Action = "roster:view"
	AssignmentCreate     Action = "assignment:create"
	AssignmentView       Action = "assignment:view"
	SubmissionCreate     Action = "submission:create"
	SubmissionGrade      Action = "submission:grade"
	SubmissionView       Action = "submission:view"
	GradebookExport      Action = "gradebook:export"
	DiscussionCreate     Action = "discussion:create"
	DiscussionReply      Action = "discussion:reply"
	DiscussionView       Action = "discussion:view"
	NotificationRead     Action = "notification:read"
	NotificationAnnounce Action = "notification:announce"
	UserManage           Action = "user:manage"
	RoleRequestDecide    Action = "role_request:decide"
	CalendarView         Action = "calendar:view"
)

var (
	student    = model.Student
	instructor = model.Instructor
	admin      = model.Admin
)

// table is the complete role -> action grant list. Anything missing is denied.
var table = map[Action][]model.UserRole{
	CourseCreate:         {instructor},
	CourseDelete:         {instructor, admin},
	CourseView:           {student, instructor, admin},
	EnrollmentCreate:     {student},
	EnrollmentDelete:     {student},
	RosterView:           {instructor, admin},
	AssignmentCreate:     {instructor},
	AssignmentView:       {student, instructor, admin},
	SubmissionCreate:     {student},
	SubmissionGrade:      {instructor},
	SubmissionView:       {student, instructor, admin},
	GradebookExport:      {instructor, admin},
	DiscussionCreate:     {student, instructor},
	DiscussionReply:      {student, instructor},
	DiscussionView:       {student, instructor, admin},
	NotificationRead:     {student, instructor, admin},
	NotificationAnnounce: {instructor},
	UserManage:           {admin},
	RoleRequestDecide:    {admin},
	CalendarView:         {student, instructor},
}

// Allowed reports whether role is granted action by the static table.
func Allowed(role model.UserRole, action Action) bool {
	for _, r := range table[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize fails with util.ErrForbidden unless the session's role may perform action.
func Authorize(s Session, action Action) error {
	if s.UserID == 0 || !s.Role.Valid() {
		return util.ErrUnauthenticated
	}
	if !Allowed(s.Role, action) {
		return fmt.Errorf("%w: %s may not %s", util.ErrForbidden, s.Role, action)
	}
	return nil
}

func OwnsCourse(s Session, course *model.Course) bool {
	return course != nil && s.IsInstructor() && course.InstructorID == s.UserID
}

func CanDeleteCourse(s Session, course *model.Course) bool {
	return s.IsAdmin() || OwnsCourse(s, course)
}

// CanParticipate covers posting into a course: discussions, replies and
// submissions. Students must be enrolled, instructors must own the course.
func CanParticipate(s Session, course *model.Course, enrolled bool) bool {
	switch s.Role {
	case model.Student:
		return enrolled
	case model.Instructor:
		return OwnsCourse(s, course)
	}
	return false
}

// CanViewCourseContent is the read-side counterpart of CanParticipate; admins
// may read everything.
func CanViewCourseContent(s Session, course *model.Course, enrolled bool) bool {
	return s.IsAdmin() || CanParticipate(s, course, enrolled)
}

// Require wraps a failed predicate into ErrForbidden.
func Require(ok bool, format string, args ...interface{}) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: "+format, append([]interface{}{util.ErrForbidden}, args...)...)
}
