package policy

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/util"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeTable(t *testing.T) {
	tests := []struct {
		name   string
		role   model.UserRole
		action Action
		allow  bool
	}{
		{"instructor creates course", model.Instructor, CourseCreate, true},
		{"student cannot create course", model.Student, CourseCreate, false},
		{"admin cannot create course", model.Admin, CourseCreate, false},
		{"student enrolls", model.Student, EnrollmentCreate, true},
		{"instructor cannot enroll", model.Instructor, EnrollmentCreate, false},
		{"student submits", model.Student, SubmissionCreate, true},
		{"student cannot grade", model.Student, SubmissionGrade, false},
		{"admin cannot grade", model.Admin, SubmissionGrade, false},
		{"admin manages users", model.Admin, UserManage, true},
		{"instructor cannot manage users", model.Instructor, UserManage, false},
		{"admin decides role requests", model.Admin, RoleRequestDecide, true},
		{"student cannot decide role requests", model.Student, RoleRequestDecide, false},
		{"admin deletes course", model.Admin, CourseDelete, true},
		{"unknown action", model.Admin, Action("nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(Session{UserID: 1, Role: tt.role}, tt.action)
			if tt.allow {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, util.ErrForbidden))
			}
		})
	}
}

func TestAuthorizeRejectsAnonymous(t *testing.T) {
	err := Authorize(Session{}, CourseView)
	assert.ErrorIs(t, err, util.ErrUnauthenticated)

	err = Authorize(Session{UserID: 1, Role: "root"}, CourseView)
	assert.ErrorIs(t, err, util.ErrUnauthenticated)
}

func TestCoursePredicates(t *testing.T) {
	course := &model.Course{InstructorID: 2}
	course.ID = 9

	owner := Session{UserID: 2, Role: model.Instructor}
	other := Session{UserID: 3, Role: model.Instructor}
	stu := Session{UserID: 4, Role: model.Student}
	adm := Session{UserID: 5, Role: model.Admin}

	assert.True(t, OwnsCourse(owner, course))
	assert.False(t, OwnsCourse(other, course))
	assert.False(t, OwnsCourse(owner, nil))

	assert.True(t, CanDeleteCourse(owner, course))
	assert.True(t, CanDeleteCourse(adm, course))
	assert.False(t, CanDeleteCourse(other, course))
	assert.False(t, CanDeleteCourse(stu, course))

	assert.True(t, CanParticipate(stu, course, true))
	assert.False(t, CanParticipate(stu, course, false))
	assert.True(t, CanParticipate(owner, course, false))
	assert.False(t, CanParticipate(other, course, false))
	assert.False(t, CanParticipate(adm, course, false))

	assert.True(t, CanViewCourseContent(adm, course, false))
	assert.False(t, CanViewCourseContent(other, course, false))
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(true, "x"))
	err := Require(false, "course %d", 7)
	assert.ErrorIs(t, err, util.ErrForbidden)
	assert.Contains(t, err.Error(), "course 7")
}
