package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"elearning_backend/internal/model"
	"elearning_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDashboardPerRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "root", model.Admin)
	bob := env.addUser(t, "bob", model.Instructor)
	alice := env.addUser(t, "alice", model.Student)
	cs101 := env.addCourse(t, bob, "CS101")
	env.addCourse(t, bob, "CS102")
	env.enroll(t, alice, cs101.ID)
	_, err := env.discussions.Create(ctx, alice, cs101.ID, CreateDiscussionInput{Title: "hi"})
	require.NoError(t, err)

	sd, err := env.dashboard.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"CS101"}, courseNames(sd.EnrolledCourses))
	assert.Equal(t, []string{"CS102"}, courseNames(sd.AvailableCourses))
	assert.Len(t, sd.RecentDiscussions, 1)

	id, err := env.dashboard.Get(ctx, bob)
	require.NoError(t, err)
	require.Len(t, id.OwnedCourses, 2)
	assert.EqualValues(t, 1, id.OwnedCourses[0].EnrollmentCount)
	assert.EqualValues(t, 0, id.OwnedCourses[1].EnrollmentCount)
	assert.EqualValues(t, 1, id.UnreadNotifications)

	ad, err := env.dashboard.Get(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, ad.Users, 3)
	assert.Len(t, ad.Courses, 2)
	assert.Empty(t, ad.PendingRoleRequests)
}

func TestExportGradebook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := env.addUser(t, "bob", model.Instructor)
	carol := env.addUser(t, "carol", model.Instructor)
	alice := env.addUser(t, "alice", model.Student)
	dave := env.addUser(t, "dave", model.Student)
	course := env.addCourse(t, bob, "CS 101")
	env.enroll(t, alice, course.ID)
	env.enroll(t, dave, course.ID)

	hw1 := env.addAssignment(t, bob, course.ID, "HW1", time.Now().Add(time.Hour))
	hw2 := env.addAssignment(t, bob, course.ID, "HW2", time.Now().Add(2*time.Hour))
	sub, err := env.assignments.Submit(ctx, alice, hw1.ID, SubmitInput{Content: "a"})
	require.NoError(t, err)
	_, err = env.assignments.Grade(ctx, bob, sub.ID, "A")
	require.NoError(t, err)
	_, err = env.assignments.Submit(ctx, dave, hw2.ID, SubmitInput{Content: "d"})
	require.NoError(t, err)

	buf, filename, err := env.export.ExportGradebook(ctx, bob, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "gradebook_CS_101.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(gradebookSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Student", "Email", "HW1", "HW2"}, rows[0])
	assert.Equal(t, []string{"alice", "alice@example.com", "A"}, rows[1])
	assert.Equal(t, []string{"dave", "dave@example.com", "", "submitted"}, rows[2])

	_, _, err = env.export.ExportGradebook(ctx, carol, course.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)
	_, _, err = env.export.ExportGradebook(ctx, alice, course.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestWriteGradebookReportsSheetErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	err := writeGradebook(f, []model.Assignment{{Title: "HW1"}}, nil, func(uint, uint) (string, bool) { return "", false })
	require.Error(t, err, "the gradebook sheet was never created")
	assert.Contains(t, err.Error(), "set column width")
}

func TestCalendarFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := env.addUser(t, "bob", model.Instructor)
	alice := env.addUser(t, "alice", model.Student)
	admin := env.addUser(t, "root", model.Admin)
	cs101 := env.addCourse(t, bob, "CS101")
	cs102 := env.addCourse(t, bob, "CS102")
	env.enroll(t, alice, cs101.ID)
	env.addAssignment(t, bob, cs101.ID, "HW1", time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC))
	env.addAssignment(t, bob, cs102.ID, "Essay", time.Date(2030, 1, 3, 15, 0, 0, 0, time.UTC))

	feed, err := env.calendar.Feed(ctx, alice)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR"))
	assert.Contains(t, feed, "[CS101] HW1 due")
	assert.NotContains(t, feed, "Essay")
	assert.Contains(t, feed, "20300102T150000Z")

	feed, err = env.calendar.Feed(ctx, bob)
	require.NoError(t, err)
	assert.Contains(t, feed, "HW1")
	assert.Contains(t, feed, "Essay")

	_, err = env.calendar.Feed(ctx, admin)
	assert.ErrorIs(t, err, util.ErrForbidden)
}
