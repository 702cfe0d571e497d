package service

import (
	"context"
	"fmt"
	"time"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"

	ics "github.com/arran4/golang-ical"
)

const (
	calendarProductID = "-//elearning//due dates//EN"
	dueEventLength    = 30 * time.Minute
)

// CalendarService publishes assignment due dates as an iCalendar feed.
type CalendarService struct {
	Store repository.Store
	now   func() time.Time
}

// NewCalendarService creates a CalendarService.
func NewCalendarService(store repository.Store) *CalendarService {
	return &CalendarService{Store: store, now: time.Now}
}

// Feed covers the courses a student is enrolled in, or the courses an
// instructor teaches.
func (s *CalendarService) Feed(ctx context.Context, sess policy.Session) (string, error) {
	if err := policy.Authorize(sess, policy.CalendarView); err != nil {
		return "", err
	}

	q := repository.CourseQuery{InstructorID: sess.UserID}
	if sess.IsStudent() {
		q = repository.CourseQuery{EnrolledStudentID: sess.UserID}
	}
	courses, err := s.Store.Courses().List(ctx, q)
	if err != nil {
		return "", storeErr(err, "list courses")
	}

	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	assignments, err := s.Store.Assignments().ListByCourses(ctx, ids)
	if err != nil {
		return "", storeErr(err, "list assignments")
	}

	return buildCalendar(assignments, s.now()), nil
}

func buildCalendar(assignments []model.Assignment, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Assignment due dates")

	for _, a := range assignments {
		event := cal.AddEvent(fmt.Sprintf("assignment-%d@elearning", a.ID))
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(a.CreatedAt)
		event.SetStartAt(a.DueDate)
		event.SetEndAt(a.DueDate.Add(dueEventLength))

		summary := a.Title + " due"
		if a.Course != nil {
			summary = fmt.Sprintf("[%s] %s", a.Course.Name, summary)
		}
		event.SetSummary(summary)
		if a.Description != "" {
			event.SetDescription(a.Description)
		}
	}
	return cal.Serialize()
}
