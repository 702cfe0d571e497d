package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
	"elearning_backend/pkg/logger"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const gradebookSheet = "Gradebook"

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExportService renders course data as spreadsheets.
type ExportService struct {
	Store repository.Store
}

// NewExportService creates an ExportService.
func NewExportService(store repository.Store) *ExportService {
	return &ExportService{Store: store}
}

// ExportGradebook builds an .xlsx with one row per enrolled student and one
// column per assignment. A cell holds the grade of the student's latest
// submission, "submitted" while it is ungraded, and stays empty otherwise.
func (s *ExportService) ExportGradebook(ctx context.Context, sess policy.Session, courseID uint) (*bytes.Buffer, string, error) {
	if err := policy.Authorize(sess, policy.GradebookExport); err != nil {
		return nil, "", err
	}

	course, err := s.Store.Courses().FindByID(ctx, courseID)
	if err != nil {
		return nil, "", storeErr(err, "course %d", courseID)
	}
	if err := policy.Require(policy.CanViewCourseContent(sess, course, false), "not the instructor of %s", course.Name); err != nil {
		return nil, "", err
	}

	enrollments, err := s.Store.Enrollments().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, "", storeErr(err, "list roster of course %d", courseID)
	}
	assignments, err := s.Store.Assignments().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, "", storeErr(err, "list assignments of course %d", courseID)
	}
	submissions, err := s.Store.Submissions().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, "", storeErr(err, "list submissions of course %d", courseID)
	}

	// submissions come oldest first, so the last write per key wins
	type key struct{ student, assignment uint }
	latest := make(map[key]string, len(submissions))
	for _, sub := range submissions {
		value := "submitted"
		if sub.Grade != nil {
			value = *sub.Grade
		}
		latest[key{sub.StudentID, sub.AssignmentID}] = value
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(gradebookSheet)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("drop default sheet: %w", err)
	}
	if err := writeGradebook(f, assignments, enrollments, func(studentID, assignmentID uint) (string, bool) {
		v, ok := latest[key{studentID, assignmentID}]
		return v, ok
	}); err != nil {
		logger.Log.Error("Failed to fill gradebook", zap.Uint("courseID", courseID), zap.Error(err))
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logger.Log.Error("Failed to write gradebook", zap.Uint("courseID", courseID), zap.Error(err))
		return nil, "", fmt.Errorf("write gradebook: %w", err)
	}

	filename := fmt.Sprintf("gradebook_%s.xlsx", unsafeFilename.ReplaceAllString(course.Name, "_"))
	return buf, filename, nil
}

// writeGradebook lays out the header row and one row per enrolled student.
func writeGradebook(f *excelize.File, assignments []model.Assignment, enrollments []model.Enrollment, grade func(studentID, assignmentID uint) (string, bool)) error {
	lastCol := colName(1 + len(assignments))

	if err := f.SetColWidth(gradebookSheet, "A", "B", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if len(assignments) > 0 {
		if err := f.SetColWidth(gradebookSheet, colName(2), lastCol, 16); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	header := make([]interface{}, 0, 2+len(assignments))
	header = append(header, "Student", "Email")
	for _, a := range assignments {
		header = append(header, a.Title)
	}
	if err := f.SetSheetRow(gradebookSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(gradebookSheet, "A1", cell(lastCol, 1), headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range enrollments {
		values := make([]interface{}, 2+len(assignments))
		if e.Student != nil {
			values[0], values[1] = e.Student.Username, e.Student.Email
		}
		for j, a := range assignments {
			if v, ok := grade(e.StudentID, a.ID); ok {
				values[2+j] = v
			}
		}
		for len(values) > 0 && values[len(values)-1] == nil {
			values = values[:len(values)-1]
		}
		if err := f.SetSheetRow(gradebookSheet, cell("A", i+2), &values); err != nil {
			return fmt.Errorf("write row for student %d: %w", e.StudentID, err)
		}
	}
	return nil
}

// colName converts a zero-based column index to its letter name.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
