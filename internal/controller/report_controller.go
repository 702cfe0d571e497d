package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReportController serves the file downloads: gradebook workbooks and the
// iCalendar due-date feed.
type ReportController struct {
	ExportService   *service.ExportService
	CalendarService *service.CalendarService
}

// NewReportController creates a ReportController.
func NewReportController(exportService *service.ExportService, calendarService *service.CalendarService) *ReportController {
	return &ReportController{ExportService: exportService, CalendarService: calendarService}
}

// ExportGradebook godoc
// @Summary Download a course gradebook
// @Tags Reports
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {file} file "Gradebook workbook"
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/courses/{id}/gradebook.xlsx [get]
func (c *ReportController) ExportGradebook(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	buf, filename, err := c.ExportService.ExportGradebook(ctx.Request.Context(), sess, courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, util.MimeXLSX, buf.Bytes())
}

// CalendarFeed godoc
// @Summary Assignment due dates as an iCalendar feed
// @Tags Reports
// @Produce  text/calendar
// @Security ApiKeyAuth
// @Success 200 {string} string "VCALENDAR"
// @Router /api/calendar.ics [get]
func (c *ReportController) CalendarFeed(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	feed, err := c.CalendarService.Feed(ctx.Request.Context(), sess)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `inline; filename="deadlines.ics"`)
	ctx.Data(http.StatusOK, util.MimeCalendar, []byte(feed))
}
