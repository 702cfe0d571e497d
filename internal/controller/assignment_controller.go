package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// AssignmentController serves assignment and submission routes.
type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

// NewAssignmentController creates an AssignmentController.
func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// swagger:model CreateAssignmentRequest
type CreateAssignmentRequest struct {
	Title       string `json:"title" form:"title" binding:"required,max=200"`
	Description string `json:"description" form:"description"`
	// DueDate accepts YYYY-MM-DDTHH:MM or RFC 3339.
	DueDate string `json:"dueDate" form:"due_date" binding:"required"`
}

// swagger:model SubmitRequest
type SubmitRequest struct {
	Content string `json:"content" form:"content"`
}

// swagger:model GradeRequest
type GradeRequest struct {
	Grade string `json:"grade" form:"grade" binding:"required,max=10"`
}

// ListAssignments godoc
// @Summary Assignments of a course
// @Tags Assignments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Assignment} "Success"
// @Failure 403 {object} util.Response "No access"
// @Router /api/courses/{id}/assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	assignments, err := c.AssignmentService.ListAssignments(ctx.Request.Context(), sess, courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// CreateAssignment godoc
// @Summary Create an assignment
// @Tags Assignments
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Param   body body CreateAssignmentRequest true "Assignment"
// @Success 201 {object} util.Response{data=model.Assignment} "Created"
// @Failure 400 {object} util.Response "Invalid due date"
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/courses/{id}/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req CreateAssignmentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	assignment, err := c.AssignmentService.CreateAssignment(ctx.Request.Context(), sess, courseID, service.CreateAssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, "Assignment created successfully", assignment)
}

// Submit godoc
// @Summary Submit work for an assignment
// @Description Accepts form fields, optionally multipart with an "attachment" file
// @Tags Submissions
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assignment ID"
// @Param   content formData string false "Submission text"
// @Param   attachment formData file false "Attachment"
// @Success 201 {object} util.Response{data=model.Submission} "Submitted"
// @Failure 403 {object} util.Response "Not enrolled"
// @Router /api/assignments/{id}/submissions [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	assignmentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req SubmitRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}

	in := service.SubmitInput{Content: req.Content}
	fileHeader, err := ctx.FormFile("attachment")
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			util.BadRequest(ctx, "could not read attachment")
			return
		}
		defer file.Close()
		in.Attachment = &service.Attachment{Filename: fileHeader.Filename, Size: fileHeader.Size, File: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		util.BadRequest(ctx, "could not read attachment")
		return
	}

	submission, err := c.AssignmentService.Submit(ctx.Request.Context(), sess, assignmentID, in)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, "Assignment submitted successfully", submission)
}

// ListSubmissions godoc
// @Summary Submissions for an assignment
// @Description Students only see their own submissions
// @Tags Submissions
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Assignment ID"
// @Success 200 {object} util.Response{data=[]model.Submission} "Success"
// @Router /api/assignments/{id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	assignmentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	submissions, err := c.AssignmentService.ListSubmissions(ctx.Request.Context(), sess, assignmentID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// Grade godoc
// @Summary Grade a submission
// @Description Re-grading overwrites the previous grade
// @Tags Submissions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Submission ID"
// @Param   body body GradeRequest true "Grade"
// @Success 200 {object} util.Response{data=model.Submission} "Graded"
// @Failure 403 {object} util.Response "Not the course instructor"
// @Router /api/submissions/{id}/grade [post]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	submissionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req GradeRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	submission, err := c.AssignmentService.Grade(ctx.Request.Context(), sess, submissionID, req.Grade)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Submission graded successfully", submission)
}

// GradingHistory godoc
// @Summary The calling student's graded submissions
// @Tags Submissions
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Submission} "Success"
// @Router /api/submissions/history [get]
func (c *AssignmentController) GradingHistory(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	submissions, err := c.AssignmentService.GradingHistory(ctx.Request.Context(), sess)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// DownloadAttachment godoc
// @Summary Download a submission's attachment
// @Tags Submissions
// @Produce  octet-stream
// @Security ApiKeyAuth
// @Param   id path int true "Submission ID"
// @Success 200 {file} file "Attachment"
// @Failure 403 {object} util.Response "Not the submitter, course owner or an admin"
// @Failure 404 {object} util.Response "No attachment"
// @Router /api/submissions/{id}/attachment [get]
func (c *AssignmentController) DownloadAttachment(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	submission, body, err := c.AssignmentService.OpenAttachment(ctx.Request.Context(), sess, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	defer body.Close()

	contentType := submission.AttachmentType
	if contentType == "" {
		contentType = util.MimeOctetStream
	}
	ctx.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="submission-%d%s"`, submission.ID, path.Ext(submission.AttachmentKey)),
		"Cache-Control":       "private, no-store",
	})
}
