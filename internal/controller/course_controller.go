package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CourseController serves the catalog and enrollment routes.
type CourseController struct {
	CourseService     *service.CourseService
	EnrollmentService *service.EnrollmentService
}

// NewCourseController creates a CourseController.
func NewCourseController(courseService *service.CourseService, enrollmentService *service.EnrollmentService) *CourseController {
	return &CourseController{CourseService: courseService, EnrollmentService: enrollmentService}
}

// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Name        string `json:"name" form:"name" binding:"required,max=150"`
	Description string `json:"description" form:"description"`
}

// ListCourses godoc
// @Summary List courses
// @Description Students see the catalog (view=enrolled|available narrows it), instructors their own courses (view=catalog for all), admins everything
// @Tags Courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   view query string false "catalog, enrolled, available or owned"
// @Param   q query string false "Name or description search"
// @Success 200 {object} util.Response{data=[]model.Course} "Success"
// @Failure 400 {object} util.Response "Unknown view"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	view, err := service.ParseCourseView(ctx.Query("view"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	courses, err := c.CourseService.List(ctx.Request.Context(), sess, view, ctx.Query("q"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags Courses
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateCourseRequest true "Course"
// @Success 201 {object} util.Response{data=model.Course} "Created"
// @Failure 403 {object} util.Response "Only instructors create courses"
// @Failure 409 {object} util.Response "Name taken"
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	var req CreateCourseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	course, err := c.CourseService.Create(ctx.Request.Context(), sess, service.CreateCourseInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, "Course created successfully", course)
}

// GetCourse godoc
// @Summary Course details
// @Tags Courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.Get(ctx.Request.Context(), sess, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Removes the course with its enrollments, assignments, submissions and discussions
// @Tags Courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response "Deleted"
// @Failure 403 {object} util.Response "Not the owner"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.Delete(ctx.Request.Context(), sess, id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Course deleted", nil)
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags Enrollment
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 201 {object} util.Response{data=model.Enrollment} "Enrolled"
// @Failure 403 {object} util.Response "Only students enroll"
// @Failure 409 {object} util.Response "Already enrolled"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	enrollment, err := c.EnrollmentService.Enroll(ctx.Request.Context(), sess, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	message := "Successfully enrolled"
	if enrollment.Course != nil {
		message = "Successfully enrolled in " + enrollment.Course.Name
	}
	util.Created(ctx, message, enrollment)
}

// Withdraw godoc
// @Summary Withdraw from a course
// @Tags Enrollment
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response "Withdrawn"
// @Failure 404 {object} util.Response "Not enrolled"
// @Router /api/courses/{id}/enroll [delete]
func (c *CourseController) Withdraw(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.EnrollmentService.Withdraw(ctx.Request.Context(), sess, id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "You have withdrawn from the course", nil)
}

// Roster godoc
// @Summary Students enrolled in a course
// @Tags Enrollment
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment} "Success"
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/courses/{id}/roster [get]
func (c *CourseController) Roster(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	roster, err := c.EnrollmentService.Roster(ctx.Request.Context(), sess, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, roster)
}
