package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DiscussionController serves discussion threads and replies.
type DiscussionController struct {
	DiscussionService *service.DiscussionService
}

// NewDiscussionController creates a DiscussionController.
func NewDiscussionController(discussionService *service.DiscussionService) *DiscussionController {
	return &DiscussionController{DiscussionService: discussionService}
}

// swagger:model CreateDiscussionRequest
type CreateDiscussionRequest struct {
	Title   string `json:"title" form:"title" binding:"required,max=200"`
	Content string `json:"content" form:"content"`
}

// swagger:model ReplyRequest
type ReplyRequest struct {
	Content string `json:"content" form:"content" binding:"required"`
}

// ListDiscussions godoc
// @Summary Discussion threads of a course
// @Tags Discussions
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Discussion} "Success"
// @Router /api/courses/{id}/discussions [get]
func (c *DiscussionController) ListDiscussions(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	threads, err := c.DiscussionService.List(ctx.Request.Context(), sess, courseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, threads)
}

// CreateDiscussion godoc
// @Summary Start a discussion thread
// @Tags Discussions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Param   body body CreateDiscussionRequest true "Thread"
// @Success 201 {object} util.Response{data=model.Discussion} "Created"
// @Failure 403 {object} util.Response "Not a participant"
// @Router /api/courses/{id}/discussions [post]
func (c *DiscussionController) CreateDiscussion(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req CreateDiscussionRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	discussion, err := c.DiscussionService.Create(ctx.Request.Context(), sess, courseID, service.CreateDiscussionInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, "Discussion created successfully", discussion)
}

// GetDiscussion godoc
// @Summary A discussion thread with its replies
// @Tags Discussions
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Discussion ID"
// @Success 200 {object} util.Response{data=model.Discussion} "Success"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/discussions/{id} [get]
func (c *DiscussionController) GetDiscussion(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	discussion, err := c.DiscussionService.Get(ctx.Request.Context(), sess, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, discussion)
}

// Reply godoc
// @Summary Reply to a discussion
// @Tags Discussions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Discussion ID"
// @Param   body body ReplyRequest true "Reply"
// @Success 201 {object} util.Response{data=model.Reply} "Created"
// @Failure 403 {object} util.Response "Not a participant"
// @Router /api/discussions/{id}/replies [post]
func (c *DiscussionController) Reply(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req ReplyRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	reply, err := c.DiscussionService.Reply(ctx.Request.Context(), sess, id, req.Content)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, "Reply posted", reply)
}
