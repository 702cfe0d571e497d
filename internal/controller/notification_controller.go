package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"fmt"

	"github.com/gin-gonic/gin"
)

// NotificationController serves the notification center and announcements.
type NotificationController struct {
	NotificationService *service.NotificationService
}

// NewNotificationController creates a NotificationController.
func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// swagger:model AnnouncementRequest
type AnnouncementRequest struct {
	Message string `json:"message" form:"message" binding:"required"`
}

// ListNotifications godoc
// @Summary The caller's notifications, newest first
// @Tags Notifications
// @Produce  json
// @Security ApiKeyAuth
// @Param   unread query bool false "Only unread"
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	page := queryInt(ctx, "page", 1)
	limit := queryInt(ctx, "limit", util.DefaultPageSize)
	unreadOnly := ctx.Query("unread") == "true"

	list, total, err := c.NotificationService.List(ctx.Request.Context(), sess, unreadOnly, page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if page < 1 {
		page = 1
	}
	_, size := util.Page(page, limit)
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: size})
}

// UnreadCount godoc
// @Summary Number of unread notifications
// @Tags Notifications
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	n, err := c.NotificationService.UnreadCount(ctx.Request.Context(), sess)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unread": n})
}

// MarkRead godoc
// @Summary Mark one notification as read
// @Tags Notifications
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Notification ID"
// @Success 200 {object} util.Response "Success"
// @Failure 403 {object} util.Response "Not the recipient"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/notifications/{id}/read [post]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.NotificationService.MarkRead(ctx.Request.Context(), sess, id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Notification marked as read", nil)
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Tags Notifications
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/notifications/read-all [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	n, err := c.NotificationService.MarkAllRead(ctx.Request.Context(), sess)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, fmt.Sprintf("%d notifications marked as read", n), gin.H{"updated": n})
}

// Announce godoc
// @Summary Notify every enrolled student of a course
// @Tags Notifications
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Param   body body AnnouncementRequest true "Announcement"
// @Success 201 {object} util.Response{data=object} "Sent"
// @Failure 403 {object} util.Response "Not the owner"
// @Router /api/courses/{id}/announcements [post]
func (c *NotificationController) Announce(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req AnnouncementRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	n, err := c.NotificationService.Announce(ctx.Request.Context(), sess, courseID, req.Message)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, fmt.Sprintf("Announcement sent to %d students", n), gin.H{"recipients": n})
}
