package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserController serves the administrator's account and role-request screens.
type UserController struct {
	UserService *service.UserService
}

// NewUserController creates a UserController.
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateUserRequest only changes the fields that are present.
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Username *string `json:"username" form:"username" binding:"omitempty,max=150"`
	Email    *string `json:"email" form:"email" binding:"omitempty,email,max=150"`
	Role     *string `json:"role" form:"role" binding:"omitempty,role"`
}

// GetUsers godoc
// @Summary List accounts
// @Tags Admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   role query string false "Role filter"
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Failure 403 {object} util.Response "Admins only"
// @Router /api/admin/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := queryInt(ctx, "limit", util.DefaultPageSize)

	users, total, err := c.UserService.ListUsers(ctx.Request.Context(), sess, ctx.Query("role"), page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	_, size := util.Page(page, limit)
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: size})
}

// UpdateUser godoc
// @Summary Update an account
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "User ID"
// @Param   body body UpdateUserRequest true "Changes"
// @Success 200 {object} util.Response{data=model.User} "Updated"
// @Failure 403 {object} util.Response "Cannot demote yourself"
// @Failure 409 {object} util.Response "Username or email taken"
// @Router /api/admin/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	user, err := c.UserService.UpdateUser(ctx.Request.Context(), sess, id, service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "User updated successfully", user)
}

// DeleteUser godoc
// @Summary Delete an account and everything it owns
// @Tags Admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "User ID"
// @Success 200 {object} util.Response "Deleted"
// @Failure 403 {object} util.Response "Cannot delete yourself"
// @Failure 404 {object} util.Response "Not found"
// @Router /api/admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.UserService.DeleteUser(ctx.Request.Context(), sess, id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "User deleted", nil)
}

// GetRoleRequests godoc
// @Summary Pending elevated-role requests
// @Tags Admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.RoleRequest} "Success"
// @Router /api/admin/role-requests [get]
func (c *UserController) GetRoleRequests(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	requests, err := c.UserService.ListRoleRequests(ctx.Request.Context(), sess)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, requests)
}

// ApproveRoleRequest godoc
// @Summary Approve an elevated-role request
// @Tags Admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Request ID"
// @Success 200 {object} util.Response{data=model.RoleRequest} "Approved"
// @Failure 409 {object} util.Response "Already decided"
// @Router /api/admin/role-requests/{id}/approve [post]
func (c *UserController) ApproveRoleRequest(ctx *gin.Context) {
	c.decide(ctx, true)
}

// RejectRoleRequest godoc
// @Summary Reject an elevated-role request
// @Tags Admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Request ID"
// @Success 200 {object} util.Response{data=model.RoleRequest} "Rejected"
// @Failure 409 {object} util.Response "Already decided"
// @Router /api/admin/role-requests/{id}/reject [post]
func (c *UserController) RejectRoleRequest(ctx *gin.Context) {
	c.decide(ctx, false)
}

func (c *UserController) decide(ctx *gin.Context, approve bool) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	req, err := c.UserService.DecideRoleRequest(ctx.Request.Context(), sess, id, approve)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	message := "Role request rejected"
	if approve {
		message = "Role request approved"
	}
	util.SuccessWithMessage(ctx, message, req)
}
