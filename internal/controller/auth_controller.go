package controller

import (
	"elearning_backend/internal/config"
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthController serves registration, login, logout and the profile.
type AuthController struct {
	AuthService *service.AuthService
	Cfg         *config.Config
}

// NewAuthController creates an AuthController; cfg supplies the cookie settings.
func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{AuthService: authService, Cfg: cfg}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=150"`
	Email    string `json:"email" form:"email" binding:"required,email,max=150"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Role     string `json:"role" form:"role" binding:"omitempty,role"`
}

// Register godoc
// @Summary Register a new account
// @Description Elevated roles are granted once an administrator approves the request
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "Registration details"
// @Success 201 {object} util.Response{data=object} "Created"
// @Failure 400 {object} util.Response "Invalid input"
// @Failure 409 {object} util.Response "Username or email taken"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}

	res, err := c.AuthService.Register(ctx.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	message := "Registration successful, please log in"
	if res.PendingRole != "" {
		message = fmt.Sprintf("Registration successful, your %s request is awaiting approval", res.PendingRole)
	}
	util.Created(ctx, message, gin.H{"id": res.User.ID, "pendingRole": res.PendingRole})
}

// swagger:model LoginRequest
type LoginRequest struct {
	// Identifier is a username or an email address.
	Identifier string `json:"identifier" form:"identifier" binding:"required"`
	Password   string `json:"password" form:"password" binding:"required"`
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials, returns a JWT and sets it as an HttpOnly cookie
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Credentials"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Invalid input"
// @Failure 401 {object} util.Response "Invalid credentials"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}

	res, err := c.AuthService.Login(ctx.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	maxAge := int(time.Until(res.Claims.ExpiresAt.Time).Seconds())
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Cfg.JWT.CookieName, res.Token, maxAge, "/", "", c.Cfg.JWT.CookieSecure, true)

	util.SuccessWithMessage(ctx, "Welcome back, "+res.User.Username, gin.H{
		"token":     res.Token,
		"expiresAt": res.Claims.ExpiresAt.Time,
		"user":      res.User,
	})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the current token and clears the session cookie
// @Tags Auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.AuthService.Logout(ctx.Request.Context(), claims); err != nil {
		util.RespondError(ctx, err)
		return
	}
	ctx.SetCookie(c.Cfg.JWT.CookieName, "", -1, "/", "", c.Cfg.JWT.CookieSecure, true)
	util.SuccessWithMessage(ctx, "You have been logged out", nil)
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags Auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	user, err := c.AuthService.Profile(ctx.Request.Context(), sess)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
