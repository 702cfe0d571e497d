package app

import (
	"elearning_backend/docs"
	"elearning_backend/internal/config"
	"elearning_backend/internal/middleware"
	"elearning_backend/internal/policy"
	"elearning_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, resolver middleware.SessionResolver, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. public
	a.registerPublicRoutes(router, c)

	// 2. any signed-in role; services enforce ownership and enrollment
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, resolver))
	{
		a.registerCommonRoutes(authGroup, c)
		a.registerCourseRoutes(authGroup, c)
	}

	// 3. administrators
	a.registerAdminRoutes(authGroup, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerCommonRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/logout", c.auth.Logout)
	rg.GET("/profile", c.auth.GetProfile)
	rg.GET("/dashboard", c.dashboard.GetDashboard)
	rg.GET("/calendar.ics", middleware.RequireAction(policy.CalendarView), c.report.CalendarFeed)

	notifications := rg.Group("/notifications", middleware.RequireAction(policy.NotificationRead))
	{
		notifications.GET("", c.notification.ListNotifications)
		notifications.GET("/unread-count", c.notification.UnreadCount)
		notifications.POST("/read-all", c.notification.MarkAllRead)
		notifications.POST("/:id/read", c.notification.MarkRead)
	}
}

func (a *App) registerCourseRoutes(rg *gin.RouterGroup, c *controllers) {
	courses := rg.Group("/courses")
	{
		courses.GET("", c.course.ListCourses)
		courses.POST("", middleware.RequireAction(policy.CourseCreate), c.course.CreateCourse)
		courses.GET("/:id", c.course.GetCourse)
		courses.DELETE("/:id", middleware.RequireAction(policy.CourseDelete), c.course.DeleteCourse)

		courses.POST("/:id/enroll", middleware.RequireAction(policy.EnrollmentCreate), c.course.Enroll)
		courses.DELETE("/:id/enroll", middleware.RequireAction(policy.EnrollmentDelete), c.course.Withdraw)
		courses.GET("/:id/roster", middleware.RequireAction(policy.RosterView), c.course.Roster)

		courses.GET("/:id/assignments", c.assignment.ListAssignments)
		courses.POST("/:id/assignments", middleware.RequireAction(policy.AssignmentCreate), c.assignment.CreateAssignment)
		courses.GET("/:id/gradebook.xlsx", middleware.RequireAction(policy.GradebookExport), c.report.ExportGradebook)
		courses.POST("/:id/announcements", middleware.RequireAction(policy.NotificationAnnounce), c.notification.Announce)

		courses.GET("/:id/discussions", c.discussion.ListDiscussions)
		courses.POST("/:id/discussions", middleware.RequireAction(policy.DiscussionCreate), c.discussion.CreateDiscussion)
	}

	rg.GET("/discussions/:id", c.discussion.GetDiscussion)
	rg.POST("/discussions/:id/replies", middleware.RequireAction(policy.DiscussionReply), c.discussion.Reply)

	rg.GET("/assignments/:id/submissions", c.assignment.ListSubmissions)
	rg.POST("/assignments/:id/submissions", middleware.RequireAction(policy.SubmissionCreate), c.assignment.Submit)
	rg.POST("/submissions/:id/grade", middleware.RequireAction(policy.SubmissionGrade), c.assignment.Grade)
	rg.GET("/submissions/history", c.assignment.GradingHistory)
	rg.GET("/submissions/:id/attachment", middleware.RequireAction(policy.SubmissionView), c.assignment.DownloadAttachment)
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin", middleware.RequireAction(policy.UserManage))
	{
		admin.GET("/users", c.user.GetUsers)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)

		admin.GET("/role-requests", middleware.RequireAction(policy.RoleRequestDecide), c.user.GetRoleRequests)
		admin.POST("/role-requests/:id/approve", middleware.RequireAction(policy.RoleRequestDecide), c.user.ApproveRoleRequest)
		admin.POST("/role-requests/:id/reject", middleware.RequireAction(policy.RoleRequestDecide), c.user.RejectRoleRequest)
	}
}
