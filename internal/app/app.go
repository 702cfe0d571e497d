package app

import (
	"context"
	"elearning_backend/internal/config"
	"elearning_backend/internal/controller"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/service"
	"elearning_backend/pkg/configwatcher"
	"elearning_backend/pkg/database"
	"elearning_backend/pkg/logger"
	"elearning_backend/pkg/monitoring"
	"elearning_backend/pkg/security"
	"elearning_backend/pkg/tracing"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Store           repository.Store
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	configCallbacks []func(*config.Config)
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	course       *service.CourseService
	enrollment   *service.EnrollmentService
	assignment   *service.AssignmentService
	notification *service.NotificationService
	discussion   *service.DiscussionService
	dashboard    *service.DashboardService
	export       *service.ExportService
	calendar     *service.CalendarService
	storage      *service.StorageService
}

type controllers struct {
	auth         *controller.AuthController
	course       *controller.CourseController
	assignment   *controller.AssignmentController
	notification *controller.NotificationController
	discussion   *controller.DiscussionController
	dashboard    *controller.DashboardController
	user         *controller.UserController
	report       *controller.ReportController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func initServices(store repository.Store, cfg *config.Config, revoker service.TokenRevoker) *services {
	s := &services{}
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(store, cfg, revoker)
	s.user = service.NewUserService(store)
	s.course = service.NewCourseService(store)
	s.enrollment = service.NewEnrollmentService(store)
	s.assignment = service.NewAssignmentService(store, s.storage)
	s.notification = service.NewNotificationService(store)
	s.discussion = service.NewDiscussionService(store)
	s.dashboard = service.NewDashboardService(store)
	s.export = service.NewExportService(store)
	s.calendar = service.NewCalendarService(store)
	return s
}

func initControllers(s *services, cfg *config.Config, store repository.Store, redisPinger controller.Pinger) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, cfg),
		course:       controller.NewCourseController(s.course, s.enrollment),
		assignment:   controller.NewAssignmentController(s.assignment),
		notification: controller.NewNotificationController(s.notification),
		discussion:   controller.NewDiscussionController(s.discussion),
		dashboard:    controller.NewDashboardController(s.dashboard),
		user:         controller.NewUserController(s.user),
		report:       controller.NewReportController(s.export, s.calendar),
		health:       controller.NewHealthController(store, redisPinger),
	}
}

// buildRouter wires services, middleware and routes on top of an opened store.
func (a *App) buildRouter(revoker service.TokenRevoker, redisPinger controller.Pinger) {
	cfg := a.Config
	svc := initServices(a.Store, cfg, revoker)
	ctrls := initControllers(svc, cfg, a.Store, redisPinger)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, ctrls, svc.auth, cfg)

	a.Router = router
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	limiter := security.NewLimiter(cfg.RateLimit.MaxRequests, window)
	go limiter.Run(a.stop)
	router.Use(limiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	gin.SetMode(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Store:  repository.NewStore(db),
		stop:   make(chan struct{}),
	}

	if cfg.MigrateOnly {
		return app
	}

	var revoker service.TokenRevoker
	var redisPinger controller.Pinger
	if rdb != nil {
		r := service.NewRedisTokenRevoker(rdb)
		revoker, redisPinger = r, r
	} else {
		logger.Log.Warn("Redis disabled, revoked tokens are kept in memory only")
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.buildRouter(revoker, redisPinger)
	app.RegisterConfigCallback(logger.SetLevel)

	return app
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	if a.Config.FilePath != "" {
		go func() {
			if err := configwatcher.WatchConfig(watchCtx, a.Config.FilePath, a.applyConfig); err != nil {
				logger.Log.Warn("Config hot reload disabled", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close releases background workers and connections.
func (a *App) Close(ctx context.Context) {
	close(a.stop)
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	logger.Log.Sync()
}
