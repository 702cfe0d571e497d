// Seeds a demo data set: accounts, courses, assignments and enrollments.
//
// Usage: go run scripts/seed_demo.go [-config configs] [-scenario scripts/demo_scenario.yaml]
//
// Re-running is safe; rows that already exist are skipped.

package main

import (
	"context"
	"elearning_backend/internal/config"
	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/database"
	"elearning_backend/pkg/logger"
	"errors"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type scenario struct {
	Users []struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
	Courses []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Instructor  string   `yaml:"instructor"`
		Students    []string `yaml:"students"`
		Assignments []struct {
			Title       string `yaml:"title"`
			Description string `yaml:"description"`
			Due         string `yaml:"due"`
		} `yaml:"assignments"`
	} `yaml:"courses"`
}

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	scenarioPath := flag.String("scenario", "scripts/demo_scenario.yaml", "demo data file")
	flag.Parse()

	data, err := os.ReadFile(*scenarioPath)
	if err != nil {
		log.Fatalf("read scenario: %v", err)
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		log.Fatalf("parse scenario: %v", err)
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ForceMigrate = true
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("open database", zap.Error(err))
	}

	ctx := context.Background()
	store := repository.NewStore(db)
	auth := service.NewAuthService(store, cfg, nil)
	users := service.NewUserService(store)
	courses := service.NewCourseService(store)
	assignments := service.NewAssignmentService(store, nil)
	enrollments := service.NewEnrollmentService(store)

	admins, _, err := store.Users().List(ctx, repository.UserQuery{Role: model.Admin, Limit: 1})
	if err != nil || len(admins) == 0 {
		logger.Log.Fatal("an administrator is required, set admin.* in the config", zap.Error(err))
	}
	adminSess := policy.Session{UserID: admins[0].ID, Role: model.Admin}

	for _, u := range sc.Users {
		_, err := auth.Register(ctx, service.RegisterInput{Username: u.Username, Email: u.Email, Password: u.Password, Role: u.Role})
		if skip(err, "user", u.Username) {
			continue
		}
		logger.Log.Info("Registered", zap.String("username", u.Username))
	}

	pending, err := store.RoleRequests().ListPending(ctx)
	if err != nil {
		logger.Log.Fatal("list role requests", zap.Error(err))
	}
	for _, req := range pending {
		if _, err := users.DecideRoleRequest(ctx, adminSess, req.ID, true); err != nil {
			logger.Log.Warn("Approve role request", zap.Uint("requestID", req.ID), zap.Error(err))
		}
	}

	for _, c := range sc.Courses {
		instructor, err := sessionFor(ctx, store, c.Instructor)
		if err != nil {
			logger.Log.Fatal("resolve instructor", zap.String("username", c.Instructor), zap.Error(err))
		}
		course, err := courses.Create(ctx, instructor, service.CreateCourseInput{Name: c.Name, Description: c.Description})
		if skip(err, "course", c.Name) {
			continue
		}

		for _, a := range c.Assignments {
			_, err := assignments.CreateAssignment(ctx, instructor, course.ID, service.CreateAssignmentInput{
				Title:       a.Title,
				Description: a.Description,
				DueDate:     a.Due,
			})
			skip(err, "assignment", a.Title)
		}

		for _, username := range c.Students {
			student, err := sessionFor(ctx, store, username)
			if err != nil {
				logger.Log.Warn("Unknown student", zap.String("username", username), zap.Error(err))
				continue
			}
			_, err = enrollments.Enroll(ctx, student, course.ID)
			skip(err, "enrollment", username)
		}
		logger.Log.Info("Seeded course", zap.String("course", c.Name))
	}

	logger.Log.Info("Demo data ready")
}

func sessionFor(ctx context.Context, store repository.Store, username string) (policy.Session, error) {
	u, err := store.Users().FindByIdentifier(ctx, username)
	if err != nil {
		return policy.Session{}, err
	}
	return policy.Session{UserID: u.ID, Role: u.Role}, nil
}

// skip reports whether err means the step should be skipped, exiting on
// anything other than an existing row.
func skip(err error, kind, name string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, util.ErrConflict) {
		logger.Log.Info("Already present, skipping", zap.String("kind", kind), zap.String("name", name))
		return true
	}
	logger.Log.Fatal("Seeding failed", zap.String("kind", kind), zap.String("name", name), zap.Error(err))
	return true
}
