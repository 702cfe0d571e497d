package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"elearning_backend/internal/config"
	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store       *memStore
	cfg         *config.Config
	revoker     *fakeRevoker
	auth        *AuthService
	users       *UserService
	courses     *CourseService
	enrollments *EnrollmentService
	assignments *AssignmentService
	notes       *NotificationService
	discussions *DiscussionService
	dashboard   *DashboardService
	export      *ExportService
	calendar    *CalendarService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{
			Type:        "local",
			LocalPath:   t.TempDir(),
			MaxUploadMB: 1,
		},
	}
	revoker := newFakeRevoker()
	return &testEnv{
		store:       store,
		cfg:         cfg,
		revoker:     revoker,
		auth:        NewAuthService(store, cfg, revoker),
		users:       NewUserService(store),
		courses:     NewCourseService(store),
		enrollments: NewEnrollmentService(store),
		assignments: NewAssignmentService(store, NewStorageService(cfg)),
		notes:       NewNotificationService(store),
		discussions: NewDiscussionService(store),
		dashboard:   NewDashboardService(store),
		export:      NewExportService(store),
		calendar:    NewCalendarService(store),
	}
}

// addUser inserts an account directly, skipping registration and approval.
func (e *testEnv) addUser(t *testing.T, name string, role model.UserRole) policy.Session {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "hash", Role: role}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return policy.Session{UserID: u.ID, Role: role}
}

func (e *testEnv) addCourse(t *testing.T, owner policy.Session, name string) *model.Course {
	t.Helper()
	c, err := e.courses.Create(context.Background(), owner, CreateCourseInput{Name: name, Description: name + " course"})
	require.NoError(t, err)
	return c
}

func (e *testEnv) addAssignment(t *testing.T, owner policy.Session, courseID uint, title string, due time.Time) *model.Assignment {
	t.Helper()
	a, err := e.assignments.CreateAssignment(context.Background(), owner, courseID, CreateAssignmentInput{
		Title:   title,
		DueDate: due.Format(time.RFC3339),
	})
	require.NoError(t, err)
	return a
}

func (e *testEnv) enroll(t *testing.T, student policy.Session, courseID uint) {
	t.Helper()
	_, err := e.enrollments.Enroll(context.Background(), student, courseID)
	require.NoError(t, err)
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]time.Duration{}}
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[jti]
	return ok, nil
}
