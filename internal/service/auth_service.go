package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"elearning_backend/internal/config"
	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"elearning_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	maxUsernameLen = 150
)

// RegisterInput is the raw registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// RegisterResult is the created account plus any role still awaiting approval.
type RegisterResult struct {
	User *model.User
	// PendingRole is set when the account asked for an elevated role that
	// still needs an administrator's approval.
	PendingRole model.UserRole
}

// LoginResult holds the signed token together with the account it was issued for.
type LoginResult struct {
	Token  string
	Claims *util.Claims
	User   *model.User
}

// AuthService registers accounts and issues and revokes sessions.
type AuthService struct {
	Store   repository.Store
	Cfg     *config.Config
	Revoker TokenRevoker
}

// NewAuthService creates an AuthService. A nil revoker falls back to the in-process denylist.
func NewAuthService(store repository.Store, cfg *config.Config, revoker TokenRevoker) *AuthService {
	if revoker == nil {
		revoker = NewMemoryTokenRevoker()
	}
	return &AuthService{
		Store:   store,
		Cfg:     cfg,
		Revoker: revoker,
	}
}

// Register creates a student account. Asking for instructor or admin files a
// role request instead of granting the role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := validUsername(username); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") || len(email) > maxUsernameLen {
		return nil, invalid("email address is not valid")
	}
	if len(in.Password) < minPasswordLen {
		return nil, invalid("password must be at least %d characters", minPasswordLen)
	}

	requested := model.Student
	if in.Role != "" {
		r, err := model.ParseRole(in.Role)
		if err != nil {
			return nil, invalid("%v", err)
		}
		requested = r
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.Student,
	}
	result := &RegisterResult{User: user}

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return storeErr(err, "username or email already registered")
		}
		if err := notify(ctx, tx, user.ID, "Welcome to the course platform, %s!", user.Username); err != nil {
			return err
		}
		if !requested.Elevated() {
			return nil
		}

		req := &model.RoleRequest{
			UserID:        user.ID,
			RequestedRole: requested,
			Status:        model.RoleRequestPending,
		}
		if err := tx.RoleRequests().Create(ctx, req); err != nil {
			return storeErr(err, "create role request")
		}
		result.PendingRole = requested
		return notify(ctx, tx, user.ID, "Your request for the %s role is awaiting administrator approval.", requested)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User registered",
		zap.Uint("userID", user.ID),
		zap.String("username", user.Username),
		zap.String("requestedRole", string(requested)))
	return result, nil
}

// validUsername keeps usernames out of the email namespace so that a login
// identifier always resolves to at most one account.
func validUsername(name string) error {
	if name == "" || len(name) > maxUsernameLen {
		return invalid("username must be 1-%d characters", maxUsernameLen)
	}
	if strings.Contains(name, "@") {
		return invalid("username must not contain @")
	}
	return nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy burns the same bcrypt work as a real check so that unknown
// usernames cannot be told apart by response time.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login accepts a username or an email address. Every failure is reported as
// the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}
	if identifier == "" || password == "" {
		monitoring.LoginCounter.WithLabelValues("failure").Inc()
		return nil, util.ErrInvalidCredentials
	}

	user, err := s.Store.Users().FindByIdentifier(ctx, identifier)
	if err != nil {
		if mapped := storeErr(err, "user"); !isNotFound(mapped) {
			return nil, mapped
		}
		compareDummy(password)
		monitoring.LoginCounter.WithLabelValues("failure").Inc()
		return nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		monitoring.LoginCounter.WithLabelValues("failure").Inc()
		return nil, util.ErrInvalidCredentials
	}

	token, claims, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	monitoring.LoginCounter.WithLabelValues("success").Inc()
	return &LoginResult{Token: token, Claims: claims, User: user}, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.Revoker.Revoke(ctx, claims.ID, ttl)
}

func (s *AuthService) Profile(ctx context.Context, sess policy.Session) (*model.User, error) {
	user, err := s.Store.Users().FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr(err, "user %d", sess.UserID)
	}
	return user, nil
}

// ResolveSession turns verified token claims into a Session. The role comes
// from the database, so approvals and demotions apply without a new login and
// deleted accounts lose access immediately.
func (s *AuthService) ResolveSession(ctx context.Context, claims *util.Claims) (policy.Session, error) {
	if claims == nil {
		return policy.Session{}, util.ErrUnauthenticated
	}
	if claims.ID != "" {
		revoked, err := s.Revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return policy.Session{}, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return policy.Session{}, fmt.Errorf("%w: session has been logged out", util.ErrUnauthenticated)
		}
	}

	user, err := s.Store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(storeErr(err, "user")) {
			return policy.Session{}, fmt.Errorf("%w: account no longer exists", util.ErrUnauthenticated)
		}
		return policy.Session{}, err
	}
	return policy.Session{UserID: user.ID, Role: user.Role}, nil
}
