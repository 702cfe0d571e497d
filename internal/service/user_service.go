package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"

	"go.uber.org/zap"
)

// UserService holds the administrator operations on accounts.
type UserService struct {
	Store repository.Store
}

// NewUserService creates a UserService.
func NewUserService(store repository.Store) *UserService {
	return &UserService{Store: store}
}

// UpdateUserInput holds the fields an administrator changes; nil fields stay as they are.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Role     *string
}

func (s *UserService) ListUsers(ctx context.Context, sess policy.Session, role string, page, limit int) ([]model.User, int64, error) {
	if err := policy.Authorize(sess, policy.UserManage); err != nil {
		return nil, 0, err
	}

	q := repository.UserQuery{}
	if role != "" {
		r, err := model.ParseRole(role)
		if err != nil {
			return nil, 0, invalid("%v", err)
		}
		q.Role = r
	}
	q.Offset, q.Limit = util.Page(page, limit)

	users, total, err := s.Store.Users().List(ctx, q)
	if err != nil {
		return nil, 0, storeErr(err, "list users")
	}
	return users, total, nil
}

// UpdateUser edits username, email or role. An administrator cannot take the
// admin role away from themselves, and an instructor who still owns courses
// keeps the instructor role. Setting a role directly closes any pending role
// request of the user as rejected.
func (s *UserService) UpdateUser(ctx context.Context, sess policy.Session, id uint, in UpdateUserInput) (*model.User, error) {
	if err := policy.Authorize(sess, policy.UserManage); err != nil {
		return nil, err
	}

	user, err := s.Store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user %d", id)
	}
	previous := user.Role

	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if err := validUsername(name); err != nil {
			return nil, err
		}
		user.Username = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if !strings.Contains(email, "@") {
			return nil, invalid("email address is not valid")
		}
		user.Email = email
	}
	if in.Role != nil {
		role, err := model.ParseRole(*in.Role)
		if err != nil {
			return nil, invalid("%v", err)
		}
		if id == sess.UserID && role != model.Admin {
			return nil, policy.Require(false, "administrators cannot demote themselves")
		}
		user.Role = role
	}

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		if err := ensureNoOwnedCourses(ctx, tx, user.ID, previous, user.Role); err != nil {
			return err
		}
		if err := tx.Users().Update(ctx, user); err != nil {
			return storeErr(err, "username or email already in use")
		}
		if in.Role == nil {
			return nil
		}
		return closeRoleRequests(ctx, tx, sess.UserID, user.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User updated by admin",
		zap.Uint("adminID", sess.UserID),
		zap.Uint("userID", user.ID),
		zap.String("role", string(user.Role)))
	return user, nil
}

// DeleteUser removes the account and cascades through everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, sess policy.Session, id uint) error {
	if err := policy.Authorize(sess, policy.UserManage); err != nil {
		return err
	}
	if err := policy.Require(id != sess.UserID, "administrators cannot delete their own account"); err != nil {
		return err
	}

	if _, err := s.Store.Users().FindByID(ctx, id); err != nil {
		return storeErr(err, "user %d", id)
	}

	err := s.Store.Transaction(ctx, func(tx repository.Store) error {
		return purgeUser(ctx, tx, id)
	})
	if err != nil {
		logger.Log.Error("Failed to delete user", zap.Uint("userID", id), zap.Error(err))
		return err
	}

	logger.Log.Info("User deleted", zap.Uint("adminID", sess.UserID), zap.Uint("userID", id))
	return nil
}

func (s *UserService) ListRoleRequests(ctx context.Context, sess policy.Session) ([]model.RoleRequest, error) {
	if err := policy.Authorize(sess, policy.RoleRequestDecide); err != nil {
		return nil, err
	}
	reqs, err := s.Store.RoleRequests().ListPending(ctx)
	if err != nil {
		return nil, storeErr(err, "list role requests")
	}
	return reqs, nil
}

// DecideRoleRequest approves or rejects a pending request. Approval changes the
// user's role; the requester is notified either way.
func (s *UserService) DecideRoleRequest(ctx context.Context, sess policy.Session, id uint, approve bool) (*model.RoleRequest, error) {
	if err := policy.Authorize(sess, policy.RoleRequestDecide); err != nil {
		return nil, err
	}

	var req *model.RoleRequest
	err := s.Store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		req, err = tx.RoleRequests().FindByID(ctx, id)
		if err != nil {
			return storeErr(err, "role request %d", id)
		}
		if req.Status != model.RoleRequestPending {
			return fmt.Errorf("%w: role request %d was already %s", util.ErrConflict, id, req.Status)
		}

		now := time.Now()
		decidedBy := sess.UserID
		req.DecidedBy = &decidedBy
		req.DecidedAt = &now

		verdict := "rejected"
		req.Status = model.RoleRequestRejected
		if approve {
			verdict = "approved"
			req.Status = model.RoleRequestApproved

			user, err := tx.Users().FindByID(ctx, req.UserID)
			if err != nil {
				return storeErr(err, "user %d", req.UserID)
			}
			if err := ensureNoOwnedCourses(ctx, tx, user.ID, user.Role, req.RequestedRole); err != nil {
				return err
			}
			user.Role = req.RequestedRole
			if err := tx.Users().Update(ctx, user); err != nil {
				return storeErr(err, "update role of user %d", user.ID)
			}
		}

		if err := tx.RoleRequests().Update(ctx, req); err != nil {
			return storeErr(err, "update role request %d", id)
		}
		return notify(ctx, tx, req.UserID, "Your request for the %s role was %s.", req.RequestedRole, verdict)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Role request decided",
		zap.Uint("requestID", req.ID),
		zap.Uint("userID", req.UserID),
		zap.String("status", string(req.Status)))
	return req, nil
}

// ensureNoOwnedCourses refuses to move an instructor off the instructor role
// while any course still names them as its owner.
func ensureNoOwnedCourses(ctx context.Context, store repository.Store, userID uint, from, to model.UserRole) error {
	if from != model.Instructor || to == model.Instructor {
		return nil
	}
	owned, err := store.Courses().List(ctx, repository.CourseQuery{InstructorID: userID})
	if err != nil {
		return storeErr(err, "courses of user %d", userID)
	}
	if len(owned) > 0 {
		return fmt.Errorf("%w: user %d still owns %d course(s)", util.ErrConflict, userID, len(owned))
	}
	return nil
}

// closeRoleRequests rejects the user's pending requests after an
// administrator set the role directly.
func closeRoleRequests(ctx context.Context, tx repository.Store, adminID, userID uint) error {
	pending, err := tx.RoleRequests().ListPending(ctx)
	if err != nil {
		return storeErr(err, "pending role requests")
	}
	now := time.Now()
	for i := range pending {
		req := &pending[i]
		if req.UserID != userID {
			continue
		}
		decidedBy := adminID
		req.Status = model.RoleRequestRejected
		req.DecidedBy = &decidedBy
		req.DecidedAt = &now
		if err := tx.RoleRequests().Update(ctx, req); err != nil {
			return storeErr(err, "update role request %d", req.ID)
		}
		if err := notify(ctx, tx, userID, "Your request for the %s role was closed because an administrator set your role.", req.RequestedRole); err != nil {
			return err
		}
	}
	return nil
}
