package service

import (
	"context"
	"testing"

	"elearning_backend/internal/model"
	"elearning_backend/internal/policy"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterStoresOnlyHashedPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, model.Student, res.User.Role)
	assert.Empty(t, res.PendingRole)
	assert.Equal(t, "alice@example.com", res.User.Email)

	stored, err := env.store.Users().FindByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	assert.Equal(t, 1, env.store.countNotifications(res.User.ID), "welcome notification")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrConflict)

	_, err = env.auth.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrConflict)

	users, total, err := env.store.Users().List(ctx, repository.UserQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, users, 1)
}

func TestRegisterValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"empty username", RegisterInput{Username: " ", Email: "a@b.c", Password: "secret1"}},
		{"username shaped like an email", RegisterInput{Username: "carol@x.io", Email: "m@b.c", Password: "secret1"}},
		{"bad email", RegisterInput{Username: "a", Email: "nope", Password: "secret1"}},
		{"short password", RegisterInput{Username: "a", Email: "a@b.c", Password: "123"}},
		{"unknown role", RegisterInput{Username: "a", Email: "a@b.c", Password: "secret1", Role: "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.in)
			assert.ErrorIs(t, err, util.ErrInvalidInput)
		})
	}
}

func TestRegisterElevatedRoleNeedsApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, RegisterInput{Username: "mallory", Email: "m@example.com", Password: "secret1", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, model.Student, res.User.Role, "elevated roles are never self-assigned")
	assert.Equal(t, model.Admin, res.PendingRole)

	pending, err := env.store.RoleRequests().ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, res.User.ID, pending[0].UserID)
	assert.Equal(t, model.Admin, pending[0].RequestedRole)
}

func TestLoginAcceptsUsernameOrEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	for _, ident := range []string{"alice", "alice@example.com"} {
		res, err := env.auth.Login(ctx, ident, "secret1")
		require.NoError(t, err, ident)
		assert.NotEmpty(t, res.Token)
		assert.NotEmpty(t, res.Claims.ID)

		claims, err := util.ParseJWT(res.Token, env.cfg.JWT.Secret)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, claims.UserID)
		assert.Equal(t, model.Student, claims.Role)
	}
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, RegisterInput{Username: "carol", Email: "Carol@X.io", Password: "secret1"})
	require.NoError(t, err)

	res, err := env.auth.Login(ctx, "CAROL@x.IO", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := env.auth.Login(ctx, "alice", "wrong-password")
	_, unknownUser := env.auth.Login(ctx, "nobody", "secret1")

	assert.ErrorIs(t, wrongPassword, util.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, util.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	res, err := env.auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	sess, err := env.auth.ResolveSession(ctx, res.Claims)
	require.NoError(t, err)
	assert.Equal(t, policy.Session{UserID: res.User.ID, Role: model.Student}, sess)

	require.NoError(t, env.auth.Logout(ctx, res.Claims))
	assert.Greater(t, int64(env.revoker.revoked[res.Claims.ID]), int64(0))

	_, err = env.auth.ResolveSession(ctx, res.Claims)
	assert.ErrorIs(t, err, util.ErrUnauthenticated)
}

func TestResolveSessionFollowsRoleChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "root", model.Admin)

	reg, err := env.auth.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1", Role: "instructor"})
	require.NoError(t, err)
	login, err := env.auth.Login(ctx, "bob", "secret1")
	require.NoError(t, err)

	pending, err := env.users.ListRoleRequests(ctx, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	_, err = env.users.DecideRoleRequest(ctx, admin, pending[0].ID, true)
	require.NoError(t, err)

	sess, err := env.auth.ResolveSession(ctx, login.Claims)
	require.NoError(t, err)
	assert.Equal(t, model.Instructor, sess.Role)

	require.NoError(t, env.users.DeleteUser(ctx, admin, reg.User.ID))
	_, err = env.auth.ResolveSession(ctx, login.Claims)
	assert.ErrorIs(t, err, util.ErrUnauthenticated)
}
