package service

import (
	"context"
	"strings"
	"testing"

	"elearning_backend/internal/model"
	"elearning_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkReadOnlyByRecipient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := env.addUser(t, "bob", model.Instructor)
	alice := env.addUser(t, "alice", model.Student)
	course := env.addCourse(t, bob, "CS101")
	env.enroll(t, alice, course.ID)

	ns, total, err := env.notes.List(ctx, bob, false, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	id := ns[0].ID

	err = env.notes.MarkRead(ctx, alice, id)
	assert.ErrorIs(t, err, util.ErrForbidden)
	n, err := env.store.Notifications().FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, n.IsRead)

	require.NoError(t, env.notes.MarkRead(ctx, bob, id))
	n, err = env.store.Notifications().FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	// marking twice is harmless
	require.NoError(t, env.notes.MarkRead(ctx, bob, id))

	err = env.notes.MarkRead(ctx, bob, 4242)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestUnreadCountAndMarkAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := env.addUser(t, "bob", model.Instructor)
	for _, name := range []string{"alice", "dave", "erin"} {
		s := env.addUser(t, name, model.Student)
		course := env.addCourse(t, bob, "C-"+name)
		env.enroll(t, s, course.ID)
	}

	unread, err := env.notes.UnreadCount(ctx, bob)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	onlyUnread, total, err := env.notes.List(ctx, bob, true, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, onlyUnread, 2)

	n, err := env.notes.MarkAllRead(ctx, bob)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	unread, err = env.notes.UnreadCount(ctx, bob)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestAnnounce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := env.addUser(t, "bob", model.Instructor)
	carol := env.addUser(t, "carol", model.Instructor)
	alice := env.addUser(t, "alice", model.Student)
	dave := env.addUser(t, "dave", model.Student)
	outsider := env.addUser(t, "erin", model.Student)
	course := env.addCourse(t, bob, "CS101")
	env.enroll(t, alice, course.ID)
	env.enroll(t, dave, course.ID)

	sent, err := env.notes.Announce(ctx, bob, course.ID, "Exam moved to Friday")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	ns, _, err := env.notes.List(ctx, alice, false, 1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, ns)
	assert.Equal(t, "[CS101] Exam moved to Friday", ns[0].Message)
	assert.Zero(t, env.store.countNotifications(outsider.UserID))

	_, err = env.notes.Announce(ctx, carol, course.ID, "hijack")
	assert.ErrorIs(t, err, util.ErrForbidden)
	_, err = env.notes.Announce(ctx, alice, course.ID, "hi all")
	assert.ErrorIs(t, err, util.ErrForbidden)
	_, err = env.notes.Announce(ctx, bob, course.ID, "  ")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = env.notes.Announce(ctx, bob, course.ID, strings.Repeat("x", 600))
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}
