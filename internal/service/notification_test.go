package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

func TestNotificationService(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := env.notifier

	alice := env.createUser(t, "alice", domain.RoleVolunteer, true)
	bob := env.createUser(t, "bob", domain.RoleVolunteer, true)

	require.NoError(t, svc.Notify(ctx, alice.ID, "first", "/events/1"))
	require.NoError(t, svc.Notify(ctx, alice.ID, "second", "/events/2"))

	feed, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	count, err := svc.UnreadCount(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	target := feed[0]
	_, err = svc.MarkRead(ctx, bob, target.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	link, err := svc.MarkRead(ctx, alice, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.Link, link)
	assert.EqualValues(t, 1, env.unread(t, alice.ID))

	n, err := svc.MarkAllRead(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Zero(t, env.unread(t, alice.ID))
}

func TestNotificationService_NotifyStaff(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	recipients := []domain.User{
		env.createUser(t, "moderator", domain.RoleModerator, true),
		env.createUser(t, "president", domain.RolePresident, true),
		env.createUser(t, "worker", domain.RoleWorker, true),
		env.createUser(t, "head", domain.RoleHeadAdmin, true),
		env.createSuperuser(t, "root"),
	}
	others := []domain.User{
		env.createUser(t, "leader", domain.RoleLeader, true),
		env.createUser(t, "volunteer", domain.RoleVolunteer, true),
	}

	require.NoError(t, env.notifier.NotifyStaff(ctx, "review please", "/moderation"))

	for _, u := range recipients {
		assert.EqualValues(t, 1, env.unread(t, u.ID), u.Username)
	}
	for _, u := range others {
		assert.Zero(t, env.unread(t, u.ID), u.Username)
	}
}
