package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

func TestProfileService_SubmitWithoutChanges(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewProfileService(env.users, env.store, env.notifier)

	moderator := env.createUser(t, "moderator", domain.RoleModerator, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)

	updated, err := svc.SubmitOwnChanges(context.Background(), volunteer, volunteer.Profile, nil)
	require.NoError(t, err)

	assert.False(t, updated.HasPendingChanges())
	assert.Zero(t, env.unread(t, moderator.ID))
}

func TestProfileService_PhotoBypassesModeration(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewProfileService(env.users, env.store, env.notifier)

	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)
	data := []byte("fake image")

	updated, err := svc.SubmitOwnChanges(context.Background(), volunteer, volunteer.Profile, &Upload{
		Filename:    "me.JPG",
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
		Reader:      bytes.NewReader(data),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, updated.PhotoKey)
	assert.Contains(t, updated.PhotoKey, ".jpg")
	assert.True(t, env.store.Has(updated.PhotoKey))
	assert.False(t, updated.HasPendingChanges())
}

func TestProfileService_GetPublic(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := NewProfileService(env.users, env.store, env.notifier)

	owner, err := env.users.Create(ctx, domain.User{
		Username:   "owner",
		Email:      "owner@example.org",
		Password:   "hash",
		Role:       domain.RoleVolunteer,
		IsApproved: true,
		Profile: domain.Profile{
			FirstName:       "Owner",
			Phone:           "+7 700 000 00 00",
			Telegram:        "@owner",
			PhonePrivacy:    domain.PrivacyVolunteers,
			TelegramPrivacy: domain.PrivacyPublic,
		},
	})
	require.NoError(t, err)

	approved := env.createUser(t, "approved", domain.RoleVolunteer, true)
	moderator := env.createUser(t, "moderator", domain.RoleModerator, true)
	pending := env.createUser(t, "pending", domain.RoleVolunteer, false)

	anon, err := svc.GetPublic(ctx, nil, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, anon.User.Phone)
	assert.Equal(t, "@owner", anon.User.Telegram)
	assert.Empty(t, anon.User.Email)
	assert.False(t, anon.CanAdminEdit)

	peer, err := svc.GetPublic(ctx, &approved, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "+7 700 000 00 00", peer.User.Phone)
	assert.False(t, peer.CanAdminEdit)

	staff, err := svc.GetPublic(ctx, &moderator, owner.ID)
	require.NoError(t, err)
	assert.True(t, staff.CanAdminEdit)
	assert.Equal(t, "owner@example.org", staff.User.Email)

	self, err := svc.GetPublic(ctx, &owner, owner.ID)
	require.NoError(t, err)
	assert.True(t, self.IsOwner)

	_, err = svc.GetPublic(ctx, nil, pending.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.GetPublic(ctx, &approved, pending.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.GetPublic(ctx, &pending, pending.ID)
	assert.NoError(t, err)
	_, err = svc.GetPublic(ctx, &moderator, pending.ID)
	assert.NoError(t, err)
}
