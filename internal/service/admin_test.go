package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

func newAdminService(env *testEnv) *AdminService {
	return NewAdminService(env.users, env.store, env.notifier, env.auditor)
}

func TestAdminService_UpdateRole(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newAdminService(env)

	worker := env.createUser(t, "worker", domain.RoleWorker, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)
	moderator := env.createUser(t, "moderator", domain.RoleModerator, true)

	require.NoError(t, svc.UpdateRole(ctx, worker, volunteer.ID, domain.RolePresident))
	assert.Equal(t, domain.RolePresident, env.reload(t, volunteer.ID).Role)
	assert.EqualValues(t, 1, env.auditCount(t))

	assert.ErrorIs(t, svc.UpdateRole(ctx, worker, moderator.ID, domain.RoleWorker), ErrPermissionDenied)
	assert.ErrorIs(t, svc.UpdateRole(ctx, worker, moderator.ID, domain.RoleHeadAdmin), ErrHeadAdminAssignment)
	assert.ErrorIs(t, svc.UpdateRole(ctx, worker, moderator.ID, domain.Role("king")), ErrInvalidRole)
	assert.ErrorIs(t, svc.UpdateRole(ctx, moderator, volunteer.ID, domain.RoleLeader), ErrPermissionDenied)

	other := env.createUser(t, "other", domain.RoleWorker, true)
	assert.ErrorIs(t, svc.UpdateRole(ctx, worker, other.ID, domain.RoleVolunteer), ErrInsufficientRank)
}

func TestAdminService_HeadAdminSuccession(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newAdminService(env)

	su := env.createSuperuser(t, "root")
	first := env.createUser(t, "first", domain.RoleWorker, true)
	second := env.createUser(t, "second", domain.RoleWorker, true)

	require.NoError(t, svc.UpdateRole(ctx, su, first.ID, domain.RoleHeadAdmin))
	first = env.reload(t, first.ID)
	assert.Equal(t, domain.RoleHeadAdmin, first.Role)

	require.NoError(t, svc.UpdateRole(ctx, first, second.ID, domain.RoleHeadAdmin))
	assert.Equal(t, domain.RoleHeadAdmin, env.reload(t, second.ID).Role)
	assert.Equal(t, domain.RoleWorker, env.reload(t, first.ID).Role)

	// Only the head_admin change by first is audited.
	assert.EqualValues(t, 1, env.auditCount(t))
}

func TestAdminService_ToggleActiveVolunteer(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newAdminService(env)

	president := env.createUser(t, "president", domain.RolePresident, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)

	active, err := svc.ToggleActiveVolunteer(ctx, president, volunteer.ID)
	require.NoError(t, err)
	assert.True(t, active)

	reloaded := env.reload(t, volunteer.ID)
	assert.True(t, reloaded.IsActiveVolunteer)
	assert.Equal(t, domain.LevelActiveVolunteer, domain.PowerLevel(reloaded))

	active, err = svc.ToggleActiveVolunteer(ctx, president, volunteer.ID)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = svc.ToggleActiveVolunteer(ctx, volunteer, president.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAdminService_EditUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newAdminService(env)

	moderator := env.createUser(t, "moderator", domain.RoleModerator, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)

	direction, err := env.orgs.CreateDirection(ctx, "Ecology")
	require.NoError(t, err)

	profile := volunteer.Profile
	profile.City = "Shymkent"
	course := 2
	profile.Course = &course

	updated, err := svc.EditUser(ctx, moderator, volunteer.ID, AccountEdit{
		Username:     "renamed",
		Email:        "renamed@example.org",
		Profile:      profile,
		DirectionIDs: []uint{direction.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, "Shymkent", updated.City)
	require.NotNil(t, updated.Course)
	assert.Equal(t, 2, *updated.Course)
	require.Len(t, updated.Directions, 1)
	assert.Equal(t, "Ecology", updated.Directions[0].Name)
	assert.False(t, updated.HasPendingChanges())
	assert.EqualValues(t, 1, env.unread(t, volunteer.ID))

	_, err = svc.EditUser(ctx, volunteer, moderator.ID, AccountEdit{Username: "x", Email: "x@example.org"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAdminService_ActivityPeriods(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newAdminService(env)

	moderator := env.createUser(t, "moderator", domain.RoleModerator, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)

	period, err := svc.AddActivityPeriod(ctx, moderator, volunteer.ID, domain.ActivityPeriod{
		StartDate:   time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
		Description: "Coordinator",
	})
	require.NoError(t, err)
	assert.Equal(t, volunteer.ID, period.UserID)

	periods, err := env.users.ListActivityPeriods(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Len(t, periods, 1)

	require.NoError(t, svc.DeleteActivityPeriod(ctx, moderator, period.ID))
	assert.ErrorIs(t, svc.DeleteActivityPeriod(ctx, moderator, period.ID), ErrActivityPeriodNotFound)
}

func TestAdminService_Dashboard(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newAdminService(env)

	moderator := env.createUser(t, "moderator", domain.RoleModerator, true)
	env.createUser(t, "pending", domain.RoleVolunteer, false)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)

	_, err := svc.Dashboard(ctx, volunteer)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	dash, err := svc.Dashboard(ctx, moderator)
	require.NoError(t, err)
	assert.EqualValues(t, 3, dash.TotalUsers)
	assert.Equal(t, 1, dash.PendingUsers)
	assert.Zero(t, dash.PendingChanges)
}
