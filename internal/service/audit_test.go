package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

func TestAuditService(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := env.auditor

	worker := env.createUser(t, "worker", domain.RoleWorker, true)
	moderator := env.createUser(t, "moderator", domain.RoleModerator, true)
	su := env.createSuperuser(t, "root")

	for i := 0; i < 5; i++ {
		svc.Record(ctx, worker, fmt.Sprintf("action %d", i), &moderator)
	}
	svc.Record(ctx, su, "invisible", nil)

	_, _, err := svc.List(ctx, moderator, domain.NewPage(1, 10))
	assert.ErrorIs(t, err, ErrPermissionDenied)

	entries, total, err := svc.List(ctx, worker, domain.NewPage(1, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "action 4", entries[0].Action)
	require.NotNil(t, entries[0].Actor)
	assert.Equal(t, worker.ID, entries[0].Actor.ID)
	require.NotNil(t, entries[0].Target)
	assert.Equal(t, moderator.ID, entries[0].Target.ID)

	last, _, err := svc.List(ctx, su, domain.NewPage(3, 2))
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "action 0", last[0].Action)
}

func TestAuditService_DeletedUserIsDetached(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	worker := env.createUser(t, "worker", domain.RoleWorker, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)

	env.auditor.Record(ctx, worker, "looked at volunteer", &volunteer)
	require.NoError(t, env.users.Delete(ctx, volunteer.ID))

	entries, total, err := env.auditor.List(ctx, worker, domain.NewPage(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Nil(t, entries[0].TargetID)
	assert.Nil(t, entries[0].Target)
}
