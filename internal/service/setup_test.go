package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aya-platform/volunteer-hub/internal/db"
	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/repository"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
	"github.com/aya-platform/volunteer-hub/internal/storage"
)

type testEnv struct {
	users         *repository.UserRepository
	orgs          *repository.OrganizationRepository
	events        *repository.EventRepository
	notifications *repository.NotificationRepository
	audits        *repository.AuditRepository
	about         *repository.AboutRepository
	store         *storage.MemoryStore

	notifier *NotificationService
	auditor  *AuditService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		users:         repository.NewUserRepository(dao.NewUserDAO(gdb)),
		orgs:          repository.NewOrganizationRepository(dao.NewOrganizationDAO(gdb)),
		events:        repository.NewEventRepository(dao.NewEventDAO(gdb)),
		notifications: repository.NewNotificationRepository(dao.NewNotificationDAO(gdb)),
		audits:        repository.NewAuditRepository(dao.NewAuditDAO(gdb)),
		about:         repository.NewAboutRepository(dao.NewAboutDAO(gdb)),
		store:         storage.NewMemoryStore(),
	}
	env.notifier = NewNotificationService(env.notifications, env.users)
	env.auditor = NewAuditService(env.audits)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string, role domain.Role, approved bool) domain.User {
	t.Helper()

	user, err := e.users.Create(context.Background(), domain.User{
		Username:   username,
		Email:      username + "@example.org",
		Password:   "hash",
		Role:       role,
		IsApproved: approved,
		Profile: domain.Profile{
			FirstName: "First " + username,
			LastName:  "Last " + username,
		},
	})
	require.NoError(t, err)

	return user
}

func (e *testEnv) createSuperuser(t *testing.T, username string) domain.User {
	t.Helper()

	user, err := e.users.Create(context.Background(), domain.User{
		Username:    username,
		Email:       username + "@example.org",
		Password:    "hash",
		Role:        domain.RoleVolunteer,
		IsApproved:  true,
		IsSuperuser: true,
	})
	require.NoError(t, err)

	return user
}

func (e *testEnv) reload(t *testing.T, id uint) domain.User {
	t.Helper()

	user, err := e.users.FindByID(context.Background(), id)
	require.NoError(t, err)

	return user
}

func (e *testEnv) auditCount(t *testing.T) int64 {
	t.Helper()

	_, total, err := e.audits.List(context.Background(), domain.NewPage(1, 100))
	require.NoError(t, err)

	return total
}

func (e *testEnv) unread(t *testing.T, userID uint) int64 {
	t.Helper()

	n, err := e.notifications.CountUnread(context.Background(), userID)
	require.NoError(t, err)

	return n
}
