package dao

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aya-platform/volunteer-hub/internal/db"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, InitTables(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gdb
}

func leadershipRule(role string, leaderships int) string {
	switch {
	case role == "volunteer" && leaderships > 0:
		return "leader"
	case role == "leader" && leaderships == 0:
		return "volunteer"
	default:
		return role
	}
}

func insertUser(t *testing.T, d *UserDAO, username string) User {
	t.Helper()

	u, err := d.Insert(context.Background(), User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Role:     "volunteer",
	})
	require.NoError(t, err)

	return u
}

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantOK bool
	}{
		{name: "postgres unique", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_users_email"}, wantOK: true},
		{name: "postgres other", err: &pgconn.PgError{Code: pgerrcode.NotNullViolation}, wantOK: false},
		{name: "wrapped postgres", err: fmt.Errorf("insert -> %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation}), wantOK: true},
		{name: "gorm translated", err: gorm.ErrDuplicatedKey, wantOK: true},
		{name: "sqlite", err: errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"), wantOK: true},
		{name: "unrelated", err: errors.New("connection refused"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := uniqueViolation(tt.err)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestUserDAO_SQLite(t *testing.T) {
	runUserDAOTests(t, openSQLite(t))
}

func TestEventDAO_SQLite(t *testing.T) {
	runEventDAOTests(t, openSQLite(t))
}

func TestOrganizationDAO_SQLite(t *testing.T) {
	runOrganizationDAOTests(t, openSQLite(t))
}

// The run* helpers are shared with the Postgres integration tests.

func runUserDAOTests(t *testing.T, gdb *gorm.DB) {
	ctx := context.Background()
	d := NewUserDAO(gdb)

	anna := insertUser(t, d, "anna")

	_, err := d.Insert(ctx, User{Username: "anna", Email: "other@example.com", Password: "hash", Role: "volunteer"})
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = d.Insert(ctx, User{Username: "other", Email: "anna@example.com", Password: "hash", Role: "volunteer"})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	found, err := d.FindByUsername(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, anna.ID, found.ID)

	_, err = d.FindByID(ctx, anna.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)

	count, err := d.Count(ctx)
	require.NoError(t, err)
	assert.Positive(t, count)
}

func runEventDAOTests(t *testing.T, gdb *gorm.DB) {
	ctx := context.Background()
	organizer := insertUser(t, NewUserDAO(gdb), "organizer")
	d := NewEventDAO(gdb)

	start := time.Now().Add(time.Hour).UTC()
	event, err := d.Insert(ctx, Event{
		Title:       "Cleanup",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		OrganizerID: organizer.ID,
		IsApproved:  true,
	})
	require.NoError(t, err)

	require.NoError(t, d.MarkCompleted(ctx, event.ID))
	assert.ErrorIs(t, d.MarkCompleted(ctx, event.ID), ErrEventAlreadyCompleted)
	assert.ErrorIs(t, d.MarkCompleted(ctx, event.ID+100), ErrEventNotFound)

	require.NoError(t, d.Delete(ctx, event.ID))
	_, err = d.FindByID(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func runOrganizationDAOTests(t *testing.T, gdb *gorm.DB) {
	ctx := context.Background()
	users := NewUserDAO(gdb)
	d := NewOrganizationDAO(gdb)

	olga := insertUser(t, users, "olga")
	pavel := insertUser(t, users, "pavel")

	ecology, err := d.InsertDirection(ctx, Direction{Name: "Ecology"})
	require.NoError(t, err)
	_, err = d.InsertDirection(ctx, Direction{Name: "Ecology"})
	assert.ErrorIs(t, err, ErrDirectionNameExists)

	previous, err := d.SetDirectionLeader(ctx, ecology.ID, &olga.ID, leadershipRule)
	require.NoError(t, err)
	assert.Nil(t, previous)

	got, err := users.FindByID(ctx, olga.ID)
	require.NoError(t, err)
	assert.Equal(t, "leader", got.Role)

	previous, err = d.SetDirectionLeader(ctx, ecology.ID, &pavel.ID, leadershipRule)
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, olga.ID, *previous)

	got, err = users.FindByID(ctx, olga.ID)
	require.NoError(t, err)
	assert.Equal(t, "volunteer", got.Role)

	_, err = d.SetDirectionLeader(ctx, ecology.ID+100, nil, leadershipRule)
	assert.ErrorIs(t, err, ErrDirectionNotFound)
}
