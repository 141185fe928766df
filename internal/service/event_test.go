package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

func newEventService(env *testEnv) *EventService {
	return NewEventService(env.events, env.users, env.store, env.notifier, env.auditor)
}

func eventInput(title string, start time.Time) EventInput {
	return EventInput{
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Location:  "Main hall",
	}
}

func upload(name string) Upload {
	data := []byte("image bytes of " + name)
	return Upload{Filename: name, ContentType: "image/png", Size: int64(len(data)), Reader: bytes.NewReader(data)}
}

func TestEventService_CreateApproval(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newEventService(env)

	moderator := env.createUser(t, "moderator", domain.RoleModerator, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)
	leader := env.createUser(t, "leader", domain.RoleLeader, true)
	newcomer := env.createUser(t, "newcomer", domain.RoleVolunteer, false)
	start := time.Now().Add(24 * time.Hour).UTC()

	proposed, err := svc.Create(ctx, volunteer, eventInput("Cleanup", start), nil)
	require.NoError(t, err)
	assert.False(t, proposed.IsApproved)
	assert.EqualValues(t, 1, env.unread(t, moderator.ID))

	published, err := svc.Create(ctx, leader, eventInput("Concert", start), nil)
	require.NoError(t, err)
	assert.True(t, published.IsApproved)

	_, err = svc.Create(ctx, newcomer, eventInput("Party", start), nil)
	assert.ErrorIs(t, err, ErrUserNotApproved)

	_, err = svc.Get(ctx, nil, proposed.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	_, err = svc.Get(ctx, &leader, proposed.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	own, err := svc.Get(ctx, &volunteer, proposed.ID)
	require.NoError(t, err)
	assert.True(t, own.CanManage)

	pending, err := svc.ListPending(ctx, moderator)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, proposed.ID, pending[0].ID)

	_, err = svc.ListPending(ctx, leader)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.Approve(ctx, moderator, proposed.ID))
	assert.EqualValues(t, 1, env.unread(t, volunteer.ID))

	upcoming, past, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, upcoming, 2)
	assert.Empty(t, past)
}

func TestEventService_ToggleParticipation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newEventService(env)

	leader := env.createUser(t, "leader", domain.RoleLeader, true)
	alice := env.createUser(t, "alice", domain.RoleVolunteer, true)
	bob := env.createUser(t, "bob", domain.RoleVolunteer, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)

	in := eventInput("Marathon", time.Now().Add(time.Hour).UTC())
	limit := 1
	in.MaxParticipants = &limit
	event, err := svc.Create(ctx, leader, in, nil)
	require.NoError(t, err)

	joined, err := svc.ToggleParticipation(ctx, alice, event.ID)
	require.NoError(t, err)
	assert.True(t, joined)

	_, err = svc.ToggleParticipation(ctx, bob, event.ID)
	assert.ErrorIs(t, err, ErrEventFull)

	view, err := svc.Get(ctx, &alice, event.ID)
	require.NoError(t, err)
	assert.True(t, view.IsParticipant)
	assert.False(t, view.CanManage)

	require.NoError(t, svc.Finish(ctx, leader, event.ID))

	_, err = svc.ToggleParticipation(ctx, alice, event.ID)
	assert.ErrorIs(t, err, ErrEventAlreadyCompleted)

	finished, err := env.events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{alice.ID}, finished.ParticipantIDs)

	proposed, err := svc.Create(ctx, volunteer, eventInput("Picnic", time.Now().Add(time.Hour).UTC()), nil)
	require.NoError(t, err)
	_, err = svc.ToggleParticipation(ctx, alice, proposed.ID)
	assert.ErrorIs(t, err, ErrEventNotApproved)
}

func TestEventService_Finish(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newEventService(env)

	leader := env.createUser(t, "leader", domain.RoleLeader, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)
	other := env.createUser(t, "other", domain.RoleVolunteer, true)

	event, err := svc.Create(ctx, leader, eventInput("Forum", time.Now().UTC()), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Finish(ctx, other, event.ID), ErrPermissionDenied)
	require.NoError(t, svc.Finish(ctx, leader, event.ID))
	assert.ErrorIs(t, svc.Finish(ctx, leader, event.ID), ErrEventAlreadyCompleted)

	proposed, err := svc.Create(ctx, volunteer, eventInput("Draft", time.Now().UTC()), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Finish(ctx, volunteer, proposed.ID), ErrEventNotApproved)

	_, past, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, event.ID, past[0].ID)
}

func TestEventService_Report(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newEventService(env)

	leader := env.createUser(t, "leader", domain.RoleLeader, true)
	hero := env.createUser(t, "hero", domain.RoleVolunteer, true)
	viewer := env.createUser(t, "viewer", domain.RoleVolunteer, true)

	cover := upload("cover.png")
	event, err := svc.Create(ctx, leader, eventInput("Festival", time.Now().UTC()), &cover)
	require.NoError(t, err)
	assert.True(t, env.store.Has(event.CoverKey))

	text := "It went well."
	_, err = svc.UpdateReport(ctx, leader, event.ID, ReportInput{Text: &text})
	assert.ErrorIs(t, err, ErrEventNotCompleted)

	require.NoError(t, svc.Finish(ctx, leader, event.ID))

	updated, err := svc.UpdateReport(ctx, leader, event.ID, ReportInput{
		Text:     &text,
		Photos:   []Upload{upload("a.png"), upload("b.png")},
		VideoURL: "https://video.example.org/festival",
		HeroID:   &hero.ID,
		HeroRole: "Stage manager",
	})
	require.NoError(t, err)
	assert.Equal(t, text, updated.ReportText)
	assert.False(t, updated.IsReportPublished)
	require.Len(t, updated.Photos, 2)
	require.Len(t, updated.Videos, 1)
	require.Len(t, updated.Heroes, 1)
	assert.Equal(t, hero.ID, updated.Heroes[0].User.ID)
	assert.Equal(t, 3, env.store.Len())
	assert.EqualValues(t, 1, env.unread(t, hero.ID))

	hidden, err := svc.Get(ctx, &viewer, event.ID)
	require.NoError(t, err)
	assert.Empty(t, hidden.ReportText)
	assert.Empty(t, hidden.Photos)

	published := true
	_, err = svc.UpdateReport(ctx, leader, event.ID, ReportInput{Published: &published})
	require.NoError(t, err)

	visible, err := svc.Get(ctx, &viewer, event.ID)
	require.NoError(t, err)
	assert.Equal(t, text, visible.ReportText)
	assert.Len(t, visible.Photos, 2)

	photo := updated.Photos[0]
	require.NoError(t, svc.DeletePhoto(ctx, leader, photo.ID))
	assert.False(t, env.store.Has(photo.ImageKey))
	assert.ErrorIs(t, svc.DeletePhoto(ctx, leader, photo.ID), ErrEventPhotoNotFound)

	require.NoError(t, svc.Delete(ctx, leader, event.ID))
	assert.Zero(t, env.store.Len())
	_, err = svc.Get(ctx, &leader, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_ManagePermissions(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	svc := newEventService(env)

	leader := env.createUser(t, "leader", domain.RoleLeader, true)
	moderator := env.createUser(t, "moderator", domain.RoleModerator, true)
	volunteer := env.createUser(t, "volunteer", domain.RoleVolunteer, true)

	event, err := svc.Create(ctx, leader, eventInput("Meetup", time.Now().UTC()), nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, volunteer, event.ID, eventInput("Hijacked", time.Now().UTC()), nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.Update(ctx, moderator, event.ID, eventInput("Meetup 2", time.Now().UTC()), nil)
	require.NoError(t, err)
	assert.Equal(t, "Meetup 2", updated.Title)
}
