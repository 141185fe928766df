package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPowerLevel(t *testing.T) {
	tests := []struct {
		name string
		user User
		want int
	}{
		{name: "superuser", user: User{IsSuperuser: true, Role: RoleVolunteer}, want: 100},
		{name: "head admin", user: User{Role: RoleHeadAdmin}, want: 90},
		{name: "worker", user: User{Role: RoleWorker}, want: 80},
		{name: "president", user: User{Role: RolePresident}, want: 70},
		{name: "moderator", user: User{Role: RoleModerator}, want: 50},
		{name: "leader", user: User{Role: RoleLeader}, want: 30},
		{name: "active volunteer", user: User{Role: RoleVolunteer, IsActiveVolunteer: true}, want: 20},
		{name: "volunteer", user: User{Role: RoleVolunteer}, want: 0},
		{name: "title only counts for volunteers", user: User{Role: RoleLeader, IsActiveVolunteer: true}, want: 30},
		{name: "unknown role", user: User{Role: "ghost"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PowerLevel(tt.user))
		})
	}
}

func allRanks() []User {
	users := []User{
		{IsSuperuser: true},
		{Role: RoleVolunteer, IsActiveVolunteer: true},
	}
	for _, r := range Roles {
		users = append(users, User{Role: r})
	}
	return users
}

func TestOutranks_IsStrict(t *testing.T) {
	for _, a := range allRanks() {
		for _, b := range allRanks() {
			name := fmt.Sprintf("%d vs %d", PowerLevel(a), PowerLevel(b))
			t.Run(name, func(t *testing.T) {
				assert.Equal(t, PowerLevel(a) > PowerLevel(b), Outranks(a, b))
			})
		}
	}
	assert.False(t, Outranks(User{Role: RoleModerator}, User{Role: RoleModerator}))
	assert.False(t, Outranks(User{IsSuperuser: true}, User{IsSuperuser: true}))
}

func TestCan(t *testing.T) {
	tests := []struct {
		role                                  Role
		moderate, administer, publish, manage bool
	}{
		{RoleVolunteer, false, false, false, false},
		{RoleLeader, false, false, true, false},
		{RoleModerator, true, false, false, true},
		{RolePresident, true, true, true, true},
		{RoleWorker, true, true, true, true},
		{RoleHeadAdmin, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			u := User{Role: tt.role}
			assert.Equal(t, tt.moderate, Can(u, CapModerate))
			assert.Equal(t, tt.administer, Can(u, CapAdminister))
			assert.Equal(t, tt.publish, Can(u, CapPublishEvents))
			assert.Equal(t, tt.manage, Can(u, CapManageEvents))
		})
	}

	su := User{IsSuperuser: true, Role: RoleVolunteer}
	for _, c := range []Capability{CapModerate, CapAdminister, CapPublishEvents, CapManageEvents} {
		assert.True(t, Can(su, c))
	}
}

func TestCanManageEvent(t *testing.T) {
	e := Event{ID: 1, OrganizerID: 5}

	assert.True(t, CanManageEvent(User{ID: 5, Role: RoleVolunteer}, e))
	assert.True(t, CanManageEvent(User{ID: 6, Role: RoleModerator}, e))
	assert.True(t, CanManageEvent(User{ID: 6, IsSuperuser: true}, e))
	assert.False(t, CanManageEvent(User{ID: 6, Role: RoleLeader}, e))
	assert.False(t, CanManageEvent(User{}, Event{}))
}

func TestCanAssignRole(t *testing.T) {
	su := User{ID: 1, IsSuperuser: true}
	head := User{ID: 2, Role: RoleHeadAdmin}
	worker := User{ID: 3, Role: RoleWorker}
	president := User{ID: 4, Role: RolePresident}
	moderator := User{ID: 5, Role: RoleModerator}
	volunteer := User{ID: 6, Role: RoleVolunteer}

	tests := []struct {
		name   string
		actor  User
		target User
		to     Role
		want   bool
	}{
		{"superuser names head admin", su, worker, RoleHeadAdmin, true},
		{"head admin hands over the seat", head, worker, RoleHeadAdmin, true},
		{"worker cannot name head admin", worker, volunteer, RoleHeadAdmin, false},
		{"worker cannot grant worker", worker, volunteer, RoleWorker, false},
		{"worker grants president", worker, volunteer, RolePresident, true},
		{"president grants moderator", president, volunteer, RoleModerator, true},
		{"moderator cannot administer", moderator, volunteer, RoleLeader, false},
		{"equal rank denied", worker, User{ID: 7, Role: RoleWorker}, RoleVolunteer, false},
		{"lower rank denied", president, worker, RoleVolunteer, false},
		{"unknown role", su, volunteer, Role("king"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAssignRole(tt.actor, tt.target, tt.to))
		})
	}
}

func TestLeadershipRole(t *testing.T) {
	assert.Equal(t, RoleLeader, LeadershipRole(RoleVolunteer, 1))
	assert.Equal(t, RoleVolunteer, LeadershipRole(RoleVolunteer, 0))
	assert.Equal(t, RoleVolunteer, LeadershipRole(RoleLeader, 0))
	assert.Equal(t, RoleLeader, LeadershipRole(RoleLeader, 2))
	assert.Equal(t, RoleModerator, LeadershipRole(RoleModerator, 0))
	assert.Equal(t, RoleWorker, LeadershipRole(RoleWorker, 3))
}

func TestCanSeeContact(t *testing.T) {
	owner := User{ID: 1, Role: RoleVolunteer, IsApproved: true}
	approved := &User{ID: 2, Role: RoleVolunteer, IsApproved: true}
	pending := &User{ID: 3, Role: RoleVolunteer}
	moderator := &User{ID: 4, Role: RoleModerator, IsApproved: true}

	assert.True(t, CanSeeContact(nil, owner, PrivacyPublic))
	assert.False(t, CanSeeContact(nil, owner, PrivacyVolunteers))
	assert.True(t, CanSeeContact(approved, owner, PrivacyVolunteers))
	assert.False(t, CanSeeContact(pending, owner, PrivacyVolunteers))
	assert.False(t, CanSeeContact(approved, owner, PrivacyPrivate))
	assert.True(t, CanSeeContact(moderator, owner, PrivacyPrivate))
	assert.True(t, CanSeeContact(&owner, owner, PrivacyPrivate))
}

func TestRolesWith(t *testing.T) {
	assert.Equal(t, []Role{RoleModerator, RolePresident, RoleWorker, RoleHeadAdmin}, RolesWith(CapModerate))
	assert.Equal(t, []Role{RolePresident, RoleWorker, RoleHeadAdmin}, RolesWith(CapAdminister))
	assert.Equal(t, []Role{RoleLeader, RolePresident, RoleWorker, RoleHeadAdmin}, RolesWith(CapPublishEvents))
}
