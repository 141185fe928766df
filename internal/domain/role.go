package domain

type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleLeader    Role = "leader"
	RoleModerator Role = "moderator"
	RolePresident Role = "president"
	RoleWorker    Role = "worker"
	RoleHeadAdmin Role = "head_admin"
)

// Power levels. Superuser and the active volunteer title are not roles but
// still rank.
const (
	LevelSuperuser       = 100
	LevelHeadAdmin       = 90
	LevelWorker          = 80
	LevelPresident       = 70
	LevelModerator       = 50
	LevelLeader          = 30
	LevelActiveVolunteer = 20
	LevelVolunteer       = 0
)

var Roles = []Role{RoleVolunteer, RoleLeader, RoleModerator, RolePresident, RoleWorker, RoleHeadAdmin}

var roleLevels = map[Role]int{
	RoleVolunteer: LevelVolunteer,
	RoleLeader:    LevelLeader,
	RoleModerator: LevelModerator,
	RolePresident: LevelPresident,
	RoleWorker:    LevelWorker,
	RoleHeadAdmin: LevelHeadAdmin,
}

var roleLabels = map[Role]string{
	RoleVolunteer: "Volunteer",
	RoleLeader:    "Leader",
	RoleModerator: "Moderator",
	RolePresident: "President",
	RoleWorker:    "Worker",
	RoleHeadAdmin: "Head administrator",
}

func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level is the rank of the role alone. Unknown roles rank as volunteers.
func (r Role) Level() int {
	return roleLevels[r]
}

func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// PowerLevel is the rank used for every "may A act on B" decision.
func PowerLevel(u User) int {
	if u.IsSuperuser {
		return LevelSuperuser
	}
	if u.Role == RoleVolunteer && u.IsActiveVolunteer {
		return LevelActiveVolunteer
	}
	return u.Role.Level()
}

// Outranks reports whether actor may act on target. Equal levels never do.
func Outranks(actor, target User) bool {
	return PowerLevel(actor) > PowerLevel(target)
}

type Capability int

const (
	// CapModerate covers registration and profile moderation, event approval
	// and direct profile edits.
	CapModerate Capability = iota
	// CapAdminister covers user management, roles, organization structure,
	// the about page and the audit log.
	CapAdminister
	// CapPublishEvents makes created events approved immediately.
	CapPublishEvents
	// CapManageEvents allows managing events organized by someone else.
	CapManageEvents
)

var capabilityRoles = map[Capability]map[Role]bool{
	CapModerate: {
		RoleModerator: true, RolePresident: true, RoleWorker: true, RoleHeadAdmin: true,
	},
	CapAdminister: {
		RolePresident: true, RoleWorker: true, RoleHeadAdmin: true,
	},
	CapPublishEvents: {
		RoleLeader: true, RolePresident: true, RoleWorker: true, RoleHeadAdmin: true,
	},
	CapManageEvents: {
		RoleModerator: true, RolePresident: true, RoleWorker: true, RoleHeadAdmin: true,
	},
}

// Can reports whether u holds capability c. Superusers hold every capability.
func Can(u User, c Capability) bool {
	if u.IsSuperuser {
		return true
	}
	return capabilityRoles[c][u.Role]
}

// RolesWith lists the roles holding capability c, lowest rank first.
func RolesWith(c Capability) []Role {
	var roles []Role
	for _, r := range Roles {
		if capabilityRoles[c][r] {
			roles = append(roles, r)
		}
	}
	return roles
}

// CanManageEvent reports whether u may edit, finish, report on or delete e.
func CanManageEvent(u User, e Event) bool {
	if u.ID != 0 && u.ID == e.OrganizerID {
		return true
	}
	return Can(u, CapManageEvents)
}

// CanAssignRole reports whether actor may give target the role to. The
// head_admin seat is handed over only by a superuser or its current holder,
// and nobody else may grant a rank at or above their own.
func CanAssignRole(actor, target User, to Role) bool {
	if !to.Valid() || !Can(actor, CapAdminister) || !Outranks(actor, target) {
		return false
	}
	if actor.IsSuperuser {
		return true
	}
	if to == RoleHeadAdmin {
		return actor.Role == RoleHeadAdmin
	}
	return to.Level() < PowerLevel(actor)
}

// LeadershipRole is the role a user should hold after their count of
// led directions and schools changed. Only volunteers are promoted and only
// leaders are demoted; every other role is left alone.
func LeadershipRole(current Role, leaderships int) Role {
	switch {
	case current == RoleVolunteer && leaderships > 0:
		return RoleLeader
	case current == RoleLeader && leaderships == 0:
		return RoleVolunteer
	default:
		return current
	}
}
