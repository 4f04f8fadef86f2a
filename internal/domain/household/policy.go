package household

// Role policy: every permission decision in the system goes through these
// predicates, on the server before touching storage and on the client before
// touching the network. The server remains the trust boundary; the client
// calls are an optimization to avoid round trips that can only fail.

func CanInvite(actor Role) bool {
	return actor == RoleOwner || actor == RoleAdmin
}

func CanChangeRole(actor, target Role, isSelf bool) bool {
	return actor == RoleOwner && !isSelf && target != RoleOwner
}

func CanRemoveMember(actor, target Role, isSelf bool) bool {
	return actor == RoleOwner && !isSelf && target != RoleOwner
}

func CanEditSettings(actor Role) bool {
	return actor == RoleOwner || actor == RoleAdmin
}

func CanDelete(actor Role) bool {
	return actor == RoleOwner
}

// CanLeave blocks owners: a household must keep an owner, so an owner
// deletes the household instead of walking away from it.
func CanLeave(role Role) bool {
	return role != RoleOwner
}
