package household

import "testing"

var allRoles = []Role{RoleOwner, RoleAdmin, RoleMember}

func TestCanInvite(t *testing.T) {
	cases := map[Role]bool{
		RoleOwner:  true,
		RoleAdmin:  true,
		RoleMember: false,
	}
	for role, want := range cases {
		if got := CanInvite(role); got != want {
			t.Errorf("CanInvite(%s) = %v, want %v", role, got, want)
		}
	}
}

func TestCanChangeRoleAndRemoveNeverTouchOwners(t *testing.T) {
	for _, actor := range allRoles {
		if CanChangeRole(actor, RoleOwner, false) {
			t.Errorf("CanChangeRole(%s, owner, false) must be false", actor)
		}
		if CanRemoveMember(actor, RoleOwner, false) {
			t.Errorf("CanRemoveMember(%s, owner, false) must be false", actor)
		}
	}
}

func TestCanChangeRoleAndRemoveNeverSelf(t *testing.T) {
	for _, actor := range allRoles {
		for _, target := range allRoles {
			if CanChangeRole(actor, target, true) {
				t.Errorf("CanChangeRole(%s, %s, self) must be false", actor, target)
			}
			if CanRemoveMember(actor, target, true) {
				t.Errorf("CanRemoveMember(%s, %s, self) must be false", actor, target)
			}
		}
	}
}

func TestOnlyOwnersActOnMembers(t *testing.T) {
	for _, target := range []Role{RoleAdmin, RoleMember} {
		if !CanChangeRole(RoleOwner, target, false) {
			t.Errorf("owner should change role of %s", target)
		}
		if !CanRemoveMember(RoleOwner, target, false) {
			t.Errorf("owner should remove %s", target)
		}
		if CanChangeRole(RoleAdmin, target, false) {
			t.Errorf("admin must not change role of %s", target)
		}
		if CanRemoveMember(RoleAdmin, target, false) {
			t.Errorf("admin must not remove %s", target)
		}
	}
}

func TestCanDelete(t *testing.T) {
	for _, role := range allRoles {
		want := role == RoleOwner
		if got := CanDelete(role); got != want {
			t.Errorf("CanDelete(%s) = %v, want %v", role, got, want)
		}
	}
}

func TestCanEditSettings(t *testing.T) {
	cases := map[Role]bool{
		RoleOwner:  true,
		RoleAdmin:  true,
		RoleMember: false,
	}
	for role, want := range cases {
		if got := CanEditSettings(role); got != want {
			t.Errorf("CanEditSettings(%s) = %v, want %v", role, got, want)
		}
	}
}

func TestCanLeave(t *testing.T) {
	for _, role := range allRoles {
		want := role != RoleOwner
		if got := CanLeave(role); got != want {
			t.Errorf("CanLeave(%s) = %v, want %v", role, got, want)
		}
	}
}

func TestGrantable(t *testing.T) {
	if Grantable(RoleOwner) {
		t.Error("owner must never be grantable via invitation")
	}
	if !Grantable(RoleAdmin) || !Grantable(RoleMember) {
		t.Error("admin and member must be grantable")
	}
	if Grantable(Role("manager")) {
		t.Error("unknown roles must not be grantable")
	}
}
