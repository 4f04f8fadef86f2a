package household

import (
	"context"
	"errors"
	"testing"
)

type fakeHouseholdRepo struct {
	households map[string]Household
	members    map[string]map[string]Role

	createCalls int
	updateCalls int
	deleteCalls int
	writeCalls  int
}

func newFakeHouseholdRepo() *fakeHouseholdRepo {
	return &fakeHouseholdRepo{
		households: map[string]Household{},
		members:    map[string]map[string]Role{},
	}
}

func (f *fakeHouseholdRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func (f *fakeHouseholdRepo) CreateHousehold(ctx context.Context, h *Household) error {
	f.createCalls++
	f.writeCalls++
	f.households[h.ID] = *h
	return nil
}

func (f *fakeHouseholdRepo) GetHousehold(ctx context.Context, householdID string) (*Household, error) {
	h, ok := f.households[householdID]
	if !ok {
		return nil, ErrHouseholdNotFound
	}
	return &h, nil
}

func (f *fakeHouseholdRepo) ListByUser(ctx context.Context, userID string) ([]Summary, error) {
	var out []Summary
	for id, roles := range f.members {
		role, ok := roles[userID]
		if !ok {
			continue
		}
		out = append(out, Summary{
			Household:   f.households[id],
			MemberCount: int64(len(roles)),
			MyRole:      role,
		})
	}
	return out, nil
}

func (f *fakeHouseholdRepo) UpdateHousehold(ctx context.Context, householdID string, patch Patch) error {
	f.updateCalls++
	f.writeCalls++
	h, ok := f.households[householdID]
	if !ok {
		return ErrHouseholdNotFound
	}
	if patch.Name != nil {
		h.Name = *patch.Name
	}
	if patch.Description != nil {
		h.Description = *patch.Description
	}
	if patch.Currency != nil {
		h.Currency = *patch.Currency
	}
	f.households[householdID] = h
	return nil
}

func (f *fakeHouseholdRepo) DeleteHousehold(ctx context.Context, householdID string) error {
	f.deleteCalls++
	f.writeCalls++
	if _, ok := f.households[householdID]; !ok {
		return ErrHouseholdNotFound
	}
	delete(f.households, householdID)
	delete(f.members, householdID)
	return nil
}

func (f *fakeHouseholdRepo) AddMember(ctx context.Context, m *Member) error {
	f.writeCalls++
	if f.members[m.HouseholdID] == nil {
		f.members[m.HouseholdID] = map[string]Role{}
	}
	f.members[m.HouseholdID][m.UserID] = m.Role
	return nil
}

func (f *fakeHouseholdRepo) GetMember(ctx context.Context, householdID, userID string) (*Member, error) {
	role, ok := f.members[householdID][userID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	return &Member{HouseholdID: householdID, UserID: userID, Role: role}, nil
}

func (f *fakeHouseholdRepo) ListMemberProfiles(ctx context.Context, householdID string) ([]MemberProfile, error) {
	var out []MemberProfile
	for userID, role := range f.members[householdID] {
		out = append(out, MemberProfile{UserID: userID, Username: userID, Role: role})
	}
	return out, nil
}

func (f *fakeHouseholdRepo) UpdateMemberRole(ctx context.Context, householdID, userID string, role Role) error {
	f.writeCalls++
	if _, ok := f.members[householdID][userID]; !ok {
		return ErrMemberNotFound
	}
	f.members[householdID][userID] = role
	return nil
}

func (f *fakeHouseholdRepo) DeleteMember(ctx context.Context, householdID, userID string) error {
	f.writeCalls++
	if _, ok := f.members[householdID][userID]; !ok {
		return ErrMemberNotFound
	}
	delete(f.members[householdID], userID)
	return nil
}

func (f *fakeHouseholdRepo) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	_, ok := f.members[householdID][userID]
	return ok, nil
}

func seedHousehold(f *fakeHouseholdRepo, id string, roles map[string]Role) {
	f.households[id] = Household{ID: id, Name: "Home", Currency: "USD"}
	f.members[id] = map[string]Role{}
	for user, role := range roles {
		f.members[id][user] = role
	}
}

func TestCreateInstallsSoleOwner(t *testing.T) {
	repo := newFakeHouseholdRepo()
	svc := NewService(repo, "EUR")

	h, err := svc.Create(context.Background(), "alice", "  Shared Flat  ", "bills", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.Name != "Shared Flat" {
		t.Errorf("name = %q, want trimmed", h.Name)
	}
	if h.Currency != "EUR" {
		t.Errorf("currency = %q, want default EUR", h.Currency)
	}
	if h.ID == "" {
		t.Error("expected generated household id")
	}

	roles := repo.members[h.ID]
	if len(roles) != 1 || roles["alice"] != RoleOwner {
		t.Errorf("members = %v, want alice as sole owner", roles)
	}
}

func TestCreateValidation(t *testing.T) {
	repo := newFakeHouseholdRepo()
	svc := NewService(repo, "USD")

	if _, err := svc.Create(context.Background(), "alice", "   ", "", ""); err == nil {
		t.Error("blank name must be rejected")
	}
	if _, err := svc.Create(context.Background(), "alice", "Home", "", "eu"); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("err = %v, want ErrInvalidCurrency", err)
	}
	if repo.writeCalls != 0 {
		t.Errorf("writeCalls = %d, rejected creates must not touch storage", repo.writeCalls)
	}
}

func TestDeleteRequiresOwner(t *testing.T) {
	repo := newFakeHouseholdRepo()
	seedHousehold(repo, "h1", map[string]Role{"alice": RoleOwner, "bob": RoleAdmin})
	svc := NewService(repo, "USD")

	if err := svc.Delete(context.Background(), "h1", "bob"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if repo.writeCalls != 0 {
		t.Errorf("writeCalls = %d, forbidden delete must leave storage untouched", repo.writeCalls)
	}

	if err := svc.Delete(context.Background(), "h1", "alice"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := repo.households["h1"]; ok {
		t.Error("household should be gone")
	}
}

func TestDetailRequiresMembership(t *testing.T) {
	repo := newFakeHouseholdRepo()
	seedHousehold(repo, "h1", map[string]Role{"alice": RoleOwner})
	svc := NewService(repo, "USD")

	if _, err := svc.Detail(context.Background(), "h1", "mallory"); !errors.Is(err, ErrNotMember) {
		t.Errorf("err = %v, want ErrNotMember", err)
	}
	if _, err := svc.Detail(context.Background(), "missing", "alice"); !errors.Is(err, ErrHouseholdNotFound) {
		t.Errorf("err = %v, want ErrHouseholdNotFound", err)
	}

	d, err := svc.Detail(context.Background(), "h1", "alice")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if len(d.Members) != 1 {
		t.Errorf("members = %d, want 1", len(d.Members))
	}
}

func TestUpdateMemberRole(t *testing.T) {
	repo := newFakeHouseholdRepo()
	seedHousehold(repo, "h1", map[string]Role{
		"alice": RoleOwner,
		"bob":   RoleAdmin,
		"carol": RoleMember,
	})
	svc := NewService(repo, "USD")
	ctx := context.Background()

	if err := svc.UpdateMemberRole(ctx, "h1", "alice", "carol", RoleOwner); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("granting owner: err = %v, want ErrInvalidRole", err)
	}
	if err := svc.UpdateMemberRole(ctx, "h1", "bob", "carol", RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Errorf("admin actor: err = %v, want ErrForbidden", err)
	}
	if err := svc.UpdateMemberRole(ctx, "h1", "alice", "alice", RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Errorf("self target: err = %v, want ErrForbidden", err)
	}
	if err := svc.UpdateMemberRole(ctx, "h1", "alice", "carol", RoleAdmin); err != nil {
		t.Fatalf("owner promoting member: %v", err)
	}
	if repo.members["h1"]["carol"] != RoleAdmin {
		t.Errorf("carol role = %s, want admin", repo.members["h1"]["carol"])
	}
}

func TestRemoveMember(t *testing.T) {
	repo := newFakeHouseholdRepo()
	seedHousehold(repo, "h1", map[string]Role{
		"alice": RoleOwner,
		"bob":   RoleMember,
	})
	svc := NewService(repo, "USD")
	ctx := context.Background()

	if err := svc.RemoveMember(ctx, "h1", "bob", "alice"); !errors.Is(err, ErrForbidden) {
		t.Errorf("member removing owner: err = %v, want ErrForbidden", err)
	}
	if err := svc.RemoveMember(ctx, "h1", "alice", "alice"); !errors.Is(err, ErrForbidden) {
		t.Errorf("owner removing self: err = %v, want ErrForbidden", err)
	}
	if err := svc.RemoveMember(ctx, "h1", "alice", "bob"); err != nil {
		t.Fatalf("owner removing member: %v", err)
	}
	if _, ok := repo.members["h1"]["bob"]; ok {
		t.Error("bob should be gone")
	}
}

func TestLeaveBlocksOwner(t *testing.T) {
	repo := newFakeHouseholdRepo()
	seedHousehold(repo, "h1", map[string]Role{
		"alice": RoleOwner,
		"bob":   RoleMember,
	})
	svc := NewService(repo, "USD")
	ctx := context.Background()

	if err := svc.Leave(ctx, "h1", "alice"); !errors.Is(err, ErrOwnerCannotLeave) {
		t.Errorf("err = %v, want ErrOwnerCannotLeave", err)
	}
	if err := svc.Leave(ctx, "h1", "bob"); err != nil {
		t.Fatalf("member leave: %v", err)
	}
	if _, ok := repo.members["h1"]["bob"]; ok {
		t.Error("bob should be gone after leaving")
	}
}

func TestJoin(t *testing.T) {
	repo := newFakeHouseholdRepo()
	seedHousehold(repo, "h1", map[string]Role{"alice": RoleOwner})
	svc := NewService(repo, "USD")
	ctx := context.Background()

	if err := svc.Join(ctx, "h1", "bob", RoleOwner); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("joining as owner: err = %v, want ErrInvalidRole", err)
	}
	if err := svc.Join(ctx, "h1", "bob", RoleMember); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := svc.Join(ctx, "h1", "bob", RoleMember); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("second join: err = %v, want ErrAlreadyMember", err)
	}
	if err := svc.Join(ctx, "missing", "bob", RoleMember); !errors.Is(err, ErrHouseholdNotFound) {
		t.Errorf("err = %v, want ErrHouseholdNotFound", err)
	}
}

func TestUpdatePatchValidation(t *testing.T) {
	repo := newFakeHouseholdRepo()
	seedHousehold(repo, "h1", map[string]Role{"alice": RoleOwner, "carol": RoleMember})
	svc := NewService(repo, "USD")
	ctx := context.Background()

	blank := "  "
	if _, err := svc.Update(ctx, "h1", "alice", Patch{Name: &blank}); err == nil {
		t.Error("blank name patch must be rejected")
	}
	bad := "dollars"
	if _, err := svc.Update(ctx, "h1", "alice", Patch{Currency: &bad}); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("err = %v, want ErrInvalidCurrency", err)
	}
	if _, err := svc.Update(ctx, "h1", "carol", Patch{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("member update: err = %v, want ErrForbidden", err)
	}

	name := "New Name"
	cur := "gbp"
	h, err := svc.Update(ctx, "h1", "alice", Patch{Name: &name, Currency: &cur})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if h.Name != "New Name" || h.Currency != "GBP" {
		t.Errorf("got %q/%q, want New Name/GBP", h.Name, h.Currency)
	}
}
