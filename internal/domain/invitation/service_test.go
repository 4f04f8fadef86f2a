package invitation

import (
	"context"
	"errors"
	"testing"
	"time"

	"household-ledger-go/internal/domain/household"
)

type fakeInvitationRepo struct {
	invitations map[string]*Invitation

	writeCalls int
	statusErr  error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: map[string]*Invitation{}}
}

// Transaction snapshots the store and restores it when fn fails, so tests
// observe rollback the way the real repository behaves.
func (f *fakeInvitationRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	snapshot := make(map[string]*Invitation, len(f.invitations))
	for id, inv := range f.invitations {
		copied := *inv
		snapshot[id] = &copied
	}
	if err := fn(f); err != nil {
		f.invitations = snapshot
		return err
	}
	return nil
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *Invitation) error {
	f.writeCalls++
	stored := *inv
	f.invitations[inv.ID] = &stored
	return nil
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*Invitation, error) {
	for _, inv := range f.invitations {
		if inv.Token == token {
			out := *inv
			return &out, nil
		}
	}
	return nil, ErrInvitationNotFound
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, householdID, invitationID string) (*Invitation, error) {
	inv, ok := f.invitations[invitationID]
	if !ok || inv.HouseholdID != householdID {
		return nil, ErrInvitationNotFound
	}
	out := *inv
	return &out, nil
}

func (f *fakeInvitationRepo) ListForHousehold(ctx context.Context, householdID string) ([]View, error) {
	var out []View
	now := time.Now().UTC()
	for _, inv := range f.invitations {
		if inv.HouseholdID != householdID {
			continue
		}
		out = append(out, View{
			ID:          inv.ID,
			HouseholdID: inv.HouseholdID,
			Email:       inv.Email,
			Role:        inv.Role,
			Status:      inv.EffectiveStatus(now),
			ExpiresAt:   inv.ExpiresAt,
		})
	}
	return out, nil
}

func (f *fakeInvitationRepo) ListForEmail(ctx context.Context, email string) ([]View, error) {
	var out []View
	now := time.Now().UTC()
	for _, inv := range f.invitations {
		if inv.Email != email || !inv.Usable(now) {
			continue
		}
		out = append(out, View{
			ID:          inv.ID,
			HouseholdID: inv.HouseholdID,
			Email:       inv.Email,
			Role:        inv.Role,
			Status:      StatusPending,
			Token:       inv.Token,
			ExpiresAt:   inv.ExpiresAt,
		})
	}
	return out, nil
}

func (f *fakeInvitationRepo) HasPending(ctx context.Context, householdID, email string) (bool, error) {
	now := time.Now().UTC()
	for _, inv := range f.invitations {
		if inv.HouseholdID == householdID && inv.Email == email && inv.Usable(now) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationRepo) UpdateStatus(ctx context.Context, invitationID string, status Status) error {
	f.writeCalls++
	if f.statusErr != nil {
		return f.statusErr
	}
	inv, ok := f.invitations[invitationID]
	if !ok {
		return ErrInvitationNotFound
	}
	inv.Status = status
	return nil
}

func (f *fakeInvitationRepo) Delete(ctx context.Context, invitationID string) error {
	f.writeCalls++
	if _, ok := f.invitations[invitationID]; !ok {
		return ErrInvitationNotFound
	}
	delete(f.invitations, invitationID)
	return nil
}

type fakeMemberships struct {
	roles     map[string]map[string]household.Role
	joinCalls int
	joinErr   error
}

func (f *fakeMemberships) RoleOf(ctx context.Context, householdID, userID string) (household.Role, error) {
	role, ok := f.roles[householdID][userID]
	if !ok {
		return "", household.ErrNotMember
	}
	return role, nil
}

func (f *fakeMemberships) Join(ctx context.Context, householdID, userID string, role household.Role) error {
	f.joinCalls++
	if f.joinErr != nil {
		return f.joinErr
	}
	if f.roles[householdID] == nil {
		f.roles[householdID] = map[string]household.Role{}
	}
	f.roles[householdID][userID] = role
	return nil
}

func testMemberships() *fakeMemberships {
	return &fakeMemberships{roles: map[string]map[string]household.Role{
		"h1": {
			"alice": household.RoleOwner,
			"bob":   household.RoleAdmin,
			"carol": household.RoleMember,
		},
	}}
}

func seedInvitation(f *fakeInvitationRepo, inv Invitation) {
	stored := inv
	f.invitations[inv.ID] = &stored
}

func TestCreateInvitation(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	svc := NewService(repo, members, time.Hour)
	ctx := context.Background()

	view, err := svc.Create(ctx, "h1", "alice", " Dana@Example.COM ", household.RoleMember)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Email != "dana@example.com" {
		t.Errorf("email = %q, want normalized lowercase", view.Email)
	}
	if view.Status != StatusPending {
		t.Errorf("status = %s, want pending", view.Status)
	}
	if len(view.Token) != tokenLength {
		t.Errorf("token length = %d, want %d", len(view.Token), tokenLength)
	}
	if !view.ExpiresAt.After(time.Now().UTC()) {
		t.Error("expiry must be in the future")
	}
}

func TestCreateInvitationRejections(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	svc := NewService(repo, members, time.Hour)
	ctx := context.Background()

	cases := []struct {
		name  string
		actor string
		email string
		role  household.Role
		want  error
	}{
		{"bad email", "alice", "not-an-email", household.RoleMember, ErrInvalidEmail},
		{"owner role", "alice", "dana@example.com", household.RoleOwner, ErrInvalidRole},
		{"member actor", "carol", "dana@example.com", household.RoleMember, ErrForbidden},
		{"outsider actor", "mallory", "dana@example.com", household.RoleMember, household.ErrNotMember},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, "h1", tc.actor, tc.email, tc.role); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	if repo.writeCalls != 0 {
		t.Errorf("writeCalls = %d, rejected creates must not touch storage", repo.writeCalls)
	}
}

func TestCreateInvitationDuplicatePending(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	svc := NewService(repo, members, time.Hour)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "h1", "alice", "dana@example.com", household.RoleMember); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(ctx, "h1", "bob", "dana@example.com", household.RoleAdmin); !errors.Is(err, ErrDuplicateInvitation) {
		t.Errorf("err = %v, want ErrDuplicateInvitation", err)
	}
}

func TestAcceptGrantsInvitedRole(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	svc := NewService(repo, members, time.Hour)
	ctx := context.Background()

	seedInvitation(repo, Invitation{
		ID:          "inv1",
		HouseholdID: "h1",
		Email:       "dana@example.com",
		Role:        household.RoleAdmin,
		Token:       "tok-dana",
		Status:      StatusPending,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
		Household:   household.Household{ID: "h1", Name: "Home"},
	})

	result, err := svc.Accept(ctx, "tok-dana", "dana", "dana@example.com")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if result.HouseholdID != "h1" || result.HouseholdName != "Home" {
		t.Errorf("result = %+v, want h1/Home", result)
	}
	if members.roles["h1"]["dana"] != household.RoleAdmin {
		t.Errorf("dana role = %s, want the invitation's role", members.roles["h1"]["dana"])
	}
	if repo.invitations["inv1"].Status != StatusAccepted {
		t.Errorf("stored status = %s, want accepted", repo.invitations["inv1"].Status)
	}
}

func TestAcceptUnusableTokens(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	svc := NewService(repo, members, time.Hour)
	ctx := context.Background()

	seedInvitation(repo, Invitation{
		ID:          "stale",
		HouseholdID: "h1",
		Email:       "dana@example.com",
		Role:        household.RoleMember,
		Token:       "tok-stale",
		Status:      StatusPending,
		ExpiresAt:   time.Now().UTC().Add(-time.Minute),
	})
	seedInvitation(repo, Invitation{
		ID:          "done",
		HouseholdID: "h1",
		Email:       "dana@example.com",
		Role:        household.RoleMember,
		Token:       "tok-done",
		Status:      StatusAccepted,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	})

	cases := []struct {
		name  string
		token string
		email string
		want  error
	}{
		{"empty token", "  ", "dana@example.com", ErrInvalidToken},
		{"unknown token", "tok-missing", "dana@example.com", ErrInvitationUnusable},
		{"expired", "tok-stale", "dana@example.com", ErrInvitationUnusable},
		{"already processed", "tok-done", "dana@example.com", ErrInvitationUnusable},
	}
	for _, tc := range cases {
		if _, err := svc.Accept(ctx, tc.token, "dana", tc.email); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}

	if members.joinCalls != 0 {
		t.Errorf("joinCalls = %d, unusable tokens must not create memberships", members.joinCalls)
	}
	if repo.invitations["stale"].Status != StatusPending {
		t.Error("expiry must stay derived; the stored status must remain pending")
	}
}

func TestAcceptEmailMismatch(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	svc := NewService(repo, members, time.Hour)

	seedInvitation(repo, Invitation{
		ID:          "inv1",
		HouseholdID: "h1",
		Email:       "dana@example.com",
		Role:        household.RoleMember,
		Token:       "tok-dana",
		Status:      StatusPending,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	})

	if _, err := svc.Accept(context.Background(), "tok-dana", "eve", "eve@example.com"); !errors.Is(err, ErrEmailMismatch) {
		t.Errorf("err = %v, want ErrEmailMismatch", err)
	}

	// Case differences are not a mismatch.
	if _, err := svc.Accept(context.Background(), "tok-dana", "dana", "Dana@Example.com"); err != nil {
		t.Errorf("case-insensitive match: %v", err)
	}
}

func TestAcceptWhenAlreadyMember(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	members.joinErr = household.ErrAlreadyMember
	svc := NewService(repo, members, time.Hour)

	seedInvitation(repo, Invitation{
		ID:          "inv1",
		HouseholdID: "h1",
		Email:       "carol@example.com",
		Role:        household.RoleMember,
		Token:       "tok-carol",
		Status:      StatusPending,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	})

	if _, err := svc.Accept(context.Background(), "tok-carol", "carol", "carol@example.com"); !errors.Is(err, household.ErrAlreadyMember) {
		t.Fatalf("err = %v, want ErrAlreadyMember", err)
	}
	if repo.invitations["inv1"].Status != StatusPending {
		t.Error("a failed accept must leave the invitation pending")
	}
}

func TestAcceptStatusWriteFailureLeavesCleanState(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	svc := NewService(repo, members, time.Hour)
	ctx := context.Background()

	seedInvitation(repo, Invitation{
		ID:          "inv1",
		HouseholdID: "h1",
		Email:       "dana@example.com",
		Role:        household.RoleMember,
		Token:       "tok-dana",
		Status:      StatusPending,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	})

	repo.statusErr = errors.New("write failed")
	if _, err := svc.Accept(ctx, "tok-dana", "dana", "dana@example.com"); err == nil {
		t.Fatal("expected the status write failure to surface")
	}
	if members.joinCalls != 0 {
		t.Error("no membership may be created when the invitation cannot be marked accepted")
	}
	if repo.invitations["inv1"].Status != StatusPending {
		t.Errorf("status = %s, want pending after rollback", repo.invitations["inv1"].Status)
	}

	// The failed accept left nothing behind, so a retry goes through.
	repo.statusErr = nil
	if _, err := svc.Accept(ctx, "tok-dana", "dana", "dana@example.com"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if members.roles["h1"]["dana"] != household.RoleMember {
		t.Errorf("dana role = %s, want member after retry", members.roles["h1"]["dana"])
	}
	if repo.invitations["inv1"].Status != StatusAccepted {
		t.Errorf("status = %s, want accepted after retry", repo.invitations["inv1"].Status)
	}
}

func TestReject(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	svc := NewService(repo, members, time.Hour)

	seedInvitation(repo, Invitation{
		ID:          "inv1",
		HouseholdID: "h1",
		Email:       "dana@example.com",
		Role:        household.RoleMember,
		Token:       "tok-dana",
		Status:      StatusPending,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	})

	if err := svc.Reject(context.Background(), "tok-dana", "dana@example.com"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if repo.invitations["inv1"].Status != StatusRejected {
		t.Errorf("status = %s, want rejected", repo.invitations["inv1"].Status)
	}
	if members.joinCalls != 0 {
		t.Error("rejection must not create a membership")
	}

	if err := svc.Reject(context.Background(), "tok-dana", "dana@example.com"); !errors.Is(err, ErrInvitationUnusable) {
		t.Errorf("second reject: err = %v, want ErrInvitationUnusable", err)
	}
}

func TestCancel(t *testing.T) {
	repo := newFakeInvitationRepo()
	members := testMemberships()
	svc := NewService(repo, members, time.Hour)
	ctx := context.Background()

	seedInvitation(repo, Invitation{
		ID:          "inv1",
		HouseholdID: "h1",
		Email:       "dana@example.com",
		Role:        household.RoleMember,
		Token:       "tok-dana",
		Status:      StatusPending,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	})
	seedInvitation(repo, Invitation{
		ID:          "inv2",
		HouseholdID: "h1",
		Email:       "erin@example.com",
		Role:        household.RoleMember,
		Token:       "tok-erin",
		Status:      StatusAccepted,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	})

	if err := svc.Cancel(ctx, "h1", "inv1", "carol"); !errors.Is(err, ErrForbidden) {
		t.Errorf("member cancel: err = %v, want ErrForbidden", err)
	}
	if err := svc.Cancel(ctx, "h1", "inv2", "alice"); !errors.Is(err, ErrInvitationUnusable) {
		t.Errorf("cancel processed: err = %v, want ErrInvitationUnusable", err)
	}
	if err := svc.Cancel(ctx, "h1", "missing", "alice"); !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("cancel missing: err = %v, want ErrInvitationNotFound", err)
	}

	if err := svc.Cancel(ctx, "h1", "inv1", "bob"); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if _, ok := repo.invitations["inv1"]; ok {
		t.Error("cancellation must delete the invitation")
	}
}
