package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"household-ledger-go/internal/domain/household"
	"household-ledger-go/pkg/logger"
)

// Registry owns the client-side collaboration state: the household list,
// at most one expanded household detail, the active household id, and the
// user's own invitation list. All mutations go through its methods; a
// mutex serializes them so a re-fetch can never overwrite a later
// mutation's effect with stale data. Failed mutations leave prior state
// untouched.
type Registry struct {
	mu  sync.Mutex
	api SyncClient
	log logger.Logger

	userID        string
	households    []Household
	detail        *HouseholdDetail
	activeID      string
	myInvitations []Invitation

	tokenMu  sync.Mutex
	inflight map[string]struct{}
}

func NewRegistry(api SyncClient, userID string, log logger.Logger) *Registry {
	return &Registry{
		api:      api,
		log:      log,
		userID:   userID,
		inflight: make(map[string]struct{}),
	}
}

// List replaces the household list wholesale and reconciles the active id.
func (r *Registry) List(ctx context.Context) ([]Household, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	households, err := r.api.ListHouseholds(ctx)
	if err != nil {
		return nil, err
	}

	r.households = households
	r.activeID = Reconcile(r.households, r.activeID)
	return copyHouseholds(r.households), nil
}

// Detail replaces the cached detail wholesale. On failure the previous
// detail is cleared, never left stale, so a view can't show members of the
// wrong household.
func (r *Registry) Detail(ctx context.Context, householdID string) (*HouseholdDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	detail, err := r.api.GetHouseholdDetail(ctx, householdID)
	if err != nil {
		r.detail = nil
		r.log.BusinessError("registry: detail fetch failed, cached detail cleared", err, "household_id", householdID)
		return nil, err
	}

	r.detail = detail
	return copyDetail(detail), nil
}

func (r *Registry) Create(ctx context.Context, name, description, currency string) (*Household, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created, err := r.api.CreateHousehold(ctx, CreateHouseholdRequest{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Currency:    strings.TrimSpace(currency),
	})
	if err != nil {
		return nil, err
	}

	r.households = append(r.households, *created)
	r.activeID = Reconcile(r.households, r.activeID)
	out := *created
	return &out, nil
}

func (r *Registry) Update(ctx context.Context, householdID string, patch HouseholdPatch) (*Household, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role, known := r.roleIn(householdID); known && !household.CanEditSettings(role) {
		return nil, fmt.Errorf("%w: role %s may not edit household settings", ErrForbidden, role)
	}

	updated, err := r.api.UpdateHousehold(ctx, householdID, patch)
	if err != nil {
		return nil, err
	}

	for i := range r.households {
		if r.households[i].ID == householdID {
			updated.MemberCount = r.households[i].MemberCount
			updated.MyRole = r.households[i].MyRole
			r.households[i] = *updated
			break
		}
	}
	if r.detail != nil && r.detail.ID == householdID {
		r.detail.Name = updated.Name
		r.detail.Description = updated.Description
		r.detail.Currency = updated.Currency
	}

	out := *updated
	return &out, nil
}

func (r *Registry) Delete(ctx context.Context, householdID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role, known := r.roleIn(householdID); known && !household.CanDelete(role) {
		return fmt.Errorf("%w: only an owner may delete a household", ErrForbidden)
	}

	if err := r.api.DeleteHousehold(ctx, householdID); err != nil {
		return err
	}

	r.dropHousehold(householdID)
	return nil
}

func (r *Registry) Leave(ctx context.Context, householdID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role, known := r.roleIn(householdID); known && !household.CanLeave(role) {
		return fmt.Errorf("%w: an owner must delete the household instead of leaving it", ErrForbidden)
	}

	if err := r.api.LeaveHousehold(ctx, householdID); err != nil {
		return err
	}

	r.dropHousehold(householdID)
	return nil
}

// UpdateMemberRole mutates then re-fetches the detail rather than patching
// the member list locally: role changes can cascade and the server's view
// is cheaper to re-derive than to reconcile.
func (r *Registry) UpdateMemberRole(ctx context.Context, householdID, userID string, role household.Role) error {
	if !household.Grantable(role) {
		return fmt.Errorf("%w: role %s cannot be granted", ErrValidation, role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkMemberMutation(householdID, userID, household.CanChangeRole); err != nil {
		return err
	}

	if err := r.api.UpdateMemberRole(ctx, householdID, userID, role); err != nil {
		return err
	}
	return r.refetchDetail(ctx, householdID)
}

func (r *Registry) RemoveMember(ctx context.Context, householdID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkMemberMutation(householdID, userID, household.CanRemoveMember); err != nil {
		return err
	}

	if err := r.api.RemoveMember(ctx, householdID, userID); err != nil {
		return err
	}
	return r.refetchDetail(ctx, householdID)
}

// Households returns a copy of the current list.
func (r *Registry) Households() []Household {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyHouseholds(r.households)
}

// CurrentDetail returns a copy of the cached detail, or nil.
func (r *Registry) CurrentDetail() *HouseholdDetail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyDetail(r.detail)
}

func (r *Registry) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeID
}

// SetActive selects a household the user belongs to. An id outside the
// current list is refused so the active-id invariant cannot be broken by
// hand.
func (r *Registry) SetActive(householdID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if householdID == "" {
		r.activeID = Reconcile(r.households, "")
		return nil
	}
	for _, h := range r.households {
		if h.ID == householdID {
			r.activeID = householdID
			return nil
		}
	}
	return fmt.Errorf("%w: household %s is not in the current list", ErrNotFound, householdID)
}

// RestoreActive seeds the active id from persisted state (for example a
// CLI state file) and immediately reconciles it against the current list.
func (r *Registry) RestoreActive(householdID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeID = Reconcile(r.households, householdID)
	return r.activeID
}

func (r *Registry) roleIn(householdID string) (household.Role, bool) {
	for _, h := range r.households {
		if h.ID == householdID {
			return h.MyRole, true
		}
	}
	if r.detail != nil && r.detail.ID == householdID {
		return r.detail.MyRole, true
	}
	return "", false
}

// checkMemberMutation runs a role-policy predicate against locally known
// roles before a member mutation goes on the wire. When either role is
// unknown locally the call proceeds and the server decides.
func (r *Registry) checkMemberMutation(householdID, targetID string, allowed func(actor, target household.Role, isSelf bool) bool) error {
	actorRole, known := r.roleIn(householdID)
	if !known {
		return nil
	}

	var targetRole household.Role
	if r.detail != nil && r.detail.ID == householdID {
		for _, m := range r.detail.Members {
			if m.UserID == targetID {
				targetRole = m.Role
				break
			}
		}
	}
	if targetRole == "" {
		return nil
	}

	if !allowed(actorRole, targetRole, targetID == r.userID) {
		return fmt.Errorf("%w: %s may not act on %s", ErrForbidden, actorRole, targetRole)
	}
	return nil
}

func (r *Registry) refetchDetail(ctx context.Context, householdID string) error {
	detail, err := r.api.GetHouseholdDetail(ctx, householdID)
	if err != nil {
		r.detail = nil
		return fmt.Errorf("refresh household detail: %w", err)
	}
	r.detail = detail
	return nil
}

func (r *Registry) dropHousehold(householdID string) {
	remaining := r.households[:0]
	for _, h := range r.households {
		if h.ID != householdID {
			remaining = append(remaining, h)
		}
	}
	r.households = remaining
	if r.detail != nil && r.detail.ID == householdID {
		r.detail = nil
	}
	r.activeID = Reconcile(r.households, r.activeID)
}

func copyHouseholds(households []Household) []Household {
	out := make([]Household, len(households))
	copy(out, households)
	return out
}

func copyDetail(detail *HouseholdDetail) *HouseholdDetail {
	if detail == nil {
		return nil
	}
	out := *detail
	out.Members = make([]Member, len(detail.Members))
	copy(out.Members, detail.Members)
	return &out
}
