package client

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"household-ledger-go/internal/domain/household"
)

// Invitation lifecycle operations. Accept and reject carry a per-token
// in-flight guard: a duplicate submission while the first round trip is
// still out returns ErrRequestInFlight instead of issuing a second call,
// because the server does not promise idempotent token redemption.

func (r *Registry) CreateInvitation(ctx context.Context, householdID, email string, role household.Role) (*Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: %q is not an email address", ErrValidation, email)
	}
	if !household.Grantable(role) {
		return nil, fmt.Errorf("%w: an invitation cannot grant role %q", ErrValidation, role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if actorRole, known := r.roleIn(householdID); known && !household.CanInvite(actorRole) {
		return nil, fmt.Errorf("%w: role %s may not invite", ErrForbidden, actorRole)
	}

	inv, err := r.api.CreateInvitation(ctx, householdID, email, role)
	if err != nil {
		return nil, err
	}

	// The household's invitation list is now stale; callers re-fetch it
	// through HouseholdInvitations.
	out := *inv
	return &out, nil
}

// HouseholdInvitations is a read-through: the registry does not cache
// per-household invitation lists.
func (r *Registry) HouseholdInvitations(ctx context.Context, householdID string) ([]Invitation, error) {
	return r.api.ListHouseholdInvitations(ctx, householdID)
}

func (r *Registry) CancelInvitation(ctx context.Context, householdID, invitationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actorRole, known := r.roleIn(householdID); known && !household.CanInvite(actorRole) {
		return fmt.Errorf("%w: role %s may not cancel invitations", ErrForbidden, actorRole)
	}

	return r.api.CancelInvitation(ctx, householdID, invitationID)
}

// RefreshMyInvitations replaces the user's own invitation list wholesale.
func (r *Registry) RefreshMyInvitations(ctx context.Context) ([]Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	invitations, err := r.api.ListMyInvitations(ctx)
	if err != nil {
		return nil, err
	}
	r.myInvitations = invitations
	return copyInvitations(r.myInvitations), nil
}

func (r *Registry) MyInvitations() []Invitation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyInvitations(r.myInvitations)
}

// AcceptInvitation redeems a token. On success a new membership exists
// server-side, so the household list and the user's invitation list are
// both refreshed before returning. On failure nothing changes locally;
// the cached myInvitations entry for the token is not optimistically
// removed.
func (r *Registry) AcceptInvitation(ctx context.Context, token string) (*AcceptResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	if !r.beginToken(token) {
		return nil, ErrRequestInFlight
	}
	defer r.endToken(token)

	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.api.AcceptInvitation(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := r.refreshAfterAccept(ctx); err != nil {
		// Membership was created; only the local refresh failed. Surface
		// it so the caller can retry List, with the result still usable.
		r.log.BusinessError("registry: post-accept refresh failed", err, "household_id", result.HouseholdID)
		return result, fmt.Errorf("invitation accepted but refresh failed: %w", err)
	}
	return result, nil
}

// RejectInvitation declines a token; only the user's own invitation list
// changes.
func (r *Registry) RejectInvitation(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	if !r.beginToken(token) {
		return ErrRequestInFlight
	}
	defer r.endToken(token)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.api.RejectInvitation(ctx, token); err != nil {
		return err
	}

	invitations, err := r.api.ListMyInvitations(ctx)
	if err != nil {
		return fmt.Errorf("invitation rejected but refresh failed: %w", err)
	}
	r.myInvitations = invitations
	return nil
}

func (r *Registry) refreshAfterAccept(ctx context.Context) error {
	households, err := r.api.ListHouseholds(ctx)
	if err != nil {
		return err
	}
	r.households = households
	r.activeID = Reconcile(r.households, r.activeID)

	invitations, err := r.api.ListMyInvitations(ctx)
	if err != nil {
		return err
	}
	r.myInvitations = invitations
	return nil
}

func (r *Registry) beginToken(token string) bool {
	r.tokenMu.Lock()
	defer r.tokenMu.Unlock()
	if _, busy := r.inflight[token]; busy {
		return false
	}
	r.inflight[token] = struct{}{}
	return true
}

func (r *Registry) endToken(token string) {
	r.tokenMu.Lock()
	defer r.tokenMu.Unlock()
	delete(r.inflight, token)
}

func copyInvitations(invitations []Invitation) []Invitation {
	out := make([]Invitation, len(invitations))
	copy(out, invitations)
	return out
}
