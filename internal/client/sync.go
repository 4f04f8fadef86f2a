package client

import (
	"context"

	"household-ledger-go/internal/domain/household"
)

// SyncClient is the network boundary the registry and invitation lifecycle
// operate against. The HTTP implementation talks to the ledger server; tests
// substitute fakes.
type SyncClient interface {
	ListHouseholds(ctx context.Context) ([]Household, error)
	GetHouseholdDetail(ctx context.Context, householdID string) (*HouseholdDetail, error)
	CreateHousehold(ctx context.Context, req CreateHouseholdRequest) (*Household, error)
	UpdateHousehold(ctx context.Context, householdID string, patch HouseholdPatch) (*Household, error)
	DeleteHousehold(ctx context.Context, householdID string) error
	LeaveHousehold(ctx context.Context, householdID string) error
	UpdateMemberRole(ctx context.Context, householdID, userID string, role household.Role) error
	RemoveMember(ctx context.Context, householdID, userID string) error
	CreateInvitation(ctx context.Context, householdID, email string, role household.Role) (*Invitation, error)
	ListHouseholdInvitations(ctx context.Context, householdID string) ([]Invitation, error)
	CancelInvitation(ctx context.Context, householdID, invitationID string) error
	ListMyInvitations(ctx context.Context) ([]Invitation, error)
	AcceptInvitation(ctx context.Context, token string) (*AcceptResult, error)
	RejectInvitation(ctx context.Context, token string) error
}
