package household

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateHousehold(ctx context.Context, h *Household) error
	GetHousehold(ctx context.Context, householdID string) (*Household, error)
	ListByUser(ctx context.Context, userID string) ([]Summary, error)
	UpdateHousehold(ctx context.Context, householdID string, patch Patch) error
	DeleteHousehold(ctx context.Context, householdID string) error
	AddMember(ctx context.Context, member *Member) error
	GetMember(ctx context.Context, householdID, userID string) (*Member, error)
	ListMemberProfiles(ctx context.Context, householdID string) ([]MemberProfile, error)
	UpdateMemberRole(ctx context.Context, householdID, userID string, role Role) error
	DeleteMember(ctx context.Context, householdID, userID string) error
	IsMember(ctx context.Context, householdID, userID string) (bool, error)
}
