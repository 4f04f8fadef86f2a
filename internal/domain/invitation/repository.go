package invitation

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, inv *Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	GetByID(ctx context.Context, householdID, invitationID string) (*Invitation, error)
	ListForHousehold(ctx context.Context, householdID string) ([]View, error)
	ListForEmail(ctx context.Context, email string) ([]View, error)
	HasPending(ctx context.Context, householdID, email string) (bool, error)
	UpdateStatus(ctx context.Context, invitationID string, status Status) error
	Delete(ctx context.Context, invitationID string) error
}
