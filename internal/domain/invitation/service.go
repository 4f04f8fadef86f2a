package invitation

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"household-ledger-go/internal/domain/household"
)

const (
	tokenLength = 32
	DefaultTTL  = 7 * 24 * time.Hour
)

// Memberships is the slice of the household service the invitation
// lifecycle needs: who is the actor in a household, and installing the
// membership an accepted invitation grants.
type Memberships interface {
	RoleOf(ctx context.Context, householdID, userID string) (household.Role, error)
	Join(ctx context.Context, householdID, userID string, role household.Role) error
}

type Service struct {
	repo    Repository
	members Memberships
	ttl     time.Duration
}

func NewService(repo Repository, members Memberships, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, members: members, ttl: ttl}
}

// Create issues a pending invitation. The actor must hold invite privilege
// in the target household, the email must be shaped like an email, and the
// role must be grantable (never owner).
func (s *Service) Create(ctx context.Context, householdID, actorID, email string, role household.Role) (*View, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if !household.Grantable(role) {
		return nil, ErrInvalidRole
	}

	actorRole, err := s.members.RoleOf(ctx, householdID, actorID)
	if err != nil {
		return nil, err
	}
	if !household.CanInvite(actorRole) {
		return nil, ErrForbidden
	}

	var created *Invitation
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		pending, err := tx.HasPending(ctx, householdID, email)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicateInvitation
		}

		token, err := generateToken(tokenLength)
		if err != nil {
			return err
		}

		inv := Invitation{
			ID:          uuid.NewString(),
			HouseholdID: householdID,
			Email:       email,
			Role:        role,
			InviterID:   actorID,
			Token:       token,
			Status:      StatusPending,
			ExpiresAt:   time.Now().UTC().Add(s.ttl),
		}
		if err := tx.Create(ctx, &inv); err != nil {
			return err
		}
		created = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &View{
		ID:          created.ID,
		HouseholdID: created.HouseholdID,
		Email:       created.Email,
		Role:        created.Role,
		Status:      created.Status,
		Token:       created.Token,
		ExpiresAt:   created.ExpiresAt,
		CreatedAt:   created.CreatedAt,
	}, nil
}

// ListForHousehold returns a household's invitations for its members.
func (s *Service) ListForHousehold(ctx context.Context, householdID, actorID string) ([]View, error) {
	if _, err := s.members.RoleOf(ctx, householdID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListForHousehold(ctx, householdID)
}

// ListForEmail returns the invitee's pending, unexpired invitations.
func (s *Service) ListForEmail(ctx context.Context, email string) ([]View, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForEmail(ctx, email)
}

// AcceptResult identifies the household an accepted invitation joined.
type AcceptResult struct {
	HouseholdID   string `json:"household_id"`
	HouseholdName string `json:"household_name"`
}

// Accept redeems a token: it creates the membership at the invitation's role
// and marks the invitation accepted. A token whose invitation is expired,
// already processed, or gone yields ErrInvitationUnusable. The status write
// goes first inside the transaction: a failed membership insert rolls the
// invitation back to pending, and a failed status write never creates a
// membership, so retrying a failed accept always starts from a clean state.
func (s *Service) Accept(ctx context.Context, token, userID, email string) (*AcceptResult, error) {
	inv, err := s.usableByToken(ctx, token, email)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.UpdateStatus(ctx, inv.ID, StatusAccepted); err != nil {
			return err
		}
		return s.members.Join(ctx, inv.HouseholdID, userID, inv.Role)
	})
	if err != nil {
		return nil, err
	}

	return &AcceptResult{
		HouseholdID:   inv.HouseholdID,
		HouseholdName: inv.Household.Name,
	}, nil
}

// Reject declines a token. No membership is created.
func (s *Service) Reject(ctx context.Context, token, email string) error {
	inv, err := s.usableByToken(ctx, token, email)
	if err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, inv.ID, StatusRejected)
}

// Cancel removes a still-pending invitation. Cancellation needs the same
// privilege as creation and is a deletion, not a status write.
func (s *Service) Cancel(ctx context.Context, householdID, invitationID, actorID string) error {
	actorRole, err := s.members.RoleOf(ctx, householdID, actorID)
	if err != nil {
		return err
	}
	if !household.CanInvite(actorRole) {
		return ErrForbidden
	}

	inv, err := s.repo.GetByID(ctx, householdID, invitationID)
	if err != nil {
		return err
	}
	if inv.Status != StatusPending {
		return ErrInvitationUnusable
	}
	return s.repo.Delete(ctx, inv.ID)
}

func (s *Service) usableByToken(ctx context.Context, token, email string) (*Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvitationNotFound) {
			return nil, ErrInvitationUnusable
		}
		return nil, err
	}

	if email != "" && !strings.EqualFold(inv.Email, email) {
		return nil, ErrEmailMismatch
	}
	if !inv.Usable(time.Now().UTC()) {
		return nil, ErrInvitationUnusable
	}
	return inv, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func generateToken(length int) (string, error) {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}
