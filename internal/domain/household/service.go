package household

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const fallbackCurrency = "USD"

type Service struct {
	repo            Repository
	defaultCurrency string
}

func NewService(repo Repository, defaultCurrency string) *Service {
	defaultCurrency = strings.ToUpper(strings.TrimSpace(defaultCurrency))
	if defaultCurrency == "" {
		defaultCurrency = fallbackCurrency
	}
	return &Service{repo: repo, defaultCurrency: defaultCurrency}
}

// Create makes a new household and installs the creator as its sole owner,
// both inside one transaction.
func (s *Service) Create(ctx context.Context, userID, name, description, currency string) (*Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	if !validCurrency(currency) {
		return nil, ErrInvalidCurrency
	}

	h := Household{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Currency:    currency,
		CreatedBy:   userID,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateHousehold(ctx, &h); err != nil {
			return err
		}
		return tx.AddMember(ctx, &Member{
			HouseholdID: h.ID,
			UserID:      userID,
			Role:        RoleOwner,
		})
	})
	if err != nil {
		return nil, err
	}

	return &h, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Summary, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Detail returns the household with its full member list. Only members may
// look inside a household.
func (s *Service) Detail(ctx context.Context, householdID, userID string) (*Detail, error) {
	h, err := s.repo.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	if _, err := s.memberOrForbidden(ctx, s.repo, householdID, userID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMemberProfiles(ctx, householdID)
	if err != nil {
		return nil, err
	}

	return &Detail{Household: *h, Members: members}, nil
}

func (s *Service) Update(ctx context.Context, householdID, userID string, patch Patch) (*Household, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("name is required")
		}
		patch.Name = &trimmed
	}
	if patch.Currency != nil {
		upper := strings.ToUpper(strings.TrimSpace(*patch.Currency))
		if !validCurrency(upper) {
			return nil, ErrInvalidCurrency
		}
		patch.Currency = &upper
	}

	var result *Household
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := s.memberOrForbidden(ctx, tx, householdID, userID)
		if err != nil {
			return err
		}
		if !CanEditSettings(actor.Role) {
			return ErrForbidden
		}
		if err := tx.UpdateHousehold(ctx, householdID, patch); err != nil {
			return err
		}
		result, err = tx.GetHousehold(ctx, householdID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the household and, through the storage cascade, every
// membership and pending invitation under it.
func (s *Service) Delete(ctx context.Context, householdID, userID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := s.memberOrForbidden(ctx, tx, householdID, userID)
		if err != nil {
			return err
		}
		if !CanDelete(actor.Role) {
			return ErrForbidden
		}
		return tx.DeleteHousehold(ctx, householdID)
	})
}

func (s *Service) UpdateMemberRole(ctx context.Context, householdID, actorID, targetID string, role Role) error {
	if !Grantable(role) {
		return ErrInvalidRole
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := s.memberOrForbidden(ctx, tx, householdID, actorID)
		if err != nil {
			return err
		}
		target, err := tx.GetMember(ctx, householdID, targetID)
		if err != nil {
			return err
		}
		if !CanChangeRole(actor.Role, target.Role, actorID == targetID) {
			return ErrForbidden
		}
		return tx.UpdateMemberRole(ctx, householdID, targetID, role)
	})
}

func (s *Service) RemoveMember(ctx context.Context, householdID, actorID, targetID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := s.memberOrForbidden(ctx, tx, householdID, actorID)
		if err != nil {
			return err
		}
		target, err := tx.GetMember(ctx, householdID, targetID)
		if err != nil {
			return err
		}
		if !CanRemoveMember(actor.Role, target.Role, actorID == targetID) {
			return ErrForbidden
		}
		return tx.DeleteMember(ctx, householdID, targetID)
	})
}

func (s *Service) Leave(ctx context.Context, householdID, userID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := s.memberOrForbidden(ctx, tx, householdID, userID)
		if err != nil {
			return err
		}
		if !CanLeave(member.Role) {
			return ErrOwnerCannotLeave
		}
		return tx.DeleteMember(ctx, householdID, userID)
	})
}

// Join adds a membership with the given role. It is invoked by invitation
// acceptance, never directly by a transport handler.
func (s *Service) Join(ctx context.Context, householdID, userID string, role Role) error {
	if !Grantable(role) {
		return ErrInvalidRole
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetHousehold(ctx, householdID); err != nil {
			return err
		}
		exists, err := tx.IsMember(ctx, householdID, userID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyMember
		}
		return tx.AddMember(ctx, &Member{
			HouseholdID: householdID,
			UserID:      userID,
			Role:        role,
		})
	})
}

// RoleOf reports the role userID holds in the household, or ErrNotMember.
func (s *Service) RoleOf(ctx context.Context, householdID, userID string) (Role, error) {
	member, err := s.memberOrForbidden(ctx, s.repo, householdID, userID)
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

func (s *Service) memberOrForbidden(ctx context.Context, repo Repository, householdID, userID string) (*Member, error) {
	member, err := repo.GetMember(ctx, householdID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return member, nil
}

func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
