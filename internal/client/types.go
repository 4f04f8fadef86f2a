package client

import (
	"time"

	"household-ledger-go/internal/domain/household"
	"household-ledger-go/internal/domain/invitation"
)

type Household struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Currency    string         `json:"currency"`
	MemberCount int64          `json:"member_count"`
	MyRole      household.Role `json:"my_role"`
	CreatedAt   time.Time      `json:"created_at"`
}

type Member struct {
	UserID   string         `json:"user_id"`
	Username string         `json:"username"`
	Email    *string        `json:"email,omitempty"`
	Role     household.Role `json:"role"`
	JoinedAt time.Time      `json:"joined_at"`
}

type HouseholdDetail struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Currency    string         `json:"currency"`
	MyRole      household.Role `json:"my_role"`
	CreatedAt   time.Time      `json:"created_at"`
	Members     []Member       `json:"members"`
}

type Invitation struct {
	ID            string            `json:"id"`
	HouseholdID   string            `json:"household_id"`
	HouseholdName string            `json:"household_name"`
	Email         string            `json:"email"`
	InviterName   string            `json:"inviter_username"`
	Role          household.Role    `json:"role"`
	Status        invitation.Status `json:"status"`
	Token         string            `json:"token,omitempty"`
	ExpiresAt     time.Time         `json:"expires_at"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Expired defers to the one expiry definition in the invitation domain.
func (i Invitation) Expired(now time.Time) bool {
	return invitation.ExpiredAt(i.ExpiresAt, now)
}

type AcceptResult struct {
	HouseholdID   string `json:"household_id"`
	HouseholdName string `json:"household_name"`
}

type CreateHouseholdRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// HouseholdPatch carries partial settings updates; nil fields stay untouched.
type HouseholdPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Currency    *string `json:"currency,omitempty"`
}
