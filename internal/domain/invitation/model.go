package invitation

import (
	"time"

	"household-ledger-go/internal/domain/household"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"

	// StatusExpired is never written to storage; it is derived from
	// ExpiresAt at read time. See Invitation.EffectiveStatus.
	StatusExpired Status = "expired"
)

type Invitation struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	HouseholdID string         `gorm:"type:uuid;not null;index"`
	Email       string         `gorm:"not null;index"`
	Role        household.Role `gorm:"type:varchar(16);not null"`
	InviterID   string         `gorm:"not null"`
	Token       string         `gorm:"size:64;not null;uniqueIndex"`
	Status      Status         `gorm:"type:varchar(16);not null;default:'pending'"`
	ExpiresAt   time.Time      `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`

	Household household.Household `gorm:"foreignKey:HouseholdID;references:ID;constraint:OnDelete:CASCADE"`
}

// View is an invitation shaped for callers: denormalized household name and
// inviter username, expiry already resolved against the given clock.
type View struct {
	ID            string         `json:"id"`
	HouseholdID   string         `json:"household_id"`
	HouseholdName string         `json:"household_name"`
	Email         string         `json:"email"`
	InviterName   string         `json:"inviter_username"`
	Role          household.Role `json:"role"`
	Status        Status         `json:"status"`
	Token         string         `json:"token,omitempty"`
	ExpiresAt     time.Time      `json:"expires_at"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ExpiredAt is the single definition of invitation expiry. Everything that
// needs to know whether an invitation is stale (storage reads, server
// acceptance checks, client rendering) goes through it.
func ExpiredAt(expiresAt, now time.Time) bool {
	return now.After(expiresAt)
}

// IsExpired resolves expiry for a stored invitation. The stored status is
// never mutated because time passed; acceptance re-checks against the
// server clock regardless of what any client rendered.
func IsExpired(inv *Invitation, now time.Time) bool {
	return ExpiredAt(inv.ExpiresAt, now)
}

// EffectiveStatus resolves the pending-but-stale case into StatusExpired
// without touching storage.
func (i *Invitation) EffectiveStatus(now time.Time) Status {
	if i.Status == StatusPending && IsExpired(i, now) {
		return StatusExpired
	}
	return i.Status
}

// Usable reports whether an accept or reject may still act on the invitation.
func (i *Invitation) Usable(now time.Time) bool {
	return i.Status == StatusPending && !IsExpired(i, now)
}
