package household

import "time"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Grantable reports whether an invitation may carry the role.
// Ownership is only ever established at household creation.
func Grantable(role Role) bool {
	return role == RoleAdmin || role == RoleMember
}

type Household struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	Currency    string    `gorm:"size:3;not null"`
	CreatedBy   string    `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type Member struct {
	HouseholdID string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"primaryKey"`
	Role        Role      `gorm:"type:varchar(16);not null"`
	JoinedAt    time.Time `gorm:"autoCreateTime"`

	Household Household `gorm:"foreignKey:HouseholdID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Member) TableName() string { return "household_members" }

// Summary is one row of a user's household list: the household plus
// membership facts the list view needs.
type Summary struct {
	Household
	MemberCount int64 `gorm:"-"`
	MyRole      Role  `gorm:"-"`
}

// MemberProfile is a membership row joined with the user's profile.
type MemberProfile struct {
	UserID   string
	Username string
	Email    *string
	Role     Role
	JoinedAt time.Time
}

type Detail struct {
	Household
	Members []MemberProfile
}

// Patch carries partial household settings updates; nil fields are untouched.
type Patch struct {
	Name        *string
	Description *string
	Currency    *string
}
