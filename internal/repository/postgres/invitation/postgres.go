package invitation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "household-ledger-go/internal/domain/invitation"
	householddomain "household-ledger-go/internal/domain/household"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := r.db.WithContext(ctx).
		Preload("Household").
		Where("token = ?", token).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, householdID, invitationID string) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := r.db.WithContext(ctx).
		Where("id = ? AND household_id = ?", invitationID, householdID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

type viewRow struct {
	ID            string               `gorm:"column:id"`
	HouseholdID   string               `gorm:"column:household_id"`
	HouseholdName string               `gorm:"column:household_name"`
	Email         string               `gorm:"column:email"`
	InviterID     string               `gorm:"column:inviter_id"`
	InviterName   *string              `gorm:"column:inviter_name"`
	Role          householddomain.Role `gorm:"column:role"`
	Status        domain.Status        `gorm:"column:status"`
	Token         string               `gorm:"column:token"`
	ExpiresAt     time.Time            `gorm:"column:expires_at"`
	CreatedAt     time.Time            `gorm:"column:created_at"`
}

const viewSelect = `invitations.id, invitations.household_id, households.name AS household_name,
	invitations.email, invitations.inviter_id, user_profiles.username AS inviter_name,
	invitations.role, invitations.status, invitations.token, invitations.expires_at, invitations.created_at`

func (r *PostgresRepository) ListForHousehold(ctx context.Context, householdID string) ([]domain.View, error) {
	var rows []viewRow
	err := r.db.WithContext(ctx).
		Table("invitations").
		Select(viewSelect).
		Joins("JOIN households ON households.id = invitations.household_id").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = invitations.inviter_id").
		Where("invitations.household_id = ?", householdID).
		Order("invitations.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	// The token is a bearer secret; household listings never include it.
	return toViews(rows, false), nil
}

func (r *PostgresRepository) ListForEmail(ctx context.Context, email string) ([]domain.View, error) {
	var rows []viewRow
	err := r.db.WithContext(ctx).
		Table("invitations").
		Select(viewSelect).
		Joins("JOIN households ON households.id = invitations.household_id").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = invitations.inviter_id").
		Where("invitations.email = ? AND invitations.status = ? AND invitations.expires_at > ?",
			email, domain.StatusPending, time.Now().UTC()).
		Order("invitations.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toViews(rows, true), nil
}

func (r *PostgresRepository) HasPending(ctx context.Context, householdID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("household_id = ? AND email = ? AND status = ? AND expires_at > ?",
			householdID, email, domain.StatusPending, time.Now().UTC()).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, invitationID string, status domain.Status) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Invitation{}).
		Where("id = ?", invitationID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, invitationID string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Invitation{}, "id = ?", invitationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// toViews shapes rows for callers. withTokens is true only for the
// invitee's own listing; everywhere else the token stays out of the view.
func toViews(rows []viewRow, withTokens bool) []domain.View {
	now := time.Now().UTC()
	views := make([]domain.View, 0, len(rows))
	for _, row := range rows {
		status := row.Status
		if status == domain.StatusPending && domain.ExpiredAt(row.ExpiresAt, now) {
			status = domain.StatusExpired
		}
		inviter := row.InviterID
		if row.InviterName != nil && *row.InviterName != "" {
			inviter = *row.InviterName
		}
		token := ""
		if withTokens {
			token = row.Token
		}
		views = append(views, domain.View{
			ID:            row.ID,
			HouseholdID:   row.HouseholdID,
			HouseholdName: row.HouseholdName,
			Email:         row.Email,
			InviterName:   inviter,
			Role:          row.Role,
			Status:        status,
			Token:         token,
			ExpiresAt:     row.ExpiresAt,
			CreatedAt:     row.CreatedAt,
		})
	}
	return views
}
