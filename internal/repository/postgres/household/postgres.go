package household

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "household-ledger-go/internal/domain/household"
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

func (r *PostgresRepository) CreateHousehold(ctx context.Context, h *domain.Household) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *PostgresRepository) GetHousehold(ctx context.Context, householdID string) (*domain.Household, error) {
	var h domain.Household
	if err := r.db.WithContext(ctx).First(&h, "id = ?", householdID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHouseholdNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]domain.Summary, error) {
	type row struct {
		domain.Household
		MemberCount int64       `gorm:"column:member_count"`
		MyRole      domain.Role `gorm:"column:my_role"`
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Table("households").
		Select(`households.*, mine.role AS my_role,
			(SELECT COUNT(1) FROM household_members hm WHERE hm.household_id = households.id) AS member_count`).
		Joins("JOIN household_members mine ON mine.household_id = households.id").
		Where("mine.user_id = ?", userID).
		Order("households.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.Summary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, domain.Summary{
			Household:   r.Household,
			MemberCount: r.MemberCount,
			MyRole:      r.MyRole,
		})
	}
	return summaries, nil
}

func (r *PostgresRepository) UpdateHousehold(ctx context.Context, householdID string, patch domain.Patch) error {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Currency != nil {
		updates["currency"] = *patch.Currency
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Household{}).
		Where("id = ?", householdID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrHouseholdNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteHousehold(ctx context.Context, householdID string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Household{}, "id = ?", householdID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrHouseholdNotFound
	}
	return nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) GetMember(ctx context.Context, householdID, userID string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMemberProfiles(ctx context.Context, householdID string) ([]domain.MemberProfile, error) {
	type row struct {
		UserID   string      `gorm:"column:user_id"`
		Username *string     `gorm:"column:username"`
		Email    *string     `gorm:"column:email"`
		Role     domain.Role `gorm:"column:role"`
		JoinedAt time.Time   `gorm:"column:joined_at"`
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Table("household_members").
		Select("household_members.user_id, household_members.role, household_members.joined_at, user_profiles.username, user_profiles.email").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = household_members.user_id").
		Where("household_members.household_id = ?", householdID).
		Order("household_members.joined_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]domain.MemberProfile, 0, len(rows))
	for _, r := range rows {
		username := r.UserID
		if r.Username != nil && *r.Username != "" {
			username = *r.Username
		}
		members = append(members, domain.MemberProfile{
			UserID:   r.UserID,
			Username: username,
			Email:    r.Email,
			Role:     r.Role,
			JoinedAt: r.JoinedAt,
		})
	}
	return members, nil
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, householdID, userID string, role domain.Role) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, householdID, userID string) error {
	result := r.db.WithContext(ctx).
		Delete(&domain.Member{}, "household_id = ? AND user_id = ?", householdID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Count(&count).Error
	return count > 0, err
}
