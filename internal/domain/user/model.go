package user

import "time"

// Profile mirrors what the external identity service knows about a user.
// It is refreshed on every authenticated request so member lists and
// invitation views can show usernames without calling the identity service.
type Profile struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Email     *string   `gorm:"type:text;index"`
	Username  *string   `gorm:"type:text"`
	AvatarURL *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string { return "user_profiles" }
