package model

import "time"

type Profile struct {
	ID          string    `gorm:"primaryKey;size:128" json:"id"`
	DisplayName string    `gorm:"size:40;not null" json:"display_name"`
	Bio         string    `gorm:"size:160;default:''" json:"bio"`
	AvatarEmoji string    `gorm:"size:8" json:"avatar_emoji"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
