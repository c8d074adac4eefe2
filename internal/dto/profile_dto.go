package dto

import (
	"time"

	"gwatch.ca/goosewatch/internal/entity"
)

type UpsertProfileRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Bio         string `json:"bio"`
	AvatarEmoji string `json:"avatarEmoji"`
}

type ProfileResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio"`
	AvatarEmoji string    `json:"avatarEmoji"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewProfileResponse(p entity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		AvatarEmoji: p.AvatarEmoji,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
