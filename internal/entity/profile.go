package entity

import "time"

// Profile is a lightweight, self-assigned identity. The id is a client-issued
// opaque token, not an authenticated account.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio"`
	AvatarEmoji string    `json:"avatarEmoji"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
