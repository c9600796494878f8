package models

import (
	"time"
)

// User is a Google account that has signed in at least once.
type User struct {
	ID        string    `gorm:"primaryKey"           json:"id"`
	GoogleID  string    `gorm:"uniqueIndex;not null" json:"-"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName falls back to the email when Google returned no name
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
