package models

import (
	"time"
)

// TokenRecord holds the Google credential a user granted for Search Console.
// There is at most one row per user.
type TokenRecord struct {
	ID           string    `gorm:"primaryKey"`
	UserID       string    `gorm:"uniqueIndex;not null"`
	AccessToken  string    `gorm:"type:text" json:"-"`
	RefreshToken string    `gorm:"type:text" json:"-"`
	Expiry       time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the table name used by TokenRecord to `user_tokens`
func (TokenRecord) TableName() string {
	return "user_tokens"
}

// HasAccessToken reports whether the record can be used to call Google APIs
func (t *TokenRecord) HasAccessToken() bool {
	return t != nil && t.AccessToken != ""
}
