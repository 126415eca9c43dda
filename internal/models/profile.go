package models

import "time"

// Profile is the one-to-one extension of a User. It is created in the same
// transaction as its User.
type Profile struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	Avatar    string    `gorm:"type:varchar(512)" json:"avatar"`
	Position  string    `gorm:"type:varchar(100)" json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
}
