// user.go - Defines the User model for the database

package models

import "time"

type User struct { // User represents an account that owns food log entries
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"unique;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`                // bcrypt hash, never serialized
	Streak      int        `gorm:"not null;default:0" json:"streak"` // Consecutive calendar days with a log
	LastLogDate *time.Time `json:"lastLogDate"`                      // Calendar date (midnight UTC) of the last qualifying save
	Version     int        `gorm:"not null;default:0" json:"-"`      // Optimistic lock for streak updates
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
