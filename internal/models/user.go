package models

import "time"

// User represents an application user. Users are immutable once registered.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" bson:"_id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" bson:"username"`
	PasswordHash string    `gorm:"size:255;not null" bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}
