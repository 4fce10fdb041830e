package models

import "time"

// WaitlistEntry is one signup. Rows are never updated; deletion is physical.
type WaitlistEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null;index"`
}
