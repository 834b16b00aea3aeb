package entities

import (
	"time"

	"gorm.io/gorm"
)

// Sensor is a registered device owned by exactly one user. Only the owner
// may read, modify, or delete it.
type Sensor struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	OwnerID   string         `gorm:"index;type:text;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
