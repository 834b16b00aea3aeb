package entities

import (
	"time"

	"gorm.io/gorm"
)

// Reading is a single time-stamped measurement belonging to one sensor.
// Readings are append-only; they are removed only when their sensor is
// deleted. Timestamp is the caller-supplied event time, not insertion time.
type Reading struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SensorID    uint           `gorm:"index" json:"-"`
	Temperature float64        `json:"temperature"`
	Humidity    *float64       `json:"humidity"`
	Timestamp   time.Time      `gorm:"index" json:"timestamp"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
