package repositories

import (
	"telemetry-server/db"
	"telemetry-server/entities"
	"time"
)

type readingPgRepository struct {
	db db.Database
}

func NewReadingPgRepository(database db.Database) ReadingRepository {
	return &readingPgRepository{db: database}
}

func (r *readingPgRepository) Create(reading *entities.Reading) error {
	return r.db.GetDB().Create(reading).Error
}

// ListBySensor returns a sensor's readings newest first. from and to are
// inclusive bounds on the event timestamp; either may be nil.
func (r *readingPgRepository) ListBySensor(sensorID uint, from, to *time.Time) ([]entities.Reading, error) {
	tx := r.db.GetDB().Where("sensor_id = ?", sensorID)
	if from != nil {
		tx = tx.Where("timestamp >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("timestamp <= ?", *to)
	}

	var readings []entities.Reading
	err := tx.Order("timestamp DESC").Find(&readings).Error
	return readings, err
}
