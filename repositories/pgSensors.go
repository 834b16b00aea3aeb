package repositories

import (
	"strings"
	"telemetry-server/db"
	"telemetry-server/entities"

	"gorm.io/gorm"
)

type sensorPgRepository struct {
	db db.Database
}

func NewSensorPgRepository(database db.Database) SensorRepository {
	return &sensorPgRepository{db: database}
}

func (r *sensorPgRepository) Create(sensor *entities.Sensor) error {
	return r.db.GetDB().Create(sensor).Error
}

// GetByIDAndOwner folds the ownership check into the lookup predicate, so a
// sensor owned by another user is indistinguishable from a missing one.
func (r *sensorPgRepository) GetByIDAndOwner(id uint, ownerID string) (*entities.Sensor, error) {
	var sensor entities.Sensor
	err := r.db.GetDB().Where("id = ? AND owner_id = ?", id, ownerID).First(&sensor).Error
	if err != nil {
		return nil, err
	}
	return &sensor, nil
}

// ListByOwner returns one page of the caller's sensors plus the total match
// count. query, when non-empty, is matched case-insensitively as a substring
// of name OR type. No ordering is imposed beyond the database default.
func (r *sensorPgRepository) ListByOwner(ownerID, query string, limit, offset int) ([]entities.Sensor, int64, error) {
	tx := r.db.GetDB().Model(&entities.Sensor{}).Where("owner_id = ?", ownerID)
	if query != "" {
		// LOWER on both sides behaves the same on postgres and sqlite
		pattern := "%" + strings.ToLower(query) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(type) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sensors []entities.Sensor
	err := tx.Limit(limit).Offset(offset).Find(&sensors).Error
	return sensors, total, err
}

func (r *sensorPgRepository) Update(sensor *entities.Sensor) error {
	return r.db.GetDB().Save(sensor).Error
}

// DeleteCascade removes a sensor and all of its readings in one transaction.
// Ownership must already have been verified by the caller.
func (r *sensorPgRepository) DeleteCascade(id uint) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sensor_id = ?", id).Delete(&entities.Reading{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Sensor{}, id).Error
	})
}
