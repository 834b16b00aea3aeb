package repositories

import (
	"telemetry-server/entities"
	"time"
)

type UserRepository interface {
	Create(user *entities.User) error
	GetByUsername(username string) (*entities.User, error)
	GetByID(id string) (*entities.User, error)
}

type TokenRepository interface {
	GetOrCreate(userID string) (*entities.Token, error)
	GetByKey(key string) (*entities.Token, error)
}

type SensorRepository interface {
	Create(sensor *entities.Sensor) error
	GetByIDAndOwner(id uint, ownerID string) (*entities.Sensor, error)
	ListByOwner(ownerID, query string, limit, offset int) ([]entities.Sensor, int64, error)
	Update(sensor *entities.Sensor) error
	DeleteCascade(id uint) error
}

type ReadingRepository interface {
	Create(reading *entities.Reading) error
	ListBySensor(sensorID uint, from, to *time.Time) ([]entities.Reading, error)
}
