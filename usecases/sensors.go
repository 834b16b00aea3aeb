package usecases

import (
	"errors"
	"telemetry-server/entities"
	"telemetry-server/repositories"
	"time"

	"gorm.io/gorm"
)

// PageSize is the fixed number of sensors per list page.
const PageSize = 10

var ErrSensorNotFound = errors.New("sensor not found")

type SensorUseCase struct {
	SensorRepo  repositories.SensorRepository
	ReadingRepo repositories.ReadingRepository
}

func NewSensorUseCase(sensorRepo repositories.SensorRepository, readingRepo repositories.ReadingRepository) *SensorUseCase {
	return &SensorUseCase{
		SensorRepo:  sensorRepo,
		ReadingRepo: readingRepo,
	}
}

// CreateSensor creates a sensor owned by ownerID.
func (uc *SensorUseCase) CreateSensor(ownerID string, sensor *entities.Sensor) error {
	if sensor.Name == "" {
		return errors.New("sensor name is required")
	}
	if sensor.Type == "" {
		return errors.New("sensor type is required")
	}
	sensor.OwnerID = ownerID
	return uc.SensorRepo.Create(sensor)
}

// GetSensor retrieves a sensor owned by ownerID. A sensor belonging to
// another user resolves to ErrSensorNotFound, never to the record.
func (uc *SensorUseCase) GetSensor(ownerID string, id uint) (*entities.Sensor, error) {
	sensor, err := uc.SensorRepo.GetByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSensorNotFound
		}
		return nil, err
	}
	return sensor, nil
}

// ListSensors returns one fixed-size page of the caller's sensors and the
// total number of matches. page is 1-based.
func (uc *SensorUseCase) ListSensors(ownerID, query string, page int) ([]entities.Sensor, int64, error) {
	if page < 1 {
		page = 1
	}
	return uc.SensorRepo.ListByOwner(ownerID, query, PageSize, (page-1)*PageSize)
}

// UpdateSensor replaces name and type on an owned sensor.
func (uc *SensorUseCase) UpdateSensor(ownerID string, id uint, name, sensorType string) (*entities.Sensor, error) {
	if name == "" {
		return nil, errors.New("sensor name is required")
	}
	if sensorType == "" {
		return nil, errors.New("sensor type is required")
	}

	sensor, err := uc.GetSensor(ownerID, id)
	if err != nil {
		return nil, err
	}

	sensor.Name = name
	sensor.Type = sensorType
	if err := uc.SensorRepo.Update(sensor); err != nil {
		return nil, err
	}
	return sensor, nil
}

// DeleteSensor removes an owned sensor and all of its readings.
func (uc *SensorUseCase) DeleteSensor(ownerID string, id uint) error {
	if _, err := uc.GetSensor(ownerID, id); err != nil {
		return err
	}
	return uc.SensorRepo.DeleteCascade(id)
}

// CreateReading appends a reading to a sensor the caller owns. The sensor is
// always resolved from the URL path, never from the request body.
func (uc *SensorUseCase) CreateReading(ownerID string, sensorID uint, reading *entities.Reading) error {
	if _, err := uc.GetSensor(ownerID, sensorID); err != nil {
		return err
	}
	reading.SensorID = sensorID
	return uc.ReadingRepo.Create(reading)
}

// ListReadings returns an owned sensor's readings newest first, optionally
// bounded by inclusive event-time filters.
func (uc *SensorUseCase) ListReadings(ownerID string, sensorID uint, from, to *time.Time) ([]entities.Reading, error) {
	if _, err := uc.GetSensor(ownerID, sensorID); err != nil {
		return nil, err
	}
	return uc.ReadingRepo.ListBySensor(sensorID, from, to)
}
