package httpHandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"telemetry-server/entities"
	"telemetry-server/usecases"
	"telemetry-server/ws"
	"time"

	"github.com/gin-gonic/gin"
)

type ReadingHandler struct {
	useCase *usecases.SensorUseCase
	feed    *ws.Manager
}

func NewReadingHandler(useCase *usecases.SensorUseCase, feed *ws.Manager) *ReadingHandler {
	return &ReadingHandler{useCase: useCase, feed: feed}
}

type readingRequest struct {
	Temperature *float64  `json:"temperature" binding:"required"`
	Humidity    *float64  `json:"humidity"`
	Timestamp   time.Time `json:"timestamp" binding:"required"`
}

type readingCreatedEvent struct {
	Type     string            `json:"type"`
	SensorID uint              `json:"sensor_id"`
	Reading  *entities.Reading `json:"reading"`
}

// CreateReading handles POST /api/sensors/:id/readings. The target sensor
// comes from the path only; a sensor id in the body is ignored.
func (h *ReadingHandler) CreateReading(c *gin.Context) {
	id, ok := sensorID(c)
	if !ok {
		return
	}

	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "temperature and timestamp are required"})
		return
	}

	reading := &entities.Reading{
		Temperature: *req.Temperature,
		Humidity:    req.Humidity,
		Timestamp:   req.Timestamp,
	}
	if err := h.useCase.CreateReading(OwnerID(c), id, reading); err != nil {
		h.renderError(c, err)
		return
	}

	h.publish(OwnerID(c), id, reading)

	c.JSON(http.StatusCreated, reading)
}

// ListReadings handles GET /api/sensors/:id/readings. timestamp_from and
// timestamp_to are inclusive; malformed values are dropped, not rejected.
func (h *ReadingHandler) ListReadings(c *gin.Context) {
	id, ok := sensorID(c)
	if !ok {
		return
	}

	from := parseTimestamp(c.Query("timestamp_from"))
	to := parseTimestamp(c.Query("timestamp_to"))

	readings, err := h.useCase.ListReadings(OwnerID(c), id, from, to)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, readings)
}

func (h *ReadingHandler) publish(ownerID string, sensorID uint, reading *entities.Reading) {
	if h.feed == nil {
		return
	}
	payload, err := json.Marshal(readingCreatedEvent{
		Type:     "reading_created",
		SensorID: sensorID,
		Reading:  reading,
	})
	if err != nil {
		return
	}
	h.feed.Broadcast(ownerID, payload)
}

// parseTimestamp parses an RFC3339 query value. Empty or malformed values
// resolve to nil so the filter is simply left off.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func (h *ReadingHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, usecases.ErrSensorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "sensor not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
