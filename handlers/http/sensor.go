package httpHandler

import (
	"errors"
	"net/http"
	"strconv"
	"telemetry-server/entities"
	"telemetry-server/usecases"

	"github.com/gin-gonic/gin"
)

type SensorHandler struct {
	useCase *usecases.SensorUseCase
}

func NewSensorHandler(useCase *usecases.SensorUseCase) *SensorHandler {
	return &SensorHandler{useCase: useCase}
}

type sensorRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

func sensorID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		// Non-numeric ids cannot name an existing sensor
		c.JSON(http.StatusNotFound, gin.H{"error": "sensor not found"})
		return 0, false
	}
	return uint(id), true
}

// CreateSensor handles POST /api/sensors
func (h *SensorHandler) CreateSensor(c *gin.Context) {
	var req sensorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and type are required"})
		return
	}

	sensor := &entities.Sensor{Name: req.Name, Type: req.Type}
	if err := h.useCase.CreateSensor(OwnerID(c), sensor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, sensor)
}

// ListSensors handles GET /api/sensors
func (h *SensorHandler) ListSensors(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	sensors, total, err := h.useCase.ListSensors(OwnerID(c), c.Query("q"), page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve sensors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": sensors,
		"count": total,
	})
}

// GetSensor handles GET /api/sensors/:id
func (h *SensorHandler) GetSensor(c *gin.Context) {
	id, ok := sensorID(c)
	if !ok {
		return
	}

	sensor, err := h.useCase.GetSensor(OwnerID(c), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, sensor)
}

// UpdateSensor handles PUT /api/sensors/:id
func (h *SensorHandler) UpdateSensor(c *gin.Context) {
	id, ok := sensorID(c)
	if !ok {
		return
	}

	var req sensorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and type are required"})
		return
	}

	sensor, err := h.useCase.UpdateSensor(OwnerID(c), id, req.Name, req.Type)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, sensor)
}

// DeleteSensor handles DELETE /api/sensors/:id
func (h *SensorHandler) DeleteSensor(c *gin.Context) {
	id, ok := sensorID(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteSensor(OwnerID(c), id); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SensorHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, usecases.ErrSensorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "sensor not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
