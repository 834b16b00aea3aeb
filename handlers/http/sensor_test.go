package httpHandler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type sensorResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type sensorListResponse struct {
	Items []sensorResponse `json:"items"`
	Count int64            `json:"count"`
}

func TestCreateSensorRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/sensors", "", map[string]string{
		"name": "Test Sensor",
		"type": "Env",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Unauthenticated create returned %d, want 401", w.Code)
	}
}

func TestCreateSensorEchoesSubmittedFields(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "u1", "p1")

	w := doJSON(t, r, http.MethodPost, "/api/sensors", token, map[string]string{
		"name": "device-001",
		"type": "EnviroSense",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create sensor returned %d: %s", w.Code, w.Body.String())
	}

	var sensor sensorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &sensor); err != nil {
		t.Fatalf("Failed to decode sensor: %v", err)
	}
	if sensor.ID == 0 {
		t.Error("Expected a server-assigned id")
	}
	if sensor.Name != "device-001" || sensor.Type != "EnviroSense" {
		t.Errorf("Sensor fields not echoed: got %+v", sensor)
	}
	if sensor.CreatedAt.IsZero() {
		t.Error("Expected a creation timestamp")
	}
}

func TestCreateSensorValidatesRequiredFields(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "u1", "p1")

	for _, body := range []map[string]string{
		{"name": "device-001"},
		{"type": "EnviroSense"},
		{},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/sensors", token, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Create with body %v returned %d, want 400", body, w.Code)
		}
	}
}

func TestSensorCrossTenantAccessReturnsNotFound(t *testing.T) {
	r := newTestRouter(t)
	tokenA := registerUser(t, r, "alice", "p1")
	tokenB := registerUser(t, r, "bob", "p2")
	id := createSensor(t, r, tokenA, "device-001", "EnviroSense")

	path := fmt.Sprintf("/api/sensors/%d", id)

	if w := doJSON(t, r, http.MethodGet, path, tokenB, nil); w.Code != http.StatusNotFound {
		t.Errorf("Cross-tenant GET returned %d, want 404", w.Code)
	}
	if w := doJSON(t, r, http.MethodPut, path, tokenB, map[string]string{"name": "x", "type": "y"}); w.Code != http.StatusNotFound {
		t.Errorf("Cross-tenant PUT returned %d, want 404", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, path, tokenB, nil); w.Code != http.StatusNotFound {
		t.Errorf("Cross-tenant DELETE returned %d, want 404", w.Code)
	}

	// The owner still sees the record untouched
	w := doJSON(t, r, http.MethodGet, path, tokenA, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Owner GET returned %d after cross-tenant attempts", w.Code)
	}
	var sensor sensorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &sensor); err != nil {
		t.Fatalf("Failed to decode sensor: %v", err)
	}
	if sensor.Name != "device-001" {
		t.Errorf("Sensor was modified by cross-tenant request: %+v", sensor)
	}
}

func TestGetSensorUnknownIDReturnsNotFound(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "u1", "p1")

	if w := doJSON(t, r, http.MethodGet, "/api/sensors/9999", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("GET unknown sensor returned %d, want 404", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/sensors/not-a-number", token, nil); w.Code != http.StatusNotFound {
		t.Errorf("GET non-numeric sensor id returned %d, want 404", w.Code)
	}
}

func TestListSensorsPaginatesAtTen(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "u1", "p1")

	for i := 0; i < 12; i++ {
		createSensor(t, r, token, fmt.Sprintf("device-%03d", i), "EnviroSense")
	}

	w := doJSON(t, r, http.MethodGet, "/api/sensors", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("List returned %d: %s", w.Code, w.Body.String())
	}
	var page1 sensorListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &page1); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(page1.Items) != 10 {
		t.Errorf("Page 1 has %d items, want 10", len(page1.Items))
	}
	if page1.Count != 12 {
		t.Errorf("Count is %d, want 12", page1.Count)
	}

	w = doJSON(t, r, http.MethodGet, "/api/sensors?page=2", token, nil)
	var page2 sensorListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &page2); err != nil {
		t.Fatalf("Failed to decode page 2: %v", err)
	}
	if len(page2.Items) != 2 {
		t.Errorf("Page 2 has %d items, want 2", len(page2.Items))
	}
}

func TestListSensorsFiltersCaseInsensitively(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "u1", "p1")

	createSensor(t, r, token, "greenhouse-TRACKER", "EnviroSense")
	createSensor(t, r, token, "basement", "ClimaTrack")
	createSensor(t, r, token, "attic", "HydroTherm")

	// "track" matches one sensor by name and one by type, despite the
	// differing case of both
	w := doJSON(t, r, http.MethodGet, "/api/sensors?q=track", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Filtered list returned %d: %s", w.Code, w.Body.String())
	}
	var resp sensorListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}

	names := make(map[string]bool)
	for _, s := range resp.Items {
		names[s.Name] = true
	}
	if !names["greenhouse-TRACKER"] || !names["basement"] {
		t.Errorf("Filter q=track matched %v, want greenhouse-TRACKER (by name) and basement (by type ClimaTrack)", names)
	}
	if names["attic"] {
		t.Error("Filter q=track should not match attic/HydroTherm")
	}
}

func TestListSensorsScopedToOwner(t *testing.T) {
	r := newTestRouter(t)
	tokenA := registerUser(t, r, "alice", "p1")
	tokenB := registerUser(t, r, "bob", "p2")
	createSensor(t, r, tokenA, "device-001", "EnviroSense")

	w := doJSON(t, r, http.MethodGet, "/api/sensors", tokenB, nil)
	var resp sensorListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(resp.Items) != 0 || resp.Count != 0 {
		t.Errorf("Bob sees %d sensors, want none", len(resp.Items))
	}
}

func TestUpdateSensorReplacesNameAndType(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "u1", "p1")
	id := createSensor(t, r, token, "device-001", "EnviroSense")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/sensors/%d", id), token, map[string]string{
		"name": "device-001b",
		"type": "ClimaTrack",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Update returned %d: %s", w.Code, w.Body.String())
	}

	var sensor sensorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &sensor); err != nil {
		t.Fatalf("Failed to decode sensor: %v", err)
	}
	if sensor.Name != "device-001b" || sensor.Type != "ClimaTrack" {
		t.Errorf("Update result %+v, want replaced name and type", sensor)
	}
}

func TestDeleteSensorReturnsNoContentAndCascades(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "u1", "p1")
	id := createSensor(t, r, token, "device-001", "EnviroSense")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/sensors/%d/readings", id), token, map[string]interface{}{
		"temperature": 21.5,
		"humidity":    40.0,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create reading returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/sensors/%d", id), token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Delete returned %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Delete body is %q, want empty", w.Body.String())
	}

	// The sensor and its readings are gone
	if w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/sensors/%d", id), token, nil); w.Code != http.StatusNotFound {
		t.Errorf("GET after delete returned %d, want 404", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/sensors/%d/readings", id), token, nil); w.Code != http.StatusNotFound {
		t.Errorf("Readings after delete returned %d, want 404", w.Code)
	}
}
