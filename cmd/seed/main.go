package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"telemetry-server/confs"
	"telemetry-server/db"
	"telemetry-server/entities"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Demo sensors registered for the seed user. The device name matches the
// device_id column of the readings CSV.
var sensors = [][2]string{
	{"device-001", "EnviroSense"},
	{"device-002", "ClimaTrack"},
	{"device-003", "AeroMonitor"},
	{"device-004", "HydroTherm"},
	{"device-005", "EcoStat"},
}

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))
)

func main() {
	username := flag.String("username", "jennifer_test", "seed user's username")
	password := flag.String("password", "jennifer123", "seed user's password")
	csvPath := flag.String("csv", "sensor_readings_wide.csv", "wide CSV with columns timestamp,device_id,temperature,humidity")
	flag.Parse()

	if err := confs.LoadConfig(); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	if err := run(database.GetDB(), *username, *password, *csvPath); err != nil {
		fmt.Println(errorStyle.Render("seed failed: " + err.Error()))
		os.Exit(1)
	}
}

func run(gdb *gorm.DB, username, password, csvPath string) error {
	user, err := getOrCreateUser(gdb, username, password)
	if err != nil {
		return err
	}
	fmt.Println(infoStyle.Render("seed user: " + user.Username))

	byName := make(map[string]*entities.Sensor, len(sensors))
	for _, s := range sensors {
		sensor, err := getOrCreateSensor(gdb, user.ID, s[0], s[1])
		if err != nil {
			return err
		}
		byName[sensor.Name] = sensor
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("sensors ready: %d", len(byName))))

	count, err := importReadings(gdb, byName, csvPath)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("Seed complete: %d readings added from CSV", count)))
	return nil
}

func getOrCreateUser(gdb *gorm.DB, username, password string) (*entities.User, error) {
	var user entities.User
	err := gdb.Where("username = ?", username).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user = entities.User{Username: username, PasswordHash: string(hash)}
	if err := gdb.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func getOrCreateSensor(gdb *gorm.DB, ownerID, name, model string) (*entities.Sensor, error) {
	var sensor entities.Sensor
	err := gdb.Where("owner_id = ? AND name = ?", ownerID, name).First(&sensor).Error
	if err == nil {
		return &sensor, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sensor = entities.Sensor{Name: name, Type: model, OwnerID: ownerID}
	if err := gdb.Create(&sensor).Error; err != nil {
		return nil, err
	}
	return &sensor, nil
}

// importReadings bulk-loads readings from a wide CSV. Rows naming unknown
// devices or carrying unparsable timestamps are skipped, not fatal.
func importReadings(gdb *gorm.DB, byName map[string]*entities.Sensor, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("CSV not found: %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"timestamp", "device_id", "temperature", "humidity"} {
		if _, ok := col[required]; !ok {
			return 0, fmt.Errorf("CSV missing column %q", required)
		}
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}

		sensor, ok := byName[row[col["device_id"]]]
		if !ok {
			continue // skip unknown devices
		}

		ts, err := parseTimestamp(row[col["timestamp"]])
		if err != nil {
			continue // skip bad timestamps
		}

		temperature, err := strconv.ParseFloat(row[col["temperature"]], 64)
		if err != nil {
			continue
		}
		humidity, err := strconv.ParseFloat(row[col["humidity"]], 64)
		if err != nil {
			continue
		}

		reading := entities.Reading{
			SensorID:    sensor.ID,
			Temperature: temperature,
			Humidity:    &humidity,
			Timestamp:   ts,
		}
		if err := gdb.Create(&reading).Error; err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}
