package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type step int

const (
	stepChoosingAction step = iota
	stepEnteringUsername
	stepEnteringPassword
	stepAuthenticating
	stepEnteringSensorName
	stepEnteringSensorType
	stepCreatingSensor
	stepEnteringTemperature
	stepEnteringHumidity
	stepSendingReading
	stepComplete
)

var actions = []string{"Login", "Register"}

type model struct {
	step         step
	cursor       int
	register     bool
	username     string
	password     string
	token        string
	sensorName   string
	sensorType   string
	sensorID     uint
	temperature  float64
	humidity     *float64
	currentInput string
	message      string
	quitting     bool
}

type authSuccessMsg struct{ token string }
type sensorCreatedMsg struct{ id uint }
type readingSentMsg struct{ id uint }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func serverURL() string {
	if url := os.Getenv("SERVER_URL"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return "http://localhost:3536"
}

func initialModel() model {
	return model{step: stepChoosingAction}
}

func (m model) Init() tea.Cmd {
	return nil
}

// typing reports whether the current step reads free text.
func (m model) typing() bool {
	switch m.step {
	case stepEnteringUsername, stepEnteringPassword, stepEnteringSensorName,
		stepEnteringSensorType, stepEnteringTemperature, stepEnteringHumidity:
		return true
	}
	return false
}

func authenticate(register bool, username, password string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		path := "/api/auth/token"
		if register {
			path = "/api/auth/register"
		}

		payload := map[string]string{
			"username": username,
			"password": password,
		}
		jsonData, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", serverURL()+path, bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable: %w", err)}
		}
		defer resp.Body.Close()

		var result map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return errMsg{fmt.Errorf("unexpected response from server")}
		}

		if resp.StatusCode != http.StatusOK {
			if msg, ok := result["error"].(string); ok {
				return errMsg{fmt.Errorf("%s", msg)}
			}
			return errMsg{fmt.Errorf("authentication failed (%d)", resp.StatusCode)}
		}

		token, ok := result["token"].(string)
		if !ok || token == "" {
			return errMsg{fmt.Errorf("no token in response")}
		}

		return authSuccessMsg{token: token}
	}
}

func createSensor(token, name, sensorType string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]string{
			"name": name,
			"type": sensorType,
		}
		jsonData, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", serverURL()+"/api/sensors", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			return errMsg{fmt.Errorf("sensor creation failed (%d)", resp.StatusCode)}
		}

		var sensor struct {
			ID uint `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&sensor); err != nil {
			return errMsg{fmt.Errorf("unexpected response from server")}
		}

		return sensorCreatedMsg{id: sensor.ID}
	}
}

func sendReading(token string, sensorID uint, temperature float64, humidity *float64) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]interface{}{
			"temperature": temperature,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}
		if humidity != nil {
			payload["humidity"] = *humidity
		}
		jsonData, _ := json.Marshal(payload)

		url := fmt.Sprintf("%s/api/sensors/%d/readings", serverURL(), sensorID)
		req, _ := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			return errMsg{fmt.Errorf("reading submission failed (%d)", resp.StatusCode)}
		}

		var reading struct {
			ID uint `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
			return errMsg{fmt.Errorf("unexpected response from server")}
		}

		return readingSentMsg{id: reading.ID}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.step == stepChoosingAction {
				if m.cursor > 0 {
					m.cursor--
				}
			} else if msg.String() == "k" && m.typing() {
				m.currentInput += "k"
			}

		case "down", "j":
			if m.step == stepChoosingAction {
				if m.cursor < len(actions)-1 {
					m.cursor++
				}
			} else if msg.String() == "j" && m.typing() {
				m.currentInput += "j"
			}

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		default:
			if m.typing() {
				m.currentInput += msg.String()
			}

		case "enter":
			switch m.step {
			case stepChoosingAction:
				m.register = actions[m.cursor] == "Register"
				m.step = stepEnteringUsername

			case stepEnteringUsername:
				if m.currentInput != "" {
					m.username = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}

			case stepEnteringPassword:
				if m.currentInput != "" {
					m.password = m.currentInput
					m.currentInput = ""
					m.step = stepAuthenticating
					m.message = "Authenticating..."
					return m, authenticate(m.register, m.username, m.password)
				}

			case stepEnteringSensorName:
				if m.currentInput != "" {
					m.sensorName = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringSensorType
				}

			case stepEnteringSensorType:
				if m.currentInput != "" {
					m.sensorType = m.currentInput
					m.currentInput = ""
					m.step = stepCreatingSensor
					m.message = "Creating sensor..."
					return m, createSensor(m.token, m.sensorName, m.sensorType)
				}

			case stepEnteringTemperature:
				if t, err := strconv.ParseFloat(m.currentInput, 64); err == nil {
					m.temperature = t
					m.currentInput = ""
					m.step = stepEnteringHumidity
				}

			case stepEnteringHumidity:
				// Humidity is optional; empty input submits without it
				if m.currentInput == "" {
					m.humidity = nil
				} else if hum, err := strconv.ParseFloat(m.currentInput, 64); err == nil {
					m.humidity = &hum
				} else {
					break
				}
				m.currentInput = ""
				m.step = stepSendingReading
				m.message = "Sending reading..."
				return m, sendReading(m.token, m.sensorID, m.temperature, m.humidity)

			case stepComplete:
				m.quitting = true
				return m, tea.Quit
			}
		}

	case authSuccessMsg:
		m.token = msg.token
		m.step = stepEnteringSensorName
		m.message = successStyle.Render("Logged in as " + m.username)

	case sensorCreatedMsg:
		m.sensorID = msg.id
		m.step = stepEnteringTemperature
		m.message = successStyle.Render(fmt.Sprintf("Sensor %q created with id %d", m.sensorName, msg.id))

	case readingSentMsg:
		m.step = stepComplete
		m.message = successStyle.Render(fmt.Sprintf("Reading %d stored for sensor %d", msg.id, m.sensorID))

	case errMsg:
		m.message = errorStyle.Render(msg.err.Error())
		m.step = stepChoosingAction
		m.cursor = 0
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Telemetry Sensor Client\n\n"))
	if m.message != "" {
		s.WriteString(m.message + "\n\n")
	}

	switch m.step {
	case stepChoosingAction:
		s.WriteString(promptStyle.Render("What would you like to do?\n\n"))
		for i, action := range actions {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(action)))
		}
		s.WriteString("\nUse up/down, Enter to select, ctrl+c to quit\n")

	case stepEnteringUsername:
		s.WriteString(promptStyle.Render("Enter your username:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Enter your password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("*", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepAuthenticating, stepCreatingSensor, stepSendingReading:
		// message already rendered above

	case stepEnteringSensorName:
		s.WriteString(promptStyle.Render("New sensor name:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringSensorType:
		s.WriteString(promptStyle.Render("Sensor type (device model):\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringTemperature:
		s.WriteString(promptStyle.Render("Temperature reading:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringHumidity:
		s.WriteString(promptStyle.Render("Humidity reading (optional, Enter to skip):\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepComplete:
		s.WriteString("Press Enter to exit\n")
	}

	return s.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
