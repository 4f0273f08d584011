package types

import "time"

// ScreenState represents run screen lifecycle states
type ScreenState string

const (
	// ScreenRunning means the screen holds a live process
	ScreenRunning ScreenState = "running"
	// ScreenIdle means the launch failed or the process already exited
	ScreenIdle ScreenState = "idle"
	// ScreenStopped means the screen was dismissed and its process released
	ScreenStopped ScreenState = "stopped"
)

// ScreenInfo is the public representation of a run screen
type ScreenInfo struct {
	ID        string      `json:"id"`
	Program   string      `json:"program"`
	Message   string      `json:"message"` // Base name on success, attempted path otherwise
	State     ScreenState `json:"state"`
	Running   bool        `json:"running"`
	PID       int         `json:"pid,omitempty"`
	ExitCode  *int        `json:"exit_code,omitempty"`
	Error     string      `json:"error,omitempty"`
	OpenedAt  time.Time   `json:"opened_at"`
	StoppedAt *time.Time  `json:"stopped_at,omitempty"`
}

// Stats contains screen manager statistics
type Stats struct {
	TotalScreens   int `json:"total_screens"`
	RunningScreens int `json:"running_screens"`
	IdleScreens    int `json:"idle_screens"`
	StoppedScreens int `json:"stopped_screens"`
}

// StreamFrame is a message written to a websocket screen viewer
type StreamFrame struct {
	Type       string      `json:"type"` // "screen", "output", "exit", "error"
	Screen     *ScreenInfo `json:"screen,omitempty"`
	Data       string      `json:"data,omitempty"`        // Output as valid UTF-8, invalid bytes replaced
	DataBase64 string      `json:"data_base64,omitempty"` // Output bytes exactly as the program wrote them
	Timestamp  int64       `json:"timestamp"`
}
