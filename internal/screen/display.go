package screen

import (
	"github.com/i474232898/weather-screen/internal/weather"
)

const (
	MessageNoLocation = "No location available"
	MessageLoading    = "Loading..."
)

// Action is a one-way navigation out of the screen.
type Action string

const (
	ActionExploreCities Action = "explore_cities"
	ActionBack          Action = "back"
)

// DisplayModel is what the screen shows. Exactly one of Message and Text is set.
type DisplayModel struct {
	Session string       `json:"session"`
	State   string       `json:"state"`
	Message string       `json:"message,omitempty"`
	Text    string       `json:"text,omitempty"`
	Unit    weather.Unit `json:"unit"`
	Actions []Action     `json:"actions"`
}

// LoadState says whether a snapshot is ready to display.
type LoadState int

const (
	LoadStateLoading LoadState = iota
	LoadStateLoaded
)

// ComputeLoadState is Loaded iff s exists and carries a location name.
func ComputeLoadState(s *weather.Snapshot) LoadState {
	if s != nil && s.LocationName != "" {
		return LoadStateLoaded
	}
	return LoadStateLoading
}

// CurrentTemperatureText formats the loaded-state line, e.g.
// "Current Temperature in Paris: 18°C".
func CurrentTemperatureText(name string, celsius float64, u weather.Unit) string {
	return "Current Temperature in " + name + ": " + weather.FormatTemperature(celsius, u)
}
