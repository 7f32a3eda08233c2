package weather

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidUnit is returned for anything other than celsius or fahrenheit.
var ErrInvalidUnit = errors.New("invalid temperature unit")

// Unit is the display unit chosen by the user. Measurements are always stored in Celsius.
type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// ParseUnit accepts the unit name or its first letter, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "celsius", "c":
		return Celsius, nil
	case "fahrenheit", "f":
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == Celsius || u == Fahrenheit
}

// Symbol returns the display suffix for u.
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// CelsiusToFahrenheit applies F = C * 9/5 + 32.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius applies C = (F - 32) * 5/9.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// FormatTemperature renders a Celsius value in unit u, rounded to one decimal,
// e.g. "18°C" or "64.4°F".
func FormatTemperature(celsius float64, u Unit) string {
	v := celsius
	if u == Fahrenheit {
		v = CelsiusToFahrenheit(celsius)
	}
	v = math.Round(v*10) / 10
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + u.Symbol()
}
