package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		name     string
		celsius  float64
		unit     Unit
		expected string
	}{
		{name: "celsius integer", celsius: 18, unit: Celsius, expected: "18°C"},
		{name: "fahrenheit", celsius: 18, unit: Fahrenheit, expected: "64.4°F"},
		{name: "freezing in fahrenheit", celsius: 0, unit: Fahrenheit, expected: "32°F"},
		{name: "one decimal kept", celsius: 21.5, unit: Celsius, expected: "21.5°C"},
		{name: "rounded to one decimal", celsius: 21.46, unit: Celsius, expected: "21.5°C"},
		{name: "negative", celsius: -40, unit: Fahrenheit, expected: "-40°F"},
		{name: "no negative zero", celsius: -0.01, unit: Celsius, expected: "0°C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTemperature(tt.celsius, tt.unit))
		})
	}
}

func TestConversionRoundTrip(t *testing.T) {
	assert.InDelta(t, 68.0, CelsiusToFahrenheit(20), 1e-9)
	assert.InDelta(t, 20.0, FahrenheitToCelsius(68), 1e-9)

	for _, c := range []float64{-273.15, -40, -3.3, 0, 18, 20, 36.6, 100} {
		assert.InDelta(t, c, FahrenheitToCelsius(CelsiusToFahrenheit(c)), 1e-9, "value %v", c)
	}
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("Fahrenheit")
	require.NoError(t, err)
	assert.Equal(t, Fahrenheit, u)

	u, err = ParseUnit(" c ")
	require.NoError(t, err)
	assert.Equal(t, Celsius, u)

	_, err = ParseUnit("kelvin")
	assert.ErrorIs(t, err, ErrInvalidUnit)

	assert.False(t, Unit("kelvin").Valid())
	assert.Equal(t, "°F", Fahrenheit.Symbol())
	assert.Equal(t, "°C", Celsius.Symbol())
}
