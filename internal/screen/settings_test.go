package screen

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-screen/internal/location"
	"github.com/i474232898/weather-screen/internal/weather"
)

func TestSettingsDialog(t *testing.T) {
	c, _ := newTestController(new(MockSource), true, true)
	defer c.Close()
	c.OnWeatherResult(weather.Snapshot{LocationName: "Paris", TemperatureC: 18})

	d := c.OpenSettings()
	assert.Equal(t, weather.Celsius, d.Selected())
	assert.Equal(t, []weather.Unit{weather.Celsius, weather.Fahrenheit}, d.Options())

	require.NoError(t, d.Choose(weather.Fahrenheit))
	assert.Equal(t, weather.Celsius, c.Unit(), "choice is applied on dismissal only")

	assert.ErrorIs(t, d.Choose("kelvin"), weather.ErrInvalidUnit)
	assert.Equal(t, weather.Fahrenheit, d.Selected())

	u, err := d.Dismiss()
	require.NoError(t, err)
	assert.Equal(t, weather.Fahrenheit, u)
	assert.Equal(t, weather.Fahrenheit, c.Unit())
	assert.Equal(t, "Current Temperature in Paris: 64.4°F", c.Render().Text)

	assert.Error(t, d.Choose(weather.Celsius), "dismissed dialog takes no choices")
	u, err = d.Dismiss()
	require.NoError(t, err)
	assert.Equal(t, weather.Fahrenheit, u)

	d = c.OpenSettings()
	assert.Equal(t, weather.Fahrenheit, d.Selected(), "reopened dialog shows current unit")
}

func TestSession(t *testing.T) {
	push := location.NewPushProvider(true, zerolog.Nop())
	fc := &fakeClock{}
	s := NewSession(Config{
		Source:     new(MockSource),
		Locations:  push,
		Permission: location.StaticPermission(true),
		Logger:     zerolog.Nop(),
		AfterFunc:  fc.AfterFunc,
	})

	first, err := s.Current()
	require.NoError(t, err)
	same, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, first, same)
	require.NoError(t, first.SetUnitPreference(weather.Fahrenheit))

	second, err := s.Enter()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, weather.Celsius, second.Unit(), "unit preference resets with the screen")
	assert.ErrorIs(t, first.SetUnitPreference(weather.Celsius), ErrClosed)

	s.Close()
	assert.ErrorIs(t, second.SetUnitPreference(weather.Celsius), ErrClosed)
}

func TestSession_EnterError(t *testing.T) {
	s := NewSession(Config{
		Source:     new(MockSource),
		Locations:  &stubProvider{err: assert.AnError},
		Permission: location.StaticPermission(true),
		Logger:     zerolog.Nop(),
	})

	_, err := s.Enter()
	assert.ErrorIs(t, err, assert.AnError)
}
